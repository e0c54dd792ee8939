package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type createRepostRequest struct {
	RootID   int64 `json:"root_id" binding:"required"`
	RepostID int64 `json:"repost_id" binding:"required"`
}

func repostKeyParams(c *gin.Context) (rootID, repostID int64, ok bool) {
	rootID, err := strconv.ParseInt(c.Param("root_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid root id")
		return 0, 0, false
	}
	repostID, err = strconv.ParseInt(c.Param("repost_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid repost id")
		return 0, 0, false
	}
	return rootID, repostID, true
}

// repostActor loads the repost post and verifies the current user authored it
func (s *Server) repostActor(c *gin.Context, repostID int64) bool {
	post, err := s.posts.GetByID(c.Request.Context(), repostID)
	if err != nil {
		internalError(c, err)
		return false
	}
	if post == nil {
		badRequest(c, "repost post does not exist")
		return false
	}
	if !canActFor(c, post.UserID) {
		forbidden(c)
		return false
	}
	return true
}

// createRepost links an existing post as a repost of a root post, flipping
// its is_repost flag, and bumps the root owner's unread repost counter.
func (s *Server) createRepost(c *gin.Context) {
	var req createRepostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !s.repostActor(c, req.RepostID) {
		return
	}

	ctx := c.Request.Context()
	repost := &models.Repost{
		RootID:   req.RootID,
		RepostID: req.RepostID,
	}
	if err := s.reposts.Create(ctx, repost); err != nil {
		switch err {
		case db.ErrMissingTarget:
			badRequest(c, "root or repost post does not exist")
		case db.ErrDuplicate:
			badRequest(c, "repost link already exists")
		default:
			internalError(c, err)
		}
		return
	}

	if root, err := s.posts.GetByID(ctx, req.RootID); err == nil && root != nil {
		if owner, err := s.users.GetByID(ctx, root.UserID); err == nil && owner != nil {
			if err := s.feed.NotifyRepost(ctx, owner); err != nil {
				s.logger.Warn("failed to update repost counter", zap.Int64("user_id", owner.ID), zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusCreated, renderRepost(repost))
}

func (s *Server) listReposts(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var reposts []*models.Repost
	total, err := paginate(s.reposts.Query(c.Request.Context()), p, &reposts)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(reposts))
	for _, rp := range reposts {
		items = append(items, renderRepost(rp))
	}
	c.JSON(http.StatusOK, collection(c, "reposts", items, p, total))
}

func (s *Server) getRepost(c *gin.Context) {
	rootID, repostID, ok := repostKeyParams(c)
	if !ok {
		return
	}
	repost, err := s.reposts.Get(c.Request.Context(), rootID, repostID)
	if err != nil {
		internalError(c, err)
		return
	}
	if repost == nil {
		notFound(c, "repost link not found")
		return
	}
	c.JSON(http.StatusOK, renderRepost(repost))
}

// touchRepost refreshes the repost link's modification timestamp
func (s *Server) touchRepost(c *gin.Context) {
	rootID, repostID, ok := repostKeyParams(c)
	if !ok {
		return
	}
	if !s.repostActor(c, repostID) {
		return
	}

	ctx := c.Request.Context()
	repost, err := s.reposts.Get(ctx, rootID, repostID)
	if err != nil {
		internalError(c, err)
		return
	}
	if repost == nil {
		notFound(c, "repost link not found")
		return
	}

	if err := s.reposts.Touch(ctx, repost); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderRepost(repost))
}

// deleteRepost removes the link; the child post's is_repost flag stays set
func (s *Server) deleteRepost(c *gin.Context) {
	rootID, repostID, ok := repostKeyParams(c)
	if !ok {
		return
	}
	if !s.repostActor(c, repostID) {
		return
	}

	ctx := c.Request.Context()
	repost, err := s.reposts.Get(ctx, rootID, repostID)
	if err != nil {
		internalError(c, err)
		return
	}
	if repost == nil {
		notFound(c, "repost link not found")
		return
	}

	if err := s.reposts.Delete(ctx, repost); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
