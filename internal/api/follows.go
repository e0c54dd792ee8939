package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type createFollowRequest struct {
	FollowedID int64 `json:"followed_id" binding:"required"`
}

func followKeyParams(c *gin.Context) (followerID, followedID int64, ok bool) {
	followerID, err := strconv.ParseInt(c.Param("follower_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid follower id")
		return 0, 0, false
	}
	followedID, err = strconv.ParseInt(c.Param("followed_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid followed id")
		return 0, 0, false
	}
	return followerID, followedID, true
}

// createFollow makes the current user follow another user and bumps the
// target's unread follow counter.
func (s *Server) createFollow(c *gin.Context) {
	var req createFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	follow := &models.Follow{
		FollowerID: currentUser(c).ID,
		FollowedID: req.FollowedID,
	}
	if err := s.follows.Create(ctx, follow); err != nil {
		switch err {
		case db.ErrMissingTarget:
			badRequest(c, "followed user does not exist")
		case db.ErrDuplicate:
			badRequest(c, "already following")
		default:
			internalError(c, err)
		}
		return
	}

	if followed, err := s.users.GetByID(ctx, req.FollowedID); err == nil && followed != nil {
		if err := s.feed.NotifyFollow(ctx, followed); err != nil {
			s.logger.Warn("failed to update follow counter", zap.Int64("user_id", followed.ID), zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, renderFollow(follow))
}

func (s *Server) listFollows(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var follows []*models.Follow
	total, err := paginate(s.follows.Query(c.Request.Context()), p, &follows)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		items = append(items, renderFollow(f))
	}
	c.JSON(http.StatusOK, collection(c, "follows", items, p, total))
}

func (s *Server) getFollow(c *gin.Context) {
	followerID, followedID, ok := followKeyParams(c)
	if !ok {
		return
	}
	follow, err := s.follows.Get(c.Request.Context(), followerID, followedID)
	if err != nil {
		internalError(c, err)
		return
	}
	if follow == nil {
		notFound(c, "follow not found")
		return
	}
	c.JSON(http.StatusOK, renderFollow(follow))
}

// touchFollow refreshes the follow's modification timestamp. The identity of
// a link row never changes.
func (s *Server) touchFollow(c *gin.Context) {
	followerID, followedID, ok := followKeyParams(c)
	if !ok {
		return
	}
	if !canActFor(c, followerID) {
		forbidden(c)
		return
	}

	ctx := c.Request.Context()
	follow, err := s.follows.Get(ctx, followerID, followedID)
	if err != nil {
		internalError(c, err)
		return
	}
	if follow == nil {
		notFound(c, "follow not found")
		return
	}

	if err := s.follows.Touch(ctx, follow); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderFollow(follow))
}

// deleteFollow unfollows; only the follower may do this
func (s *Server) deleteFollow(c *gin.Context) {
	followerID, followedID, ok := followKeyParams(c)
	if !ok {
		return
	}
	if !canActFor(c, followerID) {
		forbidden(c)
		return
	}

	ctx := c.Request.Context()
	follow, err := s.follows.Get(ctx, followerID, followedID)
	if err != nil {
		internalError(c, err)
		return
	}
	if follow == nil {
		notFound(c, "follow not found")
		return
	}

	if err := s.follows.Delete(ctx, follow); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
