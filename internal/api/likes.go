package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type createLikeRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

func likeKeyParams(c *gin.Context) (userID, postID int64, ok bool) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return 0, 0, false
	}
	postID, err = strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid post id")
		return 0, 0, false
	}
	return userID, postID, true
}

// createLike likes a post on behalf of the current user and bumps the post
// owner's unread like counter.
func (s *Server) createLike(c *gin.Context) {
	var req createLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	like := &models.Like{
		UserID: currentUser(c).ID,
		PostID: req.PostID,
	}
	if err := s.likes.Create(ctx, like); err != nil {
		switch err {
		case db.ErrMissingTarget:
			badRequest(c, "post does not exist")
		case db.ErrSelfLike:
			badRequest(c, "cannot like your own post")
		case db.ErrDuplicate:
			badRequest(c, "already liked")
		default:
			internalError(c, err)
		}
		return
	}

	if post, err := s.posts.GetByID(ctx, req.PostID); err == nil && post != nil {
		if owner, err := s.users.GetByID(ctx, post.UserID); err == nil && owner != nil {
			if err := s.feed.NotifyLike(ctx, owner); err != nil {
				s.logger.Warn("failed to update like counter", zap.Int64("user_id", owner.ID), zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusCreated, renderLike(like))
}

func (s *Server) listLikes(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var likes []*models.Like
	total, err := paginate(s.likes.Query(c.Request.Context()), p, &likes)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(likes))
	for _, l := range likes {
		items = append(items, renderLike(l))
	}
	c.JSON(http.StatusOK, collection(c, "likes", items, p, total))
}

func (s *Server) getLike(c *gin.Context) {
	userID, postID, ok := likeKeyParams(c)
	if !ok {
		return
	}
	like, err := s.likes.Get(c.Request.Context(), userID, postID)
	if err != nil {
		internalError(c, err)
		return
	}
	if like == nil {
		notFound(c, "like not found")
		return
	}
	c.JSON(http.StatusOK, renderLike(like))
}

// touchLike refreshes the like's modification timestamp
func (s *Server) touchLike(c *gin.Context) {
	userID, postID, ok := likeKeyParams(c)
	if !ok {
		return
	}
	if !canActFor(c, userID) {
		forbidden(c)
		return
	}

	ctx := c.Request.Context()
	like, err := s.likes.Get(ctx, userID, postID)
	if err != nil {
		internalError(c, err)
		return
	}
	if like == nil {
		notFound(c, "like not found")
		return
	}

	if err := s.likes.Touch(ctx, like); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderLike(like))
}

// deleteLike removes a like; only the liker may do this
func (s *Server) deleteLike(c *gin.Context) {
	userID, postID, ok := likeKeyParams(c)
	if !ok {
		return
	}
	if !canActFor(c, userID) {
		forbidden(c)
		return
	}

	ctx := c.Request.Context()
	like, err := s.likes.Get(ctx, userID, postID)
	if err != nil {
		internalError(c, err)
		return
	}
	if like == nil {
		notFound(c, "like not found")
		return
	}

	if err := s.likes.Delete(ctx, like); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
