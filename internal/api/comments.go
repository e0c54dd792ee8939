package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type createCommentRequest struct {
	ParentID  int64 `json:"parent_id" binding:"required"`
	CommentID int64 `json:"comment_id" binding:"required"`
}

func commentKeyParams(c *gin.Context) (parentID, commentID int64, ok bool) {
	parentID, err := strconv.ParseInt(c.Param("parent_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid parent id")
		return 0, 0, false
	}
	commentID, err = strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid comment id")
		return 0, 0, false
	}
	return parentID, commentID, true
}

// commentActor loads the child post and verifies the current user authored
// it. Only the comment author may link or unlink their post.
func (s *Server) commentActor(c *gin.Context, commentID int64) bool {
	post, err := s.posts.GetByID(c.Request.Context(), commentID)
	if err != nil {
		internalError(c, err)
		return false
	}
	if post == nil {
		badRequest(c, "comment post does not exist")
		return false
	}
	if !canActFor(c, post.UserID) {
		forbidden(c)
		return false
	}
	return true
}

// createComment links an existing post under a parent, flipping its
// is_comment flag, and bumps the parent owner's unread comment counter.
func (s *Server) createComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !s.commentActor(c, req.CommentID) {
		return
	}

	ctx := c.Request.Context()
	comment := &models.Comment{
		ParentID:  req.ParentID,
		CommentID: req.CommentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		switch err {
		case db.ErrMissingTarget:
			badRequest(c, "parent or comment post does not exist")
		case db.ErrDuplicate:
			badRequest(c, "comment link already exists")
		default:
			internalError(c, err)
		}
		return
	}

	if parent, err := s.posts.GetByID(ctx, req.ParentID); err == nil && parent != nil {
		if owner, err := s.users.GetByID(ctx, parent.UserID); err == nil && owner != nil {
			if err := s.feed.NotifyComment(ctx, owner); err != nil {
				s.logger.Warn("failed to update comment counter", zap.Int64("user_id", owner.ID), zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusCreated, renderComment(comment))
}

func (s *Server) listComments(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var comments []*models.Comment
	total, err := paginate(s.comments.Query(c.Request.Context()), p, &comments)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		items = append(items, renderComment(cm))
	}
	c.JSON(http.StatusOK, collection(c, "comments", items, p, total))
}

func (s *Server) getComment(c *gin.Context) {
	parentID, commentID, ok := commentKeyParams(c)
	if !ok {
		return
	}
	comment, err := s.comments.Get(c.Request.Context(), parentID, commentID)
	if err != nil {
		internalError(c, err)
		return
	}
	if comment == nil {
		notFound(c, "comment link not found")
		return
	}
	c.JSON(http.StatusOK, renderComment(comment))
}

// touchComment refreshes the comment link's modification timestamp
func (s *Server) touchComment(c *gin.Context) {
	parentID, commentID, ok := commentKeyParams(c)
	if !ok {
		return
	}
	if !s.commentActor(c, commentID) {
		return
	}

	ctx := c.Request.Context()
	comment, err := s.comments.Get(ctx, parentID, commentID)
	if err != nil {
		internalError(c, err)
		return
	}
	if comment == nil {
		notFound(c, "comment link not found")
		return
	}

	if err := s.comments.Touch(ctx, comment); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderComment(comment))
}

// deleteComment removes the link; the child post's is_comment flag stays set
func (s *Server) deleteComment(c *gin.Context) {
	parentID, commentID, ok := commentKeyParams(c)
	if !ok {
		return
	}
	if !s.commentActor(c, commentID) {
		return
	}

	ctx := c.Request.Context()
	comment, err := s.comments.Get(ctx, parentID, commentID)
	if err != nil {
		internalError(c, err)
		return
	}
	if comment == nil {
		notFound(c, "comment link not found")
		return
	}

	if err := s.comments.Delete(ctx, comment); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
