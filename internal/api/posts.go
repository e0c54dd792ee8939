package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/models"
	"github.com/covernet/covernet/internal/search"
)

type createPostRequest struct {
	Body       string  `json:"body" binding:"required"`
	MediaURL   *string `json:"media_url"`
	MediaClass *string `json:"media_class"`
	MediaType  *string `json:"media_type"`
	Language   string  `json:"language"`
}

type updatePostRequest struct {
	Body       *string `json:"body"`
	MediaURL   *string `json:"media_url"`
	MediaClass *string `json:"media_class"`
	MediaType  *string `json:"media_type"`
	Language   *string `json:"language"`
}

func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid post id")
		return 0, false
	}
	return id, true
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// createPost creates a post authored by the current user
func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	post := &models.Post{
		Body:       req.Body,
		MediaURL:   toNullString(req.MediaURL),
		MediaClass: toNullString(req.MediaClass),
		MediaType:  toNullString(req.MediaType),
		Language:   req.Language,
		UserID:     currentUser(c).ID,
	}
	if post.Language == "" {
		post.Language = "en"
	}

	ctx := c.Request.Context()
	if err := s.posts.Create(ctx, post); err != nil {
		internalError(c, err)
		return
	}

	s.indexPost(c, post)
	c.JSON(http.StatusCreated, renderPost(post))
}

func (s *Server) listPosts(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var posts []*models.Post
	total, err := paginate(s.posts.Query(c.Request.Context()), p, &posts)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		items = append(items, renderPost(post))
	}
	c.JSON(http.StatusOK, collection(c, "posts", items, p, total))
}

func (s *Server) getPost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if post == nil {
		notFound(c, "post not found")
		return
	}

	likeCount, err := s.posts.CountLikes(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	out := renderPost(post)
	out["like_count"] = likeCount
	c.JSON(http.StatusOK, out)
}

func (s *Server) updatePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if post == nil {
		notFound(c, "post not found")
		return
	}
	if !canActFor(c, post.UserID) {
		forbidden(c)
		return
	}

	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.MediaURL != nil {
		post.MediaURL = sql.NullString{String: *req.MediaURL, Valid: true}
	}
	if req.MediaClass != nil {
		post.MediaClass = sql.NullString{String: *req.MediaClass, Valid: true}
	}
	if req.MediaType != nil {
		post.MediaType = sql.NullString{String: *req.MediaType, Valid: true}
	}
	if req.Language != nil {
		post.Language = *req.Language
	}

	if err := s.posts.Update(ctx, post); err != nil {
		internalError(c, err)
		return
	}

	s.indexPost(c, post)
	c.JSON(http.StatusOK, renderPost(post))
}

// deletePost removes a post and its likes and link rows
func (s *Server) deletePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if post == nil {
		notFound(c, "post not found")
		return
	}
	if !canActFor(c, post.UserID) {
		forbidden(c)
		return
	}

	if err := s.posts.Delete(ctx, post); err != nil {
		internalError(c, err)
		return
	}

	if err := s.search.Remove(ctx, "posts", post.ID); err != nil {
		s.logger.Warn("failed to remove post from search index", zap.Int64("post_id", post.ID), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// listPostComments returns the comment posts under :id
func (s *Server) listPostComments(c *gin.Context) {
	s.listPostChildren(c, "comments")
}

// listPostReposts returns the repost posts of :id
func (s *Server) listPostReposts(c *gin.Context) {
	s.listPostChildren(c, "reposts")
}

func (s *Server) listPostChildren(c *gin.Context, kind string) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if post == nil {
		notFound(c, "post not found")
		return
	}

	query := s.posts.CommentsQuery(ctx, id)
	if kind == "reposts" {
		query = s.posts.RepostsQuery(ctx, id)
	}

	var posts []*models.Post
	total, err := paginate(query, p, &posts)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, child := range posts {
		items = append(items, renderPost(child))
	}
	c.JSON(http.StatusOK, collection(c, "posts", items, p, total))
}

// listPostLikes returns the likes on :id
func (s *Server) listPostLikes(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if post == nil {
		notFound(c, "post not found")
		return
	}

	var likes []*models.Like
	total, err := paginate(s.likes.ForPostQuery(ctx, id), p, &likes)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(likes))
	for _, like := range likes {
		items = append(items, renderLike(like))
	}
	c.JSON(http.StatusOK, collection(c, "likes", items, p, total))
}

// searchPosts proxies the external full-text service and hydrates the
// matching posts from the database, preserving search-rank order.
func (s *Server) searchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q is required")
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	ids, total, err := s.search.Query(ctx, "posts", query, p.page, p.perPage)
	if err != nil {
		if err == search.ErrDisabled {
			serviceUnavailable(c, "search is not configured")
			return
		}
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(ids))
	if len(ids) > 0 {
		var posts []*models.Post
		if err := s.posts.ByIDsQuery(ctx, ids).Find(&posts).Error; err != nil {
			internalError(c, err)
			return
		}
		byID := make(map[int64]*models.Post, len(posts))
		for _, post := range posts {
			byID[post.ID] = post
		}
		for _, id := range ids {
			if post, ok := byID[id]; ok {
				items = append(items, renderPost(post))
			}
		}
	}
	c.JSON(http.StatusOK, collection(c, "posts", items, p, total))
}

// indexPost pushes the post into the search index, logging failures instead
// of failing the write.
func (s *Server) indexPost(c *gin.Context, post *models.Post) {
	err := s.search.Index(c.Request.Context(), "posts", post.ID, map[string]interface{}{
		"body":     post.Body,
		"language": post.Language,
		"user_id":  post.UserID,
	})
	if err != nil {
		s.logger.Warn("failed to index post", zap.Int64("post_id", post.ID), zap.Error(err))
	}
}
