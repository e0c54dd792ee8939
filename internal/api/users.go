package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/covernet/covernet/internal/auth"
	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return 0, false
	}
	return id, true
}

// createUser handles open signup. Admin status comes from the configured
// admin email list, never from the request body.
func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if existing, err := s.users.GetByUsername(ctx, req.Username); err != nil {
		internalError(c, err)
		return
	} else if existing != nil {
		badRequest(c, "username already in use")
		return
	}
	if existing, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		internalError(c, err)
		return
	} else if existing != nil {
		badRequest(c, "email already in use")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		IsAdmin:      s.auth.IsAdminEmail(req.Email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == db.ErrDuplicate {
			badRequest(c, "username or email already in use")
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, renderUser(user))
}

// listUsers returns all users, admin only
func (s *Server) listUsers(c *gin.Context) {
	if !currentUser(c).IsAdmin {
		forbidden(c)
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var users []*models.User
	total, err := paginate(s.users.Query(c.Request.Context()), p, &users)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, renderUser(u))
	}
	c.JSON(http.StatusOK, collection(c, "users", items, p, total))
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if !canActFor(c, id) {
		forbidden(c)
		return
	}

	user, err := s.users.GetByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		notFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, renderUser(user))
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if !canActFor(c, id) {
		forbidden(c)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		notFound(c, "user not found")
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, *req.Username)
		if err != nil {
			internalError(c, err)
			return
		}
		if existing != nil {
			badRequest(c, "username already in use")
			return
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			internalError(c, err)
			return
		}
		if existing != nil {
			badRequest(c, "email already in use")
			return
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			internalError(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderUser(user))
}

// deleteUser removes the user and everything hanging off it
func (s *Server) deleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if !canActFor(c, id) {
		forbidden(c)
		return
	}

	ctx := c.Request.Context()
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		notFound(c, "user not found")
		return
	}

	if err := s.users.Delete(ctx, user); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listUserFollowers returns the users following :id, excluding itself
func (s *Server) listUserFollowers(c *gin.Context) {
	s.listUserRelations(c, "followers")
}

// listUserFollowed returns the users :id follows, excluding itself
func (s *Server) listUserFollowed(c *gin.Context) {
	s.listUserRelations(c, "followed")
}

func (s *Server) listUserRelations(c *gin.Context, kind string) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		notFound(c, "user not found")
		return
	}

	query := s.users.FollowersQuery(ctx, id)
	if kind == "followed" {
		query = s.users.FollowedQuery(ctx, id)
	}

	var users []*models.User
	total, err := paginate(query, p, &users)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, renderUser(u))
	}
	c.JSON(http.StatusOK, collection(c, "users", items, p, total))
}

// listUserPosts returns the posts authored by :id
func (s *Server) listUserPosts(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		notFound(c, "user not found")
		return
	}

	var posts []*models.Post
	total, err := paginate(s.posts.ByUserQuery(ctx, id), p, &posts)
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
