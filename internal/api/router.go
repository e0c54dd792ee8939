package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/auth"
	"github.com/covernet/covernet/internal/cache"
	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/feed"
	"github.com/covernet/covernet/internal/search"
	"github.com/covernet/covernet/internal/tasks"
	"github.com/covernet/covernet/pkg/config"
	"github.com/covernet/covernet/pkg/logging"
)

// Server wires repositories and services into the REST surface
type Server struct {
	db    *db.DB
	cache *cache.Cache

	auth   *auth.Service
	feed   *feed.Service
	search *search.Client
	queue  *tasks.Queue

	users      *db.UserRepository
	posts      *db.PostRepository
	follows    *db.FollowRepository
	likes      *db.LikeRepository
	comments   *db.CommentRepository
	reposts    *db.RepostRepository
	notifs     *db.NotificationRepository
	tasks      *db.TaskRepository
	groups     *db.GroupRepository
	orgs       *db.OrganizationRepository
	violent    *db.ViolentTacticRepository
	nonviolent *db.NonviolentTacticRepository

	logger *zap.Logger
}

// NewServer creates the API server. queue may be nil when Redis is not
// configured; the export endpoint then reports unavailable.
func NewServer(database *db.DB, redisCache *cache.Cache, cfg *config.Config, queue *tasks.Queue) *Server {
	repo := db.NewRepository(database.DB)

	users := db.NewUserRepository(repo)
	notifs := db.NewNotificationRepository(repo)
	feedRepo := db.NewFeedRepository(repo)

	return &Server{
		db:    database,
		cache: redisCache,

		auth:   auth.NewService(users, &cfg.Auth),
		feed:   feed.NewService(feedRepo, notifs, redisCache),
		search: search.New(&cfg.Search),
		queue:  queue,

		users:      users,
		posts:      db.NewPostRepository(repo),
		follows:    db.NewFollowRepository(repo),
		likes:      db.NewLikeRepository(repo),
		comments:   db.NewCommentRepository(repo),
		reposts:    db.NewRepostRepository(repo),
		notifs:     notifs,
		tasks:      db.NewTaskRepository(repo),
		groups:     db.NewGroupRepository(repo),
		orgs:       db.NewOrganizationRepository(repo),
		violent:    db.NewViolentTacticRepository(repo),
		nonviolent: db.NewNonviolentTacticRepository(repo),

		logger: logging.WithComponent("api"),
	}
}

// SetupRoutes registers all routes on the engine
func (s *Server) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", s.healthHandler)
	engine.GET("/.well-known/healthcheck.json", s.healthHandler)

	api := engine.Group("/api")

	// Open endpoints
	api.POST("/users", s.createUser)
	api.POST("/tokens", s.basicAuth(), s.issueToken)

	// Everything else requires a bearer token
	authed := api.Group("", s.tokenAuth())

	authed.DELETE("/tokens", s.revokeToken)

	authed.GET("/users", s.listUsers)
	authed.GET("/users/:id", s.getUser)
	authed.PUT("/users/:id", s.updateUser)
	authed.DELETE("/users/:id", s.deleteUser)
	authed.GET("/users/:id/followers", s.listUserFollowers)
	authed.GET("/users/:id/followed", s.listUserFollowed)
	authed.GET("/users/:id/posts", s.listUserPosts)

	authed.POST("/posts", s.createPost)
	authed.GET("/posts", s.listPosts)
	authed.GET("/posts/search", s.searchPosts)
	authed.POST("/posts/export", s.exportPosts)
	authed.GET("/posts/:id", s.getPost)
	authed.PUT("/posts/:id", s.updatePost)
	authed.DELETE("/posts/:id", s.deletePost)
	authed.GET("/posts/:id/comments", s.listPostComments)
	authed.GET("/posts/:id/reposts", s.listPostReposts)
	authed.GET("/posts/:id/likes", s.listPostLikes)

	authed.POST("/follows", s.createFollow)
	authed.GET("/follows", s.listFollows)
	authed.GET("/follows/:follower_id/:followed_id", s.getFollow)
	authed.PUT("/follows/:follower_id/:followed_id", s.touchFollow)
	authed.DELETE("/follows/:follower_id/:followed_id", s.deleteFollow)

	authed.POST("/likes", s.createLike)
	authed.GET("/likes", s.listLikes)
	authed.GET("/likes/:user_id/:post_id", s.getLike)
	authed.PUT("/likes/:user_id/:post_id", s.touchLike)
	authed.DELETE("/likes/:user_id/:post_id", s.deleteLike)

	authed.POST("/comments", s.createComment)
	authed.GET("/comments", s.listComments)
	authed.GET("/comments/:parent_id/:comment_id", s.getComment)
	authed.PUT("/comments/:parent_id/:comment_id", s.touchComment)
	authed.DELETE("/comments/:parent_id/:comment_id", s.deleteComment)

	authed.POST("/reposts", s.createRepost)
	authed.GET("/reposts", s.listReposts)
	authed.GET("/reposts/:root_id/:repost_id", s.getRepost)
	authed.PUT("/reposts/:root_id/:repost_id", s.touchRepost)
	authed.DELETE("/reposts/:root_id/:repost_id", s.deleteRepost)

	authed.GET("/updates", s.listUpdates)
	authed.GET("/notifications", s.listNotifications)
	authed.GET("/tasks", s.listTasks)
	authed.GET("/tasks/:id", s.getTask)

	authed.POST("/groups", s.createGroups)
	authed.GET("/groups", s.listGroups)
	authed.GET("/groups/:kgcId", s.getGroup)
	authed.PUT("/groups/:kgcId", s.updateGroup)
	authed.DELETE("/groups/:kgcId", s.deleteGroup)
	authed.GET("/groups/:kgcId/organizations", s.listGroupOrganizations)

	authed.POST("/organizations", s.createOrganizations)
	authed.GET("/organizations", s.listOrganizations)
	authed.GET("/organizations/:facId", s.getOrganization)
	authed.PUT("/organizations/:facId", s.updateOrganization)
	authed.DELETE("/organizations/:facId", s.deleteOrganization)
	authed.GET("/organizations/:facId/violent_tactics", s.listOrganizationViolentTactics)
	authed.GET("/organizations/:facId/nonviolent_tactics", s.listOrganizationNonviolentTactics)

	authed.POST("/violent_tactics", s.createViolentTactics)
	authed.GET("/violent_tactics", s.listViolentTactics)
	authed.GET("/violent_tactics/:id", s.getViolentTactic)
	authed.PUT("/violent_tactics/:id", s.updateViolentTactic)
	authed.DELETE("/violent_tactics/:id", s.deleteViolentTactic)

	authed.POST("/nonviolent_tactics", s.createNonviolentTactics)
	authed.GET("/nonviolent_tactics", s.listNonviolentTactics)
	authed.GET("/nonviolent_tactics/:id", s.getNonviolentTactic)
	authed.PUT("/nonviolent_tactics/:id", s.updateNonviolentTactic)
	authed.DELETE("/nonviolent_tactics/:id", s.deleteNonviolentTactic)
}

// healthHandler reports liveness of the service and its backends
func (s *Server) healthHandler(c *gin.Context) {
	status := "OK"
	code := http.StatusOK
	if err := s.db.Health(c.Request.Context()); err != nil {
		status = "DEGRADED"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "covernet-api",
	})
}
