package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/auth"
	"github.com/emilythestrangee/social-blog/backend/internal/config"
	"github.com/emilythestrangee/social-blog/backend/internal/content"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/handlers"
	"github.com/emilythestrangee/social-blog/backend/internal/loader"
	"github.com/emilythestrangee/social-blog/backend/internal/middleware"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	redis   *redis.Client
	events  events.Publisher
	store   *store.Store
	auth    *auth.Manager
	handler *handlers.Handler
	log     *zap.Logger
}

// Deps are the connections the server is built on. Redis is optional.
type Deps struct {
	DB        database.Service
	Redis     *redis.Client
	Publisher events.Publisher
	Logger    *zap.Logger
}

// NewServer wires the services and handlers around the given connections
func NewServer(cfg *config.Config, deps Deps) *Server {
	st := store.New(deps.DB.GetDB(), deps.DB.GetSQLX())

	assembler := feed.NewAssembler(st)
	engagementSvc := engagement.NewService(st, deps.Publisher, deps.Logger.Named("engagement"))
	contentSvc := content.NewService(st, assembler, engagementSvc, deps.Publisher, deps.Logger.Named("content"))

	return &Server{
		cfg:     cfg,
		db:      deps.DB,
		redis:   deps.Redis,
		events:  deps.Publisher,
		store:   st,
		auth:    auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		handler: handlers.NewHandler(contentSvc, engagementSvc, assembler, deps.Logger.Named("http")),
		log:     deps.Logger,
	}
}

// HTTPServer builds the http.Server for the configured port
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Server.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(s.log.Named("access")), middleware.SecureHeaders())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: !allowsAnyOrigin(s.cfg.Server.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", s.health)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.Authenticate(s.auth))
	{
		api.GET("/genres", s.handler.Genre.GetGenres)
		api.GET("/genres/:slug/posts", s.handler.Feed.GetGenreFeed)

		api.GET("/feed", s.handler.Feed.GetGlobalFeed)

		api.GET("/posts/:slug", loader.Middleware(s.store), s.handler.Post.GetPost)

		api.GET("/users/:username", s.handler.User.GetUserProfile)
		api.GET("/users/:username/posts", s.handler.Feed.GetProfileFeed)
		api.GET("/users/:username/followers", s.handler.User.GetFollowers)
		api.GET("/users/:username/following", s.handler.User.GetFollowing)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		if s.redis != nil {
			protected.Use(middleware.RateLimit(s.redis, s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window, s.log.Named("ratelimit")))
		}
		{
			protected.GET("/feed/following", s.handler.Feed.GetFollowingFeed)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:slug", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:slug", s.handler.Post.DeletePost)
			protected.POST("/posts/:slug/like", s.handler.Post.LikePost)
			protected.POST("/posts/:slug/comments", s.handler.Post.CreateComment)

			protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)
			protected.POST("/comments/:id/like", s.handler.Comment.LikeComment)

			protected.POST("/users/:username/follow", s.handler.User.FollowUser)
			protected.PUT("/users/me", s.handler.User.UpdateUserProfile)
			protected.POST("/users/me/dark-mode", s.handler.User.SetDarkMode)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	db := s.db.Health(ctx)
	status := http.StatusOK
	if db["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	resp := gin.H{"database": db}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			resp["redis"] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			resp["redis"] = gin.H{"status": "up"}
		}
	}

	if p, ok := s.events.(healthReporter); ok {
		if p.Healthy() {
			resp["nats"] = gin.H{"status": "up"}
		} else {
			resp["nats"] = gin.H{"status": "down"}
			status = http.StatusServiceUnavailable
		}
	}

	resp["status"] = "ok"
	if status != http.StatusOK {
		resp["status"] = "degraded"
	}
	c.JSON(status, resp)
}

// healthReporter is implemented by publishers backed by a live connection.
type healthReporter interface {
	Healthy() bool
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
