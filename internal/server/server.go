package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/handler"
	"blogapi/internal/middleware"
	"blogapi/internal/repository"
	"blogapi/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	log    *logrus.Logger
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *logrus.Logger, logger *zap.Logger) (*Server, error) {
	router := gin.Default()

	// Initialize server with DB, config and loggers
	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		log:    log,
		logger: logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(
		s.cfg.Auth.SecretKey,
		s.cfg.Auth.Algorithm,
		time.Duration(s.cfg.Auth.AccessTokenExpireMinutes)*time.Minute,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := auth.NewPasswordHasher(s.cfg.Auth.BcryptCost)

	// Initialize repositories
	userRepo := repository.NewUserRepository(s.db, s.log)
	postRepo := repository.NewPostRepository(s.db, s.logger)
	voteRepo := repository.NewVoteRepository(s.db, s.logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens, s.logger)
	postService := service.NewPostService(postRepo, s.logger)
	voteService := service.NewVoteService(voteRepo, postRepo, s.logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, s.log)
	userHandler := handler.NewUserHandler(authService, s.log)
	postHandler := handler.NewPostHandler(postService, s.log)
	voteHandler := handler.NewVoteHandler(voteService, s.log)

	s.router.Use(middleware.RequestID())

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"greeting": "This is not the endpoint you are looking for!",
		})
	})

	// Credential endpoints are rate limited per client IP
	limiter := middleware.NewRateLimiter(
		s.cfg.RateLimit.Requests,
		time.Duration(s.cfg.RateLimit.WindowSeconds)*time.Second,
	)
	s.router.POST("/login", limiter.Limit(), authHandler.Login)
	s.router.POST("/users", limiter.Limit(), userHandler.CreateUser)

	// Public read endpoints
	s.router.GET("/users/:id", userHandler.GetUser)
	s.router.GET("/posts", postHandler.ListPosts)
	s.router.GET("/posts/:id", postHandler.GetPost)

	// Authenticated routes
	authRequired := s.router.Group("/")
	authRequired.Use(middleware.AuthMiddleware(tokens, userRepo, s.logger))
	{
		authRequired.POST("/posts", postHandler.CreatePost)
		authRequired.PUT("/posts/:id", postHandler.UpdatePost)
		authRequired.DELETE("/posts/:id", postHandler.DeletePost)
		authRequired.POST("/vote", voteHandler.Vote)
	}

	return nil
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
