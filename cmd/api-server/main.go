package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("database handle unavailable", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, signup rate limiting degraded", "error", err)
		}
		cancel()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	ratingEngine := service.NewRatingEngine(reviewRepo, titleRepo, logger)
	smtpMailer := mailer.New(cfg)
	authService := service.NewAuthService(userRepo, smtpMailer, cfg, logger)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratingEngine, logger)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RateLimit(cfg))

	router.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.AuthMiddleware(authService, userRepo)

	v1 := router.Group("/api/v1")
	{
		authHandler := handler.NewAuthHandler(authService)
		if redisClient != nil {
			// shared fixed window on top of the per-IP bucket: signup abuse
			// generates outbound mail
			authHandler.RegisterRoutes(v1, middleware.RedisRateLimit(redisClient, 10, time.Minute, logger))
		} else {
			authHandler.RegisterRoutes(v1)
		}

		handler.NewCategoryHandler(categoryService, authMW).RegisterRoutes(v1)
		handler.NewGenreHandler(genreService, authMW).RegisterRoutes(v1)
		handler.NewTitleHandler(titleService, authMW).RegisterRoutes(v1)
		handler.NewReviewHandler(reviewService, authMW).RegisterRoutes(v1)
		handler.NewCommentHandler(commentService, authMW).RegisterRoutes(v1)
		handler.NewUserHandler(userService, authMW).RegisterRoutes(v1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errChan:
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
