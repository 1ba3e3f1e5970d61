package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/blogapp/backend/internal/api"
	"github.com/blogapp/backend/internal/auth"
	"github.com/blogapp/backend/internal/blog"
	"github.com/blogapp/backend/internal/config"
	"github.com/blogapp/backend/internal/db"
	"github.com/blogapp/backend/internal/health"
	"github.com/blogapp/backend/internal/logger"
	mw "github.com/blogapp/backend/internal/middleware"

	apperrors "github.com/blogapp/backend/internal/errors"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()
	cfg := config.Load()

	log := logger.New(os.Stdout, logger.LevelInfo, "server")
	logger.SetDefault(log)

	var (
		userStore db.UserStore
		postStore db.PostStore
		sqlDB     *sql.DB
	)

	switch cfg.DBBackend {
	case "memory":
		userStore = db.NewMemoryUserStore()
		postStore = db.NewMemoryPostStore()
		log.Info(ctx, "using in-memory store")
	default:
		database, err := db.New(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		if err != nil {
			log.Error(ctx, "failed to connect to database", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			log.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}

		userStore = db.NewUserRepository(database)
		postStore = db.NewPostRepository(database)
		sqlDB = database.DB
		log.Info(ctx, "using postgres store", map[string]interface{}{
			"host": cfg.DBHost,
			"name": cfg.DBName,
		})
	}

	authService := auth.NewService(userStore, cfg.JWTSecret)
	authHandlers := auth.NewHandlers(authService)

	blogService := blog.NewService(postStore)
	blogHandlers := blog.NewHandlers(blogService)

	healthChecker := health.NewChecker(&health.CheckerConfig{
		DB:      sqlDB,
		Version: version,
	})
	healthHandler := health.NewHandler(healthChecker)

	router := api.NewRouter(authHandlers, authService, blogHandlers, healthHandler)

	handler := mw.Chain(router,
		apperrors.RequestIDMiddleware,
		logger.RecoveryMiddleware,
		logger.LoggingMiddleware,
		mw.CORS(cfg.AllowedOrigins),
	)

	log.Info(ctx, "starting server", map[string]interface{}{
		"addr":    cfg.ServerAddr,
		"backend": cfg.DBBackend,
	})
	if err := http.ListenAndServe(cfg.ServerAddr, handler); err != nil {
		log.Error(ctx, "server failed", err)
		os.Exit(1)
	}
}
