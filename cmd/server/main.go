package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogapi/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handler"
	"blogapi/internal/logger"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
)

// @title Blog API
// @version 1.0
// @description Blog backend with signup/login, posts and comments behind bearer JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set, using the built-in development secret")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("reset database")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, post reads go to the database")
	}
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth components
	hasher, err := auth.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize services
	identities := service.NewIdentityResolver(userRepo)
	authService := service.NewAuthService(userRepo, identities, hasher, jwtService)
	postService := service.NewPostService(postRepo, identities, cacheClient)
	commentService := service.NewCommentService(commentRepo, postRepo, identities)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		log,
		handler.NewAuthHandler(authService),
		handler.NewPostHandler(postService),
		handler.NewCommentHandler(commentService),
		authService,
	)

	scheme := "http"
	if strings.HasPrefix(cfg.SwaggerHost, "https://") {
		scheme = "https"
	}
	docs.SwaggerInfo.Schemes = []string{scheme}
	docs.SwaggerInfo.Host = strings.TrimPrefix(cfg.SwaggerHost, scheme+"://")
	if docs.SwaggerInfo.Host == "" {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info().Str("url", scheme+"://"+docs.SwaggerInfo.Host+"/api-docs").Msg("swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info().Str("addr", addr).Str("driver", cfg.DBDriver).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
