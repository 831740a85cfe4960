package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mediscanner/docs"

	"mediscanner/internal/auth"
	"mediscanner/internal/cache"
	"mediscanner/internal/config"
	"mediscanner/internal/db"
	"mediscanner/internal/extract"
	"mediscanner/internal/handler"
	"mediscanner/internal/imagekit"
	"mediscanner/internal/repository"
	"mediscanner/internal/router"
	"mediscanner/internal/service"
)

// @title MediScanner API
// @version 1.0
// @description Medical prescription management API with JWT authentication, ImageKit-hosted images, and AI-backed prescription extraction.
// @host localhost:8080
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	ctx := context.Background()
	database, err := db.NewMongo(ctx, cfg.MongoURL, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("index init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(database)
	recordRepo := repository.NewRecordRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// External collaborators
	imagekitClient := imagekit.New(cfg.ImageKitPrivateKey, cfg.ImageKitPublicKey, cfg.ImageKitURLEndpoint)
	extractor := extract.New(cfg.AIAPIKey, cfg.AIAPIBase, cfg.AIModel)

	// Services
	credentialValidator := service.NewCredentialValidator()
	authService := service.NewAuthService(userRepo, sessionRepo, credentialValidator, jwtService, tokenStore)
	recordService := service.NewRecordService(recordRepo, imagekitClient, extractor)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	recordHandler := handler.NewRecordHandler(recordService)
	mediaHandler := handler.NewMediaHandler(imagekitClient)

	router.Register(e, authService, authHandler, recordHandler, mediaHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
