package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sweetshop/sweetshop-api/docs" // swagger docs

	"github.com/sweetshop/sweetshop-api/internal/api"
	"github.com/sweetshop/sweetshop-api/internal/api/handler"
	"github.com/sweetshop/sweetshop-api/internal/auth"
	"github.com/sweetshop/sweetshop-api/internal/core/service"
	mongodb "github.com/sweetshop/sweetshop-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sweetshop/sweetshop-api/internal/infrastructure/db/redis"
	"github.com/sweetshop/sweetshop-api/internal/infrastructure/queue"
	"github.com/sweetshop/sweetshop-api/internal/infrastructure/storage"
	"github.com/sweetshop/sweetshop-api/internal/pkg/config"
	"github.com/sweetshop/sweetshop-api/pkg/logger"
)

// @title Sweet Shop API
// @version 1.0
// @description E-commerce backend with admin/user JWT authentication and sweet inventory management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	secret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid signing secret")
	}
	codec := auth.NewCodec(secret, time.Duration(cfg.JWTTTLMillis)*time.Millisecond)

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	adminRepo := mongodb.NewPrincipalRepository(db, mongodb.AdminsCollection)
	userRepo := mongodb.NewPrincipalRepository(db, mongodb.UsersCollection)
	sweetRepo := mongodb.NewSweetRepository(db)
	purchaseRepo := mongodb.NewPurchaseRepository(db)

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"admins":    adminRepo,
		"users":     userRepo,
		"sweets":    sweetRepo,
		"purchases": purchaseRepo,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Background workers ---
	dispatcher := queue.NewDispatcher(0, purchaseRepo, log)
	dispatcher.Start(ctx)

	// --- Services ---
	listingCache := redisdb.NewListingCache(rdb, log)
	authService := service.NewAuthService(adminRepo, userRepo, codec, log)
	sweetService := service.NewSweetService(sweetRepo, listingCache, dispatcher, log)

	fileStore, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("upload store init failed")
	}

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		Codec:        codec,
		AuthHandler:  handler.NewAuthHandler(authService),
		SweetHandler: handler.NewSweetHandler(sweetService),
		FileHandler:  handler.NewFileHandler(fileStore),
		UploadDir:    fileStore.Dir(),
		DB:           db,
		Redis:        rdb,
		Logger:       log,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting sweet shop API")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server start failed")
	}
}
