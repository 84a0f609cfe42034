package main

// @title Ecoleta Service API
// @version 1.0.0
// @description Реестр пунктов сбора отходов. Организации регистрируют пункты приема с координатами, контактами и набором принимаемых категорий; пользователи ищут пункты по штату, городу и категории.
// @description
// @description Основные возможности:
// @description - Регистрация пункта сбора с изображением
// @description - Поиск пунктов по штату, городу и категориям
// @description - Справочник категорий с иконками
// @description - Справочник штатов и городов IBGE

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3333
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ecoleta-service/docs"
	"github.com/ecoleta-service/internal/config"
	httpDelivery "github.com/ecoleta-service/internal/delivery/http"
	"github.com/ecoleta-service/internal/delivery/http/handler"
	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/infrastructure/ibge"
	"github.com/ecoleta-service/internal/infrastructure/storage"
	"github.com/ecoleta-service/internal/pkg/logger"
	"github.com/ecoleta-service/internal/repository/cache"
	"github.com/ecoleta-service/internal/repository/postgres"
	redisRepo "github.com/ecoleta-service/internal/repository/redis"
	"github.com/ecoleta-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Ecoleta Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("media_backend", cfg.Media.Backend),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// 5. Media storage
	mediaStore, closeMedia, err := newMediaStore(context.Background(), &cfg.Media, log)
	if err != nil {
		log.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	// 6. Initialize Repositories
	pointRepo := postgres.NewPointRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient, cache.KeyPrefix)

	var streamRepo repository.StreamRepository
	if cfg.Events.Enabled {
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), redisRepo.DefaultMaxLen, log)
	}

	localityRepo := ibge.NewClient(&cfg.IBGE, log)

	log.Info("Repositories initialized")

	// 7. Category catalog: засеивание и однократная загрузка
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := categoryRepo.Seed(ctx, domain.DefaultCategories); err != nil {
		log.Fatal("Failed to seed categories", zap.Error(err))
	}

	catalog, err := usecase.LoadCategoryCatalog(ctx, categoryRepo, log)
	if err != nil {
		log.Fatal("Failed to load category catalog", zap.Error(err))
	}

	// 8. Initialize Use Cases
	media := usecase.NewMediaResolver(mediaStore, cfg.Media.BaseURL, log)

	registrationUC := usecase.NewPointRegistrationUseCase(
		pointRepo,
		catalog,
		media,
		streamRepo,
		cfg.Events.Stream,
		log,
	)

	queryUC := usecase.NewPointQueryUseCase(
		pointRepo,
		catalog,
		media,
		cacheRepo,
		cfg.Cache.PointTTL,
		log,
	)

	localityUC := usecase.NewLocalityUseCase(
		localityRepo,
		cacheRepo,
		cfg.Cache.LocalityTTL,
		log,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	pointHandler := handler.NewPointHandler(
		registrationUC,
		queryUC,
		cfg.Server.RequestTimeout,
		int64(cfg.Media.MaxSizeMB)*1024*1024,
		log,
	)
	localityHandler := handler.NewLocalityHandler(localityUC, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": db.Health,
		"redis":    redisClient.Health,
	}, log)

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		pointHandler,
		localityHandler,
		healthHandler,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := closeMedia(); err != nil {
		log.Error("Failed to close media storage", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// newMediaStore выбирает хранилище изображений по MEDIA_BACKEND
func newMediaStore(ctx context.Context, cfg *config.MediaConfig, log *zap.Logger) (repository.MediaRepository, func() error, error) {
	switch cfg.Backend {
	case config.MediaBackendGCS:
		return storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, log)
	default:
		store, err := storage.NewLocalStore(cfg.UploadDir, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}
