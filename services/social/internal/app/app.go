package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-feed/pkg/config"
	"social-feed/pkg/logger"
	"social-feed/pkg/minio"
	"social-feed/pkg/queue"
	"social-feed/pkg/s3"
	"social-feed/services/social/internal/model"
	"social-feed/services/social/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// NewImageStorage picks the blob store named by STORAGE_DRIVER.
func NewImageStorage(ctx context.Context, cfg *config.Config) (usecase.ImageStorage, error) {
	switch cfg.StorageDriver {
	case "s3":
		client, err := s3.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "minio":
		client, err := minio.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Migrate creates the schema from the gorm models. Production schemas come
// from cmd/migrate; this serves DB_AUTO_MIGRATE and sqlite setups.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, storage usecase.ImageStorage, queueClient *queue.Client, redisClient *redis.Client) {
	if cfg.DBAutoMigrate {
		if err := Migrate(db); err != nil {
			log.Error("Failed to migrate database: %v", err)
			panic(err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := Dependencies{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Storage:  storage,
		Redis:    redisClient,
		Registry: registry,
	}
	if queueClient != nil {
		deps.Publisher = queueClient
	}
	r := NewRouter(deps)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           otelhttp.NewHandler(r, cfg.OTELServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Social feed service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down social feed service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop accepting requests before closing what they use
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		queueClient.Close()
	}

	log.Info("Social feed service exited")
}
