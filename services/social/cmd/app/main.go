package main

import (
	"context"

	"social-feed/pkg/cache"
	"social-feed/pkg/config"
	"social-feed/pkg/database"
	"social-feed/pkg/logger"
	"social-feed/pkg/queue"
	"social-feed/pkg/telemetry"
	socialApp "social-feed/services/social/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Social Feed API
// @version         1.0
// @description     Posts with images, comments and likes behind bearer token authentication
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /register or /login.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	if cfg.JWTSecret == defaultJWTSecret {
		log.Warn("JWT_SECRET is not set, using the development default")
	}

	ctx := context.Background()
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		log.Error("Failed to init tracing: %v (continuing without tracing)", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Error("Failed to flush traces: %v", err)
			}
		}()
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	storage, err := socialApp.NewImageStorage(ctx, cfg)
	if err != nil {
		log.Error("Failed to create image storage: %v", err)
		panic(err)
	}

	// Redis only backs rate limiting
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg); err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limiting)", err)
	} else {
		redisClient = client
	}

	// Connect to RabbitMQ for publishing notification events
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	socialApp.Run(cfg, log, db, storage, queueClient, redisClient)
}
