package main

import (
	"os"
	"os/signal"
	"syscall"

	"social-feed/pkg/cache"
	"social-feed/pkg/config"
	"social-feed/pkg/logger"
	"social-feed/pkg/queue"
	"social-feed/services/social/internal/notifier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}
	defer redisClient.Close()

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	n := notifier.New(notifier.NewRedisSink(redisClient), log)

	go func() {
		if err := queueClient.Consume(n.Handle); err != nil {
			log.Error("Consumer stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notifier...")
	queueClient.Close()
}
