package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/devpage/statsync/internal/pkg/config"
	"github.com/devpage/statsync/internal/statsync"
	"github.com/devpage/statsync/internal/statsync/api"
	"github.com/devpage/statsync/internal/statsync/cache"
	"github.com/devpage/statsync/internal/statsync/github"
	"github.com/devpage/statsync/internal/statsync/lock"
	"github.com/devpage/statsync/internal/statsync/repository/postgres"
)

func main() {
	var cfg config.StatsConfig
	err := envconfig.Process("statsync", &cfg)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.NewStatsStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to establish DB connection: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ghClient := github.NewClient(cfg.GithubTimeout)
	resolver := statsync.NewCredentialResolver(store)

	service := statsync.NewService(store, ghClient, resolver, &cfg)
	service.UseLocker(lock.NewRedisLocker(redisClient))
	service.UseCache(cache.New(cfg.CacheEnabled))

	var amqpConn *amqp.Connection
	var amqpCh *amqp.Channel
	if cfg.RabbitMQURL != "" {
		amqpConn, err = amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpConn.Close()

		amqpCh, err = amqpConn.Channel()
		if err != nil {
			log.Fatalf("Failed to open a channel: %v", err)
		}
		defer amqpCh.Close()

		_, err = amqpCh.QueueDeclare(
			cfg.SyncedQueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			log.Fatalf("Failed to declare synced events queue: %v", err)
		}

		service.UsePublisher(statsync.NewAMQPPublisher(amqpCh, cfg.SyncedQueueName))
	}

	e := echo.New()
	handler := api.SetupRoutes(service, e)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: handler,
	}

	go func() {
		log.Printf("server listening on %d\n", cfg.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if amqpCh != nil {
		if err := amqpCh.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}
	if amqpConn != nil {
		if err := amqpConn.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("HTTP server Shutdown: %v", err)
	}

	log.Println("Server exiting")
}
