package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"mergington/internal/audit"
	"mergington/internal/config"
	"mergington/internal/consul"
	"mergington/internal/logger"
	"mergington/internal/middleware"
	"mergington/internal/server"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run serves until a signal arrives or the HTTP server fails
func run() error {
	cfg := config.LoadAudit()

	lgr := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
	logger.SetDefault(lgr)

	if err := cfg.Validate(); err != nil {
		lgr.Error("Invalid configuration", "error", err)
		return err
	}

	lgr.Info("Starting roster audit consumer",
		"port", cfg.Port,
		"kafka", cfg.KafkaBrokers,
		"topic", cfg.Topic,
		"redis", cfg.RedisAddr)

	var store audit.IdempotencyStore
	if cfg.RedisEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			lgr.Error("Failed to connect to Redis", "error", err)
			return err
		}
		lgr.Info("Connected to Redis")
		store = audit.NewRedisIdempotencyStore(redisClient, cfg.DedupTTL, lgr)
	} else {
		lgr.Warn("REDIS_ADDR not set, deduplication records are kept in memory")
		store = audit.NewMemoryIdempotencyStore(cfg.DedupTTL)
	}

	journalOut, closeJournal, err := openJournal(cfg.JournalPath)
	if err != nil {
		lgr.Error("Failed to open audit journal", "path", cfg.JournalPath, "error", err)
		return err
	}
	defer closeJournal()

	consumer, err := audit.NewConsumer(&audit.ConsumerConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.Topic,
		DLQTopic:      cfg.DLQTopic,
		ConsumerGroup: cfg.ConsumerGroup,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
	}, audit.NewWriterJournal(journalOut), store, lgr)
	if err != nil {
		lgr.Error("Failed to create Kafka consumer", "error", err)
		return err
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(ctx); err != nil {
			lgr.Error("Consumer error", "error", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(lgr), gin.Recovery())
	audit.NewHandler(store, cfg.ServiceName, lgr).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	consulClient, serviceID := registerWithConsul(cfg, lgr)

	lgr.Info("HTTP server started", "port", cfg.Port)
	serverErr := server.Serve(srv)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runErr := server.Wait(quit, serverErr)
	if runErr != nil {
		lgr.Error("HTTP server error", "error", runErr)
	}

	lgr.Info("Shutting down roster audit consumer...")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			lgr.Error("Failed to deregister from Consul", "error", err)
		}
	}

	cancel()
	<-consumerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("HTTP server forced to shutdown", "error", err)
	}

	lgr.Info("Roster audit consumer stopped")
	return runErr
}

// openJournal appends to path, or writes to stdout when path is empty
func openJournal(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func registerWithConsul(cfg *config.AuditConfig, lgr *slog.Logger) (*consul.Client, string) {
	if !cfg.ConsulEnabled() {
		return nil, ""
	}

	client, err := consul.NewClientWithToken(cfg.ConsulAddr, cfg.ConsulToken)
	if err != nil {
		lgr.Warn("Failed to create Consul client", "error", err)
		return nil, ""
	}

	svc := consul.NewServiceConfig(cfg.ServiceName, cfg.ServiceHost, cfg.Port)
	svc.Tags = []string{"audit", "roster", "kafka-consumer"}

	_ = client.Deregister(svc.ID)

	if err := client.Register(svc); err != nil {
		lgr.Warn("Failed to register with Consul", "error", err)
		return nil, ""
	}

	lgr.Info("Registered with Consul", "service_id", svc.ID)
	return client, svc.ID
}
