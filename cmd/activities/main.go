package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"mergington/internal/activities"
	"mergington/internal/auth"
	"mergington/internal/config"
	"mergington/internal/consul"
	"mergington/internal/credentials"
	kafkapkg "mergington/internal/kafka"
	"mergington/internal/logger"
	"mergington/internal/server"
	"mergington/internal/session"
	"mergington/internal/storage"
)

func main() {
	cfg := config.Load()

	lgr := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
	logger.SetDefault(lgr)

	if err := cfg.Validate(); err != nil {
		lgr.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	lgr.Info("Starting activities service",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"credentials_source", cfg.CredentialsSource,
		"activities_source", cfg.ActivitiesSource)

	opener, err := newSourceOpener(cfg, lgr)
	if err != nil {
		lgr.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// Seeds are read once; a bad source stops the process before it serves
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	creds, err := credentials.Load(ctx, cfg.CredentialsSource, opener)
	if err != nil {
		cancel()
		lgr.Error("Failed to load credentials", "error", err)
		os.Exit(1)
	}
	seed, err := activities.LoadSeed(ctx, cfg.ActivitiesSource, opener)
	cancel()
	if err != nil {
		lgr.Error("Failed to load activities", "error", err)
		os.Exit(1)
	}
	lgr.Info("Seed data loaded", "teachers", creds.Len(), "activities", len(seed))

	sessions := session.NewManager(session.NewMemoryStore())
	authService := auth.NewService(creds, sessions, lgr)

	var publisher activities.EventPublisher = activities.NopPublisher{}
	var producer *kafkapkg.Producer
	if cfg.KafkaEnabled() {
		kafkaConfig, err := kafkapkg.NewConfig(cfg.KafkaBrokers, cfg.RosterEventsTopic)
		if err != nil {
			lgr.Warn("Invalid Kafka config, roster events disabled", "error", err)
		} else if producer, err = kafkapkg.NewProducer(kafkaConfig, lgr); err != nil {
			lgr.Warn("Failed to create Kafka producer, roster events disabled", "error", err)
		} else {
			publisher = producer
		}
	} else {
		lgr.Info("Kafka disabled, roster events are not published")
	}

	registry := activities.NewRegistry(seed, activities.WithCapacityEnforcement(cfg.EnforceCapacity))
	activitiesService := activities.NewService(registry, publisher, lgr)

	apiServer := server.NewServer(cfg, server.Deps{
		Auth:       authService,
		Activities: activitiesService,
		Sessions:   sessions,
		Logger:     lgr,
	})

	consulClient, serviceID := registerWithConsul(cfg, lgr)

	lgr.Info("Activities service listening", "port", cfg.Port)
	serverErr := server.Serve(apiServer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	if err := server.Wait(quit, serverErr); err != nil {
		lgr.Error("HTTP server error", "error", err)
		exitCode = 1
	}

	lgr.Info("Shutting down activities service")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			lgr.Warn("Failed to deregister from Consul", "error", err)
		} else {
			lgr.Info("Deregistered from Consul", "service_id", serviceID)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		lgr.Error("Server forced to shutdown", "error", err)
	}
	shutdownCancel()

	if producer != nil {
		producer.Close()
	}

	lgr.Info("Activities service stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newSourceOpener only connects to object storage when a seed lives there
func newSourceOpener(cfg *config.Config, lgr *slog.Logger) (storage.Opener, error) {
	if !cfg.NeedsS3() {
		return storage.NewSourceOpener(nil), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objects, err := storage.New(ctx, storage.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	if err := storage.CheckBuckets(ctx, objects, cfg.CredentialsSource, cfg.ActivitiesSource); err != nil {
		return nil, err
	}

	lgr.Info("Object storage initialized", "endpoint", cfg.S3.Endpoint)
	return storage.NewSourceOpener(objects), nil
}

// registerWithConsul is best effort; the service runs fine without discovery
func registerWithConsul(cfg *config.Config, lgr *slog.Logger) (*consul.Client, string) {
	if !cfg.ConsulEnabled() {
		return nil, ""
	}

	client, err := consul.NewClientWithToken(cfg.ConsulAddr, cfg.ConsulToken)
	if err != nil {
		lgr.Warn("Failed to create Consul client", "error", err)
		return nil, ""
	}

	svc := consul.NewServiceConfig(cfg.ServiceName, cfg.ServiceHost, cfg.Port)

	// Clear out a registration left behind by a crashed instance
	_ = client.Deregister(svc.ID)

	if err := client.Register(svc); err != nil {
		lgr.Warn("Failed to register with Consul", "error", err)
		return nil, ""
	}

	lgr.Info("Registered with Consul", "service_id", svc.ID)
	return client, svc.ID
}
