// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the activities service
type Config struct {
	Port        int
	AppEnv      string
	ServiceName string
	ServiceHost string
	LogLevel    string
	LogFormat   string

	StaticDir          string
	CredentialsSource  string
	ActivitiesSource   string
	EnforceCapacity    bool
	CORSAllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	S3 S3Config

	KafkaBrokers      string
	EnableKafka       bool
	RosterEventsTopic string

	ConsulAddr  string
	ConsulToken string
}

// S3Config describes the S3-compatible endpoint used for s3:// seed sources
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Load reads the configuration from the environment, applying local defaults
func Load() *Config {
	return &Config{
		Port:        getEnvInt("PORT", 8080),
		AppEnv:      getEnv("APP_ENV", "development"),
		ServiceName: getEnv("SERVICE_NAME", "activities-service"),
		ServiceHost: getEnv("SERVICE_HOST", "localhost"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		StaticDir:          getEnv("STATIC_DIR", "static"),
		CredentialsSource:  getEnv("CREDENTIALS_SOURCE", "data/teachers.json"),
		ActivitiesSource:   getEnv("ACTIVITIES_SOURCE", ""),
		EnforceCapacity:    getEnvBool("ENFORCE_CAPACITY", false),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),

		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			UseSSL:    getEnvBool("S3_USE_SSL", false),
		},

		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		EnableKafka:       getEnvBool("ENABLE_KAFKA", true),
		RosterEventsTopic: getEnv("KAFKA_TOPIC_ROSTER_EVENTS", "activity-roster-events"),

		ConsulAddr:  getEnv("CONSUL_HTTP_ADDR", ""),
		ConsulToken: getEnv("CONSUL_HTTP_TOKEN", ""),
	}
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// KafkaEnabled reports whether roster events should be published
func (c *Config) KafkaEnabled() bool {
	return c.EnableKafka && c.KafkaBrokers != ""
}

// ConsulEnabled reports whether the service should register with Consul
func (c *Config) ConsulEnabled() bool {
	return c.ConsulAddr != ""
}

// NeedsS3 reports whether any seed source is an s3:// URI
func (c *Config) NeedsS3() bool {
	return isS3(c.CredentialsSource) || isS3(c.ActivitiesSource)
}

func isS3(source string) bool {
	return strings.HasPrefix(source, "s3://")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
