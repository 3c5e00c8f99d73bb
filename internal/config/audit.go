package config

import (
	"fmt"
	"strings"
	"time"
)

// AuditConfig holds runtime configuration for the roster audit consumer
type AuditConfig struct {
	Port        int
	ServiceName string
	ServiceHost string
	LogLevel    string
	LogFormat   string

	KafkaBrokers  string
	Topic         string
	DLQTopic      string
	ConsumerGroup string
	MaxRetries    int
	RetryBackoff  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DedupTTL      time.Duration

	JournalPath string

	ConsulAddr  string
	ConsulToken string
}

// LoadAudit reads the audit consumer configuration from the environment
func LoadAudit() *AuditConfig {
	return &AuditConfig{
		Port:        getEnvInt("AUDIT_PORT", 8090),
		ServiceName: getEnv("AUDIT_SERVICE_NAME", "roster-audit"),
		ServiceHost: getEnv("SERVICE_HOST", "localhost"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		Topic:         getEnv("KAFKA_TOPIC_ROSTER_EVENTS", "activity-roster-events"),
		DLQTopic:      getEnv("KAFKA_TOPIC_ROSTER_DLQ", "activity-roster-events-dlq"),
		ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "roster-audit-group"),
		MaxRetries:    getEnvInt("AUDIT_MAX_RETRIES", 3),
		RetryBackoff:  getEnvDuration("AUDIT_RETRY_BACKOFF", time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DedupTTL:      getEnvDuration("AUDIT_DEDUP_TTL", 24*time.Hour),

		JournalPath: getEnv("AUDIT_JOURNAL_PATH", ""),

		ConsulAddr:  getEnv("CONSUL_HTTP_ADDR", ""),
		ConsulToken: getEnv("CONSUL_HTTP_TOKEN", ""),
	}
}

// RedisEnabled reports whether deduplication records live in Redis
func (c *AuditConfig) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// ConsulEnabled reports whether the consumer should register with Consul
func (c *AuditConfig) ConsulEnabled() bool {
	return c.ConsulAddr != ""
}

// Validate reports every invalid or missing setting in a single error
func (c *AuditConfig) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("AUDIT_PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		problems = append(problems, "KAFKA_BROKERS is required")
	}
	if c.Topic == "" || c.DLQTopic == "" {
		problems = append(problems, "KAFKA_TOPIC_ROSTER_EVENTS and KAFKA_TOPIC_ROSTER_DLQ are required")
	}
	if c.Topic != "" && c.Topic == c.DLQTopic {
		problems = append(problems, "dead letter topic must differ from the roster topic")
	}
	if c.ConsumerGroup == "" {
		problems = append(problems, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.MaxRetries < 1 {
		problems = append(problems, fmt.Sprintf("AUDIT_MAX_RETRIES must be at least 1, got %d", c.MaxRetries))
	}
	if c.DedupTTL <= 0 {
		problems = append(problems, "AUDIT_DEDUP_TTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid audit configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
