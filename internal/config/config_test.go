package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.CredentialsSource != "data/teachers.json" {
		t.Errorf("Expected default credentials source, got %q", cfg.CredentialsSource)
	}
	if cfg.ActivitiesSource != "" {
		t.Errorf("Expected built-in activities by default, got %q", cfg.ActivitiesSource)
	}
	if cfg.EnforceCapacity {
		t.Error("Expected capacity enforcement to be off by default")
	}
	if cfg.KafkaEnabled() {
		t.Error("Expected Kafka to be disabled without brokers")
	}
	if cfg.ConsulEnabled() {
		t.Error("Expected Consul to be disabled without an address")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENFORCE_CAPACITY", "true")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("KAFKA_BROKERS", "broker:9092")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if !cfg.EnforceCapacity {
		t.Error("Expected capacity enforcement to be on")
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("Expected read timeout 3s, got %s", cfg.ReadTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Errorf("Unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.KafkaEnabled() {
		t.Error("Expected Kafka to be enabled with brokers set")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ENFORCE_CAPACITY", "maybe")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected fallback port 8080, got %d", cfg.Port)
	}
	if cfg.EnforceCapacity {
		t.Error("Expected fallback to false")
	}
}

func TestValidate_S3SourceRequiresCredentials(t *testing.T) {
	t.Setenv("CREDENTIALS_SOURCE", "s3://seeds/teachers.json")

	cfg := Load()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, key := range []string{"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected %s in error, got %v", key, err)
		}
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Load()
	cfg.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for out of range port")
	}
}
