package config

import (
	"fmt"
	"strings"
)

// Validate reports every invalid or missing setting in a single error
func (c *Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.CredentialsSource) == "" {
		problems = append(problems, "CREDENTIALS_SOURCE is required")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}

	if c.NeedsS3() {
		var missing []string
		if c.S3.Endpoint == "" {
			missing = append(missing, "S3_ENDPOINT")
		}
		if c.S3.AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if c.S3.SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("s3:// seed sources require: %s", strings.Join(missing, ", ")))
		}
	}

	if c.KafkaEnabled() && strings.TrimSpace(c.RosterEventsTopic) == "" {
		problems = append(problems, "KAFKA_TOPIC_ROSTER_EVENTS must not be empty when Kafka is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
