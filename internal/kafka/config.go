package kafka

import (
	"fmt"
	"strings"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers           string
	RosterEventsTopic string
	EnableIdempotence bool
	Acks              string
}

// NewConfig builds a producer config; brokers is a comma separated list
func NewConfig(brokers, rosterEventsTopic string) (*Config, error) {
	if strings.TrimSpace(brokers) == "" {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if rosterEventsTopic == "" {
		rosterEventsTopic = "activity-roster-events"
	}

	return &Config{
		Brokers:           brokers,
		RosterEventsTopic: rosterEventsTopic,
		EnableIdempotence: true,
		Acks:              "all",
	}, nil
}

// GetBrokersList returns brokers as a slice
func (c *Config) GetBrokersList() []string {
	parts := strings.Split(c.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
