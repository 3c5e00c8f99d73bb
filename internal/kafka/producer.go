// Package kafka publishes roster change events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"mergington/internal/activities"
	"mergington/internal/metrics"
)

// client is the subset of *kafka.Producer used here
type client interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// Producer wraps a Kafka producer and publishes roster events
type Producer struct {
	producer client
	config   *Config
	logger   *slog.Logger
	done     chan struct{}
}

var _ activities.EventPublisher = (*Producer)(nil)

// NewProducer creates a new idempotent Kafka producer
func NewProducer(config *Config, logger *slog.Logger) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     strings.Join(config.GetBrokersList(), ","),
		"enable.idempotence":                    config.EnableIdempotence,
		"acks":                                  config.Acks,
		"max.in.flight.requests.per.connection": 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.Info("Kafka producer initialized",
		"brokers", config.Brokers,
		"topic", config.RosterEventsTopic,
		"idempotence", config.EnableIdempotence)

	return newProducer(p, config, logger), nil
}

func newProducer(c client, config *Config, logger *slog.Logger) *Producer {
	producer := &Producer{
		producer: c,
		config:   config,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go producer.handleDeliveryReports()

	return producer
}

// PublishRosterEvent enqueues event on the roster topic, keyed by activity
// name so that changes to one activity stay ordered. Delivery is reported
// asynchronously.
func (p *Producer) PublishRosterEvent(_ context.Context, event activities.RosterEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := p.config.RosterEventsTopic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.Activity),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		metrics.RecordEventPublished(metrics.OutcomeError)
		return fmt.Errorf("failed to produce message: %w", err)
	}

	p.logger.Debug("Roster event queued",
		"topic", topic,
		"type", event.Type,
		"activity", event.Activity,
		"size", len(payload))

	return nil
}

// handleDeliveryReports processes asynchronous delivery reports
func (p *Producer) handleDeliveryReports() {
	defer close(p.done)

	for e := range p.producer.Events() {
		ev, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if ev.TopicPartition.Error != nil {
			metrics.RecordEventPublished(metrics.OutcomeError)
			p.logger.Error("Delivery failed",
				"topic", topicName(ev),
				"error", ev.TopicPartition.Error)
			continue
		}
		metrics.RecordEventPublished(metrics.OutcomeSuccess)
		p.logger.Debug("Message delivered",
			"topic", topicName(ev),
			"partition", ev.TopicPartition.Partition,
			"offset", ev.TopicPartition.Offset)
	}
}

// Close flushes pending messages and closes the producer
func (p *Producer) Close() {
	p.logger.Info("Closing Kafka producer...")

	if remaining := p.producer.Flush(10000); remaining > 0 {
		p.logger.Error("Some messages were not delivered", "count", remaining)
	}

	p.producer.Close()
	<-p.done
	p.logger.Info("Kafka producer closed")
}

func topicName(m *kafka.Message) string {
	if m.TopicPartition.Topic == nil {
		return ""
	}
	return *m.TopicPartition.Topic
}
