package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"mergington/internal/activities"
	"mergington/internal/metrics"
)

// messageConsumer is the subset of *kafka.Consumer used here
type messageConsumer interface {
	Subscribe(topic string, rebalanceCb kafka.RebalanceCb) error
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Seek(partition kafka.TopicPartition, ignoredTimeoutMs int) error
	Close() error
}

// messageProducer is the subset of *kafka.Producer used for the DLQ
type messageProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Brokers       string
	Topic         string
	DLQTopic      string
	ConsumerGroup string
	MaxRetries    int
	RetryBackoff  time.Duration
}

// Consumer reads roster events and journals each event ID once
type Consumer struct {
	consumer         messageConsumer
	dlqProducer      messageProducer
	journal          Journal
	idempotencyStore IdempotencyStore
	config           *ConsumerConfig
	logger           *slog.Logger
	now              func() time.Time
}

// NewConsumer creates a new Kafka consumer with a dead letter producer
func NewConsumer(
	config *ConsumerConfig,
	journal Journal,
	idempotencyStore IdempotencyStore,
	logger *slog.Logger,
) (*Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  config.Brokers,
		"group.id":           config.ConsumerGroup,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	dlqProducer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   config.Brokers,
		"go.delivery.reports": false,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create DLQ producer: %w", err)
	}

	logger.Info("Kafka consumer initialized",
		"brokers", config.Brokers,
		"topic", config.Topic,
		"group", config.ConsumerGroup)

	return newConsumer(c, dlqProducer, config, journal, idempotencyStore, logger), nil
}

func newConsumer(
	c messageConsumer,
	dlq messageProducer,
	config *ConsumerConfig,
	journal Journal,
	idempotencyStore IdempotencyStore,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		consumer:         c,
		dlqProducer:      dlq,
		journal:          journal,
		idempotencyStore: idempotencyStore,
		config:           config,
		logger:           logger,
		now:              time.Now,
	}
}

// Start consumes until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.consumer.Subscribe(c.config.Topic, nil); err != nil {
		return fmt.Errorf("failed to subscribe to topic: %w", err)
	}

	c.logger.Info("Starting to consume roster events", "topic", c.config.Topic)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Consumer shutting down...")
			return nil
		default:
		}

		msg, err := c.consumer.ReadMessage(time.Second)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
				continue
			}
			c.logger.Error("Error reading message", "error", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage journals a single message. The offset is committed unless
// the idempotency store is unreachable, in which case the partition is
// rewound so the same message is read again.
func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) {
	var event activities.RosterEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to parse roster event", "error", err, "raw_value", string(msg.Value))
		c.sendToDLQ(DeadLetter{RawValue: string(msg.Value), Error: err.Error()})
		c.commitMessage(msg)
		return
	}

	if event.ID == "" {
		c.logger.Error("Roster event missing event_id", "activity", event.Activity, "type", event.Type)
		c.sendToDLQ(DeadLetter{RawValue: string(msg.Value), Error: "missing event_id"})
		c.commitMessage(msg)
		return
	}

	processed, err := c.idempotencyStore.IsProcessed(ctx, event.ID)
	if err != nil {
		c.logger.Error("Failed to check idempotency", "event_id", event.ID, "error", err)
		metrics.RecordAuditEvent(metrics.OutcomeError)
		c.rewind(ctx, msg)
		return
	}
	if processed {
		c.logger.Warn("Duplicate roster event, skipping", "event_id", event.ID, "activity", event.Activity)
		metrics.RecordAuditEvent(metrics.OutcomeDuplicate)
		c.commitMessage(msg)
		return
	}

	if err := c.appendWithRetry(ctx, event); err != nil {
		c.logger.Error("Failed to journal roster event after retries", "event_id", event.ID, "error", err)
		c.sendToDLQ(DeadLetter{RawValue: string(msg.Value), EventID: event.ID, Error: err.Error()})
		c.commitMessage(msg)
		return
	}

	if _, err := c.idempotencyStore.MarkAsProcessed(ctx, event); err != nil {
		c.logger.Error("Failed to mark roster event as processed", "event_id", event.ID, "error", err)
		metrics.RecordAuditEvent(metrics.OutcomeError)
		c.rewind(ctx, msg)
		return
	}

	c.commitMessage(msg)
	metrics.RecordAuditEvent(metrics.OutcomeSuccess)

	c.logger.Info("Roster event journaled",
		"event_id", event.ID,
		"type", event.Type,
		"activity", event.Activity,
		"performed_by", event.PerformedBy)
}

// appendWithRetry backs off linearly between attempts
func (c *Consumer) appendWithRetry(ctx context.Context, event activities.RosterEvent) error {
	maxRetries := c.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.journal.Append(ctx, NewEntry(event, c.now()))
		if lastErr == nil {
			return nil
		}

		c.logger.Warn("Failed to journal roster event, will retry",
			"event_id", event.ID,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", lastErr)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.config.RetryBackoff):
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// rewind seeks msg's partition back to msg so the next read returns it again,
// then waits RetryBackoff before the redelivery.
func (c *Consumer) rewind(ctx context.Context, msg *kafka.Message) {
	if err := c.consumer.Seek(msg.TopicPartition, 0); err != nil {
		c.logger.Error("Failed to rewind partition",
			"partition", msg.TopicPartition.Partition,
			"offset", msg.TopicPartition.Offset,
			"error", err)
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(c.config.RetryBackoff):
	}
}

// sendToDLQ forwards a failed message to the dead letter topic
func (c *Consumer) sendToDLQ(letter DeadLetter) {
	letter.FailedAt = c.now().UTC()
	letter.ConsumerGroup = c.config.ConsumerGroup

	payload, err := json.Marshal(letter)
	if err != nil {
		c.logger.Error("Failed to marshal dead letter", "event_id", letter.EventID, "error", err)
		return
	}

	topic := c.config.DLQTopic
	err = c.dlqProducer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, nil)
	if err != nil {
		c.logger.Error("Failed to send to DLQ", "event_id", letter.EventID, "error", err)
		return
	}

	metrics.RecordAuditEvent(metrics.OutcomeDeadLettered)
	c.logger.Warn("Roster event sent to DLQ", "event_id", letter.EventID, "dlq_topic", topic)
}

// commitMessage commits the Kafka offset
func (c *Consumer) commitMessage(msg *kafka.Message) {
	if _, err := c.consumer.CommitMessage(msg); err != nil {
		c.logger.Error("Failed to commit offset",
			"partition", msg.TopicPartition.Partition,
			"offset", msg.TopicPartition.Offset,
			"error", err)
	}
}

// Close flushes the dead letter producer and closes the consumer
func (c *Consumer) Close() {
	c.logger.Info("Closing Kafka consumer...")
	c.dlqProducer.Flush(5000)
	c.dlqProducer.Close()
	if err := c.consumer.Close(); err != nil {
		c.logger.Error("Failed to close consumer", "error", err)
	}
	c.logger.Info("Kafka consumer closed")
}
