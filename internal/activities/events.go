package activities

import (
	"context"
	"time"
)

// Roster event types
const (
	EventSignup     = "activity.signup"
	EventUnregister = "activity.unregister"
)

// RosterEvent records a successful roster change. ID is a UUID that lets
// consumers drop redelivered copies.
type RosterEvent struct {
	ID          string    `json:"event_id"`
	Type        string    `json:"type"`
	Activity    string    `json:"activity"`
	Email       string    `json:"email"`
	PerformedBy string    `json:"performed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher delivers roster events to downstream consumers
type EventPublisher interface {
	PublishRosterEvent(ctx context.Context, event RosterEvent) error
}

// NopPublisher drops every event
type NopPublisher struct{}

// PublishRosterEvent implements EventPublisher
func (NopPublisher) PublishRosterEvent(context.Context, RosterEvent) error { return nil }
