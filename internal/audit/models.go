// Package audit consumes roster events from Kafka and appends each one, once,
// to an audit journal.
package audit

import (
	"time"

	"mergington/internal/activities"
)

// Entry is one line of the audit journal
type Entry struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	Activity    string    `json:"activity"`
	Email       string    `json:"email"`
	PerformedBy string    `json:"performed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// NewEntry stamps event with the time it was recorded
func NewEntry(event activities.RosterEvent, recordedAt time.Time) Entry {
	return Entry{
		EventID:     event.ID,
		Type:        event.Type,
		Activity:    event.Activity,
		Email:       event.Email,
		PerformedBy: event.PerformedBy,
		OccurredAt:  event.OccurredAt,
		RecordedAt:  recordedAt.UTC(),
	}
}

// ProcessedMetadata is stored against an event ID once it is journaled
type ProcessedMetadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	Activity    string    `json:"activity"`
	Type        string    `json:"type"`
}

// DeadLetter wraps an event that could not be journaled
type DeadLetter struct {
	RawValue      string    `json:"raw_value,omitempty"`
	EventID       string    `json:"event_id,omitempty"`
	Error         string    `json:"error"`
	FailedAt      time.Time `json:"failed_at"`
	ConsumerGroup string    `json:"consumer_group"`
}
