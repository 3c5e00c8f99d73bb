package activities

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mergington/internal/metrics"
)

// Service applies roster changes to the registry and reports them
type Service struct {
	registry  *Registry
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a new activities service. A nil publisher drops events.
func NewService(registry *Registry, publisher EventPublisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List returns the activities matching filter
func (s *Service) List(filter Filter) map[string]Activity {
	if filter.IsZero() {
		return s.registry.List()
	}
	return s.registry.Filter(filter)
}

// Categories returns the distinct activity categories
func (s *Service) Categories() []string {
	return s.registry.Categories()
}

// Exists reports whether the named activity exists
func (s *Service) Exists(name string) bool {
	return s.registry.Exists(name)
}

// Count returns the number of activities
func (s *Service) Count() int {
	return s.registry.Len()
}

// Signup adds email to the roster of name on behalf of actor
func (s *Service) Signup(ctx context.Context, name, email, actor string) error {
	err := s.registry.Signup(name, email)
	metrics.RecordRosterChange("signup", outcome(err))
	if err != nil {
		return err
	}

	s.logger.Info("Student signed up", "activity", name, "email", email, "performed_by", actor)
	s.publish(ctx, EventSignup, name, email, actor)
	return nil
}

// Unregister removes email from the roster of name on behalf of actor
func (s *Service) Unregister(ctx context.Context, name, email, actor string) error {
	err := s.registry.Unregister(name, email)
	metrics.RecordRosterChange("unregister", outcome(err))
	if err != nil {
		return err
	}

	s.logger.Info("Student unregistered", "activity", name, "email", email, "performed_by", actor)
	s.publish(ctx, EventUnregister, name, email, actor)
	return nil
}

// publish is best effort; the roster change has already been applied
func (s *Service) publish(ctx context.Context, eventType, name, email, actor string) {
	event := RosterEvent{
		ID:          s.newID(),
		Type:        eventType,
		Activity:    name,
		Email:       email,
		PerformedBy: actor,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.PublishRosterEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish roster event",
			"type", eventType,
			"activity", name,
			"error", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrActivityNotFound):
		return metrics.OutcomeNotFound
	case IsConflict(err):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
