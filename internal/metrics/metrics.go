// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters below.
const (
	OutcomeSuccess      = "success"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeError        = "error"

	OutcomeDuplicate    = "duplicate"
	OutcomeDeadLettered = "dead_lettered"
)

var (
	loginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activities_service",
		Subsystem: "auth",
		Name:      "active_sessions",
		Help:      "Number of session tokens currently issued.",
	})

	rosterChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "roster",
		Name:      "changes_total",
		Help:      "Signup and unregister requests by action and outcome.",
	}, []string{"action", "outcome"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Roster events handed to the broker by outcome.",
	}, []string{"outcome"})

	auditEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "audit",
		Name:      "events_total",
		Help:      "Roster events consumed by the audit journal by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(loginAttempts, activeSessions, rosterChanges, eventsPublished, auditEvents)
}

// RecordLogin counts a login attempt.
func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// SetActiveSessions publishes the current session count.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RecordRosterChange counts a signup or unregister request.
func RecordRosterChange(action, outcome string) {
	rosterChanges.WithLabelValues(action, outcome).Inc()
}

// RecordEventPublished counts a roster event publish attempt.
func RecordEventPublished(outcome string) {
	eventsPublished.WithLabelValues(outcome).Inc()
}

// RecordAuditEvent counts a consumed roster event
func RecordAuditEvent(outcome string) {
	auditEvents.WithLabelValues(outcome).Inc()
}
