// Package activities owns the activity registry and the roster endpoints.
package activities

import (
	"sort"
	"strings"
	"sync"
)

// Registry is the process-lifetime set of activities. Every roster mutation
// runs its check and write under one lock.
type Registry struct {
	mu              sync.RWMutex
	activities      map[string]*Activity
	enforceCapacity bool
}

// Option configures a Registry
type Option func(*Registry)

// WithCapacityEnforcement makes Signup reject full activities
func WithCapacityEnforcement(enabled bool) Option {
	return func(r *Registry) {
		r.enforceCapacity = enabled
	}
}

// NewRegistry creates a registry seeded with a copy of seed
func NewRegistry(seed map[string]Activity, opts ...Option) *Registry {
	r := &Registry{
		activities: make(map[string]*Activity, len(seed)),
	}
	for name, a := range seed {
		cp := a.clone()
		r.activities[name] = &cp
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns a deep copy of every activity keyed by name
func (r *Registry) List() map[string]Activity {
	return r.Filter(Filter{})
}

// Filter returns a deep copy of the activities matching f
func (r *Registry) Filter(f Filter) map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make(map[string]Activity, len(r.activities))
	for name, a := range r.activities {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if query != "" && !matches(name, a, query) {
			continue
		}
		out[name] = a.clone()
	}
	return out
}

func matches(name string, a *Activity, query string) bool {
	text := strings.ToLower(strings.Join([]string{name, a.Description, a.Schedule, a.Category}, " "))
	return strings.Contains(text, query)
}

// Exists reports whether an activity is registered under name
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.activities[name]
	return ok
}

// Categories returns the distinct non-empty categories in sorted order
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, a := range r.activities {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; !ok {
			seen[a.Category] = struct{}{}
			categories = append(categories, a.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// Len returns the number of activities
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.activities)
}

// Signup appends email to the named activity's roster
func (r *Registry) Signup(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	if a.indexOf(email) >= 0 {
		return ErrAlreadySignedUp
	}
	if r.enforceCapacity && a.IsFull() {
		return ErrActivityFull
	}

	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the named activity's roster, keeping the
// order of the remaining participants
func (r *Registry) Unregister(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	i := a.indexOf(email)
	if i < 0 {
		return ErrNotSignedUp
	}

	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return nil
}
