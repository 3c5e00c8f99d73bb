package activities

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Activity describes one extracurricular activity and its roster
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	Category        string   `json:"category,omitempty"`
	CreatedDate     string   `json:"created_date,omitempty"`
}

// Validate checks a seeded descriptor
func (a Activity) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Description, validation.Required),
		validation.Field(&a.Schedule, validation.Required),
		validation.Field(&a.MaxParticipants, validation.Required, validation.Min(1)),
		validation.Field(&a.CreatedDate, validation.Date(time.DateOnly)),
		validation.Field(&a.Participants, validation.By(uniqueEmails)),
	)
}

// IsFull reports whether the roster has reached max participants
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

func (a Activity) clone() Activity {
	cp := a
	cp.Participants = make([]string, len(a.Participants))
	copy(cp.Participants, a.Participants)
	return cp
}

func (a Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

func uniqueEmails(value interface{}) error {
	emails, _ := value.([]string)
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e == "" {
			return fmt.Errorf("participant email cannot be empty")
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("duplicate participant %s", e)
		}
		seen[e] = struct{}{}
	}
	return nil
}

// Filter narrows a listing; zero value matches everything
type Filter struct {
	Category string `form:"category"`
	Query    string `form:"q"`
}

// IsZero reports whether the filter has no criteria
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Query == ""
}

// MessageResponse is the body returned by successful roster changes
type MessageResponse struct {
	Message string `json:"message"`
}

// RosterRequest carries the email query parameter of signup/unregister
type RosterRequest struct {
	Email string `form:"email" binding:"required"`
}
