package session

import "time"

// Session maps an opaque token to the staff member who logged in.
// Sessions never expire on their own; they live until logout.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
