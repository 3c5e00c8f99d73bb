package activities

import "errors"

var (
	// ErrActivityNotFound is returned when no activity has the given name
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp is returned when the email is already on the roster
	ErrAlreadySignedUp = errors.New("student is already signed up")
	// ErrNotSignedUp is returned when unregistering an email not on the roster
	ErrNotSignedUp = errors.New("student is not signed up for this activity")
	// ErrActivityFull is returned by signup when capacity is enforced and reached
	ErrActivityFull = errors.New("activity is full")
	// ErrStartup marks an activities seed that is missing or malformed
	ErrStartup = errors.New("activities seed unavailable")
)

// IsConflict reports whether err is one of the roster conflict errors
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadySignedUp) ||
		errors.Is(err, ErrNotSignedUp) ||
		errors.Is(err, ErrActivityFull)
}
