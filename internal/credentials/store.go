// Package credentials loads the fixed set of staff logins the service accepts.
// Passwords are kept in plaintext; hashing is intentionally out of scope.
package credentials

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"mergington/internal/storage"
)

// ErrStartup marks a credentials source that is missing or malformed
var ErrStartup = errors.New("credentials unavailable")

// Credential is a single username/password pair
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are present
func (c Credential) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

type document struct {
	Teachers []Credential `json:"teachers"`
}

// Store is an immutable set of credentials
type Store struct {
	entries []Credential
}

// NewStore builds a store from already loaded credentials
func NewStore(entries []Credential) *Store {
	cp := make([]Credential, len(entries))
	copy(cp, entries)
	return &Store{entries: cp}
}

// Load reads {"teachers": [...]} from source. Any failure wraps ErrStartup.
func Load(ctx context.Context, source string, opener storage.Opener) (*Store, error) {
	rc, err := opener.Open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartup, err)
	}
	defer rc.Close()

	var doc document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStartup, source, err)
	}
	if doc.Teachers == nil {
		return nil, fmt.Errorf("%w: %s has no teachers list", ErrStartup, source)
	}

	for i, c := range doc.Teachers {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s teacher #%d: %v", ErrStartup, source, i, err)
		}
	}

	return NewStore(doc.Teachers), nil
}

// Verify reports whether username/password is one of the loaded pairs
func (s *Store) Verify(username, password string) bool {
	ok := false
	for _, c := range s.entries {
		userMatch := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
		if userMatch && passMatch {
			ok = true
		}
	}
	return ok
}

// Len returns the number of loaded credentials
func (s *Store) Len() int {
	return len(s.entries)
}
