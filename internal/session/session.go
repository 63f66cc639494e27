// Package session holds authentication tokens and the input kill switch.
package session

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Policy controls how a second controller connection is handled.
type Policy int

const (
	// PolicyReject rejects new connections when one is active.
	PolicyReject Policy = iota
	// PolicyReplace closes the active connection when a new one arrives.
	PolicyReplace
)

// ParsePolicy parses "reject" or "replace".
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reject":
		return PolicyReject, nil
	case "", "replace":
		return PolicyReplace, nil
	default:
		return PolicyReject, fmt.Errorf("unknown controller policy %q", raw)
	}
}

// String returns the policy name.
func (p Policy) String() string {
	if p == PolicyReplace {
		return "replace"
	}
	return "reject"
}

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	InputEnabled bool `json:"inputEnabled"`
	Sessions     int  `json:"sessions"`
}

// Session holds runtime state shared by every client.
type Session struct {
	mu           sync.RWMutex
	password     string
	tokens       map[string]struct{}
	inputEnabled bool
}

// New returns an initialized session with the given password.
func New(password string) *Session {
	return &Session{
		password:     password,
		tokens:       make(map[string]struct{}),
		inputEnabled: true,
	}
}

// Login validates the password and issues a new token.
func (s *Session) Login(pass string) (string, bool) {
	if pass == "" || subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) != 1 {
		return "", false
	}
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return token, true
}

// Logout revokes a token.
func (s *Session) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Valid reports whether token was issued and not revoked.
func (s *Session) Valid(token string) bool {
	if _, err := uuid.Parse(token); err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		InputEnabled: s.inputEnabled,
		Sessions:     len(s.tokens),
	}
}
