package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoSession is returned by LoadSession when nothing has been saved
var ErrNoSession = errors.New("no saved session")

// Session holds the bearer token from a login. It is passed explicitly to
// every call that needs authentication.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`

	now func() time.Time
}

// Valid reports whether s carries a token that has not expired
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && !s.Expired()
}

// Expired reports whether the token lifetime has passed
func (s *Session) Expired() bool {
	if s == nil {
		return true
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return !now().Before(s.ExpiresAt)
}

// Clear drops the token. Safe on a nil session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Token = ""
	s.ExpiresAt = time.Time{}
}

// DefaultSessionPath is the session file under the user config directory
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "pheafer", "session.json"), nil
}

// SaveSession writes s to path, readable only by the current user
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession reads a saved session. Expired sessions are removed and
// reported as ErrNoSession.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if !s.Valid() {
		_ = RemoveSession(path)
		return nil, ErrNoSession
	}
	return &s, nil
}

// RemoveSession deletes the session file if present
func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
