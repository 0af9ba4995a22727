// Package storage keeps the terminal client's local state: the login
// session on disk and the interactive prompts.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionUser is the identity the server returned at login.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is what survives between client runs.
type Session struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

// SessionStore persists a single Session as a JSON file readable only by
// the owner. It is safe for concurrent use.
type SessionStore struct {
	path    string
	mu      sync.Mutex
	current *Session
}

// NewSessionStore returns a store backed by path. Call Load to read it.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the session file. A missing file means logged out.
func (s *SessionStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.current = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if sess.Token == "" {
		s.current = nil
		return nil
	}
	s.current = &sess
	return nil
}

// Save replaces the stored session.
func (s *SessionStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.current = &sess
	return nil
}

// Clear forgets the session in memory and on disk.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Current returns a copy of the session, or nil when logged out.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token, or "" when logged out.
func (s *SessionStore) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}
