// Package session persists the logged-in user's email between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"jot/internal/logging"
	"jot/internal/service"
)

// ErrNoSession is returned when no user is logged in.
var ErrNoSession = errors.New("not logged in")

// Session is the authenticated user. Email is the join key for every task
// query.
type Session struct {
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name,omitempty"`
	Token       *oauth2.Token `json:"token,omitempty"`
}

// FromIdentity builds a session from an identity provider result.
func FromIdentity(id service.Identity) Session {
	s := Session{
		Email:       id.Email,
		DisplayName: id.DisplayName,
	}
	if id.IDToken != "" {
		s.Token = &oauth2.Token{
			AccessToken:  id.IDToken,
			TokenType:    "Bearer",
			RefreshToken: id.RefreshToken,
			Expiry:       id.Expiry,
		}
	}
	return s
}

// TokenValid reports whether the stored provider token is present and not
// expired.
func (s Session) TokenValid() bool {
	return s.Token != nil && s.Token.Valid()
}

// Source provides the current session.
type Source interface {
	// Load returns the current session or ErrNoSession.
	Load(ctx context.Context) (Session, error)
}

// Store is a Source that can also be written.
type Store interface {
	Source

	// Save replaces the stored session.
	Save(ctx context.Context, s Session) error

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// FileStore keeps the session in a single JSON file with mode 0600.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created lazily.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logging.OrNop(log)}
}

// Path returns the session file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("invalid session file %s: %w", f.path, err)
	}
	if strings.TrimSpace(s.Email) == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s Session) error {
	if strings.TrimSpace(s.Email) == "" {
		return errors.New("session email required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := writeAtomic(f.path, data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	f.log.Debug("session saved", zap.String("email", s.Email), zap.String("path", f.path))
	return nil
}

// writeAtomic writes data to a unique temp file next to path and renames it
// into place. Concurrent writers each use their own temp file.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "session-*.json")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	f.log.Debug("session cleared", zap.String("path", f.path))
	return nil
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.Mutex
	current *Session

	// Loads counts calls to Load.
	Loads int
}

// NewMemoryStore returns a store holding s, or an empty store if s is nil.
func NewMemoryStore(s *Session) *MemoryStore {
	m := &MemoryStore{}
	if s != nil {
		c := *s
		m.current = &c
	}
	return m
}

func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.current == nil {
		return Session{}, ErrNoSession
	}
	return *m.current, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &s
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}
