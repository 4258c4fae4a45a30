package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Store holds the current settings snapshot and hands it out to concurrent
// readers. Writers replace the snapshot wholesale; readers never see a
// partially updated view.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

// NewStore creates a store seeded with the given settings.
func NewStore(s Settings) *Store {
	return &Store{current: s}
}

// Get returns the current settings snapshot. The returned value shares maps
// with the store; callers must treat it as read-only.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new settings snapshot.
func (s *Store) Replace(next Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}

// AlwaysAllowToolActions reports the global confirmation override.
func (s *Store) AlwaysAllowToolActions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AlwaysAllowToolActions
}

// SetAlwaysAllowToolActions flips the global confirmation override.
func (s *Store) SetAlwaysAllowToolActions(allow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AlwaysAllowToolActions = allow
}

// ServerConfig returns the configuration for one server, if present.
func (s *Store) ServerConfig(serverID string) (ServerConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	config, ok := s.current.ContextServers[serverID]
	return config, ok
}

// ConfirmationPolicy returns the confirmation policy configured for one
// server, or nil when the server has no policy record at all.
func (s *Store) ConfirmationPolicy(serverID string) *ConfirmationPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	config, ok := s.current.ContextServers[serverID]
	if !ok {
		return nil
	}
	return config.Confirmation
}

// Save writes the current snapshot to path as JSON, taking an exclusive
// file lock so concurrent processes don't interleave writes.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	fileLock := flock.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire settings lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire settings lock within 10 seconds")
	}
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(s.Get(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return nil
}
