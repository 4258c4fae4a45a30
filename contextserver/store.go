package contextserver

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ctxbridge/ctxbridge/settings"
)

// Store is the shared registry of context server connections. Tools hold a
// ServerID and resolve the live connection through the store on every call,
// so servers can come and go independently of the tools that reference
// them. All methods are safe for concurrent use.
type Store struct {
	settings *settings.Store

	mu      sync.RWMutex
	servers map[ServerID]*Server
}

// NewStore creates a store backed by the given settings.
func NewStore(settingsStore *settings.Store) *Store {
	return &Store{
		settings: settingsStore,
		servers:  make(map[ServerID]*Server),
	}
}

// Settings returns the settings store backing this registry.
func (s *Store) Settings() *settings.Store {
	return s.settings
}

// Sync reconciles the store with settings. New context servers get
// unstarted Server entries, servers removed from settings are stopped and
// dropped, and servers whose configuration changed are stopped and
// recreated so the next Start picks up the new config.
func (s *Store) Sync() {
	configured := s.settings.Get().ContextServers

	s.mu.Lock()
	var stopped []*Server
	for id, srv := range s.servers {
		config, ok := configured[string(id)]
		if !ok || !reflect.DeepEqual(srv.Config(), config) {
			stopped = append(stopped, srv)
			delete(s.servers, id)
		}
	}
	for name, config := range configured {
		id := ServerID(name)
		if _, ok := s.servers[id]; !ok {
			s.servers[id] = NewServer(id, config)
		}
	}
	s.mu.Unlock()

	for _, srv := range stopped {
		srv.Stop()
	}
}

// Add registers a server with the store, replacing any existing server with
// the same ID.
func (s *Store) Add(srv *Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[srv.ID()] = srv
}

// Remove stops and drops the server with the given ID.
func (s *Store) Remove(id ServerID) {
	s.mu.Lock()
	srv, ok := s.servers[id]
	delete(s.servers, id)
	s.mu.Unlock()

	if ok {
		srv.Stop()
	}
}

// Get returns the server with the given ID regardless of its state.
func (s *Store) Get(id ServerID) (*Server, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	srv, ok := s.servers[id]
	return srv, ok
}

// GetRunningServer returns the server for id only when a connection attempt
// is live (starting or running). A stopped or unknown server resolves to
// not found; a starting server is returned but its Session is still nil.
func (s *Store) GetRunningServer(id ServerID) (*Server, bool) {
	s.mu.RLock()
	srv, ok := s.servers[id]
	s.mu.RUnlock()

	if !ok || srv.State() == StateStopped {
		return nil, false
	}
	return srv, true
}

// All returns every known server, ordered by ID.
func (s *Store) All() []*Server {
	s.mu.RLock()
	servers := make([]*Server, 0, len(s.servers))
	for _, srv := range s.servers {
		servers = append(servers, srv)
	}
	s.mu.RUnlock()

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].ID() < servers[j].ID()
	})
	return servers
}

// StartAll starts every known server concurrently and returns the first
// error encountered. Servers that are already running are left alone.
func (s *Store) StartAll(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, srv := range s.All() {
		group.Go(func() error {
			return srv.Start(ctx)
		})
	}
	return group.Wait()
}

// StopAll stops every known server.
func (s *Store) StopAll() {
	for _, srv := range s.All() {
		srv.Stop()
	}
}

// ConfirmationPolicy returns the confirmation policy configured for a
// server, or nil when none exists.
func (s *Store) ConfirmationPolicy(id ServerID) *settings.ConfirmationPolicy {
	return s.settings.ConfirmationPolicy(string(id))
}
