package contextserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ctxbridge/ctxbridge/settings"
)

// ServerID identifies one configured context server.
type ServerID string

// State is the lifecycle state of a server connection.
type State int

const (
	// StateStopped means no connection attempt is in progress.
	StateStopped State = iota
	// StateStarting means the transport is up but the protocol handshake
	// has not completed yet.
	StateStarting
	// StateRunning means the handshake completed and the session is live.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return "stopped"
	}
}

// Server wraps the connection to one context server process. The zero state
// is stopped; Start connects and completes the MCP handshake. A Server may
// be started, stopped, and started again.
type Server struct {
	id     ServerID
	config settings.ServerConfig

	mu      sync.RWMutex
	state   State
	client  *mcp.Client
	session *mcp.ClientSession
}

// NewServer creates an unstarted server for the given configuration.
func NewServer(id ServerID, config settings.ServerConfig) *Server {
	return &Server{id: id, config: config}
}

// ID returns the server identifier.
func (s *Server) ID() ServerID { return s.id }

// Config returns the configuration this server was created from.
func (s *Server) Config() settings.ServerConfig { return s.config }

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns the live client session, or nil until the handshake has
// completed. Callers must treat nil as "not initialized", not as a fault.
func (s *Server) Session() *mcp.ClientSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Start connects to the server and completes the MCP handshake. It is a
// no-op when the server is already starting or running.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStarting
	s.mu.Unlock()

	transport, err := buildTransport(&s.config)
	if err != nil {
		s.reset()
		return fmt.Errorf("server %s: %w", s.id, err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "ctxbridge",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		s.reset()
		return fmt.Errorf("failed to connect to server %s: %w", s.id, err)
	}

	s.mu.Lock()
	s.client = client
	s.session = session
	s.state = StateRunning
	s.mu.Unlock()

	log.Printf("context server %s running", s.id)
	return nil
}

// Stop closes the session if one is live and returns the server to the
// stopped state.
func (s *Server) Stop() error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.client = nil
	s.state = StateStopped
	s.mu.Unlock()

	if session != nil {
		return session.Close()
	}
	return nil
}

func (s *Server) reset() {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
}

// buildTransport constructs the MCP transport for a server configuration.
func buildTransport(config *settings.ServerConfig) (mcp.Transport, error) {
	// Default 30s timeout for remote transports
	timeout := 30 * time.Second
	if config.Timeout != "" {
		if t, err := time.ParseDuration(config.Timeout); err == nil {
			timeout = t
		}
	}

	switch config.Transport {
	case "sse":
		if config.URL == "" {
			return nil, fmt.Errorf("sse transport requires a url")
		}
		log.Printf("connecting via SSE: %s", config.URL)
		return &mcp.SSEClientTransport{
			Endpoint:   config.URL,
			HTTPClient: httpClientWithTimeout(config.Headers, timeout),
		}, nil

	case "streamable":
		if config.URL == "" {
			return nil, fmt.Errorf("streamable transport requires a url")
		}
		log.Printf("connecting via streamable HTTP: %s", config.URL)
		return &mcp.StreamableClientTransport{
			Endpoint:   config.URL,
			HTTPClient: httpClientWithTimeout(config.Headers, timeout),
		}, nil

	case "stdio", "":
		if config.Command == "" {
			return nil, fmt.Errorf("stdio transport requires a command")
		}

		cmd := exec.Command(config.Command, config.Args...)
		if len(config.Env) > 0 {
			cmd.Env = os.Environ()
			for key, value := range config.Env {
				cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
			}
		}
		cmd.Stderr = log.Writer()

		log.Printf("starting context server: %s %v", config.Command, config.Args)
		return &mcp.CommandTransport{Command: cmd}, nil

	default:
		return nil, fmt.Errorf("unknown transport type: %s (supported: stdio, sse, streamable)", config.Transport)
	}
}

// headerRoundTripper wraps an http.RoundTripper to inject custom headers
type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	return h.base.RoundTrip(req)
}

func httpClientWithTimeout(headers map[string]string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: headers,
		},
	}
}
