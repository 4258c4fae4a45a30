package tools

import (
	"errors"
	"fmt"
)

// Errors terminal to a single invocation. None of these are retried here;
// retry and backoff policy belongs to the caller.
var (
	// ErrServerNotFound means no live connection exists for the tool's
	// server reference.
	ErrServerNotFound = errors.New("context server not found")

	// ErrServerNotInitialized means a connection exists but its handshake
	// has not completed yet.
	ErrServerNotInitialized = errors.New("context server not initialized")

	// ErrConfirmationDeclined means the user refused to approve a tool run
	// that required confirmation.
	ErrConfirmationDeclined = errors.New("tool run declined")
)

// RemoteError reports that the remote call itself failed, either at the
// transport or on the server side. Message carries the remote failure text
// verbatim; no local interpretation is applied.
type RemoteError struct {
	Server  string
	Tool    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("tool %s on server %s failed: %s", e.Tool, e.Server, e.Message)
}

// SchemaError reports that a tool's declared input schema could not be
// adapted to the requested format.
type SchemaError struct {
	Tool string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("failed to adapt schema for tool %s: %v", e.Tool, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
