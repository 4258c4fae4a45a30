package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ctxbridge/ctxbridge/contextserver"
	"github.com/ctxbridge/ctxbridge/settings"
)

// ContextServerTool adapts one tool advertised by a context server to the
// Tool interface. It holds the server's ID, never the connection: the live
// session is resolved through the shared store on every call, so a server
// restarting between calls is observed as not-found or not-initialized, not
// as a stale handle.
type ContextServerTool struct {
	store    *contextserver.Store
	serverID contextserver.ServerID
	tool     *mcp.Tool
}

// NewContextServerTool wraps a tool advertised by the given server.
func NewContextServerTool(store *contextserver.Store, serverID contextserver.ServerID, tool *mcp.Tool) *ContextServerTool {
	return &ContextServerTool{
		store:    store,
		serverID: serverID,
		tool:     tool,
	}
}

// Name returns the tool name.
func (t *ContextServerTool) Name() string {
	return t.tool.Name
}

// Description returns the tool description, empty when the server didn't
// provide one.
func (t *ContextServerTool) Description() string {
	return t.tool.Description
}

// Icon returns the icon label for context server tools.
func (t *ContextServerTool) Icon() Icon {
	return IconCog
}

// Server returns the ID of the server this tool belongs to.
func (t *ContextServerTool) Server() contextserver.ServerID {
	return t.serverID
}

// InputSchema returns the declared input schema adapted to format. A null
// or empty declared schema becomes the canonical empty object schema.
func (t *ContextServerTool) InputSchema(format SchemaFormat) (map[string]any, error) {
	raw, err := t.rawSchema()
	if err != nil {
		return nil, &SchemaError{Tool: t.tool.Name, Err: err}
	}

	adapted, err := adaptSchemaToFormat(raw, format)
	if err != nil {
		return nil, &SchemaError{Tool: t.tool.Name, Err: err}
	}

	if len(adapted) == 0 {
		return emptyObjectSchema(), nil
	}
	return adapted, nil
}

// rawSchema converts the advertised schema document to a map. The SDK types
// it as any, so round-trip through JSON; nil and JSON null both come back
// as a nil map.
func (t *ContextServerTool) rawSchema() (map[string]any, error) {
	if t.tool.InputSchema == nil {
		return nil, nil
	}

	data, err := json.Marshal(t.tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("schema not serializable: %w", err)
	}
	if string(data) == "null" {
		return nil, nil
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("schema is not an object: %w", err)
	}
	return schema, nil
}

// NeedsConfirmation reports whether running this tool requires user
// approval, resolving the global always-allow flag, then this server's
// policy from settings. The input is not consulted.
func (t *ContextServerTool) NeedsConfirmation(_ any) bool {
	return settings.RequiresConfirmation(
		t.store.Settings().AlwaysAllowToolActions(),
		t.store.ConfirmationPolicy(t.serverID),
		t.tool.Name,
	)
}

// Run invokes the remote tool and normalizes its reply. An object input
// becomes the call's argument mapping; any other JSON shape is treated as
// no arguments. Failure to reach or complete the call is terminal for this
// invocation and surfaces as a typed error; unexpected reply shapes degrade
// inside normalization instead of failing.
func (t *ContextServerTool) Run(ctx context.Context, input any) (*Output, error) {
	srv, ok := t.store.GetRunningServer(t.serverID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", t.serverID, ErrServerNotFound)
	}

	session := srv.Session()
	if session == nil {
		return nil, fmt.Errorf("%s: %w", t.serverID, ErrServerNotInitialized)
	}

	var arguments map[string]any
	if m, ok := input.(map[string]any); ok {
		arguments = m
	}

	log.Printf("running tool %s on %s with arguments: %v", t.tool.Name, t.serverID, arguments)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      t.tool.Name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, &RemoteError{
			Server:  string(t.serverID),
			Tool:    t.tool.Name,
			Message: err.Error(),
		}
	}

	// The protocol reports tool-level failure in-band
	if result.IsError {
		return nil, &RemoteError{
			Server:  string(t.serverID),
			Tool:    t.tool.Name,
			Message: errorText(result.Content),
		}
	}

	return &Output{Content: normalizeCallResult(result.Content)}, nil
}

// ContextServerSource lists the tools advertised by one context server,
// wrapping each in a ContextServerTool. It implements ServerToolSource for
// Registry.LoadTools.
type ContextServerSource struct {
	Store    *contextserver.Store
	ServerID contextserver.ServerID
}

// ListServerTools fetches the server's advertised tool list. The server
// must be running and initialized.
func (s ContextServerSource) ListServerTools(ctx context.Context) ([]Tool, error) {
	srv, ok := s.Store.GetRunningServer(s.ServerID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.ServerID, ErrServerNotFound)
	}
	session := srv.Session()
	if session == nil {
		return nil, fmt.Errorf("%s: %w", s.ServerID, ErrServerNotInitialized)
	}

	var listed []Tool
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("error listing tools on %s: %w", s.ServerID, err)
		}
		if tool != nil {
			log.Printf("loaded tool from %s: %s - %s", s.ServerID, tool.Name, tool.Description)
			listed = append(listed, NewContextServerTool(s.Store, s.ServerID, tool))
		}
	}
	return listed, nil
}

// errorText pulls the text out of an error reply's content parts. Only text
// parts matter here; an image in an error reply must not shadow the message.
func errorText(parts []mcp.Content) string {
	var textParts []string
	for _, part := range parts {
		if p, ok := part.(*mcp.TextContent); ok && p.Text != "" {
			textParts = append(textParts, p.Text)
		}
	}
	if len(textParts) == 0 {
		return "tool returned an error without content"
	}
	return strings.Join(textParts, "\n")
}
