package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Registry manages the tools available to one agent loop, keyed by name.
// All methods are safe for concurrent use; the executor reads the registry
// from spawned goroutines while tool lists may be reloaded.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry seeded with the given tools.
func NewRegistry(initial []Tool) *Registry {
	registry := &Registry{tools: make(map[string]Tool)}
	for _, tool := range initial {
		registry.Register(tool)
	}
	return registry
}

// Register adds a tool, replacing any existing tool with the same name.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("registered tool: %s", tool.Name())
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Remove drops a tool by name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; ok {
		delete(r.tools, name)
		log.Printf("removed tool: %s", name)
	}
}

// All returns every registered tool, ordered by name.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	r.mu.RUnlock()

	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

// Schemas returns every tool's input schema as a jsonschema value, with the
// tool's name and description filled in when the schema doesn't carry its
// own. Tools whose schema fails to adapt are skipped with a warning rather
// than failing the whole listing.
func (r *Registry) Schemas() []*jsonschema.Schema {
	tools := r.All()
	schemas := make([]*jsonschema.Schema, 0, len(tools))
	for _, tool := range tools {
		schema, err := toolSchema(tool)
		if err != nil {
			log.Printf("skipping schema for tool %s: %v", tool.Name(), err)
			continue
		}
		schemas = append(schemas, schema)
	}
	return schemas
}

func toolSchema(tool Tool) (*jsonschema.Schema, error) {
	raw, err := tool.InputSchema(SchemaFormatJSONSchema)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		// Non-standard schema document, fall back to a bare object schema
		schema = &jsonschema.Schema{Type: "object"}
	}

	if schema.Title == "" {
		schema.Title = tool.Name()
	}
	if schema.Description == "" {
		schema.Description = tool.Description()
	}
	return schema, nil
}

// ServerToolSource lists the tools a context server advertises. Satisfied
// by ContextServerSource; declared as an interface so loading is testable
// without a live server.
type ServerToolSource interface {
	ListServerTools(ctx context.Context) ([]Tool, error)
}

// LoadTools registers every tool from a source, optionally filtered to a
// set of names. An empty filter loads everything.
func (r *Registry) LoadTools(ctx context.Context, source ServerToolSource, filter []string) error {
	tools, err := source.ListServerTools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	wanted := make(map[string]bool, len(filter))
	for _, name := range filter {
		wanted[name] = true
	}

	for _, tool := range tools {
		if len(wanted) > 0 && !wanted[tool.Name()] {
			continue
		}
		r.Register(tool)
	}
	return nil
}
