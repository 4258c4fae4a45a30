package tools

import "context"

// Icon names a pictogram a UI can show next to a tool. Presentation is up
// to the caller; this package only labels.
type Icon string

const (
	IconCog      Icon = "cog"
	IconTerminal Icon = "terminal"
	IconTool     Icon = "tool"
)

// SchemaFormat selects the dialect a tool's input schema is adapted to
// before it is handed to a schema-consuming caller.
type SchemaFormat int

const (
	// SchemaFormatJSONSchema passes the declared schema through unchanged.
	SchemaFormatJSONSchema SchemaFormat = iota
	// SchemaFormatJSONSchemaSubset strips keywords that restricted
	// consumers reject (see adaptSchemaToFormat).
	SchemaFormatJSONSchemaSubset
)

// Tool is the uniform callable-tool abstraction consumed by an agent's
// tool-calling loop. Implementations include context server tools and the
// native built-ins in this package.
type Tool interface {
	// Name returns the tool's unique name within its source.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Icon returns the icon label for UI presentation.
	Icon() Icon

	// InputSchema returns the tool's input schema adapted to the requested
	// format. Tools that advertise no schema return a canonical empty
	// object schema rather than nil.
	InputSchema(format SchemaFormat) (map[string]any, error)

	// NeedsConfirmation reports whether running the tool with the given
	// input requires explicit user approval first.
	NeedsConfirmation(input any) bool

	// Run invokes the tool with a decoded JSON input value and returns the
	// unified result content. Blocking work honors ctx cancellation.
	Run(ctx context.Context, input any) (*Output, error)
}
