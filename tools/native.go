package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	invopop "github.com/invopop/jsonschema"
)

// Native built-in tools. They run in-process, never need confirmation, and
// mostly exist so the registry and executor have something to exercise
// without a live context server.

// reflectSchema generates a JSON schema map from an argument struct.
func reflectSchema(v any) map[string]any {
	reflector := invopop.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return emptyObjectSchema()
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return emptyObjectSchema()
	}
	return schema
}

type echoArgs struct {
	Text string `json:"text" jsonschema:"description=The text to echo back"`
}

// EchoTool returns its input text unchanged.
type EchoTool struct{}

func (t *EchoTool) Name() string        { return "echo" }
func (t *EchoTool) Description() string { return "Echo the given text back" }
func (t *EchoTool) Icon() Icon          { return IconTool }

func (t *EchoTool) InputSchema(format SchemaFormat) (map[string]any, error) {
	return adaptSchemaToFormat(reflectSchema(&echoArgs{}), format)
}

func (t *EchoTool) NeedsConfirmation(_ any) bool { return false }

func (t *EchoTool) Run(_ context.Context, input any) (*Output, error) {
	args, _ := input.(map[string]any)
	text, ok := args["text"].(string)
	if !ok {
		return nil, fmt.Errorf("text must be a string")
	}
	return &Output{Content: TextResult(text)}, nil
}

type nowArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"description=IANA timezone name; local time when omitted"`
}

// NowTool reports the current time.
type NowTool struct{}

func (t *NowTool) Name() string        { return "now" }
func (t *NowTool) Description() string { return "Report the current date and time" }
func (t *NowTool) Icon() Icon          { return IconTool }

func (t *NowTool) InputSchema(format SchemaFormat) (map[string]any, error) {
	return adaptSchemaToFormat(reflectSchema(&nowArgs{}), format)
}

func (t *NowTool) NeedsConfirmation(_ any) bool { return false }

func (t *NowTool) Run(_ context.Context, input any) (*Output, error) {
	now := time.Now()

	args, _ := input.(map[string]any)
	if tz, ok := args["timezone"].(string); ok && strings.TrimSpace(tz) != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
		now = now.In(loc)
	}

	return &Output{Content: TextResult(now.Format(time.RFC1123))}, nil
}
