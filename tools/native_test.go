package tools

import (
	"context"
	"testing"
)

func TestEchoTool(t *testing.T) {
	tool := &EchoTool{}
	ctx := context.Background()

	out, err := tool.Run(ctx, map[string]any{"text": "hello"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Content.Text != "hello" {
		t.Errorf("expected echoed text, got %q", out.Content.Text)
	}

	if _, err := tool.Run(ctx, map[string]any{"text": 42}); err == nil {
		t.Error("expected error for non-string text")
	}
	if _, err := tool.Run(ctx, nil); err == nil {
		t.Error("expected error when text is missing")
	}
}

func TestEchoToolSchema(t *testing.T) {
	schema, err := (&EchoTool{}).InputSchema(SchemaFormatJSONSchema)
	if err != nil {
		t.Fatalf("InputSchema failed: %v", err)
	}

	if schema["type"] != "object" {
		t.Errorf("expected object schema, got %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %v", schema["properties"])
	}
	if _, ok := props["text"]; !ok {
		t.Error("expected text property in reflected schema")
	}
}

func TestEchoToolSubsetSchemaHasNoDollarKeys(t *testing.T) {
	schema, err := (&EchoTool{}).InputSchema(SchemaFormatJSONSchemaSubset)
	if err != nil {
		t.Fatalf("InputSchema failed: %v", err)
	}
	if _, ok := schema["$schema"]; ok {
		t.Error("expected $schema stripped in subset format")
	}
}

func TestNowTool(t *testing.T) {
	tool := &NowTool{}
	ctx := context.Background()

	out, err := tool.Run(ctx, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Content.Text == "" {
		t.Error("expected non-empty time string")
	}

	out, err = tool.Run(ctx, map[string]any{"timezone": "UTC"})
	if err != nil {
		t.Fatalf("Run with timezone failed: %v", err)
	}
	if out.Content.Text == "" {
		t.Error("expected non-empty time string for UTC")
	}

	if _, err := tool.Run(ctx, map[string]any{"timezone": "Nowhere/Invalid"}); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestNativeToolsNeverNeedConfirmation(t *testing.T) {
	for _, tool := range []Tool{&EchoTool{}, &NowTool{}} {
		if tool.NeedsConfirmation(nil) {
			t.Errorf("native tool %s should not need confirmation", tool.Name())
		}
	}
}
