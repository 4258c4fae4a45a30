package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadSingleLayer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.json", `{
		"always_allow_tool_actions": true,
		"context_servers": {
			"clock": {"command": "clock-server", "args": ["--utc"]}
		}
	}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !loaded.AlwaysAllowToolActions {
		t.Error("expected always_allow_tool_actions to be true")
	}
	server, ok := loaded.ContextServers["clock"]
	if !ok {
		t.Fatal("expected clock server to be configured")
	}
	if server.Command != "clock-server" {
		t.Errorf("unexpected command: %s", server.Command)
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.json", `{
		"context_servers": {
			"clock": {"command": "clock-server"},
			"files": {"command": "file-server"}
		}
	}`)
	project := writeFile(t, dir, "project.yaml", `
context_servers:
  clock:
    command: project-clock-server
    confirmation:
      default_needs_confirmation: false
`)

	loaded, err := Load(user, project)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	clock := loaded.ContextServers["clock"]
	if clock.Command != "project-clock-server" {
		t.Errorf("later layer should override command, got %s", clock.Command)
	}
	if clock.Confirmation == nil || clock.Confirmation.DefaultNeedsConfirmation == nil {
		t.Fatal("expected confirmation policy from project layer")
	}
	if *clock.Confirmation.DefaultNeedsConfirmation {
		t.Error("expected default_needs_confirmation false from project layer")
	}

	if _, ok := loaded.ContextServers["files"]; !ok {
		t.Error("user-layer server should survive the merge")
	}
}

func TestLoadMissingFileSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.json", `{"always_allow_tool_actions": true}`)

	loaded, err := Load(filepath.Join(dir, "does-not-exist.json"), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.AlwaysAllowToolActions {
		t.Error("expected settings from the existing layer")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.json", `{not json`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed settings file")
	}
}

func TestStoreConfirmationPolicy(t *testing.T) {
	store := NewStore(Settings{
		ContextServers: map[string]ServerConfig{
			"clock": {
				Command: "clock-server",
				Confirmation: &ConfirmationPolicy{
					Tools: map[string]bool{"get_time": false},
				},
			},
			"files": {Command: "file-server"},
		},
	})

	policy := store.ConfirmationPolicy("clock")
	if policy == nil {
		t.Fatal("expected policy for clock")
	}
	if required, ok := policy.Tools["get_time"]; !ok || required {
		t.Error("expected get_time override to false")
	}

	if store.ConfirmationPolicy("files") != nil {
		t.Error("expected nil policy for server without confirmation block")
	}
	if store.ConfirmationPolicy("unknown") != nil {
		t.Error("expected nil policy for unconfigured server")
	}
}

func TestStoreSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.json")

	store := NewStore(Settings{AlwaysAllowToolActions: true})
	if err := store.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.AlwaysAllowToolActions {
		t.Error("expected saved settings to round-trip")
	}
}

func TestStoreReplaceAndFlags(t *testing.T) {
	store := NewStore(Settings{})
	if store.AlwaysAllowToolActions() {
		t.Error("expected always-allow to start false")
	}

	store.SetAlwaysAllowToolActions(true)
	if !store.AlwaysAllowToolActions() {
		t.Error("expected always-allow after set")
	}

	store.Replace(Settings{})
	if store.AlwaysAllowToolActions() {
		t.Error("expected replace to reset always-allow")
	}
}
