package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ServerConfig describes how to reach one context server and how its tools
// are confirmed before running.
type ServerConfig struct {
	// Local/stdio transport fields
	Command string            `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// Remote transport fields
	URL       string            `json:"url,omitempty" yaml:"url,omitempty"`
	Transport string            `json:"transport,omitempty" yaml:"transport,omitempty"` // "stdio" | "sse" | "streamable"
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout   string            `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"

	// Confirmation is this server's tool confirmation policy. Absent means
	// every tool falls back to requiring confirmation.
	Confirmation *ConfirmationPolicy `json:"confirmation,omitempty" yaml:"confirmation,omitempty"`
}

// Settings is the merged view of all configuration layers.
type Settings struct {
	// AlwaysAllowToolActions suppresses confirmation for every tool on
	// every server when true.
	AlwaysAllowToolActions bool `json:"always_allow_tool_actions,omitempty" yaml:"always_allow_tool_actions,omitempty"`

	// ContextServers maps a server identifier to its configuration.
	ContextServers map[string]ServerConfig `json:"context_servers,omitempty" yaml:"context_servers,omitempty"`
}

// DefaultUserPath returns the default location of the user settings layer.
func DefaultUserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ctxbridge/settings.json"
	}
	return filepath.Join(home, ".ctxbridge", "settings.json")
}

// Load reads and merges settings layers in order. Later paths override
// earlier ones; missing files are skipped so callers can pass the default
// user path unconditionally. Merging follows mergo semantics: a later layer
// only overrides with non-zero values, so an explicit allow at any layer
// sticks.
func Load(paths ...string) (Settings, error) {
	var merged Settings

	for _, path := range paths {
		layer, err := loadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Settings{}, err
		}
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return Settings{}, fmt.Errorf("failed to merge settings layer %s: %w", path, err)
		}
	}

	return merged, nil
}

// loadFile parses a single settings file, choosing the decoder by extension.
func loadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	return s, nil
}
