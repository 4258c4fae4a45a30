package settings

// ConfirmationPolicy controls whether tools on a single context server need
// explicit user approval before they run. A nil policy means the server has
// no confirmation configuration at all.
type ConfirmationPolicy struct {
	// DefaultNeedsConfirmation applies to every tool on the server without
	// an entry in Tools. Nil means unset, which resolves to requiring
	// confirmation.
	DefaultNeedsConfirmation *bool `json:"default_needs_confirmation,omitempty" yaml:"default_needs_confirmation,omitempty"`

	// Tools maps a tool name to an explicit per-tool override. An entry
	// here wins over DefaultNeedsConfirmation in either direction.
	Tools map[string]bool `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// RequiresConfirmation decides whether running toolName needs user approval.
// Precedence, broadest to narrowest: the global always-allow flag suppresses
// confirmation for everything; otherwise a per-tool override wins; otherwise
// the server default applies; anything left unset resolves to true.
func RequiresConfirmation(alwaysAllow bool, policy *ConfirmationPolicy, toolName string) bool {
	if alwaysAllow {
		return false
	}

	if policy != nil {
		if override, ok := policy.Tools[toolName]; ok {
			return override
		}
		if policy.DefaultNeedsConfirmation != nil {
			return *policy.DefaultNeedsConfirmation
		}
		return true
	}

	// No policy configured for this server, confirm by default
	return true
}
