package settings

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestRequiresConfirmationGlobalOverride(t *testing.T) {
	// Global allow suppresses confirmation regardless of any policy
	policy := &ConfirmationPolicy{
		DefaultNeedsConfirmation: boolPtr(true),
		Tools:                    map[string]bool{"dangerous": true},
	}

	if RequiresConfirmation(true, policy, "dangerous") {
		t.Error("expected no confirmation when global allow is set")
	}
	if RequiresConfirmation(true, nil, "anything") {
		t.Error("expected no confirmation when global allow is set and no policy exists")
	}
}

func TestRequiresConfirmationNoPolicy(t *testing.T) {
	if !RequiresConfirmation(false, nil, "any_tool") {
		t.Error("expected confirmation by default when no policy record exists")
	}
}

func TestRequiresConfirmationServerDefault(t *testing.T) {
	cases := []struct {
		name string
		def  *bool
		want bool
	}{
		{"default false", boolPtr(false), false},
		{"default true", boolPtr(true), true},
		{"default unset", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := &ConfirmationPolicy{DefaultNeedsConfirmation: tc.def}
			if got := RequiresConfirmation(false, policy, "any_tool"); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequiresConfirmationPerToolOverride(t *testing.T) {
	// Override false against default true
	policy := &ConfirmationPolicy{
		DefaultNeedsConfirmation: boolPtr(true),
		Tools:                    map[string]bool{"trusted": false},
	}
	if RequiresConfirmation(false, policy, "trusted") {
		t.Error("per-tool override to false should win over server default true")
	}
	if !RequiresConfirmation(false, policy, "other") {
		t.Error("tool without override should fall back to server default true")
	}

	// Override true against default false
	policy = &ConfirmationPolicy{
		DefaultNeedsConfirmation: boolPtr(false),
		Tools:                    map[string]bool{"risky": true},
	}
	if !RequiresConfirmation(false, policy, "risky") {
		t.Error("per-tool override to true should win over server default false")
	}
	if RequiresConfirmation(false, policy, "other") {
		t.Error("tool without override should fall back to server default false")
	}
}
