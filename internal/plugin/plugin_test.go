package plugin

import (
	"errors"
	"testing"
)

// TestMetadataValidation tests plugin metadata validation.
func TestMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  Metadata
		expectErr bool
	}{
		{
			name:      "valid metadata",
			metadata:  Metadata{Name: "test-plugin", Version: "v1.0.0", Description: "Test plugin"},
			expectErr: false,
		},
		{
			name:      "missing name",
			metadata:  Metadata{Version: "v1.0.0"},
			expectErr: true,
		},
		{
			name:      "missing version",
			metadata:  Metadata{Name: "test-plugin"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMetadataString(t *testing.T) {
	m := Metadata{Name: "last-updated", Version: "v1.0.0"}
	if got := m.String(); got != "last-updated@v1.0.0" {
		t.Errorf("String() = %q", got)
	}
}

func TestPluginError(t *testing.T) {
	cause := errors.New("boom")
	err := NewPluginError("back-to-top", "addRuntimeModules", cause)

	if got := err.Error(); got != "plugin back-to-top failed during addRuntimeModules: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities(&fullPlugin{})
	want := []string{"routeGenerated", "extendPageData", "globalUIComponents", "globalStyles", "addRuntimeModules"}
	if len(caps) != len(want) {
		t.Fatalf("Capabilities() = %v, want %v", caps, want)
	}
	for i := range want {
		if caps[i] != want[i] {
			t.Errorf("Capabilities()[%d] = %s, want %s", i, caps[i], want[i])
		}
	}

	if caps := Capabilities(&basicPlugin{name: "x"}); len(caps) != 0 {
		t.Errorf("expected no capabilities, got %v", caps)
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := map[string]any{"s": "v", "i": 3, "f": 2.0, "b": true}

	if OptionString(opts, "s", "d") != "v" || OptionString(opts, "i", "d") != "d" {
		t.Error("OptionString")
	}
	if OptionInt(opts, "i", 0) != 3 || OptionInt(opts, "f", 0) != 2 || OptionInt(opts, "x", 7) != 7 {
		t.Error("OptionInt")
	}
	if !OptionBool(opts, "b", false) || OptionBool(opts, "s", false) {
		t.Error("OptionBool")
	}
}
