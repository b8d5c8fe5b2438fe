// Package plugin provides the plugin system that extends runtime module generation.
// Plugins observe the route table, enrich page data, add global components and
// styles, and contribute runtime modules of their own.
package plugin

import (
	"fmt"
)

// Plugin represents a docvm plugin with metadata and option validation. What a
// plugin does is expressed by implementing the capability interfaces in
// types.go.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, description).
	Metadata() Metadata

	// Validate checks the options the plugin was enabled with.
	Validate(options map[string]any) error
}

// Lifecycle extends Plugin with optional setup and teardown hooks.
type Lifecycle interface {
	Plugin

	// Init is called once after the plugin is constructed and validated.
	Init() error

	// Cleanup is called when the driver is closed.
	Cleanup() error
}

// Metadata describes a plugin's identity.
type Metadata struct {
	// Name is the unique plugin identifier used in configuration (e.g. "last-updated").
	Name string

	// Version is the semantic version (e.g. "v1.0.0").
	Version string

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// Base provides a default Validate that accepts any options.
type Base struct{}

// Validate accepts any options.
func (Base) Validate(map[string]any) error { return nil }
