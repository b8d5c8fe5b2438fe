package plugin

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// RouteObserver is notified once per pass with the final route table.
type RouteObserver interface {
	RouteGenerated(ctx context.Context, routes []route.Route, isSSR bool) error
}

// PageDataExtender may modify page data before it is serialized.
type PageDataExtender interface {
	ExtendPageData(ctx context.Context, page *pagedata.PageData, isSSR bool) error
}

// GlobalComponentProvider adds UI components rendered on every page.
type GlobalComponentProvider interface {
	GlobalUIComponents() []config.GlobalComponent
}

// GlobalStyleProvider adds stylesheets imported on every page.
type GlobalStyleProvider interface {
	GlobalStyles() []string
}

// RuntimeModuleProvider contributes runtime modules keyed by identifier.
type RuntimeModuleProvider interface {
	AddRuntimeModules(ctx context.Context) (map[string]string, error)
}

// Capabilities lists the capability interfaces p implements, for diagnostics.
func Capabilities(p Plugin) []string {
	var caps []string
	if _, ok := p.(RouteObserver); ok {
		caps = append(caps, "routeGenerated")
	}
	if _, ok := p.(PageDataExtender); ok {
		caps = append(caps, "extendPageData")
	}
	if _, ok := p.(GlobalComponentProvider); ok {
		caps = append(caps, "globalUIComponents")
	}
	if _, ok := p.(GlobalStyleProvider); ok {
		caps = append(caps, "globalStyles")
	}
	if _, ok := p.(RuntimeModuleProvider); ok {
		caps = append(caps, "addRuntimeModules")
	}
	return caps
}

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Operation describes what the plugin was doing when it failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(pluginName, operation string, err error) *PluginError {
	return &PluginError{
		PluginName: pluginName,
		Operation:  operation,
		Err:        err,
	}
}
