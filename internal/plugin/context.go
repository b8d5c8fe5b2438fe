package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// RouteAdder lets plugins contribute pages that are not under the doc root.
type RouteAdder interface {
	AddRoute(rel, absPath string) (route.Route, error)
}

// Context gives plugin constructors access to the site they are built for.
type Context struct {
	// Config is the resolved site configuration.
	Config *config.Config

	// Routes accepts additional pages. It may be nil.
	Routes RouteAdder

	// Logger is scoped to the plugin being constructed.
	Logger *slog.Logger
}

// NewContext creates a plugin context.
func NewContext(cfg *config.Config, routes RouteAdder, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{Config: cfg, Routes: routes, Logger: logger}
}

// forPlugin returns a copy whose logger carries the plugin name.
func (pc *Context) forPlugin(name string) *Context {
	next := *pc
	next.Logger = pc.Logger.With(logfields.Plugin(name))
	return &next
}

// OptionString reads a string option, returning def when absent or mistyped.
func OptionString(options map[string]any, key, def string) string {
	if v, ok := options[key].(string); ok {
		return v
	}
	return def
}

// OptionInt reads an integer option, returning def when absent or mistyped.
func OptionInt(options map[string]any, key string, def int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// OptionBool reads a boolean option, returning def when absent or mistyped.
func OptionBool(options map[string]any, key string, def bool) bool {
	if v, ok := options[key].(bool); ok {
		return v
	}
	return def
}
