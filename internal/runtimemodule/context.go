package runtimemodule

import (
	"context"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// AliasTable is the bundler's resolved alias configuration: a specifier prefix
// mapped to one or more target paths.
type AliasTable map[string][]string

// Clone returns a deep copy of the table.
func (a AliasTable) Clone() AliasTable {
	if a == nil {
		return nil
	}
	out := make(AliasTable, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RouteService is the subset of route discovery the factories need.
type RouteService interface {
	Routes() []route.Route
	GenerateRoutesCode(ssr bool) (string, error)
}

// PluginDriver is the subset of the plugin lifecycle the pipeline needs.
type PluginDriver interface {
	RouteGenerated(ctx context.Context, routes []route.Route, isSSR bool) error
	ExtendPageData(ctx context.Context, page *pagedata.PageData, isSSR bool) error
	GlobalUIComponents() []config.GlobalComponent
	GlobalStyles() []string
	AddRuntimeModules(ctx context.Context) (map[string]string, error)
}

// FactoryContext is the shared, read-only input of every factory in a pass.
type FactoryContext struct {
	// DocRoot is the absolute documentation root.
	DocRoot string
	Config  *config.Config
	IsSSR   bool
	// TempDir is the directory virtual modules are rooted at.
	TempDir string
	Alias   AliasTable
	Routes  RouteService
	Plugins PluginDriver
}

// NewFactoryContext builds a context from resolved configuration.
func NewFactoryContext(cfg *config.Config, routes RouteService, plugins PluginDriver, isSSR bool) *FactoryContext {
	return &FactoryContext{
		DocRoot: cfg.DocRoot(),
		Config:  cfg,
		IsSSR:   isSSR,
		TempDir: cfg.TempDir(),
		Routes:  routes,
		Plugins: plugins,
	}
}

// WithAlias returns a copy of fc carrying alias.
func (fc *FactoryContext) WithAlias(alias AliasTable) *FactoryContext {
	next := *fc
	next.Alias = alias.Clone()
	return &next
}

// noPlugins stands in for a nil driver.
type noPlugins struct{}

func (noPlugins) RouteGenerated(context.Context, []route.Route, bool) error      { return nil }
func (noPlugins) ExtendPageData(context.Context, *pagedata.PageData, bool) error { return nil }
func (noPlugins) GlobalUIComponents() []config.GlobalComponent                   { return nil }
func (noPlugins) GlobalStyles() []string                                         { return nil }
func (noPlugins) AddRuntimeModules(context.Context) (map[string]string, error)   { return nil, nil }

func (fc *FactoryContext) plugins() PluginDriver {
	if fc.Plugins == nil {
		return noPlugins{}
	}
	return fc.Plugins
}
