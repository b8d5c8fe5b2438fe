package plugin

import (
	"context"
	stderrors "errors"
	"sort"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/pagedata"
	"git.home.luguber.info/inful/docvm/internal/route"
)

// Driver calls the enabled plugins' hooks in configuration order.
type Driver struct {
	plugins []Plugin
}

// NewDriver constructs, validates and initializes every enabled plugin. An
// unknown plugin name is a configuration error.
func NewDriver(reg *Registry, pc *Context, enabled []config.PluginConfig) (*Driver, error) {
	d := &Driver{}
	for _, pcfg := range enabled {
		ctor, ok := reg.Lookup(pcfg.Name)
		if !ok {
			_ = d.Close()
			return nil, errors.ConfigError("unknown plugin").
				WithContext("plugin", pcfg.Name).
				WithContext("available", reg.Names()).
				Build()
		}
		p, err := ctor(pc.forPlugin(pcfg.Name), pcfg.Options)
		if err == nil {
			err = p.Validate(pcfg.Options)
		}
		if err != nil {
			_ = d.Close()
			return nil, errors.WrapError(NewPluginError(pcfg.Name, "configure", err), errors.CategoryPlugin, "failed to configure plugin").
				UserAction().WithContext("plugin", pcfg.Name).Build()
		}
		if lc, ok := p.(Lifecycle); ok {
			if err := lc.Init(); err != nil {
				_ = d.Close()
				return nil, errors.WrapError(NewPluginError(pcfg.Name, "init", err), errors.CategoryPlugin, "failed to initialize plugin").
					WithContext("plugin", pcfg.Name).Build()
			}
		}
		d.plugins = append(d.plugins, p)
	}
	return d, nil
}

// NewDriverFromPlugins wraps already constructed plugins.
func NewDriverFromPlugins(plugins ...Plugin) *Driver {
	return &Driver{plugins: append([]Plugin(nil), plugins...)}
}

// Plugins returns the enabled plugins in call order.
func (d *Driver) Plugins() []Plugin {
	return append([]Plugin(nil), d.plugins...)
}

// Close runs Cleanup on every plugin implementing Lifecycle.
func (d *Driver) Close() error {
	var errs []error
	for _, p := range d.plugins {
		if lc, ok := p.(Lifecycle); ok {
			if err := lc.Cleanup(); err != nil {
				errs = append(errs, NewPluginError(p.Metadata().Name, "cleanup", err))
			}
		}
	}
	return stderrors.Join(errs...)
}

// RouteGenerated notifies every RouteObserver of the route table.
func (d *Driver) RouteGenerated(ctx context.Context, routes []route.Route, isSSR bool) error {
	for _, p := range d.plugins {
		o, ok := p.(RouteObserver)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		if err := o.RouteGenerated(observability.WithPlugin(ctx, name), routes, isSSR); err != nil {
			return NewPluginError(name, "routeGenerated", err)
		}
	}
	return nil
}

// ExtendPageData lets every PageDataExtender modify page.
func (d *Driver) ExtendPageData(ctx context.Context, page *pagedata.PageData, isSSR bool) error {
	for _, p := range d.plugins {
		e, ok := p.(PageDataExtender)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		if err := e.ExtendPageData(observability.WithPlugin(ctx, name), page, isSSR); err != nil {
			return NewPluginError(name, "extendPageData", err)
		}
	}
	return nil
}

// GlobalUIComponents concatenates the components of every provider.
func (d *Driver) GlobalUIComponents() []config.GlobalComponent {
	var out []config.GlobalComponent
	for _, p := range d.plugins {
		if g, ok := p.(GlobalComponentProvider); ok {
			out = append(out, g.GlobalUIComponents()...)
		}
	}
	return out
}

// GlobalStyles concatenates the stylesheets of every provider.
func (d *Driver) GlobalStyles() []string {
	var out []string
	for _, p := range d.plugins {
		if g, ok := p.(GlobalStyleProvider); ok {
			out = append(out, g.GlobalStyles()...)
		}
	}
	return out
}

// AddRuntimeModules collects the contributions of every provider into one map.
// When two plugins contribute the same identifier the later plugin wins and a
// warning is logged.
func (d *Driver) AddRuntimeModules(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	owner := map[string]string{}
	for _, p := range d.plugins {
		rp, ok := p.(RuntimeModuleProvider)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		pctx := observability.WithPlugin(ctx, name)
		modules, err := rp.AddRuntimeModules(pctx)
		if err != nil {
			return nil, NewPluginError(name, "addRuntimeModules", err)
		}
		ids := make([]string, 0, len(modules))
		for id := range modules {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if prev, dup := owner[id]; dup {
				observability.WarnContext(pctx, "Runtime module contributed by several plugins, later plugin wins",
					logfields.ModuleID(id), logfields.Source(prev))
			}
			out[id] = modules[id]
			owner[id] = name
		}
	}
	return out, nil
}
