package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/manifest"
	"git.home.luguber.info/inful/docvm/internal/metrics"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/plugin"
	"git.home.luguber.info/inful/docvm/internal/plugin/builtins"
	"git.home.luguber.info/inful/docvm/internal/route"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
	"git.home.luguber.info/inful/docvm/internal/workspace"
)

// session is everything one generation pass needs, assembled from the
// configuration file.
type session struct {
	cfg       *config.Config
	routes    *route.Service
	driver    *plugin.Driver
	workspace *workspace.Manager
	fc        *runtimemodule.FactoryContext
	generator *runtimemodule.Generator
}

// openSession loads the configuration, discovers routes and configures the
// enabled plugins. Close must be called when the pass is done.
func (c *CLI) openSession(ctx context.Context, ssr bool, rec metrics.Recorder) (*session, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	c.applyLogging(cfg)

	routes, err := route.NewService(route.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := routes.Init(ctx); err != nil {
		return nil, err
	}

	ws := workspace.FromConfig(cfg)
	if err := ws.Create(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to prepare runtime directory").
			WithContext("path", ws.GetPath()).Build()
	}

	driver, err := plugin.NewDriver(builtins.NewRegistry(), plugin.NewContext(cfg, routes, slog.Default()), cfg.Plugins)
	if err != nil {
		return nil, err
	}

	fc := runtimemodule.NewFactoryContext(cfg, routes, driver, ssr)
	fc.TempDir = ws.GetPath()

	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &session{
		cfg:       cfg,
		routes:    routes,
		driver:    driver,
		workspace: ws,
		fc:        fc,
		generator: runtimemodule.NewDefaultGenerator().WithRecorder(rec),
	}, nil
}

func (s *session) Close() {
	if err := s.driver.Close(); err != nil {
		slog.Warn("Plugin cleanup failed", logfields.Error(err))
	}
	if err := s.workspace.Cleanup(); err != nil {
		slog.Warn("Failed to cleanup runtime directory", logfields.Error(err))
	}
}

// passContext gives a pass its build id and the --timeout bound.
func (c *CLI) passContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := observability.WithBuildID(parent, uuid.NewString())
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

// pluginVersions lists the enabled plugins for the manifest.
func (s *session) pluginVersions() []manifest.PluginVersion {
	var out []manifest.PluginVersion
	for _, p := range s.driver.Plugins() {
		md := p.Metadata()
		out = append(out, manifest.PluginVersion{Name: md.Name, Version: md.Version})
	}
	return out
}

// manifestPath returns where snapshots are stored unless overridden.
func (s *session) manifestPath(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(s.fc.TempDir, "manifest.db")
}

// record compares modules against the latest stored snapshot of the same
// render mode and stores the new one.
func (s *session) record(ctx context.Context, store manifest.Store, modules runtimemodule.SourceMap) (manifest.Changes, error) {
	snap := manifest.NewSnapshot(observability.BuildID(ctx), s.fc.IsSSR, modules, time.Now())
	snap.Plugins = s.pluginVersions()

	prev, err := store.Latest(ctx, s.fc.IsSSR)
	if err != nil && !errors.HasCategory(err, errors.CategoryNotFound) {
		return manifest.Changes{}, err
	}
	changes := manifest.Diff(prev, snap)
	if err := store.Save(ctx, snap); err != nil {
		return manifest.Changes{}, err
	}
	return changes, nil
}
