package commands

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/manifest"
	"git.home.luguber.info/inful/docvm/internal/metrics"
	"git.home.luguber.info/inful/docvm/internal/observability"
	"git.home.luguber.info/inful/docvm/internal/watch"
	"git.home.luguber.info/inful/docvm/internal/workspace"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SSR         bool          `name:"ssr" help:"Generate the server-side rendering variant"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (default from configuration)"`
	Debounce    time.Duration `help:"Quiet period before regenerating" default:"300ms"`
	Keep        int           `help:"Snapshots kept in the manifest database" default:"20"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	addr := w.MetricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Addr
	}
	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: metrics.HTTPHandler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			observability.InfoContext(ctx, "Serving metrics", logfields.Path(addr))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				observability.ErrorContext(ctx, "Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	ws := workspace.FromConfig(cfg)
	if err := ws.Create(); err != nil {
		return err
	}
	store, err := manifest.NewSQLiteStore(filepath.Join(ws.GetPath(), "manifest.db"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pass := func(ctx context.Context) error {
		return w.regenerate(ctx, root, rec, store)
	}
	if err := pass(ctx); err != nil {
		observability.ErrorContext(ctx, "Initial generation failed", logfields.Error(err))
	}

	files := []string{root.Config}
	if cfg.I18nSourcePath != "" {
		files = append(files, cfg.ResolvePath(cfg.I18nSourcePath))
	}
	watcher, err := watch.New(watch.Config{
		Roots:    []string{cfg.DocRoot()},
		Files:    files,
		Ignore:   cfg.Route.Exclude,
		Debounce: w.Debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			observability.InfoContext(ctx, "Sources changed, regenerating", logfields.Changed(len(changed)))
			return pass(ctx)
		},
	})
	if err != nil {
		return err
	}
	observability.InfoContext(ctx, "Watching for changes", logfields.Path(cfg.DocRoot()))
	return watcher.Run(ctx)
}

// regenerate runs one full pass from a freshly loaded configuration and
// emits the modules to disk.
func (w *WatchCmd) regenerate(parent context.Context, root *CLI, rec metrics.Recorder, store manifest.Store) error {
	ctx, cancel := root.passContext(parent)
	defer cancel()

	s, err := root.openSession(ctx, w.SSR, rec)
	if err != nil {
		return err
	}
	defer s.Close()

	modules, err := s.generator.Publish(ctx, s.fc, nil, workspace.Emitter{})
	if err != nil {
		return err
	}
	changes, err := s.record(ctx, store, modules)
	if err != nil {
		return err
	}
	if _, err := store.Prune(ctx, w.Keep); err != nil {
		observability.WarnContext(ctx, "Failed to prune snapshots", logfields.Error(err))
	}
	observability.InfoContext(ctx, "Runtime modules updated",
		logfields.Modules(len(modules)), logfields.Changed(changes.Count()))
	return nil
}
