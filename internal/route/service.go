package route

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
)

// Options configures a Service.
type Options struct {
	DocRoot     string
	Base        string
	DefaultLang string
	Langs       []string
	Include     []string
	Exclude     []string
	Extensions  []string
}

// OptionsFromConfig derives route options from resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DocRoot:     cfg.DocRoot(),
		Base:        cfg.Base,
		DefaultLang: cfg.Lang,
		Langs:       cfg.Langs(),
		Include:     cfg.Route.Include,
		Exclude:     cfg.Route.Exclude,
		Extensions:  cfg.Route.Extensions,
	}
}

// Service holds the discovered routes of one site.
type Service struct {
	opts     Options
	resolver Resolver

	mu     sync.RWMutex
	routes map[string]Route
}

// NewService validates the glob patterns in opts and returns an empty Service.
// Call Init to scan the doc root.
func NewService(opts Options) (*Service, error) {
	for _, group := range [][]string{opts.Include, opts.Exclude} {
		for _, pat := range group {
			if !doublestar.ValidatePattern(pat) {
				return nil, errors.ConfigError("invalid route pattern").
					WithContext("pattern", pat).Build()
			}
		}
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = append([]string(nil), config.DefaultRouteExtensions...)
	}
	return &Service{
		opts: opts,
		resolver: Resolver{
			Base:        opts.Base,
			DefaultLang: opts.DefaultLang,
			Langs:       opts.Langs,
		},
		routes: make(map[string]Route),
	}, nil
}

// Init scans the doc root and replaces the known routes.
func (s *Service) Init(ctx context.Context) error {
	found := make(map[string]Route)
	err := filepath.WalkDir(s.opts.DocRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(s.opts.DocRoot, p)
		if err != nil || rel == "." {
			return nil //nolint:nilerr // the root itself is never a page
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if s.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.accepts(rel) {
			return nil
		}
		r := s.resolver.Resolve(s.opts.DocRoot, rel)
		if prev, dup := found[r.RoutePath]; dup {
			return duplicateRoute(r, prev)
		}
		found[r.RoutePath] = r
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return err
		}
		if os.IsNotExist(err) {
			return errors.WrapError(err, errors.CategoryNotFound, "documentation root does not exist").
				WithContext("path", s.opts.DocRoot).Build()
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to scan documentation root").
			WithContext("path", s.opts.DocRoot).Build()
	}

	s.mu.Lock()
	s.routes = found
	s.mu.Unlock()
	slog.Debug("Routes discovered", logfields.Routes(len(found)), logfields.Path(s.opts.DocRoot))
	return nil
}

func duplicateRoute(r, prev Route) error {
	return errors.ValidationError("duplicate route path").
		WithContext("route", r.RoutePath).
		WithContext("file", r.RelativePath).
		WithContext("conflicts_with", prev.RelativePath).
		Build()
}

// accepts reports whether a doc-root relative file becomes a page.
func (s *Service) accepts(rel string) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	known := false
	for _, e := range s.opts.Extensions {
		if e == ext {
			known = true
			break
		}
	}
	if !known || s.excluded(rel) {
		return false
	}
	if len(s.opts.Include) == 0 {
		return true
	}
	return matchAny(s.opts.Include, rel)
}

func (s *Service) excluded(rel string) bool {
	return matchAny(s.opts.Exclude, rel) || matchAny(s.opts.Exclude, strings.TrimSuffix(rel, "/"))
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// AddRoute registers a page that does not come from the doc root scan, such as
// one contributed by a plugin. rel is resolved like a scanned file; absPath is
// the page source.
func (s *Service) AddRoute(rel, absPath string) (Route, error) {
	r := s.resolver.Resolve(s.opts.DocRoot, rel)
	if absPath != "" {
		r.AbsolutePath = absPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, dup := s.routes[r.RoutePath]; dup {
		return Route{}, duplicateRoute(r, prev)
	}
	s.routes[r.RoutePath] = r
	return r, nil
}

// Routes returns every known route sorted by route path.
func (s *Service) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoutePath < out[j].RoutePath })
	return out
}

// Lookup returns the route for routePath.
func (s *Service) Lookup(routePath string) (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[routePath]
	return r, ok
}

// DocRoot returns the scanned directory.
func (s *Service) DocRoot() string { return s.opts.DocRoot }
