// Package watch re-runs runtime module generation when documentation sources
// or the site configuration change. Events are debounced and coalesced so one
// burst of edits triggers one callback.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires.
const DefaultDebounce = 300 * time.Millisecond

// defaultIgnores are never watched: VCS metadata, dependencies, editor swap
// files and the runtime temp dir under node_modules.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Roots are directories watched recursively.
	Roots []string

	// Files are individual files watched through their parent directory,
	// typically the site configuration.
	Files []string

	// Ignore are doublestar patterns, relative to a root, merged with the
	// default ignores.
	Ignore []string

	// Debounce falls back to DefaultDebounce when zero or negative.
	Debounce time.Duration

	// OnChange receives the sorted absolute paths that changed. Calls never
	// overlap; events arriving during a call are delivered in the next one.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher monitors Roots and Files and fires a debounced callback.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	roots    []string
	files    map[string]struct{}
	ignores  []string
	debounce time.Duration
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory.
func New(cfg Config) (*Watcher, error) {
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, errors.ConfigError("invalid watch ignore pattern").
				WithContext("pattern", pat).Build()
		}
	}
	if len(cfg.Roots) == 0 && len(cfg.Files) == 0 {
		return nil, errors.ValidationError("nothing to watch").Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		files:    map[string]struct{}{},
		ignores:  append(append([]string(nil), defaultIgnores...), cfg.Ignore...),
		debounce: cfg.Debounce,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.register(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) register() error {
	for _, root := range w.cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
				WithContext("path", root).Build()
		}
		w.roots = append(w.roots, abs)
		if err := w.addTree(abs); err != nil {
			return err
		}
	}
	for _, f := range w.cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watched file").
				WithContext("path", f).Build()
		}
		w.files[abs] = struct{}{}
		// Editors often replace files by rename, so the directory is watched.
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", filepath.Dir(abs)).Build()
		}
	}
	return nil
}

// addTree adds dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == dir {
				return walkErr
			}
			slog.Warn("Skipping inaccessible path", logfields.Path(p), logfields.Error(walkErr))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.ignored(p) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WrapError(err, errors.CategoryNotFound, "watch root does not exist").
				WithContext("path", dir).Build()
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory tree").
			WithContext("path", dir).Build()
	}
	return nil
}

// rootOf returns the watched root containing p.
func (w *Watcher) rootOf(p string) (string, bool) {
	for _, root := range w.roots {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

func (w *Watcher) ignored(p string) bool {
	root, ok := w.rootOf(p)
	if !ok {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, rel+"/"); ok {
			return true
		}
	}
	return false
}

// relevant reports whether an event on p should trigger the callback.
func (w *Watcher) relevant(p string) bool {
	if _, ok := w.files[p]; ok {
		return true
	}
	if _, ok := w.rootOf(p); !ok {
		return false
	}
	return !w.ignored(p)
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It may
// be called once. A callback in progress when ctx is canceled is waited for.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.InternalError("watcher is already running").Build()
	}
	defer func() { _ = w.fsw.Close() }()

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var (
		fireC <-chan time.Time
		done  = make(chan struct{})
		busy  bool
	)
	schedule := func() {
		timer.Reset(w.debounce)
		fireC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if busy {
				<-done
			}
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.InternalError("file watcher event channel closed").Build()
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if !w.relevant(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			pending[evt.Name] = struct{}{}
			schedule()

		case <-fireC:
			fireC = nil
			if busy || len(pending) == 0 {
				// The finishing callback reschedules.
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)

			busy = true
			go func() {
				defer func() { done <- struct{}{} }()
				w.dispatch(ctx, changed)
			}()

		case <-done:
			busy = false
			if len(pending) > 0 && fireC == nil {
				schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.InternalError("file watcher error channel closed").Build()
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, changed []string) {
	slog.Debug("Watched files changed", logfields.Changed(len(changed)))
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		slog.Error("Change handler failed", logfields.Error(err))
	}
}

// maybeAddDir extends the recursive watch to directories created after start.
func (w *Watcher) maybeAddDir(p string) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(p); err != nil {
		slog.Warn("Could not watch new directory", logfields.Path(p), logfields.Error(err))
	}
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return append([]string(nil), defaultIgnores...)
}

// String describes what w watches, for logging.
func (w *Watcher) String() string {
	return fmt.Sprintf("roots=%v files=%d", w.roots, len(w.files))
}
