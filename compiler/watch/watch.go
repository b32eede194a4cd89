// Package watch regenerates atomic wrappers when the sources declaring
// flag sets change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/atomflag/compiler"
	"github.com/syssam/atomflag/compiler/gen"
	"github.com/syssam/atomflag/compiler/load"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 300 * time.Millisecond

// GenerateFunc runs one generation pass.
type GenerateFunc func(ctx context.Context) error

// Watcher watches a directory tree and runs generation after changes settle.
type Watcher struct {
	dir      string
	suffix   string
	manifest string
	debounce time.Duration
	logger   *zap.Logger
	generate GenerateFunc

	mu    sync.Mutex
	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events   int
	Runs     int
	Failures int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithManifest sets the manifest re-read before every run. By default it
// is atomflag.yaml in the watched directory.
func WithManifest(path string) Option {
	return func(w *Watcher) {
		if path != "" {
			w.manifest = path
		}
	}
}

// WithGenerateFunc replaces the generation pass, e.g. in tests.
func WithGenerateFunc(fn GenerateFunc) Option {
	return func(w *Watcher) {
		w.generate = fn
	}
}

// New creates a Watcher for dir. Each run generates the packages matching
// patterns, relative to dir, with cfg and the manifest as it is on disk.
func New(cfg *gen.Config, dir string, patterns []string, opts ...Option) *Watcher {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	if cfg.Dir == "" {
		cfg.Dir = dir
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	w := &Watcher{
		dir:      dir,
		suffix:   cfg.Suffix,
		manifest: filepath.Join(dir, load.DefaultManifest),
		debounce: DefaultDebounce,
		logger:   cfg.Logger,
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.generate == nil {
		w.generate = func(ctx context.Context) error {
			c := *cfg
			m, err := w.readManifest()
			if err != nil {
				return err
			}
			c.Manifest = m
			return compiler.Generate(ctx, &c, patterns...)
		}
	}
	return w
}

// readManifest returns the current manifest, or nil when there is none.
func (w *Watcher) readManifest() (*load.Manifest, error) {
	m, err := load.ReadManifest(w.manifest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return m, err
}

// Stats returns a snapshot of the watcher statistics.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run generates once, then again each time watched files change, until ctx
// is done. Generation errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := w.addTree(fsw, w.dir); err != nil {
		return err
	}
	w.logger.Info("watching", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))
	w.run(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(fsw, event) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.run(ctx)
		}
	}
}

// handle records an event and reports whether it should trigger a run.
func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.logger.Warn("watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !w.Relevant(event.Name) {
		return false
	}
	w.logger.Debug("change", zap.String("file", event.Name), zap.Stringer("op", event.Op))
	w.mu.Lock()
	w.stats.Events++
	w.mu.Unlock()
	return true
}

// Relevant reports whether a change to path can affect generated code.
// Generated files and tests are ignored.
func (w *Watcher) Relevant(path string) bool {
	base := filepath.Base(path)
	switch {
	case base == filepath.Base(w.manifest):
		return true
	case !strings.HasSuffix(base, ".go"), strings.HasSuffix(base, "_test.go"):
		return false
	case w.suffix != "" && strings.HasSuffix(base, w.suffix):
		return false
	}
	return true
}

func (w *Watcher) run(ctx context.Context) {
	start := time.Now()
	err := w.generate(ctx)
	w.mu.Lock()
	w.stats.Runs++
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()
	if err != nil {
		w.logger.Error("generation failed", zap.Error(err))
		return
	}
	w.logger.Debug("generation done", zap.Duration("took", time.Since(start)))
}

// addTree watches root and its subdirectories, skipping hidden, vendor and
// testdata directories.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}
