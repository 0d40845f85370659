// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when Blueprint sources under a project
// root change.
//
// Events are debounced: a burst of writes (an editor saving through a temp
// file, a git checkout) produces one callback with every changed path. The
// callback runs on the event loop, so two runs never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/pkg/catalog"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// editorNoise is never reported, whatever the patterns say.
	editorNoise = []string{"**/*.swp", "**/*.swo", "**/*~", "**/.#*", "**/.DS_Store"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch recursively. Empty means the
		// current working directory.
		Root string
		// Patterns select the files that trigger the callback, relative to
		// Root. Empty means "**/*" + discovery.DefaultSuffix.
		Patterns []string
		// ExcludeDirs are directory names that are never watched, at any
		// depth, in addition to discovery.DefaultExcludeDirs.
		ExcludeDirs []string
		// Ignore are doublestar patterns, relative to Root, that never trigger.
		Ignore []string
		// Debounce is the quiet period after the last event before the
		// callback fires.
		Debounce time.Duration
		// OnChange receives the sorted, slash-separated paths that changed.
		// An error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *slog.Logger
	}

	// Watcher monitors a project tree. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		patterns []string
		exclude  []string
		ignore   []string
		debounce time.Duration
		logger   *slog.Logger
		started  bool
	}
)

// New validates cfg and registers every directory under the root that is not
// excluded.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"**/*" + discovery.DefaultSuffix}
	}
	if err := validatePatterns("watch", patterns); err != nil {
		return nil, err
	}
	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		root:     absRoot,
		patterns: slices.Clone(patterns),
		exclude:  discovery.ExcludeDirs(cfg.ExcludeDirs),
		ignore:   append(slices.Clone(editorNoise), cfg.Ignore...),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if _, err := w.addTree(absRoot); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string { return w.root }

// Run processes events until ctx is cancelled, which is a clean return.
// Fatal watcher errors (descriptor or inotify exhaustion) are returned.
func (w *Watcher) Run(ctx context.Context) error {
	if w.started {
		return ErrAlreadyRunning
	}
	w.started = true
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing file watcher", "error", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				// Sources moved in with a new directory produce no events of their own.
				if found := w.maybeAddDir(evt.Name); len(found) > 0 {
					for _, rel := range found {
						pending[rel] = struct{}{}
					}
					timer.Reset(w.debounce)
				}
			}
			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("blueprint changed", "path", rel, "op", evt.Op.String())
			pending[rel] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)

			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					w.logger.Error("rebuild failed", "error", err)
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// relevant maps an event path to its slash-separated path relative to the
// root and reports whether it should trigger the callback.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = catalog.Normalize(rel)
	if w.inExcludedDir(rel) || matchAny(w.ignore, rel) {
		return "", false
	}
	return rel, matchAny(w.patterns, rel)
}

func (w *Watcher) inExcludedDir(rel string) bool {
	dir := filepath.Dir(filepath.FromSlash(rel))
	for dir != "." && dir != string(filepath.Separator) {
		if slices.Contains(w.exclude, filepath.Base(dir)) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

func (w *Watcher) skipDir(path string) bool {
	if path == w.root {
		return false
	}
	if slices.Contains(w.exclude, filepath.Base(path)) {
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	return matchAny(w.ignore, rel) || matchAny(w.ignore, rel+"/")
}

// addTree registers dir and every directory below it that is not skipped,
// and returns the relevant files already present. A symlinked dir is
// followed; links below it are not. Unreadable directories are logged and
// left unwatched.
func (w *Watcher) addTree(dir string) ([]string, error) {
	walkRoot, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	var found []string
	err = filepath.WalkDir(walkRoot, func(path string, d os.DirEntry, err error) error {
		if rel, relErr := filepath.Rel(walkRoot, path); relErr == nil {
			path = filepath.Join(dir, rel)
		}
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("not watching inaccessible path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			if rel, ok := w.relevant(path); ok {
				found = append(found, rel)
			}
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return found, nil
}

// maybeAddDir extends the watch to a directory created after startup and
// returns the relevant files it already holds. Symlinked directories are
// not followed.
func (w *Watcher) maybeAddDir(path string) []string {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	found, err := w.addTree(path)
	if err != nil {
		w.logger.Warn("not watching new directory", "path", path, "error", err)
	}
	return found
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(label string, patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
