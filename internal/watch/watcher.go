// SPDX-License-Identifier: MPL-2.0

// Package watch reports debounced changes to feature model files.
//
// A Watcher monitors a directory tree for files whose extension belongs to a
// registered model reader and invokes a callback after a quiet period. Events
// within the debounce window are coalesced so the callback fires once with
// the full set of changed files.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/fmkit/fmkit/pkg/fmparser"
)

// DefaultDebounce is the quiet period used when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// defaultIgnores are always excluded: VCS metadata, editor swap files and
// OS metadata files that generate high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")
	// ErrInvalidPattern is wrapped by pattern validation failures.
	ErrInvalidPattern = errors.New("watch: invalid pattern")
)

type (
	// Change is one file reported by the watcher.
	Change struct {
		// Path is relative to the watched base directory, with forward slashes.
		Path string
		// Removed is true when the last event seen for the file was a remove or rename.
		Removed bool
	}

	// Options holds the parameters for a Watcher.
	Options struct {
		// BaseDir is the root directory to watch. Empty means the working directory.
		BaseDir string

		// Patterns are doublestar globs, relative to BaseDir, selecting which
		// files trigger callbacks. Empty means ModelPatterns().
		Patterns []string

		// Ignore are additional doublestar globs merged with the defaults.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to DefaultDebounce.
		Debounce time.Duration

		// OnChange is called with the changed files sorted by path. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changes []Change) error

		// Logger receives diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a directory tree and fires a debounced callback when
	// model files change. Run must be called exactly once.
	Watcher struct {
		opts     Options
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// ModelPatterns returns one recursive glob per extension claimed by a
// registered model reader, for example "**/*.sxfm".
func ModelPatterns() []string {
	exts := fmparser.Extensions()
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		patterns = append(patterns, "**/*"+ext)
	}
	return patterns
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// New creates a Watcher. It resolves BaseDir to an absolute path, validates
// the patterns, and registers every non-ignored directory under BaseDir.
func New(opts Options) (*Watcher, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", absBase)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = ModelPatterns()
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(opts.Ignore, "ignore"); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		opts:     opts,
		fsw:      fsw,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, opts.Ignore),
		logger:   logger,
		debounce: cmp.Or(max(opts.Debounce, 0), DefaultDebounce),
		baseDir:  absBase,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute directory being watched.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because it is scheduled by
	// time.AfterFunc. Only one callback runs at a time; a busy fire
	// reschedules itself so pending changes are not lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous callback still running, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changes := make([]Change, 0, len(pending))
		for path, removed := range pending {
			changes = append(changes, Change{Path: path, Removed: removed})
		}
		clear(pending)
		mu.Unlock()

		slices.SortFunc(changes, func(a, b Change) int { return cmp.Compare(a.Path, b.Path) })
		w.logger.Debug("model files changed", "count", len(changes))

		if w.opts.OnChange != nil {
			if err := w.opts.OnChange(ctx, changes); err != nil {
				w.logger.Error("change callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify watcher", "err", closeErr)
		}
	}()

	w.logger.Info("watching for model changes", "dir", w.baseDir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			// Newly created directories extend the recursive watch.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			rel, ok := w.relative(evt.Name)
			if !ok || w.isIgnored(rel) || !w.matchesPatterns(rel) {
				continue
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}

			mu.Lock()
			pending[rel] = evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename)
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// isFatalFsnotifyError reports whether err, however wrapped, carries one of
// the platform's fatalErrnos. Anything else is logged and the watch goes on.
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}

// addDirectories registers every non-ignored directory under baseDir.
// Pattern filtering happens when events arrive.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		rel, ok := w.relative(path)
		if !ok {
			return nil
		}
		if rel != "." && w.isIgnoredDir(rel) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, ok := w.relative(path)
	if !ok || w.isIgnoredDir(rel) {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("add new directory", "path", path, "err", addErr)
	}
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("%w: %s pattern %q", ErrInvalidPattern, label, pat)
		}
	}
	return nil
}
