// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func changedPaths(changes []Change) []string {
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, c.Path)
	}
	return paths
}

// startWatcher runs w until the test ends and returns the cancel function
// plus a channel carrying Run's result.
func startWatcher(t *testing.T, w *Watcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)
	return cancel, errCh
}

func writeModel(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestWatcherDebounce verifies that rapid writes are coalesced into a single
// callback carrying every changed model file.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changedPaths(changes)...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	for _, name := range []string{"a.sxfm", "b.xml", "c.fm4conf"} {
		writeModel(t, filepath.Join(dir, name), "data")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, want := range []string{"a.sxfm", "b.xml", "c.fm4conf"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherModelPatternFiltering verifies that only files with a model
// extension trigger the callback by default.
func TestWatcherModelPatternFiltering(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fired := make(chan []Change, 10)

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			fired <- changes
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	writeModel(t, filepath.Join(dir, "notes.txt"), "text")
	time.Sleep(200 * time.Millisecond)

	if err := os.Mkdir(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeModel(t, filepath.Join(dir, "models", "bike.yaml"), "features: []")

	select {
	case changes := <-fired:
		paths := changedPaths(changes)
		if slices.Contains(paths, "notes.txt") {
			t.Error("non-model file notes.txt appeared in changed set")
		}
		if !slices.Contains(paths, "models/bike.yaml") {
			t.Errorf("expected models/bike.yaml in changed set, got %v", paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on model file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherIgnorePatterns confirms that files matching user-supplied ignore
// patterns do not trigger the callback.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fired := make(chan []Change, 10)

	w, err := New(Options{
		BaseDir:  dir,
		Ignore:   []string{"draft-*"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			fired <- changes
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	writeModel(t, filepath.Join(dir, "draft-bike.sxfm"), "draft")
	time.Sleep(200 * time.Millisecond)
	writeModel(t, filepath.Join(dir, "bike.sxfm"), "final")

	select {
	case changes := <-fired:
		paths := changedPaths(changes)
		if slices.Contains(paths, "draft-bike.sxfm") {
			t.Error("ignored file appeared in changed set")
		}
		if !slices.Contains(paths, "bike.sxfm") {
			t.Errorf("expected bike.sxfm in changed set, got %v", paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on non-ignored file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherReportsRemoval verifies that deleting a model file is reported
// with Removed set.
func TestWatcherReportsRemoval(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bike.toml")
	writeModel(t, path, "name = 'Bike'")
	fired := make(chan []Change, 10)

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			fired <- changes
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case changes := <-fired:
		want := []Change{{Path: "bike.toml", Removed: true}}
		if !slices.Equal(changes, want) {
			t.Errorf("changes = %+v, want %+v", changes, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for removal callback")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherSkipIfBusy verifies that callbacks never overlap when one runs
// longer than the debounce period.
func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		inFlight  int
		overlap   bool
		delivered []string
	)
	firstCallDone := make(chan struct{})

	w, err := New(Options{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			mu.Lock()
			calls++
			inFlight++
			if inFlight > 1 {
				overlap = true
			}
			delivered = append(delivered, changedPaths(changes)...)
			callNum := calls
			mu.Unlock()

			if callNum == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstCallDone)
			}

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	writeModel(t, filepath.Join(dir, "first.cue"), "1")
	time.Sleep(100 * time.Millisecond)
	writeModel(t, filepath.Join(dir, "second.cue"), "2")

	select {
	case <-firstCallDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	time.Sleep(300 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("callbacks ran concurrently")
	}
	// The change seen while busy is rescheduled, never dropped.
	for _, want := range []string{"first.cue", "second.cue"} {
		if !slices.Contains(delivered, want) {
			t.Errorf("expected %q to be delivered, got %v", want, delivered)
		}
	}
}

// TestWatcherContextCancel verifies that Run returns cleanly on cancellation.
func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Options{BaseDir: t.TempDir(), Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Options{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := startWatcher(t, w)

	if err := w.Run(t.Context()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	if firstErr := <-errCh; firstErr != nil {
		t.Fatalf("first Run() returned error: %v", firstErr)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "bike.sxfm")
	writeModel(t, file, "x")

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{"invalid watch pattern", Options{BaseDir: dir, Patterns: []string{"[invalid"}}, ErrInvalidPattern},
		{"empty ignore pattern", Options{BaseDir: dir, Ignore: []string{""}}, ErrInvalidPattern},
		{"missing dir", Options{BaseDir: filepath.Join(dir, "nope")}, os.ErrNotExist},
		{"file as base dir", Options{BaseDir: file}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := New(tt.opts)
			if err == nil {
				t.Fatalf("New() = %v, want error", w)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelPatterns(t *testing.T) {
	t.Parallel()
	patterns := ModelPatterns()
	for _, want := range []string{"**/*.sxfm", "**/*.xml", "**/*.json", "**/*.cue", "**/*.yml"} {
		if !slices.Contains(patterns, want) {
			t.Errorf("ModelPatterns() missing %q: %v", want, patterns)
		}
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		t.Errorf("ModelPatterns() produced an invalid pattern: %v", err)
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{"models/.git/HEAD", true},
		{"bike.sxfm.swp", true},
		{"bike.sxfm~", true},
		{"sub/.DS_Store", true},
		{"bike.sxfm", false},
		{"models/car.xml", false},
		{".gitignore", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := matchAny(DefaultIgnores(), tt.path); got != tt.ignored {
				t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}

func TestIsFatalFsnotifyError_Wrapping(t *testing.T) {
	t.Parallel()

	fatal := fatalErrnos[0]
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"queue overflow", fsnotify.ErrEventOverflow, false},
		{"plain error", errors.New("read models: boom"), false},
		{"bare errno", fatal, true},
		{"syscall error", os.NewSyscallError("inotify_add_watch", fatal), true},
		{"wrapped twice", fmt.Errorf("watch models: %w", fmt.Errorf("fsnotify: %w", fatal)), true},
		{"joined", errors.Join(fsnotify.ErrEventOverflow, fatal), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
