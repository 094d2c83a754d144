// Package watch reruns a callback when watched files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/readout/internal/ports"
	"github.com/bft-labs/readout/pkg/log"
)

// Config holds configuration options for the watcher.
type Config struct {
	// DebounceDelay is the quiet period after the last change before the
	// callback runs.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 100 * time.Millisecond}
}

// Watcher debounces file-change events into callback runs. Callback runs
// never overlap.
type Watcher struct {
	delay    time.Duration
	logger   ports.Logger
	onChange func(context.Context) error

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
	runMu sync.Mutex

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a watcher that calls onChange after changes settle.
func New(cfg Config, logger ports.Logger, onChange func(context.Context) error) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.Discard
	}
	return &Watcher{
		delay:    cfg.DebounceDelay,
		logger:   logger,
		onChange: onChange,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the first Run has registered every watched directory
// or has given up trying.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

func (w *Watcher) markReady() { w.readyOnce.Do(func() { close(w.ready) }) }

// Run watches paths until ctx is cancelled. The parent directory of each
// path is watched so files replaced by rename are still seen. Run returns
// after any in-flight callback has finished. A Watcher may be run again
// after Run returns.
func (w *Watcher) Run(ctx context.Context, paths ...string) error {
	defer w.markReady()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	names := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		names[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	defer w.stop()
	w.markReady()

	w.logger.Info("watching for changes", log.Int("files", len(names)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("file changed", log.String("path", event.Name), log.String("op", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		w.runMu.Lock()
		defer w.runMu.Unlock()
		if err := w.onChange(ctx); err != nil {
			w.logger.Error("rerun failed", log.Err(err))
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
	w.mu.Unlock()
	w.wg.Wait()
}
