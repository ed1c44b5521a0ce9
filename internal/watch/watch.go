// Package watch implements fact-file hot reload: a fsnotify watcher on
// the path given to load-facts (spec.md §6) that signals a caller when
// the file has settled after a write, so a dev loop can re-run
// load-facts without restarting the process. It never calls into
// env.Environment itself — spec.md §5 and internal/env's doc comment
// are explicit that Environment is single-threaded and unsafe to share
// across goroutines, so the watcher only ever hands the caller a
// notification on a channel; the caller decides when it is safe to
// call Environment.LoadFacts on its own goroutine.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"retenet/internal/logging"
)

// DefaultDebounce matches the settle window the teacher's
// MangleWatcher used for rapid editor saves.
const DefaultDebounce = 500 * time.Millisecond

// Stats tracks watcher activity, the same counters the teacher exposed
// for stress testing and debugging, trimmed to what a single watched
// file can produce.
type Stats struct {
	EventsSeen    int
	Reloads       int
	Errors        int
	LastEventTime time.Time
}

// Watcher watches one file and signals Settled whenever a write to it
// has gone quiet for the debounce window. It does not re-parse or
// assert anything; pairing it with env.Environment.LoadFacts is the
// caller's job (see cmd/retenetctl's dev-loop wiring).
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string // absolute path being watched
	dir      string // parent directory actually registered with fsnotify
	debounce time.Duration

	settled chan struct{} // buffered 1; a settle coalesces with any pending signal
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	stats Stats

	pendingMu sync.Mutex
	pending   bool
	timer     *time.Timer
}

// New creates a Watcher for path. fsnotify watches path's parent
// directory rather than the file itself, since editors commonly save
// by renaming a temp file over the target — a bare file watch would
// miss that rewrite. Events are filtered back down to path.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		settled:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Settled returns the channel a caller ranges over to learn when
// path has a new, quiesced write waiting to be loaded. Multiple
// writes inside one debounce window coalesce into a single signal.
func (w *Watcher) Settled() <-chan struct{} { return w.settled }

// Start begins watching path's directory in a background goroutine.
// Non-blocking; call Stop to shut it down.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		logging.Get(logging.CategoryWatch).Warn("initial watch failed, directory may not exist yet", "dir", w.dir, "error", err)
	} else {
		logging.Get(logging.CategoryWatch).Info("watching", "path", w.path)
	}

	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Error("fsnotify error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	w.mu.Lock()
	w.stats.EventsSeen++
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fireSettled)
}

func (w *Watcher) fireSettled() {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	if _, err := os.Stat(w.path); err != nil {
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	select {
	case w.settled <- struct{}{}:
	default:
		// A signal is already pending; the caller hasn't drained it yet
		// and will see the latest file content when it does.
	}
}

// Stats returns a snapshot of the watcher's counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// IsWatching reports whether the watcher's goroutine is running.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
