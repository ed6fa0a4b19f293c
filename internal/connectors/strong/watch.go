package strong

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// debounceDelay batches the burst of write events produced while an export
// file is still being copied into the watched directory.
const debounceDelay = 500 * time.Millisecond

// Watcher observes a directory for new or rewritten Strong CSV exports and
// emits the path of each settled file.
type Watcher struct {
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending sync.WaitGroup
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounceDelay,
		timers:   make(map[string]*time.Timer),
	}
}

// Watch starts watching and returns a channel of export paths. The channel
// closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	exports := make(chan string)
	go func() {
		// Pending debounce timers may still be about to emit; the channel
		// must not close until they have drained.
		defer close(exports)
		defer w.pending.Wait()
		defer w.stopTimers()
		defer fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				if !isCSV(event.Name) {
					continue
				}
				w.schedule(ctx, event.Name, exports)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()
	logger.Debug("Watching %s for CSV exports", w.dir)
	return exports, nil
}

// schedule arms (or re-arms) the debounce timer for path, emitting it once
// writes stop arriving.
func (w *Watcher) schedule(ctx context.Context, path string, exports chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending.Add(1)
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case exports <- path:
		case <-ctx.Done():
		}
	})
}

// stopTimers cancels timers that have not fired yet. Timers whose callback
// is already running settle their own pending count.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		if timer.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
