package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileWatcher polls a file's modification time and calls a callback each
// time the file changes. The background image is watched this way so that
// edits made in another program show up on the board.
type FileWatcher struct {
	mu            sync.Mutex
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	running       bool
	onChange      func() // Called from the watch goroutine
}

// NewFileWatcher creates a watcher for path. Symlinks are resolved so that
// a replaced link target is noticed.
func NewFileWatcher(path string, checkInterval time.Duration) (*FileWatcher, error) {
	if checkInterval <= 0 {
		return nil, fmt.Errorf("watch %s: non-positive interval %v", path, checkInterval)
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &FileWatcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
	}, nil
}

// OnChange sets the callback to invoke when the file changes.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (w *FileWatcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching in a background goroutine. Starting a running
// watcher does nothing.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.stopCh = make(chan struct{})
	w.running = true
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

// Running reports whether the watch goroutine has been started and not
// stopped.
func (w *FileWatcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *FileWatcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if cb := w.checkForUpdate(); cb != nil {
				cb()
			}
		}
	}
}

// checkForUpdate advances the baseline and returns the callback when the
// file has been modified since the last check.
func (w *FileWatcher) checkForUpdate() func() {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return nil
	}
	w.baseline = info.ModTime()
	return w.onChange
}

// CurrentModTime returns the current modification time of the watched file.
func (w *FileWatcher) CurrentModTime() (time.Time, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Path returns the resolved path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Baseline returns the modification time the next change is measured against.
func (w *FileWatcher) Baseline() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.baseline
}

// ResetBaseline updates the baseline to the file's current mod time.
func (w *FileWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}
