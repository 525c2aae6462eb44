// Package app provides the desktop session: the current board, its
// background file, and the event bus the window listens on.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"sketchboard/internal/background"
	"sketchboard/internal/board"
	"sketchboard/internal/config"
	"sketchboard/internal/history"

	"github.com/sirupsen/logrus"
)

// EventType identifies different application events.
type EventType int

const (
	EventBoardReady EventType = iota
	EventHistoryChanged
	EventPaintEnd
	EventCleared
	EventRevoked
	EventRotated
	EventBackgroundLoaded
	EventExported
	EventModified
)

func (e EventType) String() string {
	switch e {
	case EventBoardReady:
		return "board-ready"
	case EventHistoryChanged:
		return "history-changed"
	case EventPaintEnd:
		return "paint-end"
	case EventCleared:
		return "cleared"
	case EventRevoked:
		return "revoked"
	case EventRotated:
		return "rotated"
	case EventBackgroundLoaded:
		return "background-loaded"
	case EventExported:
		return "exported"
	case EventModified:
		return "modified"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// BackgroundResult is the payload of EventBackgroundLoaded.
type BackgroundResult struct {
	Source string
	Err    error
}

// backgroundTimeout bounds how long the session waits on a background load
// before reporting it.
const backgroundTimeout = 30 * time.Second

// State holds the session state: the board, the background file it shows,
// and the listeners for session events.
type State struct {
	mu sync.RWMutex

	board          *board.Board
	backgroundPath string
	modified       bool
	watcher        *FileWatcher
	watchInterval  time.Duration
	newWatcher     func(path string, interval time.Duration) (*FileWatcher, error)

	log       logrus.FieldLogger
	listeners map[EventType][]EventListener
}

// NewState creates an empty session.
func NewState() *State {
	return &State{
		watchInterval: 2 * time.Second,
		newWatcher:    NewFileWatcher,
		log:           logrus.WithField("component", "session"),
		listeners:     make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// BoardOptions returns the config options that forward board callbacks to
// the session's listeners. Pass them last so they win.
func (s *State) BoardOptions() []config.Option {
	return []config.Option{
		config.OnRevokeStackChange(func(stack []history.Entry) {
			s.Emit(EventHistoryChanged, stack)
		}),
		config.OnPaintEnd(func(count int) {
			s.SetModified(true)
			s.Emit(EventPaintEnd, count)
		}),
	}
}

// NewBoard creates the session's board on target, replacing any previous one.
func (s *State) NewBoard(target board.Mount, cfg config.Config, opts ...board.Option) (*board.Board, error) {
	b, err := board.New(target, cfg.With(s.BoardOptions()...), opts...)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.mu.Lock()
	old := s.board
	s.board = b
	s.modified = false
	s.mu.Unlock()

	if old != nil {
		old.Destroy()
	}
	s.Emit(EventBoardReady, b)
	return b, nil
}

// Board returns the current board, or nil.
func (s *State) Board() *board.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Modified reports whether the board changed since it was created or last
// exported.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.modified != modified
	s.modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// Clear clears the board.
func (s *State) Clear() {
	b := s.Board()
	if b == nil {
		return
	}
	b.Clear()
	s.SetModified(true)
	s.Emit(EventCleared, nil)
}

// Revoke undoes the last stroke or clear. It reports false when there was
// nothing to undo.
func (s *State) Revoke() bool {
	b := s.Board()
	if b == nil || !b.Revoke() {
		return false
	}
	s.SetModified(true)
	s.Emit(EventRevoked, b.PaintCount())
	return true
}

// Rotate turns the board a quarter turn in direction.
func (s *State) Rotate(direction int) error {
	b := s.Board()
	if b == nil {
		return board.ErrDestroyed
	}
	if err := b.Rotate(direction); err != nil {
		return err
	}
	s.Emit(EventRotated, b.Rotation())
	return nil
}

// BackgroundPath returns the background source last set through the session.
func (s *State) BackgroundPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backgroundPath
}

// LoadBackground sets the board background from src. When src is a local
// file it is watched and reloaded on change. EventBackgroundLoaded fires
// once the load settles.
func (s *State) LoadBackground(src string) *background.Load {
	b := s.Board()
	if b == nil {
		return background.Completed(0, board.ErrDestroyed)
	}

	s.mu.Lock()
	s.backgroundPath = src
	s.mu.Unlock()
	s.watch(src)

	return s.load(b, src)
}

func (s *State) load(b *board.Board, src string) *background.Load {
	l := b.SetBackground(background.FromURL(src), 0, 0)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		err := l.Wait(ctx)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"source": src,
				"error":  err,
			}).Warn("Background not loaded")
		}
		s.Emit(EventBackgroundLoaded, BackgroundResult{Source: src, Err: err})
	}()
	return l
}

// watch replaces the file watcher with one on path, if path is a local file.
// The swap happens under one lock so concurrent calls never leave a running
// watcher behind.
func (s *State) watch(path string) {
	s.mu.RLock()
	interval, newWatcher := s.watchInterval, s.newWatcher
	s.mu.RUnlock()

	var w *FileWatcher
	if s.watchable(path) {
		var err error
		if w, err = newWatcher(path, interval); err != nil {
			s.log.WithError(err).Debug("Background not watched")
			w = nil
		}
	}
	if w != nil {
		w.OnChange(func() {
			b := s.Board()
			if b == nil || s.BackgroundPath() != path {
				return
			}
			s.log.WithField("path", path).Info("Background file changed, reloading")
			s.load(b, path)
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.watcher = w
	if w != nil {
		w.Start()
	}
}

func (s *State) watchable(path string) bool {
	if path == "" || !background.IsSupportedFormat(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ExportTo encodes the board into w and clears the modified flag.
func (s *State) ExportTo(w io.Writer, format string, quality float64) error {
	b := s.Board()
	if b == nil {
		return board.ErrDestroyed
	}
	blob, err := b.ExportBlob(format, quality)
	if err != nil {
		return err
	}
	if _, err := w.Write(blob.Data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	s.SetModified(false)
	s.Emit(EventExported, blob.MIME)
	return nil
}

// Close stops the watcher and destroys the board.
func (s *State) Close() {
	s.mu.Lock()
	b, w := s.board, s.watcher
	s.board, s.watcher = nil, nil
	s.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	if b != nil {
		b.Destroy()
	}
}
