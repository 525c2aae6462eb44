// Package history implements the bounded revoke stack of surface snapshots.
package history

import (
	"time"

	"sketchboard/internal/surface"

	"github.com/oklog/ulid/v2"
)

// Kind identifies the operation an entry undoes.
type Kind int

const (
	KindPaint Kind = iota
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindPaint:
		return "paint"
	case KindClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Entry is one revokable step: the surface as it was before the operation,
// tagged with the paint count at capture time.
type Entry struct {
	ID         ulid.ULID
	Kind       Kind
	PaintCount int
	Snapshot   *surface.Snapshot
	CapturedAt time.Time
}

// Stack is a LIFO of entries bounded to a fixed capacity. Once full, each
// capture evicts the oldest entry; evicted entries cannot be restored.
type Stack struct {
	entries  []Entry
	capacity int
	onChange func([]Entry)
}

// NewStack creates a stack holding at most capacity entries (minimum 1).
// onChange, if non-nil, receives a copy of the stack after every change.
func NewStack(capacity int, onChange func([]Entry)) *Stack {
	if capacity < 1 {
		capacity = 1
	}
	return &Stack{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		onChange: onChange,
	}
}

// Capture pushes a new entry, evicting the oldest one when at capacity.
func (s *Stack) Capture(kind Kind, paintCount int, snapshot *surface.Snapshot) Entry {
	if len(s.entries) >= s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries[len(s.entries)-1] = Entry{}
		s.entries = s.entries[:len(s.entries)-1]
	}

	e := Entry{
		ID:         ulid.Make(),
		Kind:       kind,
		PaintCount: paintCount,
		Snapshot:   snapshot,
		CapturedAt: time.Now(),
	}
	s.entries = append(s.entries, e)
	s.notify()
	return e
}

// Pop removes and returns the most recent entry. It reports false when the
// stack is empty.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	last := len(s.entries) - 1
	e := s.entries[last]
	s.entries[last] = Entry{}
	s.entries = s.entries[:last]
	s.notify()
	return e, true
}

// Reset drops every entry.
func (s *Stack) Reset() {
	for i := range s.entries {
		s.entries[i] = Entry{}
	}
	s.entries = s.entries[:0]
	s.notify()
}

// Len returns the number of entries.
func (s *Stack) Len() int { return len(s.entries) }

// Cap returns the stack capacity.
func (s *Stack) Cap() int { return s.capacity }

// Entries returns a copy of the stack, oldest first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) notify() {
	if s.onChange != nil {
		s.onChange(s.Entries())
	}
}
