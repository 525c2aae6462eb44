package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchboard/internal/surface"
)

func snap(tag byte) *surface.Snapshot {
	return &surface.Snapshot{Width: 1, Height: 1, Pix: []byte{tag, 0, 0, 255}}
}

func TestCaptureAndPopLIFO(t *testing.T) {
	s := NewStack(5, nil)
	s.Capture(KindPaint, 0, snap(1))
	s.Capture(KindPaint, 1, snap(2))
	s.Capture(KindClear, 2, snap(3))

	require.Equal(t, 3, s.Len())

	e, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, KindClear, e.Kind)
	assert.Equal(t, 2, e.PaintCount)
	assert.Equal(t, byte(3), e.Snapshot.Pix[0])

	e, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, e.PaintCount)
	assert.Equal(t, 1, s.Len())
}

func TestPopEmpty(t *testing.T) {
	s := NewStack(3, nil)
	_, ok := s.Pop()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	s := NewStack(2, nil)
	s.Capture(KindPaint, 0, snap(1))
	s.Capture(KindPaint, 1, snap(2))
	s.Capture(KindPaint, 2, snap(3))

	require.Equal(t, 2, s.Len())
	entries := s.Entries()
	assert.Equal(t, []int{1, 2}, []int{entries[0].PaintCount, entries[1].PaintCount})

	e, _ := s.Pop()
	assert.Equal(t, 2, e.PaintCount)
	e, _ = s.Pop()
	assert.Equal(t, 1, e.PaintCount)
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestLengthNeverExceedsCapacity(t *testing.T) {
	s := NewStack(4, nil)
	for i := 0; i < 50; i++ {
		s.Capture(KindPaint, i, snap(byte(i)))
		assert.LessOrEqual(t, s.Len(), s.Cap())
	}
	e, _ := s.Pop()
	assert.Equal(t, 49, e.PaintCount)
}

func TestNotifiesOnEveryChange(t *testing.T) {
	var lengths []int
	s := NewStack(2, func(entries []Entry) { lengths = append(lengths, len(entries)) })

	s.Capture(KindPaint, 0, snap(1))
	s.Capture(KindPaint, 1, snap(2))
	s.Capture(KindPaint, 2, snap(3))
	s.Pop()
	s.Pop()
	s.Pop() // empty: no notification
	s.Capture(KindClear, 0, snap(4))
	s.Reset()

	assert.Equal(t, []int{1, 2, 2, 1, 0, 1, 0}, lengths)
}

func TestEntriesIsACopy(t *testing.T) {
	s := NewStack(2, nil)
	s.Capture(KindPaint, 0, snap(1))
	entries := s.Entries()
	entries[0].PaintCount = 42
	assert.Equal(t, 0, s.Entries()[0].PaintCount)
}

func TestEntryIDsAreUnique(t *testing.T) {
	s := NewStack(3, nil)
	a := s.Capture(KindPaint, 0, snap(1))
	b := s.Capture(KindPaint, 1, snap(2))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMinimumCapacity(t *testing.T) {
	assert.Equal(t, 1, NewStack(0, nil).Cap())
}
