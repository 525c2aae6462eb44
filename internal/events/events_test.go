package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sketchboard/internal/config"
	"sketchboard/internal/input"
)

// countingBinder tracks how many listeners exist per native name.
type countingBinder struct {
	listeners map[string]int
	handlers  map[string]Handler
}

func newCountingBinder() *countingBinder {
	return &countingBinder{listeners: map[string]int{}, handlers: map[string]Handler{}}
}

func (b *countingBinder) AddEventListener(name string, h Handler) {
	b.listeners[name]++
	b.handlers[name] = h
}

func (b *countingBinder) RemoveEventListener(name string) {
	if b.listeners[name] > 0 {
		b.listeners[name]--
	}
	if b.listeners[name] == 0 {
		delete(b.handlers, name)
	}
}

func noop(input.Event) {}

func TestResolveFamily(t *testing.T) {
	assert.Equal(t, FamilyMouse, ResolveFamily(config.ModeMouse))
	assert.Equal(t, FamilyTouch, ResolveFamily(config.ModeTouch))
	assert.Equal(t, FamilyAny, ResolveFamily(config.ModeBoth))
	assert.Equal(t, FamilyMouse, ResolveFamily(config.Mode(9)))
}

func TestNativeName(t *testing.T) {
	name, ok := NativeName(FamilyMouse, PhaseLeave)
	assert.True(t, ok)
	assert.Equal(t, MouseLeave, name)

	_, ok = NativeName(FamilyTouch, PhaseLeave)
	assert.False(t, ok)

	name, ok = NativeName(FamilyTouch, PhaseCancel)
	assert.True(t, ok)
	assert.Equal(t, TouchCancel, name)
}

func TestBindStartForMode(t *testing.T) {
	tests := []struct {
		mode config.Mode
		want []string
	}{
		{mode: config.ModeMouse, want: []string{MouseDown}},
		{mode: config.ModeTouch, want: []string{TouchStart}},
		{mode: config.ModeBoth, want: []string{MouseDown, TouchStart}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			r := NewRouter(newCountingBinder(), tt.mode)
			r.Bind(PhaseStart, noop)
			assert.Equal(t, tt.want, r.Bound())
		})
	}
}

func TestRepeatedBindKeepsOneListenerPerName(t *testing.T) {
	b := newCountingBinder()
	r := NewRouter(b, config.ModeBoth)
	r.Bind(PhaseStart, noop)

	for i := 0; i < 5; i++ {
		for _, p := range []Phase{PhaseMove, PhaseEnd, PhaseLeave, PhaseCancel} {
			r.Bind(p, noop)
			r.Bind(p, noop)
		}
		for name, n := range b.listeners {
			assert.LessOrEqual(t, n, 1, name)
		}
		for _, p := range []Phase{PhaseMove, PhaseEnd, PhaseLeave, PhaseCancel} {
			r.Unbind(p)
		}
		for name, n := range b.listeners {
			if name == MouseDown || name == TouchStart {
				assert.Equal(t, 1, n, name)
				continue
			}
			assert.Zero(t, n, name)
		}
	}
}

func TestUnbindAll(t *testing.T) {
	b := newCountingBinder()
	r := NewRouter(b, config.ModeMouse)
	r.Bind(PhaseStart, noop)
	r.Bind(PhaseMove, noop)
	r.UnbindAll()

	assert.Empty(t, r.Bound())
	for name, n := range b.listeners {
		assert.Zero(t, n, name)
	}
}
