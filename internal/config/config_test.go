package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 10, c.MaxRevokeSteps)
	assert.Equal(t, ModeMouse, c.Mode)
	assert.Equal(t, "red", c.PenColor)
	assert.Equal(t, 6.0, c.PenWidth)
	assert.Equal(t, "#fff", c.BackgroundColor)
	assert.Equal(t, 0, c.BackgroundRotate)
	assert.False(t, c.ManualMount)
	assert.Empty(t, c.ClassName)
}

func TestRevokeSteps(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "zero", in: 0, want: 10},
		{name: "negative", in: -5, want: 10},
		{name: "non-numeric string", in: "abc", want: 10},
		{name: "NaN", in: math.NaN(), want: 10},
		{name: "negative infinity", in: math.Inf(-1), want: 10},
		{name: "above ceiling", in: 999, want: 50},
		{name: "positive infinity", in: math.Inf(1), want: 10},
		{name: "infinity string", in: "Inf", want: 10},
		{name: "out of range string", in: "1e400", want: 10},
		{name: "in range", in: 2, want: 2},
		{name: "float truncated", in: 7.9, want: 7},
		{name: "numeric string", in: "25", want: 25},
		{name: "floor", in: 1, want: 1},
		{name: "nil", in: nil, want: 10},
		{name: "bool", in: true, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RevokeSteps(tt.in))
		})
	}
}

func TestWithMaxRevokeStepsIsClamped(t *testing.T) {
	assert.Equal(t, 50, New(WithMaxRevokeSteps(999)).MaxRevokeSteps)
	assert.Equal(t, 10, New(WithMaxRevokeSteps(-5)).MaxRevokeSteps)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeMouse, ParseMode("mouse"))
	assert.Equal(t, ModeTouch, ParseMode("touch"))
	assert.Equal(t, ModeBoth, ParseMode("BOTH"))
	assert.Equal(t, ModeMouse, ParseMode("stylus"))
	assert.Equal(t, ModeMouse, ParseMode(""))
	assert.Equal(t, ModeMouse, New(WithMode(Mode(42))).Mode)
}

func TestNormalizeFallbacks(t *testing.T) {
	c := New(
		WithPenColor("  "),
		WithPenWidth(-1),
		WithBackgroundRotate(-90),
		WithSize(-10, math.NaN()),
		WithBackgroundColor(""),
	)
	assert.Equal(t, DefaultPenColor, c.PenColor)
	assert.Equal(t, DefaultPenWidth, c.PenWidth)
	assert.Equal(t, 270, c.BackgroundRotate)
	assert.Zero(t, c.Width)
	assert.Zero(t, c.Height)
	assert.Equal(t, DefaultBackgroundColor, c.BackgroundColor)
}

func TestWithKeepsPreviousValues(t *testing.T) {
	base := New(WithPenColor("blue"), WithMaxRevokeSteps(3))
	next := base.With(WithPenWidth(2))
	assert.Equal(t, "blue", next.PenColor)
	assert.Equal(t, 3, next.MaxRevokeSteps)
	assert.Equal(t, 2.0, next.PenWidth)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SKETCHBOARD_MAX_REVOKE_STEPS", "abc")
	t.Setenv("SKETCHBOARD_MODE", "touch")
	t.Setenv("SKETCHBOARD_PEN_WIDTH", "3.5")
	t.Setenv("SKETCHBOARD_BG_IMG_ROTATE", "450")
	t.Setenv("SKETCHBOARD_WIDTH", "not-a-number")

	c := New(FromEnv()...)
	assert.Equal(t, 10, c.MaxRevokeSteps)
	assert.Equal(t, ModeTouch, c.Mode)
	assert.Equal(t, 3.5, c.PenWidth)
	assert.Equal(t, 90, c.BackgroundRotate)
	assert.Zero(t, c.Width)
}
