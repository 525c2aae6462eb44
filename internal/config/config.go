// Package config holds the board configuration and its normalization rules.
package config

import (
	"math"
	"strconv"
	"strings"

	"sketchboard/internal/history"
	"sketchboard/pkg/geometry"
)

// Revoke stack bounds.
const (
	DefaultMaxRevokeSteps = 10
	MinRevokeSteps        = 1
	MaxRevokeSteps        = 50
)

// Defaults for the remaining keys.
const (
	DefaultPenColor        = "red"
	DefaultPenWidth        = 6.0
	DefaultBackgroundColor = "#fff"
)

// Mode selects which pointer families the board listens to.
type Mode int

const (
	ModeMouse Mode = iota
	ModeTouch
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeTouch:
		return "touch"
	case ModeBoth:
		return "both"
	default:
		return "mouse"
	}
}

// ParseMode maps a mode name to a Mode. Unknown names fall back to ModeMouse.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "touch":
		return ModeTouch
	case "both":
		return ModeBoth
	default:
		return ModeMouse
	}
}

// Config is the board configuration. It is fixed once a board is built;
// Reinitialize builds a new one.
type Config struct {
	// Width and Height of the surface. Zero means the mount target's measured size.
	Width  float64
	Height float64

	ClassName   string
	ManualMount bool

	MaxRevokeSteps int
	Mode           Mode

	PenColor string
	PenWidth float64

	BackgroundURL    string
	BackgroundRotate int
	BackgroundColor  string

	OnRevokeStackChange func(stack []history.Entry)
	OnPaintEnd          func(paintCount int)
}

// Option configures a Config.
type Option func(*Config)

// Default returns a Config with every key at its default.
func Default() Config {
	return Config{
		MaxRevokeSteps:  DefaultMaxRevokeSteps,
		Mode:            ModeMouse,
		PenColor:        DefaultPenColor,
		PenWidth:        DefaultPenWidth,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// New builds a normalized Config from defaults and the given options.
func New(opts ...Option) Config {
	return Default().With(opts...)
}

// With returns a copy of c with opts applied and the result normalized.
func (c Config) With(opts ...Option) Config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	c.normalize()
	return c
}

func (c *Config) normalize() {
	c.MaxRevokeSteps = RevokeSteps(c.MaxRevokeSteps)
	if c.Width < 0 || math.IsNaN(c.Width) || math.IsInf(c.Width, 0) {
		c.Width = 0
	}
	if c.Height < 0 || math.IsNaN(c.Height) || math.IsInf(c.Height, 0) {
		c.Height = 0
	}
	if strings.TrimSpace(c.PenColor) == "" {
		c.PenColor = DefaultPenColor
	}
	if !(c.PenWidth > 0) || math.IsInf(c.PenWidth, 0) {
		c.PenWidth = DefaultPenWidth
	}
	if deg, ok := geometry.NormalizeAngle(float64(c.BackgroundRotate)); ok {
		c.BackgroundRotate = deg
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = DefaultBackgroundColor
	}
	if c.Mode < ModeMouse || c.Mode > ModeBoth {
		c.Mode = ModeMouse
	}
}

// RevokeSteps normalizes an untyped revoke-step count. Numbers are
// truncated and clamped to [MinRevokeSteps, MaxRevokeSteps]; non-positive,
// non-finite or non-numeric input yields DefaultMaxRevokeSteps.
func RevokeSteps(v any) int {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case string:
		// Out-of-range strings such as "1e400" fail here with ErrRange.
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return DefaultMaxRevokeSteps
		}
		f = parsed
	default:
		return DefaultMaxRevokeSteps
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultMaxRevokeSteps
	}
	steps := math.Trunc(f)
	if steps < MinRevokeSteps {
		return DefaultMaxRevokeSteps
	}
	if steps > MaxRevokeSteps {
		return MaxRevokeSteps
	}
	return int(steps)
}
