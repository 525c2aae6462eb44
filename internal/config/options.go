package config

import "sketchboard/internal/history"

// WithSize fixes the surface size. Zero keeps the measured container size.
func WithSize(width, height float64) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithClassName sets the class name handed to the mount target.
func WithClassName(name string) Option {
	return func(c *Config) { c.ClassName = name }
}

// WithManualMount defers mounting until Board.Mount is called.
func WithManualMount(manual bool) Option {
	return func(c *Config) { c.ManualMount = manual }
}

// WithMaxRevokeSteps sets the revoke stack capacity.
func WithMaxRevokeSteps(n int) Option {
	return func(c *Config) { c.MaxRevokeSteps = n }
}

// WithMode sets the interactive mode.
func WithMode(mode Mode) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithPenColor sets the initial pen colour.
func WithPenColor(color string) Option {
	return func(c *Config) { c.PenColor = color }
}

// WithPenWidth sets the initial pen width.
func WithPenWidth(width float64) Option {
	return func(c *Config) { c.PenWidth = width }
}

// WithBackgroundURL sets the background image source (URL, path, data URI or base64).
func WithBackgroundURL(src string) Option {
	return func(c *Config) { c.BackgroundURL = src }
}

// WithBackgroundRotate sets the initial background rotation in degrees.
func WithBackgroundRotate(degrees int) Option {
	return func(c *Config) { c.BackgroundRotate = degrees }
}

// WithBackgroundColor sets the colour shown behind the surface.
func WithBackgroundColor(color string) Option {
	return func(c *Config) { c.BackgroundColor = color }
}

// OnRevokeStackChange registers the history-changed callback.
func OnRevokeStackChange(fn func(stack []history.Entry)) Option {
	return func(c *Config) { c.OnRevokeStackChange = fn }
}

// OnPaintEnd registers the stroke-end callback.
func OnPaintEnd(fn func(paintCount int)) Option {
	return func(c *Config) { c.OnPaintEnd = fn }
}
