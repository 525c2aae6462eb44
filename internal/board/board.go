// Package board is the drawing board controller. It owns the raster
// surface, routes pointer input into strokes, and keeps the undo history
// and background in step with rotation and resizing.
package board

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"sketchboard/internal/background"
	"sketchboard/internal/config"
	"sketchboard/internal/events"
	"sketchboard/internal/history"
	"sketchboard/internal/stroke"
	"sketchboard/internal/surface"
	"sketchboard/pkg/geometry"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

// Fallback surface size when neither the config nor the mount target
// provides one.
const (
	FallbackWidth  = 300
	FallbackHeight = 150
)

var (
	// ErrNoMount is returned when a board is created without a mount target.
	ErrNoMount = errors.New("board: no mount target")
	// ErrInvalidDirection is returned by Rotate for anything but +1 or -1.
	ErrInvalidDirection = errors.New("board: rotation direction must be 1 or -1")
	// ErrDestroyed is returned by operations on a destroyed board.
	ErrDestroyed = errors.New("board: destroyed")
)

// Board is a freehand drawing board. All methods are safe for concurrent
// use; user callbacks run after the board lock is released.
type Board struct {
	mu sync.Mutex

	cfg      config.Config
	mount    Mount
	provider surface.Provider
	loader   background.Loader
	log      logrus.FieldLogger
	dlDir    string

	surface surface.Surface
	router  *events.Router
	history *history.Stack
	bg      *background.Manager

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	penColor      color.Color
	penWidth      float64

	painting   bool
	last       geometry.Point2D
	paintCount int

	mounted   bool
	destroyed bool

	pending     []func()
	invalidated bool
}

// Option configures the board's collaborators.
type Option func(*Board)

// WithSurfaceProvider sets the factory used for the drawing surface.
func WithSurfaceProvider(p surface.Provider) Option {
	return func(b *Board) { b.provider = p }
}

// WithLoader sets the background loader.
func WithLoader(l background.Loader) Option {
	return func(b *Board) { b.loader = l }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Board) { b.log = log }
}

// WithDownloadDir sets the directory Download writes into.
func WithDownloadDir(dir string) Option {
	return func(b *Board) { b.dlDir = dir }
}

// New creates a board on target. Unless cfg.ManualMount is set the board is
// mounted immediately.
func New(target Mount, cfg config.Config, opts ...Option) (*Board, error) {
	if target == nil {
		return nil, ErrNoMount
	}

	b := &Board{
		cfg:      cfg.With(),
		mount:    target,
		provider: surface.RasterProvider,
		loader:   background.DefaultLoader{},
		dlDir:    ".",
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}

	b.mu.Lock()
	defer b.unlock()

	if err := b.build(); err != nil {
		return nil, err
	}
	if !b.cfg.ManualMount {
		b.attach()
	}
	return b, nil
}

// build creates the surface and per-instance state from b.cfg.
func (b *Board) build() error {
	w, h := b.initialSize()
	s, err := b.provider.Create(w, h)
	if err != nil {
		return fmt.Errorf("create surface %dx%d: %w", w, h, err)
	}

	b.surface = s
	b.width, b.height = w, h
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.router = events.NewRouter(b.mount, b.cfg.Mode)
	b.history = history.NewStack(b.cfg.MaxRevokeSteps, b.historyChanged)
	b.bg = background.NewManager(b.cfg.BackgroundRotate, b.log)

	b.penWidth = b.cfg.PenWidth
	b.penColor = colornames.Red
	if c, err := stroke.ParseColor(b.cfg.PenColor); err == nil {
		b.penColor = c
	} else {
		b.log.WithField("color", b.cfg.PenColor).Warn("Invalid pen color, using default")
	}

	b.painting = false
	b.paintCount = 0
	b.destroyed = false

	b.log.WithFields(logrus.Fields{
		"width":  w,
		"height": h,
		"mode":   b.cfg.Mode.String(),
		"undo":   b.cfg.MaxRevokeSteps,
	}).Debug("Board built")
	return nil
}

func (b *Board) initialSize() (int, int) {
	w, h := b.cfg.Width, b.cfg.Height
	if w <= 0 || h <= 0 {
		mw, mh := b.mount.MeasuredSize()
		if w <= 0 {
			w = mw
		}
		if h <= 0 {
			h = mh
		}
	}
	iw, ih := int(math.Round(w)), int(math.Round(h))
	if iw <= 0 {
		iw = FallbackWidth
	}
	if ih <= 0 {
		ih = FallbackHeight
	}
	return iw, ih
}

// attach puts the board on its mount target and starts listening for
// pointer starts. The configured background, if any, starts loading.
func (b *Board) attach() {
	if b.mounted {
		return
	}

	b.mount.SetClassName(b.cfg.ClassName)
	bgColor, err := stroke.ParseColor(b.cfg.BackgroundColor)
	if err != nil {
		bgColor = color.White
	}
	b.mount.SetBackgroundColor(bgColor)
	b.mount.Attach(b)
	b.router.Bind(events.PhaseStart, b.handleStart)
	b.mounted = true
	b.invalidate()

	if b.cfg.BackgroundURL != "" {
		b.setBackground(background.FromURL(b.cfg.BackgroundURL), 0, 0)
	}
}

// teardown releases everything build and attach created.
func (b *Board) teardown() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.router != nil {
		b.router.UnbindAll()
	}
	if b.mounted {
		b.mount.Detach()
		b.mounted = false
	}
	if b.surface != nil {
		if err := b.surface.Close(); err != nil {
			b.log.WithError(err).Warn("Failed to close surface")
		}
		b.surface = nil
	}
	b.painting = false
}

// Mount attaches a board created with ManualMount. Mounting twice is a no-op.
func (b *Board) Mount() error {
	b.mu.Lock()
	defer b.unlock()

	if b.destroyed {
		return ErrDestroyed
	}
	b.attach()
	return nil
}

// Destroy detaches the board and releases the surface. Pending background
// loads are cancelled.
func (b *Board) Destroy() {
	b.mu.Lock()
	defer b.unlock()

	if b.destroyed {
		return
	}
	b.teardown()
	b.destroyed = true
	b.log.Debug("Board destroyed")
}

// Reinitialize destroys the board and builds it again from the previous
// configuration with opts applied on top.
func (b *Board) Reinitialize(opts ...config.Option) error {
	b.mu.Lock()
	defer b.unlock()

	b.teardown()
	b.cfg = b.cfg.With(opts...)
	if err := b.build(); err != nil {
		b.destroyed = true
		return err
	}
	if !b.cfg.ManualMount {
		b.attach()
	}
	return nil
}

// Config returns the configuration the board was built from.
func (b *Board) Config() config.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// PaintCount returns the number of completed strokes since the last clear,
// rotation or rebuild.
func (b *Board) PaintCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paintCount
}

// Rotation returns the background rotation in degrees.
func (b *Board) Rotation() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bg == nil {
		return 0
	}
	return b.bg.Rotation()
}

// Size returns the surface size in pixels.
func (b *Board) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// History returns a copy of the undo stack, oldest first.
func (b *Board) History() []history.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.history == nil {
		return nil
	}
	return b.history.Entries()
}

// Painting reports whether a stroke is in progress.
func (b *Board) Painting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.painting
}

// Mounted reports whether the board is attached to its mount target.
func (b *Board) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}

// Image returns a copy of the current pixels, or nil once destroyed.
func (b *Board) Image() image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return nil
	}
	return b.surface.Image()
}

// historyChanged is the stack's change hook; it runs under the lock.
func (b *Board) historyChanged(entries []history.Entry) {
	if fn := b.cfg.OnRevokeStackChange; fn != nil {
		b.queue(func() { fn(entries) })
	}
}

func (b *Board) queue(fn func()) {
	b.pending = append(b.pending, fn)
}

func (b *Board) invalidate() {
	if b.invalidated || !b.mounted {
		return
	}
	b.invalidated = true
	b.queue(b.mount.Invalidate)
}

// unlock releases the lock and then runs the callbacks queued under it.
func (b *Board) unlock() {
	pending := b.pending
	b.pending = nil
	b.invalidated = false
	b.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
