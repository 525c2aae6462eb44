// Package background holds the board's background image and redraws it
// under the current rotation.
package background

import (
	"image"

	"sketchboard/internal/surface"
	"sketchboard/pkg/geometry"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Source is a background to load: either a string (URL, file path, data URI
// or base64) or an already decoded image.
type Source struct {
	URL   string
	Image image.Image
}

// FromURL returns a string source.
func FromURL(src string) Source { return Source{URL: src} }

// FromImage returns an image source.
func FromImage(img image.Image) Source { return Source{Image: img} }

// IsZero reports whether the source names nothing.
func (s Source) IsZero() bool { return s.URL == "" && s.Image == nil }

// State is the background as currently held.
type State struct {
	Image          image.Image
	OriginalWidth  int
	OriginalHeight int
	// Rotation is always one of 0, 90, 180 or 270.
	Rotation int
}

// Manager owns the background state. It is not safe for concurrent use;
// the board serializes access.
type Manager struct {
	state State
	gen   uint64
	log   logrus.FieldLogger
}

// NewManager creates a manager with an initial rotation in degrees.
func NewManager(rotation int, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Manager{log: log}
	m.SetRotation(rotation)
	return m
}

// State returns a copy of the current state.
func (m *Manager) State() State { return m.state }

// HasImage reports whether an image is held.
func (m *Manager) HasImage() bool { return m.state.Image != nil }

// Rotation returns the current rotation in degrees.
func (m *Manager) Rotation() int { return m.state.Rotation }

// SetRotation normalizes and stores a rotation.
func (m *Manager) SetRotation(degrees int) {
	if deg, ok := geometry.NormalizeAngle(float64(degrees)); ok {
		m.state.Rotation = deg
	}
}

// Rotate advances the rotation by a quarter turn in direction (+1 or -1)
// and returns the new rotation.
func (m *Manager) Rotate(direction int) int {
	m.SetRotation(m.state.Rotation + direction*geometry.QuarterTurn)
	return m.state.Rotation
}

// Begin starts a new load and returns its generation. Any load started
// earlier becomes stale.
func (m *Manager) Begin() uint64 {
	m.gen++
	return m.gen
}

// Generation returns the generation of the most recent load.
func (m *Manager) Generation() uint64 { return m.gen }

// Resolve stores img for load gen. Explicit positive width/height are
// recorded as the original size in place of the image's own; they do not
// affect how the image is drawn. It reports false, changing nothing, for a stale
// generation.
func (m *Manager) Resolve(gen uint64, img image.Image, width, height int) bool {
	if gen != m.gen {
		m.log.WithFields(logrus.Fields{
			"generation": gen,
			"current":    m.gen,
		}).Debug("Dropping stale background load")
		return false
	}
	if img == nil {
		m.Clear()
		return true
	}

	b := img.Bounds()
	if width <= 0 {
		width = b.Dx()
	}
	if height <= 0 {
		height = b.Dy()
	}
	m.state.Image = img
	m.state.OriginalWidth = width
	m.state.OriginalHeight = height
	return true
}

// Fail records a failed load: the held image is dropped and the background
// stays blank. It reports false for a stale generation.
func (m *Manager) Fail(gen uint64, err error) bool {
	if gen != m.gen {
		return false
	}
	m.log.WithFields(logrus.Fields{
		"generation": gen,
		"error":      err,
	}).Warn("Background load failed, leaving background blank")
	m.Clear()
	return true
}

// Clear drops the held image, keeping the rotation.
func (m *Manager) Clear() {
	m.state.Image = nil
	m.state.OriginalWidth = 0
	m.state.OriginalHeight = 0
}

// DestinationSize is the size of the rectangle the background is drawn into,
// measured in the rotated frame: width x height at 0/180 degrees and
// height x width at 90/270.
func DestinationSize(width, height float64, rotation int) geometry.Size {
	size := geometry.NewSize(width, height)
	if geometry.IsQuarterSideways(rotation) {
		return size.Swapped()
	}
	return size
}

// Placement returns the transform from source pixel coordinates to surface
// coordinates: translate to the surface centre, rotate, then draw into the
// destination rectangle centred on the new origin. The scale comes from the
// source bounds, so the image always covers the destination.
func Placement(surfaceW, surfaceH float64, rotation int, src image.Rectangle) geometry.AffineTransform {
	dst := DestinationSize(surfaceW, surfaceH, rotation)
	return geometry.Translation(surfaceW/2, surfaceH/2).
		Compose(geometry.Rotation(geometry.Radians(float64(rotation)))).
		Compose(geometry.Translation(-dst.Width/2, -dst.Height/2)).
		Compose(geometry.Scale(dst.Width/float64(src.Dx()), dst.Height/float64(src.Dy()))).
		Compose(geometry.Translation(-float64(src.Min.X), -float64(src.Min.Y)))
}

// Redraw draws the held image onto dst under the current rotation, filling
// the whole surface. It does nothing when no image is held.
func (m *Manager) Redraw(dst surface.Surface) {
	img := m.state.Image
	if img == nil || dst == nil {
		return
	}
	w, h := dst.Width(), dst.Height()
	if w <= 0 || h <= 0 || img.Bounds().Empty() {
		return
	}

	t := Placement(float64(w), float64(h), m.state.Rotation, img.Bounds())
	aff := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}

	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Transform(layer, aff, img, img.Bounds(), xdraw.Over, nil)
	dst.DrawImage(layer)

	m.log.WithFields(logrus.Fields{
		"rotation": m.state.Rotation,
		"width":    w,
		"height":   h,
	}).Debug("Background redrawn")
}
