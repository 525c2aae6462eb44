// Package surface defines the raster surface the board draws into and
// provides a software implementation backed by gg.
package surface

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// ErrSnapshotSize is returned when a snapshot does not match the surface dimensions.
var ErrSnapshotSize = errors.New("snapshot size does not match surface")

// Context is the 2D drawing context exposed by a Surface.
// *gg.Context satisfies it.
type Context interface {
	Push()
	Pop()
	SetColor(col color.Color)
	SetLineWidth(width float64)
	SetLineCap(lineCap gg.LineCap)
	SetLineJoin(join gg.LineJoin)
	ClearPath()
	DrawArc(x, y, r, angle1, angle2 float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Fill() error
	Stroke() error
}

// Surface is a drawable raster area.
type Surface interface {
	Context() Context
	Width() int
	Height() int

	// Resize changes the surface dimensions. Content is not preserved
	// when the dimensions change.
	Resize(width, height int) error

	// Snapshot reads the full pixel buffer.
	Snapshot() *Snapshot
	// Restore writes a snapshot back over the full surface.
	Restore(s *Snapshot) error

	// Clear blanks the surface to transparent.
	Clear()
	// DrawImage composites img over the surface at the origin.
	DrawImage(img image.Image)
	// Image returns a copy of the current pixels.
	Image() image.Image

	EncodePNG(w io.Writer) error
	EncodeJPEG(w io.Writer, quality int) error

	Close() error
}

// Provider creates surfaces.
type Provider interface {
	Create(width, height int) (Surface, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(width, height int) (Surface, error)

// Create calls f.
func (f ProviderFunc) Create(width, height int) (Surface, error) {
	return f(width, height)
}

// Snapshot is a full-surface RGBA pixel buffer.
type Snapshot struct {
	Width  int
	Height int
	Pix    []byte
}

// Equal reports whether two snapshots hold the same pixels.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Width != other.Width || s.Height != other.Height || len(s.Pix) != len(other.Pix) {
		return false
	}
	for i := range s.Pix {
		if s.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}
