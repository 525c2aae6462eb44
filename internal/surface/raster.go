package surface

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
)

// Raster is a software Surface backed by a gg context.
type Raster struct {
	ctx *gg.Context
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a transparent raster surface.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface dimensions: width=%d, height=%d", width, height)
	}
	return &Raster{ctx: gg.NewContext(width, height)}, nil
}

// RasterProvider creates Raster surfaces.
var RasterProvider Provider = ProviderFunc(func(width, height int) (Surface, error) {
	return NewRaster(width, height)
})

// Context returns the gg drawing context.
func (r *Raster) Context() Context { return r.ctx }

// Width returns the surface width in pixels.
func (r *Raster) Width() int { return r.ctx.Width() }

// Height returns the surface height in pixels.
func (r *Raster) Height() int { return r.ctx.Height() }

// Resize reallocates the pixel buffer when the dimensions change.
func (r *Raster) Resize(width, height int) error {
	if err := r.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	return nil
}

// Snapshot copies the pixel buffer.
func (r *Raster) Snapshot() *Snapshot {
	_ = r.ctx.FlushGPU()
	data := r.ctx.ResizeTarget().Data()
	pix := make([]byte, len(data))
	copy(pix, data)
	return &Snapshot{Width: r.Width(), Height: r.Height(), Pix: pix}
}

// Restore copies a snapshot back into the pixel buffer.
func (r *Raster) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("restore surface: nil snapshot")
	}
	if s.Width != r.Width() || s.Height != r.Height() {
		return fmt.Errorf("restore %dx%d snapshot onto %dx%d surface: %w",
			s.Width, s.Height, r.Width(), r.Height(), ErrSnapshotSize)
	}
	_ = r.ctx.FlushGPU()
	copy(r.ctx.ResizeTarget().Data(), s.Pix)
	return nil
}

// Clear blanks the surface.
func (r *Raster) Clear() {
	r.ctx.Clear()
}

// DrawImage composites img at the origin.
func (r *Raster) DrawImage(img image.Image) {
	if img == nil {
		return
	}
	r.ctx.DrawImage(gg.ImageBufFromImage(img), 0, 0)
}

// Image returns a copy of the surface pixels.
func (r *Raster) Image() image.Image {
	_ = r.ctx.FlushGPU()
	return r.ctx.Image()
}

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	_ = r.ctx.FlushGPU()
	return r.ctx.EncodePNG(w)
}

// EncodeJPEG writes the surface as JPEG with quality in 1..100.
func (r *Raster) EncodeJPEG(w io.Writer, quality int) error {
	_ = r.ctx.FlushGPU()
	return r.ctx.EncodeJPEG(w, quality)
}

// Close releases the gg context.
func (r *Raster) Close() error {
	return r.ctx.Close()
}
