package board

import (
	"image"
	"image/color"

	"sketchboard/internal/events"
)

// View is what a mount target reads to present the board.
type View interface {
	// Image returns a copy of the current pixels.
	Image() image.Image
	Size() (width, height int)
}

// Mount is the element a board attaches to. It owns the native listeners
// and displays the surface.
type Mount interface {
	events.Binder

	// MeasuredSize returns the laid-out size of the container.
	MeasuredSize() (width, height float64)
	SetClassName(name string)
	// SetBackgroundColor sets the colour shown behind transparent pixels.
	SetBackgroundColor(c color.Color)
	Attach(v View)
	Detach()
	// Invalidate is called, outside the board lock, after the pixels change.
	Invalidate()
}
