package board

import (
	"image"
	"math"

	"sketchboard/internal/background"
	"sketchboard/internal/history"
	"sketchboard/internal/stroke"
	"sketchboard/internal/surface"

	"github.com/sirupsen/logrus"
)

// PenStyle changes the pen. Zero fields leave the current value unchanged.
type PenStyle struct {
	Color string
	Width float64
}

// Revoke undoes the most recent stroke or clear. It reports false when
// there is nothing to undo.
func (b *Board) Revoke() bool {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return false
	}
	e, ok := b.history.Pop()
	if !ok {
		return false
	}

	b.restore(e.Snapshot)
	b.paintCount = e.PaintCount
	b.invalidate()

	b.log.WithFields(logrus.Fields{
		"kind":       e.Kind.String(),
		"paintCount": e.PaintCount,
		"remaining":  b.history.Len(),
	}).Debug("Revoked")
	return true
}

// restore writes snap back. A snapshot taken before a resize is drawn at the
// origin over a blank surface.
func (b *Board) restore(snap *surface.Snapshot) {
	if snap == nil {
		return
	}
	err := b.surface.Restore(snap)
	if err == nil {
		return
	}

	b.log.WithFields(logrus.Fields{
		"snapshot": []int{snap.Width, snap.Height},
		"surface":  []int{b.surface.Width(), b.surface.Height()},
	}).Debug("Restoring snapshot of a different size")

	img := &image.RGBA{
		Pix:    snap.Pix,
		Stride: snap.Width * 4,
		Rect:   image.Rect(0, 0, snap.Width, snap.Height),
	}
	b.surface.Clear()
	b.surface.DrawImage(img)
}

// Clear blanks the drawing and redraws the background. The previous pixels
// stay on the undo stack.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return
	}
	b.history.Capture(history.KindClear, b.paintCount, b.surface.Snapshot())
	b.surface.Clear()
	b.paintCount = 0
	b.bg.Redraw(b.surface)
	b.invalidate()
}

// Rotate turns the board a quarter turn clockwise (1) or anticlockwise (-1).
// The surface swaps its width and height and is blanked, the background is
// redrawn, and the undo stack is emptied.
func (b *Board) Rotate(direction int) error {
	if direction != 1 && direction != -1 {
		return ErrInvalidDirection
	}

	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return ErrDestroyed
	}
	if b.painting {
		b.endStroke()
	}

	w, h := b.height, b.width
	if err := b.surface.Resize(w, h); err != nil {
		return err
	}
	b.width, b.height = w, h
	rotation := b.bg.Rotate(direction)
	// Resize keeps the pixels when only the orientation of a square changes.
	b.surface.Clear()
	b.bg.Redraw(b.surface)
	b.paintCount = 0
	b.history.Reset()
	b.invalidate()

	b.log.WithFields(logrus.Fields{
		"rotation": rotation,
		"width":    w,
		"height":   h,
	}).Info("Board rotated")
	return nil
}

// SetSize resizes the surface. Non-positive values keep the current
// dimension. The surface is not redrawn.
func (b *Board) SetSize(width, height int) {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return
	}
	w, h := b.width, b.height
	if width > 0 {
		w = width
	}
	if height > 0 {
		h = height
	}
	if w == b.width && h == b.height {
		return
	}
	if err := b.surface.Resize(w, h); err != nil {
		b.log.WithError(err).Warn("Failed to resize surface")
		return
	}
	b.width, b.height = w, h
	b.invalidate()
}

// SetPenStyle changes the pen colour and width. Unparseable colours and
// non-positive or non-finite widths are ignored.
func (b *Board) SetPenStyle(style PenStyle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if style.Color != "" {
		if c, err := stroke.ParseColor(style.Color); err == nil {
			b.penColor = c
			b.cfg.PenColor = style.Color
		}
	}
	if style.Width > 0 && !math.IsInf(style.Width, 0) {
		b.penWidth = style.Width
		b.cfg.PenWidth = style.Width
	}
}

// SetBackground replaces the background. Positive width and height override
// the image's own size before it is fitted to the board. Strings are loaded
// asynchronously; the returned Load completes once the background has been
// drawn or the load has failed. An empty source clears the background.
func (b *Board) SetBackground(src background.Source, width, height int) *background.Load {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return background.Completed(0, ErrDestroyed)
	}
	return b.setBackground(src, width, height)
}

func (b *Board) setBackground(src background.Source, width, height int) *background.Load {
	switch {
	case src.Image != nil:
		l := b.bg.Set(src.Image, width, height)
		b.bg.Redraw(b.surface)
		b.invalidate()
		return l
	case src.URL == "":
		gen := b.bg.Begin()
		b.bg.Clear()
		return background.Completed(gen, nil)
	default:
		return b.bg.Load(b.ctx, b.loader, src.URL, width, height, b.settleBackground)
	}
}

// settleBackground applies a finished load against the board as it is now.
func (b *Board) settleBackground(apply func() bool) {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil {
		return
	}
	if apply() && b.bg.HasImage() {
		b.bg.Redraw(b.surface)
		b.invalidate()
	}
}
