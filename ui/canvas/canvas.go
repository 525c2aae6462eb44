// Package canvas provides the fyne widget a drawing board is mounted on.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"sketchboard/internal/board"
	"sketchboard/internal/events"
	"sketchboard/internal/input"
	"sketchboard/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// BoardCanvas is a widget that hosts a drawing board. Pointer input is
// delivered to the listeners the board binds, and the board's pixels are
// shown over a solid background colour.
type BoardCanvas struct {
	widget.BaseWidget

	mu        sync.Mutex
	view      board.View
	className string
	listeners map[string]events.Handler
	touching  bool
	lastPos   fyne.Position

	background *fynecanvas.Rectangle
	raster     *fynecanvas.Raster
	scroll     *container.Scroll
}

var (
	_ board.Mount         = (*BoardCanvas)(nil)
	_ desktop.Mouseable   = (*BoardCanvas)(nil)
	_ desktop.Hoverable   = (*BoardCanvas)(nil)
	_ fyne.Draggable      = (*BoardCanvas)(nil)
	_ mobile.Touchable    = (*BoardCanvas)(nil)
	_ fyne.WidgetRenderer = (*boardCanvasRenderer)(nil)
)

// NewBoardCanvas creates an empty canvas. It shows nothing until a board
// attaches to it.
func NewBoardCanvas() *BoardCanvas {
	c := &BoardCanvas{
		listeners:  make(map[string]events.Handler),
		background: fynecanvas.NewRectangle(color.White),
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.ExtendBaseWidget(c)
	c.scroll = container.NewScroll(c)
	c.scroll.Direction = container.ScrollBoth
	return c
}

// Container returns the scrollable container holding the canvas.
func (c *BoardCanvas) Container() fyne.CanvasObject {
	return c.scroll
}

// ClassName returns the class name the board assigned.
func (c *BoardCanvas) ClassName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.className
}

// draw is the raster generator; it shows the attached board's pixels.
func (c *BoardCanvas) draw(w, h int) image.Image {
	v := c.currentView()
	if v == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if img := v.Image(); img != nil {
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func (c *BoardCanvas) currentView() board.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// surfaceSize is the attached board's size, or zero.
func (c *BoardCanvas) surfaceSize() fyne.Size {
	v := c.currentView()
	if v == nil {
		return fyne.Size{}
	}
	w, h := v.Size()
	return fyne.NewSize(float32(w), float32(h))
}

// scale maps widget units to surface pixels. The raster is stretched over
// the widget, so the factor is 1 unless the layout grew or shrank it.
func (c *BoardCanvas) scale() (float64, float64) {
	surface, size := c.surfaceSize(), c.Size()
	sx, sy := 1.0, 1.0
	if surface.Width > 0 && size.Width > 0 {
		sx = float64(surface.Width / size.Width)
	}
	if surface.Height > 0 && size.Height > 0 {
		sy = float64(surface.Height / size.Height)
	}
	return sx, sy
}

// Mount target

// AddEventListener implements events.Binder.
func (c *BoardCanvas) AddEventListener(name string, h events.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[name] = h
}

// RemoveEventListener implements events.Binder.
func (c *BoardCanvas) RemoveEventListener(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, name)
}

// MeasuredSize returns the widget's laid-out size.
func (c *BoardCanvas) MeasuredSize() (float64, float64) {
	size := c.Size()
	return float64(size.Width), float64(size.Height)
}

// SetClassName records the board's class name.
func (c *BoardCanvas) SetClassName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.className = name
}

// SetBackgroundColor sets the colour behind the board's pixels.
func (c *BoardCanvas) SetBackgroundColor(col color.Color) {
	c.background.FillColor = col
	c.background.Refresh()
}

// Attach shows v. It must not read from v; the board is locked.
func (c *BoardCanvas) Attach(v board.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// Detach stops showing the board.
func (c *BoardCanvas) Detach() {
	c.mu.Lock()
	c.view = nil
	c.touching = false
	c.mu.Unlock()
	c.raster.Refresh()
}

// Invalidate redraws the pixels and lets the layout pick up a new size.
func (c *BoardCanvas) Invalidate() {
	c.Refresh()
	c.scroll.Refresh()
}

// emit calls the listener bound under name outside the widget lock; the
// listener may bind and unbind others.
func (c *BoardCanvas) emit(name string, ev input.Event) {
	c.mu.Lock()
	h := c.listeners[name]
	c.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (c *BoardCanvas) emitMouse(name string, pos fyne.Position) {
	c.mu.Lock()
	c.lastPos = pos
	c.mu.Unlock()

	sx, sy := c.scale()
	c.emit(name, input.Mouse(float64(pos.X)*sx, float64(pos.Y)*sy))
}

// emitTouch sends a touch event. The widget origin in absolute coordinates
// is recovered from the event's absolute and relative positions.
func (c *BoardCanvas) emitTouch(name string, ev fyne.PointEvent, active bool) {
	sx, sy := c.scale()
	abs := geometry.NewPoint2D(float64(ev.AbsolutePosition.X)*sx, float64(ev.AbsolutePosition.Y)*sy)
	origin := abs.Sub(geometry.NewPoint2D(float64(ev.Position.X)*sx, float64(ev.Position.Y)*sy))
	if active {
		c.emit(name, input.Touch(origin, abs))
		return
	}
	c.emit(name, input.Touch(origin))
}

func (c *BoardCanvas) isTouching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touching
}

func (c *BoardCanvas) setTouching(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touching = on
}

// Desktop pointer

// MouseDown implements desktop.Mouseable.
func (c *BoardCanvas) MouseDown(ev *desktop.MouseEvent) {
	c.emitMouse(events.MouseDown, ev.Position)
}

// MouseUp implements desktop.Mouseable.
func (c *BoardCanvas) MouseUp(ev *desktop.MouseEvent) {
	c.emitMouse(events.MouseUp, ev.Position)
}

// MouseIn implements desktop.Hoverable.
func (c *BoardCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (c *BoardCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.emitMouse(events.MouseMove, ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (c *BoardCanvas) MouseOut() {
	c.mu.Lock()
	pos := c.lastPos
	c.mu.Unlock()
	c.emitMouse(events.MouseLeave, pos)
}

// Dragged implements fyne.Draggable. Drags belong to the active touch when
// there is one and to the mouse otherwise.
func (c *BoardCanvas) Dragged(ev *fyne.DragEvent) {
	if c.isTouching() {
		c.emitTouch(events.TouchMove, ev.PointEvent, true)
		return
	}
	c.emitMouse(events.MouseMove, ev.Position)
}

// DragEnd implements fyne.Draggable.
func (c *BoardCanvas) DragEnd() {
	if c.isTouching() {
		return
	}
	c.mu.Lock()
	pos := c.lastPos
	c.mu.Unlock()
	c.emitMouse(events.MouseUp, pos)
}

// Touch

// TouchDown implements mobile.Touchable.
func (c *BoardCanvas) TouchDown(ev *mobile.TouchEvent) {
	c.setTouching(true)
	c.emitTouch(events.TouchStart, ev.PointEvent, true)
}

// TouchUp implements mobile.Touchable.
func (c *BoardCanvas) TouchUp(ev *mobile.TouchEvent) {
	c.setTouching(false)
	c.emitTouch(events.TouchEnd, ev.PointEvent, false)
}

// TouchCancel implements mobile.Touchable.
func (c *BoardCanvas) TouchCancel(ev *mobile.TouchEvent) {
	c.setTouching(false)
	c.emitTouch(events.TouchCancel, ev.PointEvent, false)
}

// CreateRenderer implements fyne.Widget.
func (c *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardCanvasRenderer{canvas: c}
}

type boardCanvasRenderer struct {
	canvas *BoardCanvas
}

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.background.Resize(size)
	r.canvas.raster.Resize(size)
}

func (r *boardCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.surfaceSize()
}

func (r *boardCanvasRenderer) Refresh() {
	r.canvas.background.Refresh()
	r.canvas.raster.Refresh()
}

func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.background, r.canvas.raster}
}

func (r *boardCanvasRenderer) Destroy() {}
