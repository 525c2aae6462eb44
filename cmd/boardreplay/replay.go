package main

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"sketchboard/internal/background"
	"sketchboard/internal/board"
	"sketchboard/internal/events"
	"sketchboard/internal/input"
	"sketchboard/pkg/geometry"

	"github.com/sirupsen/logrus"
)

// headlessMount is a mount target without a display. Replay fires its
// listeners directly.
type headlessMount struct {
	mu        sync.Mutex
	listeners map[string]events.Handler
}

func newHeadlessMount() *headlessMount {
	return &headlessMount{listeners: make(map[string]events.Handler)}
}

func (m *headlessMount) AddEventListener(name string, h events.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[name] = h
}

func (m *headlessMount) RemoveEventListener(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, name)
}

func (m *headlessMount) MeasuredSize() (float64, float64) { return 0, 0 }
func (m *headlessMount) SetClassName(string)              {}
func (m *headlessMount) SetBackgroundColor(color.Color)   {}
func (m *headlessMount) Attach(board.View)                {}
func (m *headlessMount) Detach()                          {}
func (m *headlessMount) Invalidate()                      {}

// fire delivers ev to the listener bound under name and reports whether
// there was one.
func (m *headlessMount) fire(name string, ev input.Event) bool {
	m.mu.Lock()
	h := m.listeners[name]
	m.mu.Unlock()
	if h == nil {
		return false
	}
	h(ev)
	return true
}

// Replayer runs a script against a board.
type Replayer struct {
	board *board.Board
	mount *headlessMount
	log   logrus.FieldLogger
}

// NewReplayer builds a board for s on a headless mount.
func NewReplayer(s *Script, opts ...board.Option) (*Replayer, error) {
	m := newHeadlessMount()
	b, err := board.New(m, configFor(s), opts...)
	if err != nil {
		return nil, err
	}
	return &Replayer{board: b, mount: m, log: logrus.WithField("component", "replay")}, nil
}

// Board returns the board being replayed onto.
func (r *Replayer) Board() *board.Board { return r.board }

// Close destroys the board.
func (r *Replayer) Close() { r.board.Destroy() }

// Run loads the script's background and then performs each step in order.
func (r *Replayer) Run(ctx context.Context, s *Script) error {
	if s.Background != "" {
		r.background(ctx, s.Background, 0, 0)
	}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	return nil
}

func (r *Replayer) step(ctx context.Context, st Step) error {
	switch st.Op {
	case OpStroke:
		return r.stroke(st.Points, false)
	case OpTouchStroke:
		return r.stroke(st.Points, true)
	case OpRevoke:
		if !r.board.Revoke() {
			r.log.Debug("Nothing to revoke")
		}
	case OpClear:
		r.board.Clear()
	case OpRotate:
		return r.board.Rotate(st.Direction)
	case OpPen:
		r.board.SetPenStyle(board.PenStyle{Color: st.Color, Width: st.Width})
	case OpSize:
		r.board.SetSize(int(st.Width), int(st.Height))
	case OpBackground:
		r.background(ctx, st.Src, int(st.Width), int(st.Height))
	default:
		return fmt.Errorf("unknown operation %q", st.Op)
	}
	return nil
}

// background sets the background and waits for it. A failed load leaves
// the background blank and the replay continues.
func (r *Replayer) background(ctx context.Context, src string, w, h int) {
	err := r.board.SetBackground(background.FromURL(src), w, h).Wait(ctx)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"source": src,
			"error":  err,
		}).Warn("Background not loaded")
	}
}

// stroke presses at the first point, moves through the rest and releases
// at the last.
func (r *Replayer) stroke(points [][2]float64, touch bool) error {
	if len(points) == 0 {
		return fmt.Errorf("stroke without points")
	}

	start, move, end := events.MouseDown, events.MouseMove, events.MouseUp
	ev := func(p [2]float64) input.Event { return input.Mouse(p[0], p[1]) }
	if touch {
		start, move, end = events.TouchStart, events.TouchMove, events.TouchEnd
		ev = func(p [2]float64) input.Event {
			return input.Touch(geometry.Point2D{}, geometry.NewPoint2D(p[0], p[1]))
		}
	}

	if !r.mount.fire(start, ev(points[0])) {
		return fmt.Errorf("%s is not listened for in %s mode", start, r.board.Config().Mode)
	}
	for _, p := range points[1:] {
		r.mount.fire(move, ev(p))
	}
	r.mount.fire(end, ev(points[len(points)-1]))
	return nil
}
