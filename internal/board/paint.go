package board

import (
	"sketchboard/internal/events"
	"sketchboard/internal/history"
	"sketchboard/internal/input"
	"sketchboard/internal/stroke"

	"github.com/sirupsen/logrus"
)

// strokePhases are bound for the duration of one stroke.
var strokePhases = []events.Phase{
	events.PhaseMove,
	events.PhaseEnd,
	events.PhaseLeave,
	events.PhaseCancel,
}

// handleStart begins a stroke: the surface is captured for undo, a dot is
// stamped at the pointer and the stroke listeners are bound.
func (b *Board) handleStart(ev input.Event) {
	b.mu.Lock()
	defer b.unlock()

	if b.surface == nil || !b.mounted || b.painting {
		return
	}
	p, ok := input.PointFromEvent(ev)
	if !ok {
		return
	}

	b.history.Capture(history.KindPaint, b.paintCount, b.surface.Snapshot())
	if err := stroke.DrawDot(b.surface.Context(), p.X, p.Y, stroke.DotRadius(b.penWidth), b.penColor); err != nil {
		b.log.WithError(err).Warn("Failed to draw stroke start")
	}

	b.painting = true
	b.last = p
	b.router.Bind(events.PhaseMove, b.handleMove)
	b.router.Bind(events.PhaseEnd, b.handleEnd)
	b.router.Bind(events.PhaseLeave, b.handleEnd)
	b.router.Bind(events.PhaseCancel, b.handleEnd)
	b.invalidate()
}

func (b *Board) handleMove(ev input.Event) {
	b.mu.Lock()
	defer b.unlock()

	if !b.painting || b.surface == nil {
		return
	}
	p, ok := input.PointFromEvent(ev)
	if !ok {
		return
	}

	if err := stroke.DrawSegment(b.surface.Context(), b.last.X, b.last.Y, p.X, p.Y, b.penWidth, b.penColor); err != nil {
		b.log.WithError(err).Warn("Failed to draw stroke segment")
	}
	b.last = p
	b.invalidate()
}

// handleEnd finishes the stroke on release, leave or cancel.
func (b *Board) handleEnd(input.Event) {
	b.mu.Lock()
	defer b.unlock()

	if !b.painting {
		return
	}
	b.endStroke()
}

func (b *Board) endStroke() {
	b.painting = false
	b.paintCount++
	for _, phase := range strokePhases {
		b.router.Unbind(phase)
	}

	count := b.paintCount
	b.log.WithFields(logrus.Fields{
		"paintCount": count,
		"undo":       b.history.Len(),
	}).Debug("Stroke finished")

	if fn := b.cfg.OnPaintEnd; fn != nil {
		b.queue(func() { fn(count) })
	}
}
