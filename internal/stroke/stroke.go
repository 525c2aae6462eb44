// Package stroke renders pen dots and line segments onto a surface context.
package stroke

import (
	"image/color"
	"math"

	"sketchboard/internal/surface"

	"github.com/gogpu/gg"
)

// DotRadius returns the dot radius for a pen width, so a single tap
// renders a filled circle as thick as a stroke.
func DotRadius(penWidth float64) float64 {
	return penWidth / 2
}

// DrawDot fills a full circle centred on (x, y).
func DrawDot(ctx surface.Context, x, y, radius float64, col color.Color) error {
	ctx.Push()
	defer ctx.Pop()

	ctx.ClearPath()
	ctx.SetColor(col)
	ctx.DrawArc(x, y, radius, 0, 2*math.Pi)
	return ctx.Fill()
}

// DrawSegment strokes a round-capped, round-joined line from (x1, y1) to (x2, y2).
func DrawSegment(ctx surface.Context, x1, y1, x2, y2, width float64, col color.Color) error {
	ctx.Push()
	defer ctx.Pop()

	ctx.ClearPath()
	ctx.SetColor(col)
	ctx.SetLineWidth(width)
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)
	ctx.MoveTo(x1, y1)
	ctx.LineTo(x2, y2)
	return ctx.Stroke()
}
