// Package input converts platform pointer events into surface-local points.
package input

import "sketchboard/pkg/geometry"

// Kind tags the pointer family an event came from.
type Kind int

const (
	KindUnknown Kind = iota
	KindMouse
	KindTouch
)

func (k Kind) String() string {
	switch k {
	case KindMouse:
		return "mouse"
	case KindTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Event is a pointer event as delivered by the platform adapter.
//
// Mouse events carry Offset, already relative to the target element.
// Touch events carry the active touches in window coordinates and the
// target's origin in the same coordinate space.
type Event struct {
	Kind    Kind
	Offset  geometry.Point2D
	Touches []geometry.Point2D
	Origin  geometry.Point2D
}

// Mouse builds a mouse event at a target-local offset.
func Mouse(x, y float64) Event {
	return Event{Kind: KindMouse, Offset: geometry.NewPoint2D(x, y)}
}

// Touch builds a touch event from absolute touch points and the target origin.
func Touch(origin geometry.Point2D, touches ...geometry.Point2D) Event {
	return Event{Kind: KindTouch, Origin: origin, Touches: touches}
}

// PointFromEvent returns the surface-local point of ev. It reports false for
// unknown event kinds and touch events without an active touch; callers
// should ignore such events.
//
// Scroll offsets of an internally scrolled surface are not accounted for.
func PointFromEvent(ev Event) (geometry.Point2D, bool) {
	switch ev.Kind {
	case KindMouse:
		return ev.Offset, ev.Offset.IsFinite()
	case KindTouch:
		if len(ev.Touches) == 0 {
			return geometry.Point2D{}, false
		}
		p := ev.Touches[0].Sub(ev.Origin)
		return p, p.IsFinite()
	default:
		return geometry.Point2D{}, false
	}
}
