// Package events maps pointer phases to native event names and keeps at most
// one handler bound per name.
package events

import (
	"sort"

	"sketchboard/internal/config"
	"sketchboard/internal/input"
)

// Family is a pointer family. FamilyAny matches both.
type Family int

const (
	FamilyMouse Family = iota
	FamilyTouch
	FamilyAny
)

func (f Family) String() string {
	switch f {
	case FamilyMouse:
		return "mouse"
	case FamilyTouch:
		return "touch"
	default:
		return "any"
	}
}

// Phase is a stage of a stroke.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
	PhaseLeave
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	case PhaseLeave:
		return "leave"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Native event names.
const (
	MouseDown   = "mousedown"
	MouseMove   = "mousemove"
	MouseUp     = "mouseup"
	MouseLeave  = "mouseleave"
	TouchStart  = "touchstart"
	TouchMove   = "touchmove"
	TouchEnd    = "touchend"
	TouchCancel = "touchcancel"
)

type key struct {
	family Family
	phase  Phase
}

// table maps (family, phase) to the native event name.
var table = map[key]string{
	{FamilyMouse, PhaseStart}:  MouseDown,
	{FamilyMouse, PhaseMove}:   MouseMove,
	{FamilyMouse, PhaseEnd}:    MouseUp,
	{FamilyMouse, PhaseLeave}:  MouseLeave,
	{FamilyTouch, PhaseStart}:  TouchStart,
	{FamilyTouch, PhaseMove}:   TouchMove,
	{FamilyTouch, PhaseEnd}:    TouchEnd,
	{FamilyTouch, PhaseCancel}: TouchCancel,
}

// ResolveFamily maps an interactive mode to the family it listens to.
func ResolveFamily(mode config.Mode) Family {
	switch mode {
	case config.ModeBoth:
		return FamilyAny
	case config.ModeTouch:
		return FamilyTouch
	default:
		return FamilyMouse
	}
}

func families(f Family) []Family {
	if f == FamilyAny {
		return []Family{FamilyMouse, FamilyTouch}
	}
	return []Family{f}
}

// NativeName returns the native event name for a concrete family and phase.
func NativeName(f Family, p Phase) (string, bool) {
	name, ok := table[key{f, p}]
	return name, ok
}

// Handler receives a normalized platform event.
type Handler func(ev input.Event)

// Binder is implemented by the mount target that owns native listeners.
type Binder interface {
	AddEventListener(name string, h Handler)
	RemoveEventListener(name string)
}

// Router binds phase handlers for one resolved family.
type Router struct {
	binder Binder
	family Family
	bound  map[key]string
}

// NewRouter creates a router for the given mode.
func NewRouter(b Binder, mode config.Mode) *Router {
	return &Router{
		binder: b,
		family: ResolveFamily(mode),
		bound:  make(map[key]string),
	}
}

// Family returns the resolved family.
func (r *Router) Family() Family { return r.family }

// Bind registers h for every native event of phase in the resolved family.
// Any handler already bound under the same key is removed first.
func (r *Router) Bind(phase Phase, h Handler) {
	for _, f := range families(r.family) {
		k := key{f, phase}
		name, ok := table[k]
		if !ok {
			continue
		}
		r.unbindKey(k)
		r.binder.AddEventListener(name, h)
		r.bound[k] = name
	}
}

// Unbind removes the handlers of phase.
func (r *Router) Unbind(phase Phase) {
	for _, f := range families(r.family) {
		r.unbindKey(key{f, phase})
	}
}

// UnbindAll removes every handler the router bound.
func (r *Router) UnbindAll() {
	for k := range r.bound {
		r.unbindKey(k)
	}
}

// Bound returns the sorted native names currently bound.
func (r *Router) Bound() []string {
	names := make([]string, 0, len(r.bound))
	for _, name := range r.bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) unbindKey(k key) {
	name, ok := r.bound[k]
	if !ok {
		return
	}
	r.binder.RemoveEventListener(name)
	delete(r.bound, k)
}
