// internal/browser/dom/event.go
package dom

import (
	"github.com/xkilldash9x/mousebackend/api/schemas"
	"golang.org/x/net/html"
)

// Listener handles a dispatched event.
type Listener func(e *Event)

// Phase is the dispatch phase an event is currently in.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Event is a synthetic DOM event. Mouse, keyboard and drag events share one
// struct; fields that do not apply to a family are left zero.
type Event struct {
	Type schemas.EventType

	// ClientX and ClientY are only meaningful when HasClientOffset is set.
	ClientX         float64
	ClientY         float64
	HasClientOffset bool

	Button schemas.MouseButton
	Key    string

	Target        *html.Node
	RelatedTarget *html.Node
	DataTransfer  *DataTransfer

	phase              Phase
	defaultPrevented   bool
	propagationStopped bool
}

// NewMouseEvent builds a pointer event at (x, y).
func NewMouseEvent(typ schemas.EventType, x, y float64, button schemas.MouseButton, target *html.Node) *Event {
	return &Event{
		Type:            typ,
		ClientX:         x,
		ClientY:         y,
		HasClientOffset: true,
		Button:          button,
		Target:          target,
	}
}

// NewKeyEvent builds a keyboard event. Keyboard events carry no coordinates.
func NewKeyEvent(typ schemas.EventType, key string, target *html.Node) *Event {
	return &Event{Type: typ, Key: key, Target: target}
}

// NewDragEvent builds a platform drag-and-drop event at (x, y).
func NewDragEvent(typ schemas.EventType, x, y float64, target, related *html.Node, dt *DataTransfer) *Event {
	return &Event{
		Type:            typ,
		ClientX:         x,
		ClientY:         y,
		HasClientOffset: true,
		Target:          target,
		RelatedTarget:   related,
		DataTransfer:    dt,
	}
}

// ClientOffset returns the event position.
func (e *Event) ClientOffset() (schemas.Point, bool) {
	if !e.HasClientOffset {
		return schemas.Point{}, false
	}
	return schemas.Point{X: e.ClientX, Y: e.ClientY}, true
}

// PreventDefault cancels the platform's default handling of the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops dispatch after the listeners of the current node.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// Phase returns the current dispatch phase.
func (e *Event) Phase() Phase { return e.phase }
