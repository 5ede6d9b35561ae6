package schemas

import "math"

// -- Geometry --

// Point is a position in viewport (client) coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Sub returns the vector `p - other`.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Dist calculates the Euclidean distance between `p` and `other`.
func (p Point) Dist(other Point) float64 {
	// Use math.Hypot for better numerical stability with very large or small components.
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Lerp interpolates linearly between `p` (t=0) and `other` (t=1).
func (p Point) Lerp(other Point, t float64) Point {
	return Point{X: p.X + (other.X-p.X)*t, Y: p.Y + (other.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle in viewport coordinates, as returned by
// getBoundingClientRect.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Left returns the left edge (x for positive width, x + width for negative).
func (r Rect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	if r.Width < 0 {
		return r.X
	}
	return r.X + r.Width
}

// Top returns the top edge.
func (r Rect) Top() float64 {
	if r.Height < 0 {
		return r.Y + r.Height
	}
	return r.Y
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	if r.Height < 0 {
		return r.Y
	}
	return r.Y + r.Height
}

// TopLeft returns the rectangle's origin corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.Left(), Y: r.Top()}
}

// Contains reports whether p lies inside r. All four edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// -- Input Events --

// EventType names a DOM event type.
type EventType string

const (
	EventMouseDown   EventType = "mousedown"
	EventMouseMove   EventType = "mousemove"
	EventMouseUp     EventType = "mouseup"
	EventClick       EventType = "click"
	EventContextMenu EventType = "contextmenu"
	EventKeyDown     EventType = "keydown"
	EventDragStart   EventType = "dragstart"
	EventDragEnter   EventType = "dragenter"
	EventDragOver    EventType = "dragover"
	EventDragLeave   EventType = "dragleave"
	EventDrop        EventType = "drop"
)

// IsNativeDrag reports whether the type belongs to the platform drag-and-drop family.
func (t EventType) IsNativeDrag() bool {
	switch t {
	case EventDragStart, EventDragEnter, EventDragOver, EventDragLeave, EventDrop:
		return true
	}
	return false
}

// MouseButton is the value of MouseEvent.button.
type MouseButton int

const (
	// ButtonPrimary is usually the left button.
	ButtonPrimary MouseButton = 0
	// ButtonAuxiliary is usually the wheel button.
	ButtonAuxiliary MouseButton = 1
	// ButtonSecondary is usually the right button.
	ButtonSecondary MouseButton = 2
	ButtonBack      MouseButton = 3
	ButtonForward   MouseButton = 4
)

// String returns a string representation of the button.
func (b MouseButton) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonAuxiliary:
		return "auxiliary"
	case ButtonSecondary:
		return "secondary"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "unknown"
	}
}

// KeyEscape is the KeyboardEvent.key value of the Escape key.
const KeyEscape = "Escape"

// DropEffectCopy is the drop effect advertised for native payloads.
const DropEffectCopy = "copy"
