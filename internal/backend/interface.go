package backend

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/native"
)

// Item types of native payloads, for drop targets that accept them.
const (
	NativeTypeFile = native.TypeFile
	NativeTypeURL  = native.TypeURL
	NativeTypeText = native.TypeText
)

// Layout resolves the on-screen box of a node.
type Layout interface {
	// BoundingClientRect reports false for detached nodes and nodes that are
	// not laid out.
	BoundingClientRect(node *html.Node) (schemas.Rect, bool)
}

// Platform is everything the backend needs from the document it runs in.
// *dom.Document satisfies it.
type Platform interface {
	Layout

	// AddEventListener listens on the window. The returned func removes the listener.
	AddEventListener(typ schemas.EventType, fn dom.Listener, capture bool) (remove func())
	// AddNodeListener listens on a single node.
	AddNodeListener(node *html.Node, typ schemas.EventType, fn dom.Listener, capture bool) (remove func())

	Body() *html.Node
	// Contains reports whether node is attached to the document.
	Contains(node *html.Node) bool
	AppendChild(parent, child *html.Node) error
	RemoveChild(parent, child *html.Node) error

	NewSubtreeWatcher() dom.SubtreeWatcher
}

var _ Platform = (*dom.Document)(nil)

// GestureState is the externally visible phase of the pointer gesture.
type GestureState int

const (
	StateIdle GestureState = iota
	// StatePressed means a source was pressed but the pointer has not moved
	// far enough to start a drag.
	StatePressed
	StateDragging
)

func (s GestureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// PreviewOptions describes how a drag preview is positioned relative to the
// pointer. Rendering the preview is left to the host.
type PreviewOptions struct {
	AnchorX float64
	AnchorY float64
	// CaptureDraggingState asks the host to snapshot the preview after the
	// source has re-rendered in its dragging state.
	CaptureDraggingState bool
}
