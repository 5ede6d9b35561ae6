package backend

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// EventClientOffset returns the viewport position of e. Keyboard events and
// synthetic events without coordinates report false.
func EventClientOffset(e *dom.Event) (schemas.Point, bool) {
	if e == nil {
		return schemas.Point{}, false
	}
	return e.ClientOffset()
}

// NodeClientOffset returns the top-left corner of node's bounding box. Text
// and comment nodes are measured through their parent element.
func NodeClientOffset(layout Layout, node *html.Node) (schemas.Point, bool) {
	el := node
	for el != nil && el.Type != html.ElementNode {
		el = el.Parent
	}
	if el == nil {
		return schemas.Point{}, false
	}
	r, ok := layout.BoundingClientRect(el)
	if !ok {
		return schemas.Point{}, false
	}
	return r.TopLeft(), true
}
