// internal/browser/dom/document.go
package dom

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/antchfx/htmlquery"
	"github.com/xkilldash9x/mousebackend/api/schemas"
	"golang.org/x/net/html"
)

var (
	// ErrNotChild is returned when a removal names the wrong parent.
	ErrNotChild = errors.New("dom: node is not a child of the given parent")
	// ErrHierarchy is returned when a node would be inserted below itself.
	ErrHierarchy = errors.New("dom: node cannot be inserted into its own subtree")
)

// registration is one installed listener. Removal flips removed so that a
// dispatch already iterating a snapshot skips it.
type registration struct {
	typ     schemas.EventType
	fn      Listener
	capture bool
	removed bool
}

// Document is an in-process stand-in for a browser window and its document.
// It owns listener registrations (window-level under the nil key), the layout
// table and the active subtree watchers. It is not safe for concurrent use;
// like a browser event loop, every handler runs to completion on the caller's
// goroutine.
type Document struct {
	root      *html.Node
	body      *html.Node
	listeners map[*html.Node][]*registration
	rects     map[*html.Node]schemas.Rect
	watchers  []*Watcher
}

// NewDocument wraps a parsed tree.
func NewDocument(root *html.Node) *Document {
	d := &Document{
		root:      root,
		listeners: make(map[*html.Node][]*registration),
		rects:     make(map[*html.Node]schemas.Rect),
	}
	d.body = htmlquery.FindOne(root, "//body")
	if d.body == nil {
		d.body = root
	}
	return d
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: failed to parse document: %w", err)
	}
	return NewDocument(root), nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element, or the document node for fragments.
func (d *Document) Body() *html.Node { return d.body }

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// -- Listeners --

// AddEventListener installs a window-level listener and returns its remover.
func (d *Document) AddEventListener(typ schemas.EventType, fn Listener, capture bool) (remove func()) {
	return d.addListener(nil, typ, fn, capture)
}

// AddNodeListener installs a listener on a node and returns its remover.
func (d *Document) AddNodeListener(n *html.Node, typ schemas.EventType, fn Listener, capture bool) (remove func()) {
	return d.addListener(n, typ, fn, capture)
}

func (d *Document) addListener(key *html.Node, typ schemas.EventType, fn Listener, capture bool) func() {
	reg := &registration{typ: typ, fn: fn, capture: capture}
	d.listeners[key] = append(d.listeners[key], reg)
	return func() { d.removeListener(key, reg) }
}

func (d *Document) removeListener(key *html.Node, reg *registration) {
	if reg.removed {
		return
	}
	reg.removed = true
	regs := d.listeners[key]
	i := slices.Index(regs, reg)
	if i < 0 {
		return
	}
	// Build a fresh slice; an in-flight dispatch may still hold the old one.
	remaining := slices.Concat(regs[:i], regs[i+1:])
	if len(remaining) == 0 {
		delete(d.listeners, key)
		return
	}
	d.listeners[key] = remaining
}

// WindowListenerCount returns the number of installed window-level listeners.
func (d *Document) WindowListenerCount() int {
	return len(d.listeners[nil])
}

// NodeListenerCount returns the number of listeners installed on n.
func (d *Document) NodeListenerCount(n *html.Node) int {
	return len(d.listeners[n])
}

// Dispatch delivers e through the capture, target and bubble phases. The
// window sits above the document node: its capture listeners run first and its
// bubble listeners last. An event without a target only reaches the window.
// It returns false if a listener called PreventDefault.
func (d *Document) Dispatch(e *Event) bool {
	path := propagationPath(e.Target)

	e.phase = PhaseCapturing
	d.invoke(nil, e, true)
	for i := len(path) - 1; i >= 1; i-- {
		d.invoke(path[i], e, true)
	}

	if len(path) > 0 && !e.propagationStopped {
		// StopPropagation does not skip the other listeners on the current node.
		e.phase = PhaseAtTarget
		d.fire(path[0], e, true)
		d.fire(path[0], e, false)
	}

	e.phase = PhaseBubbling
	for i := 1; i < len(path); i++ {
		d.invoke(path[i], e, false)
	}
	d.invoke(nil, e, false)

	e.phase = PhaseNone
	return !e.defaultPrevented
}

func (d *Document) invoke(key *html.Node, e *Event, capture bool) {
	if e.propagationStopped {
		return
	}
	d.fire(key, e, capture)
}

// fire runs the listeners of one phase on key regardless of propagation state.
func (d *Document) fire(key *html.Node, e *Event, capture bool) {
	for _, reg := range d.listeners[key] {
		if reg.removed || reg.typ != e.Type || reg.capture != capture {
			continue
		}
		reg.fn(e)
	}
}

// propagationPath returns target followed by its ancestors.
func propagationPath(target *html.Node) []*html.Node {
	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}
	return path
}

// -- Tree Mutation --

// AppendChild moves child to the end of parent's children. Like the DOM, a
// child that already has a parent is removed from it first, and both parents
// see a child-list mutation.
func (d *Document) AppendChild(parent, child *html.Node) error {
	if IsInclusiveAncestor(child, parent) {
		return ErrHierarchy
	}
	old := child.Parent
	if old != nil {
		old.RemoveChild(child)
	}
	parent.AppendChild(child)
	// Records go out once the move is complete, so watchers never see the
	// transient parentless state of a moved node.
	if old != nil {
		d.notify(old)
	}
	d.notify(parent)
	return nil
}

// RemoveChild detaches child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) error {
	if child == nil || child.Parent != parent {
		return ErrNotChild
	}
	parent.RemoveChild(child)
	d.notify(parent)
	return nil
}

// Remove detaches n from whatever parent it has. Detached nodes are left alone.
func (d *Document) Remove(n *html.Node) error {
	if n.Parent == nil {
		return nil
	}
	return d.RemoveChild(n.Parent, n)
}

// IsInclusiveAncestor reports whether ancestor is n or one of n's ancestors.
func IsInclusiveAncestor(ancestor, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// -- Attributes --

// Attr returns the value of an attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}
