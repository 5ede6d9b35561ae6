// internal/browser/dom/watcher.go
package dom

import (
	"slices"

	"golang.org/x/net/html"
)

// SubtreeWatcher reports when a node is detached from the tree. It observes
// child-list mutations anywhere below the node's parent at the time Observe is
// called.
type SubtreeWatcher interface {
	// Observe starts (or re-targets) the watch. A node that is already
	// detached is not watched.
	Observe(node *html.Node, onDetach func(node *html.Node))
	// Disconnect stops the watch. It is safe to call more than once.
	Disconnect()
}

// Watcher is the Document's SubtreeWatcher. Mutation records are delivered
// synchronously, from inside the mutating call.
type Watcher struct {
	doc      *Document
	node     *html.Node
	observed *html.Node
	onDetach func(*html.Node)
}

// NewSubtreeWatcher returns an idle watcher bound to d.
func (d *Document) NewSubtreeWatcher() SubtreeWatcher {
	return &Watcher{doc: d}
}

// Observe implements SubtreeWatcher.
func (w *Watcher) Observe(node *html.Node, onDetach func(node *html.Node)) {
	w.node = node
	w.onDetach = onDetach
	w.observed = node.Parent
	if w.observed == nil {
		w.Disconnect()
		return
	}
	if !slices.Contains(w.doc.watchers, w) {
		w.doc.watchers = append(w.doc.watchers, w)
	}
}

// Disconnect implements SubtreeWatcher.
func (w *Watcher) Disconnect() {
	w.observed = nil
	w.doc.watchers = slices.DeleteFunc(slices.Clone(w.doc.watchers), func(o *Watcher) bool {
		return o == w
	})
}

// Active reports whether the watcher is currently observing.
func (w *Watcher) Active() bool {
	return w.observed != nil
}

// notify runs after every child-list mutation of parent.
func (d *Document) notify(parent *html.Node) {
	for _, w := range slices.Clone(d.watchers) {
		if w.observed == nil || !IsInclusiveAncestor(w.observed, parent) {
			continue
		}
		if w.node.Parent == nil {
			w.onDetach(w.node)
		}
	}
}
