package backend

import (
	"slices"

	"golang.org/x/net/html"
)

// registration binds an id to a node. detach undoes whatever listener the
// registration installed; it is nil when none is installed.
type registration[ID comparable] struct {
	id     ID
	node   *html.Node
	detach func()
}

// table holds registrations in the order they were made.
type table[ID comparable] struct {
	// uniqueNodes makes a node belong to at most one id.
	uniqueNodes bool
	entries     []*registration[ID]
}

// put registers id on node, replacing any earlier registration of the same id
// (and, for unique tables, of the same node).
func (t *table[ID]) put(id ID, node *html.Node) *registration[ID] {
	t.entries = slices.DeleteFunc(t.entries, func(r *registration[ID]) bool {
		if r.id != id && !(t.uniqueNodes && r.node == node) {
			return false
		}
		r.unlisten()
		return true
	})
	reg := &registration[ID]{id: id, node: node}
	t.entries = append(t.entries, reg)
	return reg
}

// remove drops reg. It reports false if reg was already gone.
func (t *table[ID]) remove(reg *registration[ID]) bool {
	i := slices.Index(t.entries, reg)
	if i < 0 {
		return false
	}
	reg.unlisten()
	t.entries = slices.Delete(t.entries, i, i+1)
	return true
}

func (t *table[ID]) lookup(id ID) (*html.Node, bool) {
	for _, r := range t.entries {
		if r.id == id {
			return r.node, true
		}
	}
	return nil, false
}

func (t *table[ID]) len() int { return len(t.entries) }

func (r *registration[ID]) unlisten() {
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}
}
