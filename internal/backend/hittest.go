package backend

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// TargetIDsAtPoint returns the targets whose node box contains p, edges
// included. Deeper and later nodes come first, which is the order they are
// painted in from the top; targets sharing a node keep registration order.
func (b *Backend) TargetIDsAtPoint(p schemas.Point) []schemas.TargetID {
	type hit struct {
		id   schemas.TargetID
		node *html.Node
	}
	var hits []hit
	for _, reg := range b.targets.entries {
		r, ok := b.platform.BoundingClientRect(reg.node)
		if !ok || !r.Contains(p) {
			continue
		}
		hits = append(hits, hit{id: reg.id, node: reg.node})
	}
	slices.SortStableFunc(hits, func(x, y hit) int {
		return dom.Compare(y.node, x.node)
	})

	ids := make([]schemas.TargetID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids
}

// TargetIDsForElement returns the targets whose node is el or one of its
// ancestors, innermost first.
func (b *Backend) TargetIDsForElement(el *html.Node) []schemas.TargetID {
	ids := make([]schemas.TargetID, 0)
	if el == nil || !b.platform.Contains(el) {
		return ids
	}
	for n := el; n != nil; n = n.Parent {
		for _, reg := range b.targets.entries {
			if reg.node == n {
				ids = append(ids, reg.id)
			}
		}
	}
	return ids
}

// hoverTargets resolves by position when e has one and by its target otherwise.
func (b *Backend) hoverTargets(e *dom.Event) []schemas.TargetID {
	if p, ok := EventClientOffset(e); ok {
		return b.TargetIDsAtPoint(p)
	}
	return b.TargetIDsForElement(e.Target)
}
