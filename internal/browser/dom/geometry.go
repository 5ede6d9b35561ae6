// internal/browser/dom/geometry.go
package dom

import (
	"github.com/xkilldash9x/mousebackend/api/schemas"
	"golang.org/x/net/html"
)

// SetRect records the bounding client rect of n. There is no layout engine;
// callers position the nodes they care about.
func (d *Document) SetRect(n *html.Node, r schemas.Rect) {
	d.rects[n] = r
}

// ClearRect forgets the rect of n.
func (d *Document) ClearRect(n *html.Node) {
	delete(d.rects, n)
}

// BoundingClientRect returns the rect of n. Detached nodes and nodes without a
// recorded rect report false.
func (d *Document) BoundingClientRect(n *html.Node) (schemas.Rect, bool) {
	if n == nil || !d.Contains(n) {
		return schemas.Rect{}, false
	}
	r, ok := d.rects[n]
	return r, ok
}

// ElementFromPoint returns the topmost element whose rect contains p. Paint
// order follows tree order, so the last match in a pre-order walk wins.
func (d *Document) ElementFromPoint(p schemas.Point) *html.Node {
	var hit *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if r, ok := d.rects[n]; ok && r.Contains(p) {
				hit = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return hit
}

// Compare orders two nodes of the same tree: -1 if a precedes b in tree
// order, 1 if it follows, 0 if they are the same node or share no root.
// An ancestor precedes its descendants.
func Compare(a, b *html.Node) int {
	if a == b {
		return 0
	}
	pa := lineage(a)
	pb := lineage(b)
	if pa[0] != pb[0] {
		return 0
	}
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return -1
	case i == len(pb):
		return 1
	}
	for s := pa[i].NextSibling; s != nil; s = s.NextSibling {
		if s == pb[i] {
			return -1
		}
	}
	return 1
}

// lineage returns the chain from the root down to n.
func lineage(n *html.Node) []*html.Node {
	var chain []*html.Node
	for p := n; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
