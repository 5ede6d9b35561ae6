package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

func TestBoundingClientRect(t *testing.T) {
	doc := parse(t, nestedHTML)
	inner := byID(t, doc, "inner")

	_, ok := doc.BoundingClientRect(inner)
	assert.False(t, ok, "no rect recorded yet")

	r := schemas.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	doc.SetRect(inner, r)
	got, ok := doc.BoundingClientRect(inner)
	assert.True(t, ok)
	assert.Equal(t, r, got)

	assert.NoError(t, doc.Remove(inner))
	_, ok = doc.BoundingClientRect(inner)
	assert.False(t, ok, "detached nodes have no rect")

	doc.ClearRect(inner)
}

func TestElementFromPoint(t *testing.T) {
	doc := parse(t, nestedHTML)
	outer, inner, sibling := byID(t, doc, "outer"), byID(t, doc, "inner"), byID(t, doc, "sibling")
	doc.SetRect(outer, schemas.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	doc.SetRect(inner, schemas.Rect{X: 10, Y: 10, Width: 50, Height: 50})
	doc.SetRect(sibling, schemas.Rect{X: 40, Y: 40, Width: 100, Height: 100})

	assert.Same(t, outer, doc.ElementFromPoint(schemas.Point{X: 5, Y: 5}))
	assert.Same(t, inner, doc.ElementFromPoint(schemas.Point{X: 20, Y: 20}))
	// The later sibling paints over the earlier subtree.
	assert.Same(t, sibling, doc.ElementFromPoint(schemas.Point{X: 45, Y: 45}))
	assert.Nil(t, doc.ElementFromPoint(schemas.Point{X: 500, Y: 500}))
}

func TestCompare(t *testing.T) {
	doc := parse(t, nestedHTML)
	outer, inner, leaf, sibling := byID(t, doc, "outer"), byID(t, doc, "inner"), byID(t, doc, "leaf"), byID(t, doc, "sibling")

	assert.Equal(t, 0, dom.Compare(inner, inner))
	assert.Equal(t, -1, dom.Compare(outer, leaf))
	assert.Equal(t, 1, dom.Compare(leaf, outer))
	assert.Equal(t, -1, dom.Compare(leaf, sibling))
	assert.Equal(t, 1, dom.Compare(sibling, inner))

	assert.NoError(t, doc.Remove(sibling))
	assert.Equal(t, 0, dom.Compare(sibling, inner), "different trees are unordered")
}
