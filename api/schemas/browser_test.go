package schemas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

func TestPoint(t *testing.T) {
	a := schemas.Point{X: 1, Y: 2}
	b := schemas.Point{X: 4, Y: 6}

	assert.Equal(t, schemas.Point{X: -3, Y: -4}, a.Sub(b))
	assert.Equal(t, 5.0, a.Dist(b))
	assert.Equal(t, a.Dist(b), b.Dist(a))
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, schemas.Point{X: 2.5, Y: 4}, a.Lerp(b, 0.5))
	assert.False(t, math.IsInf(schemas.Point{X: 1e300}.Dist(schemas.Point{Y: 1e300}), 0))
}

func TestRectContains(t *testing.T) {
	r := schemas.Rect{X: 50, Y: 50, Width: 200, Height: 100}

	tests := []struct {
		name string
		p    schemas.Point
		want bool
	}{
		{"inside", schemas.Point{X: 100, Y: 100}, true},
		{"top left corner", schemas.Point{X: 50, Y: 50}, true},
		{"bottom right corner", schemas.Point{X: 250, Y: 150}, true},
		{"right edge", schemas.Point{X: 250, Y: 75}, true},
		{"left of", schemas.Point{X: 49.9, Y: 100}, false},
		{"below", schemas.Point{X: 100, Y: 150.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
		})
	}
}

func TestRectNegativeSize(t *testing.T) {
	r := schemas.Rect{X: 100, Y: 100, Width: -50, Height: -20}

	assert.Equal(t, 50.0, r.Left())
	assert.Equal(t, 100.0, r.Right())
	assert.Equal(t, 80.0, r.Top())
	assert.Equal(t, 100.0, r.Bottom())
	assert.Equal(t, schemas.Point{X: 50, Y: 80}, r.TopLeft())
	assert.True(t, r.Contains(schemas.Point{X: 75, Y: 90}))
}

func TestEventTypeIsNativeDrag(t *testing.T) {
	for _, typ := range []schemas.EventType{
		schemas.EventDragStart, schemas.EventDragEnter, schemas.EventDragOver,
		schemas.EventDragLeave, schemas.EventDrop,
	} {
		assert.True(t, typ.IsNativeDrag(), typ)
	}
	for _, typ := range []schemas.EventType{
		schemas.EventMouseDown, schemas.EventMouseMove, schemas.EventMouseUp,
		schemas.EventClick, schemas.EventContextMenu, schemas.EventKeyDown,
	} {
		assert.False(t, typ.IsNativeDrag(), typ)
	}
}

func TestMouseButtonString(t *testing.T) {
	assert.Equal(t, "primary", schemas.ButtonPrimary.String())
	assert.Equal(t, "auxiliary", schemas.ButtonAuxiliary.String())
	assert.Equal(t, "secondary", schemas.ButtonSecondary.String())
	assert.Equal(t, "back", schemas.ButtonBack.String())
	assert.Equal(t, "forward", schemas.ButtonForward.String())
	assert.Equal(t, "unknown", schemas.MouseButton(9).String())
}
