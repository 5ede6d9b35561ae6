package manager

import (
	"slices"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

func (m *Manager) IsDragging() bool { return m.drag != nil }

func (m *Manager) DidDrop() bool { return m.drag != nil && m.drag.didDrop }

// GetSourceID returns the dragged source, or "" when idle.
func (m *Manager) GetSourceID() schemas.SourceID {
	if m.drag == nil {
		return ""
	}
	return m.drag.sourceID
}

// CanDragSource is false while any drag is in progress.
func (m *Manager) CanDragSource(id schemas.SourceID) bool {
	if m.drag != nil {
		return false
	}
	e, ok := m.sources[id]
	return ok && e.source.CanDrag(m, id)
}

func (m *Manager) IsSourcePublic() bool { return m.drag != nil && m.drag.published }

func (m *Manager) GetItemType() string {
	if m.drag == nil {
		return ""
	}
	return m.drag.itemType
}

func (m *Manager) GetItem() any {
	if m.drag == nil {
		return nil
	}
	return m.drag.item
}

func (m *Manager) GetDropResult() any {
	if m.drag == nil {
		return nil
	}
	return m.drag.dropResult
}

// GetTargetIDs returns the hovered targets that accept the item.
func (m *Manager) GetTargetIDs() []schemas.TargetID {
	if m.drag == nil {
		return nil
	}
	return slices.Clone(m.drag.targetIDs)
}

func (m *Manager) IsOverTarget(id schemas.TargetID) bool {
	return m.drag != nil && slices.Contains(m.drag.targetIDs, id)
}

func (m *Manager) GetClientOffset() (schemas.Point, bool) {
	if m.drag == nil {
		return schemas.Point{}, false
	}
	return derefPoint(m.drag.clientOffset)
}

func (m *Manager) GetInitialClientOffset() (schemas.Point, bool) {
	if m.drag == nil {
		return schemas.Point{}, false
	}
	return derefPoint(m.drag.initialClientOffset)
}

func (m *Manager) GetInitialSourceClientOffset() (schemas.Point, bool) {
	if m.drag == nil {
		return schemas.Point{}, false
	}
	return derefPoint(m.drag.initialSourceClientOffset)
}

// GetSourceClientOffset is where the source node would be now, following the pointer.
func (m *Manager) GetSourceClientOffset() (schemas.Point, bool) {
	src, ok := m.GetInitialSourceClientOffset()
	if !ok {
		return schemas.Point{}, false
	}
	cur, ok1 := m.GetClientOffset()
	initial, ok2 := m.GetInitialClientOffset()
	if !ok1 || !ok2 {
		return schemas.Point{}, false
	}
	d := cur.Sub(initial)
	return schemas.Point{X: src.X + d.X, Y: src.Y + d.Y}, true
}

func derefPoint(p *schemas.Point) (schemas.Point, bool) {
	if p == nil {
		return schemas.Point{}, false
	}
	return *p, true
}

func clonePoint(p *schemas.Point) *schemas.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
