package manager

import "github.com/xkilldash9x/mousebackend/api/schemas"

// StaticSource is a drag source with a fixed item.
type StaticSource struct {
	Item     any
	Disabled bool
	// Ended counts EndDrag calls.
	Ended int
}

func (s *StaticSource) CanDrag(schemas.Monitor, schemas.SourceID) bool { return !s.Disabled }

func (s *StaticSource) BeginDrag(schemas.Monitor, schemas.SourceID) any { return s.Item }

func (s *StaticSource) IsDragging(monitor schemas.Monitor, id schemas.SourceID) bool {
	return monitor.GetSourceID() == id
}

func (s *StaticSource) EndDrag(schemas.Monitor, schemas.SourceID) { s.Ended++ }

// StaticTarget is a drop target returning a fixed result.
type StaticTarget struct {
	Result any
	Refuse bool
	// Hovered and Dropped count calls.
	Hovered int
	Dropped int
	// DidDropBefore records, per Drop call, whether an inner target had already dropped.
	DidDropBefore []bool
}

func (t *StaticTarget) CanDrop(schemas.Monitor, schemas.TargetID) bool { return !t.Refuse }

func (t *StaticTarget) Hover(schemas.Monitor, schemas.TargetID) { t.Hovered++ }

func (t *StaticTarget) Drop(monitor schemas.Monitor, _ schemas.TargetID) any {
	t.Dropped++
	t.DidDropBefore = append(t.DidDropBefore, monitor.DidDrop())
	return t.Result
}
