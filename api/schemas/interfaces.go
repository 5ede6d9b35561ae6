package schemas

// -- Drag-and-Drop Orchestration Contracts --
//
// The orchestration layer owns the drag session. The backend only translates
// input into the actions below and queries the monitor before branching.

// SourceID identifies a registered drag source, including the ephemeral
// handles created for native payloads.
type SourceID string

// TargetID identifies a registered drop target.
type TargetID string

// BeginDragOptions accompanies Actions.BeginDrag.
type BeginDragOptions struct {
	// ClientOffset is the pointer position the drag started from, if known.
	ClientOffset *Point
	// GetSourceClientOffset resolves the top-left corner of a source's node.
	GetSourceClientOffset func(SourceID) (Point, bool)
	// PublishSource controls whether the source becomes observable immediately.
	// When false the dispatcher defers it until PublishDragSource is called.
	PublishSource bool
}

// HoverOptions accompanies Actions.Hover.
type HoverOptions struct {
	ClientOffset *Point
}

// Actions mutates the global drag state.
type Actions interface {
	BeginDrag(sourceIDs []SourceID, opts BeginDragOptions)
	PublishDragSource()
	Hover(targetIDs []TargetID, opts HoverOptions)
	Drop()
	EndDrag()
}

// Monitor answers questions about the current drag session.
type Monitor interface {
	IsDragging() bool
	DidDrop() bool
	GetSourceID() SourceID
	CanDragSource(id SourceID) bool
}

// Registry creates and destroys handles for drag sources.
type Registry interface {
	AddSource(itemType string, source DragSource) SourceID
	RemoveSource(id SourceID)
}

// Manager bundles the orchestration collaborators handed to a backend.
type Manager interface {
	GetActions() Actions
	GetMonitor() Monitor
	GetRegistry() Registry
}

// DragSource is the application (or native) object behind a SourceID.
type DragSource interface {
	CanDrag(monitor Monitor, id SourceID) bool
	// BeginDrag returns the item describing the dragged data.
	BeginDrag(monitor Monitor, id SourceID) any
	IsDragging(monitor Monitor, id SourceID) bool
	EndDrag(monitor Monitor, id SourceID)
}

// DropTarget is the application object behind a TargetID.
type DropTarget interface {
	CanDrop(monitor Monitor, id TargetID) bool
	Hover(monitor Monitor, id TargetID)
	// Drop returns an optional drop result; nil means "no result".
	Drop(monitor Monitor, id TargetID) any
}
