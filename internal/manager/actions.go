package manager

import (
	"slices"

	"go.uber.org/zap"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

// BeginDrag starts a drag from the last of sourceIDs that can drag. It does
// nothing while a drag is already in progress or when no source can drag.
func (m *Manager) BeginDrag(sourceIDs []schemas.SourceID, opts schemas.BeginDragOptions) {
	m.record(Record{
		Action:        ActionBeginDrag,
		SourceIDs:     slices.Clone(sourceIDs),
		ClientOffset:  clonePoint(opts.ClientOffset),
		PublishSource: opts.PublishSource,
	})
	if m.drag != nil {
		m.logger.Warn("BeginDrag while already dragging; ignored.", zap.String("active", string(m.drag.sourceID)))
		return
	}

	var chosen schemas.SourceID
	for i := len(sourceIDs) - 1; i >= 0; i-- {
		id := sourceIDs[i]
		if e, ok := m.sources[id]; ok && e.source.CanDrag(m, id) {
			chosen = id
			break
		}
	}
	if chosen == "" {
		m.logger.Debug("BeginDrag found no draggable source.")
		return
	}

	s := &session{
		sourceID:            chosen,
		itemType:            m.sources[chosen].itemType,
		published:           opts.PublishSource,
		initialClientOffset: clonePoint(opts.ClientOffset),
		clientOffset:        clonePoint(opts.ClientOffset),
	}
	if opts.GetSourceClientOffset != nil {
		if p, ok := opts.GetSourceClientOffset(chosen); ok {
			s.initialSourceClientOffset = &p
		}
	}
	// The session must exist before the source sees the monitor.
	m.drag = s
	s.item = m.sources[chosen].source.BeginDrag(m, chosen)
	m.lastDrop = nil
}

// PublishDragSource makes the dragged source observable. Repeated calls are no-ops.
func (m *Manager) PublishDragSource() {
	m.record(Record{Action: ActionPublishDragSource})
	if m.drag != nil {
		m.drag.published = true
	}
}

// Hover sets the hovered targets to those of targetIDs that are registered
// and accept the dragged item type, preserving order.
func (m *Manager) Hover(targetIDs []schemas.TargetID, opts schemas.HoverOptions) {
	m.record(Record{
		Action:       ActionHover,
		TargetIDs:    slices.Clone(targetIDs),
		ClientOffset: clonePoint(opts.ClientOffset),
	})
	if m.drag == nil {
		return
	}

	matched := make([]schemas.TargetID, 0, len(targetIDs))
	for _, id := range targetIDs {
		e, ok := m.targets[id]
		if !ok || !slices.Contains(e.accepts, m.drag.itemType) {
			continue
		}
		matched = append(matched, id)
	}
	m.drag.targetIDs = matched
	if opts.ClientOffset != nil {
		m.drag.clientOffset = clonePoint(opts.ClientOffset)
	}
	for _, id := range matched {
		m.targets[id].target.Hover(m, id)
	}
}

// Drop offers the item to the hovered targets, innermost first. Every target
// that can drop is asked; the first non-nil result is kept.
func (m *Manager) Drop() {
	m.record(Record{Action: ActionDrop})
	if m.drag == nil || m.drag.didDrop {
		return
	}
	for _, id := range m.drag.targetIDs {
		e, ok := m.targets[id]
		if !ok || !e.target.CanDrop(m, id) {
			continue
		}
		result := e.target.Drop(m, id)
		if result != nil && m.drag.dropResult == nil {
			m.drag.dropResult = result
		}
		m.drag.didDrop = true
	}
	m.lastDrop = m.drag.dropResult
}

// EndDrag notifies the source and clears the session.
func (m *Manager) EndDrag() {
	m.record(Record{Action: ActionEndDrag})
	if m.drag == nil {
		return
	}
	id := m.drag.sourceID
	if e, ok := m.sources[id]; ok {
		e.source.EndDrag(m, id)
	}
	m.drag = nil
}

// LastDropResult is the result of the most recent drop, kept until the next
// drag begins.
func (m *Manager) LastDropResult() any { return m.lastDrop }
