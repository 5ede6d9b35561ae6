package manager

import (
	"slices"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

// Action names, as they appear in traces.
const (
	ActionBeginDrag         = "beginDrag"
	ActionPublishDragSource = "publishDragSource"
	ActionHover             = "hover"
	ActionDrop              = "drop"
	ActionEndDrag           = "endDrag"
)

// Record is one action call as received, before the manager applied it.
type Record struct {
	Action        string             `json:"action" yaml:"action"`
	SourceIDs     []schemas.SourceID `json:"sourceIds,omitempty" yaml:"sourceIds,omitempty"`
	TargetIDs     []schemas.TargetID `json:"targetIds,omitempty" yaml:"targetIds,omitempty"`
	ClientOffset  *schemas.Point     `json:"clientOffset,omitempty" yaml:"clientOffset,omitempty"`
	PublishSource bool               `json:"publishSource,omitempty" yaml:"publishSource,omitempty"`
}

func (m *Manager) record(r Record) {
	m.trace = append(m.trace, r)
}

// Trace returns the actions received so far.
func (m *Manager) Trace() []Record {
	return slices.Clone(m.trace)
}

// Actions returns just the action names of the trace.
func (m *Manager) Actions() []string {
	names := make([]string, len(m.trace))
	for i, r := range m.trace {
		names[i] = r.Action
	}
	return names
}

// ResetTrace forgets the recorded actions.
func (m *Manager) ResetTrace() {
	m.trace = nil
}
