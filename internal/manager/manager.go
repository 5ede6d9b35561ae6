// Package manager is an in-memory drag-and-drop orchestration layer: it
// implements the actions, monitor and registry a backend reports to, keeps
// the drag session state, and records every action it receives.
package manager

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

var (
	// ErrDuplicateID is returned when registering under an id already in use.
	ErrDuplicateID = errors.New("manager: id already registered")
	// ErrEmptyID is returned when registering under an empty id.
	ErrEmptyID = errors.New("manager: empty id")
)

type sourceEntry struct {
	itemType string
	source   schemas.DragSource
}

type targetEntry struct {
	accepts []string
	target  schemas.DropTarget
}

// session is the state of the drag in progress.
type session struct {
	sourceID  schemas.SourceID
	itemType  string
	item      any
	published bool

	targetIDs                 []schemas.TargetID
	initialClientOffset       *schemas.Point
	initialSourceClientOffset *schemas.Point
	clientOffset              *schemas.Point

	didDrop    bool
	dropResult any
}

// Manager implements schemas.Manager and the three collaborator interfaces
// it hands out. It is not safe for concurrent use.
type Manager struct {
	logger *zap.Logger
	newID  func(prefix string) string

	sources     map[schemas.SourceID]*sourceEntry
	targets     map[schemas.TargetID]*targetEntry
	targetOrder []schemas.TargetID

	drag *session
	// lastDrop keeps the result of the most recent drop after EndDrag resets the session.
	lastDrop any

	trace []Record
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithIDFunc replaces the id generator used for sources and targets
// registered without an explicit id. prefix is "S" or "T".
func WithIDFunc(fn func(prefix string) string) Option {
	return func(m *Manager) { m.newID = fn }
}

// SequentialIDs returns an id generator producing "S1", "S2", "T1", ... .
func SequentialIDs() func(prefix string) string {
	next := make(map[string]int)
	return func(prefix string) string {
		next[prefix]++
		return fmt.Sprintf("%s%d", prefix, next[prefix])
	}
}

// New creates an empty manager. Generated ids are prefixed UUIDs unless
// WithIDFunc says otherwise.
func New(opts ...Option) *Manager {
	m := &Manager{
		logger:  zap.NewNop(),
		newID:   func(prefix string) string { return prefix + "-" + uuid.NewString() },
		sources: make(map[schemas.SourceID]*sourceEntry),
		targets: make(map[schemas.TargetID]*targetEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("manager")
	return m
}

var (
	_ schemas.Manager  = (*Manager)(nil)
	_ schemas.Actions  = (*Manager)(nil)
	_ schemas.Monitor  = (*Manager)(nil)
	_ schemas.Registry = (*Manager)(nil)
)

func (m *Manager) GetActions() schemas.Actions   { return m }
func (m *Manager) GetMonitor() schemas.Monitor   { return m }
func (m *Manager) GetRegistry() schemas.Registry { return m }

// -- Registry --

// AddSource registers source under a generated id.
func (m *Manager) AddSource(itemType string, source schemas.DragSource) schemas.SourceID {
	id := schemas.SourceID(m.newID("S"))
	for m.sources[id] != nil {
		id = schemas.SourceID(m.newID("S"))
	}
	m.sources[id] = &sourceEntry{itemType: itemType, source: source}
	m.logger.Debug("Source added.", zap.String("id", string(id)), zap.String("type", itemType))
	return id
}

// AddSourceWithID registers source under a caller-chosen id.
func (m *Manager) AddSourceWithID(id schemas.SourceID, itemType string, source schemas.DragSource) error {
	if id == "" {
		return ErrEmptyID
	}
	if m.sources[id] != nil {
		return fmt.Errorf("source %q: %w", id, ErrDuplicateID)
	}
	m.sources[id] = &sourceEntry{itemType: itemType, source: source}
	return nil
}

// RemoveSource unregisters id. Removing an unknown id is a no-op.
func (m *Manager) RemoveSource(id schemas.SourceID) {
	delete(m.sources, id)
	m.logger.Debug("Source removed.", zap.String("id", string(id)))
}

// AddTarget registers a target that accepts the given item types under a
// generated id.
func (m *Manager) AddTarget(accepts []string, target schemas.DropTarget) schemas.TargetID {
	id := schemas.TargetID(m.newID("T"))
	for m.targets[id] != nil {
		id = schemas.TargetID(m.newID("T"))
	}
	m.putTarget(id, accepts, target)
	return id
}

// AddTargetWithID registers target under a caller-chosen id.
func (m *Manager) AddTargetWithID(id schemas.TargetID, accepts []string, target schemas.DropTarget) error {
	if id == "" {
		return ErrEmptyID
	}
	if m.targets[id] != nil {
		return fmt.Errorf("target %q: %w", id, ErrDuplicateID)
	}
	m.putTarget(id, accepts, target)
	return nil
}

func (m *Manager) putTarget(id schemas.TargetID, accepts []string, target schemas.DropTarget) {
	m.targets[id] = &targetEntry{accepts: slices.Clone(accepts), target: target}
	m.targetOrder = append(m.targetOrder, id)
}

// RemoveTarget unregisters id.
func (m *Manager) RemoveTarget(id schemas.TargetID) {
	delete(m.targets, id)
	m.targetOrder = slices.DeleteFunc(m.targetOrder, func(t schemas.TargetID) bool { return t == id })
}

// Source returns the drag source registered under id.
func (m *Manager) Source(id schemas.SourceID) (schemas.DragSource, bool) {
	e, ok := m.sources[id]
	if !ok {
		return nil, false
	}
	return e.source, true
}

// SourceType returns the item type id was registered with.
func (m *Manager) SourceType(id schemas.SourceID) (string, bool) {
	e, ok := m.sources[id]
	if !ok {
		return "", false
	}
	return e.itemType, true
}

// TargetIDs lists registered targets in registration order.
func (m *Manager) TargetIDs() []schemas.TargetID {
	return slices.Clone(m.targetOrder)
}
