// File: internal/mocks/mocks.go
package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Backend() config.BackendConfig {
	args := m.Called()
	return args.Get(0).(config.BackendConfig)
}

func (m *MockConfig) Replay() config.ReplayConfig {
	args := m.Called()
	return args.Get(0).(config.ReplayConfig)
}

func (m *MockConfig) Capture() config.CaptureConfig {
	args := m.Called()
	return args.Get(0).(config.CaptureConfig)
}

func (m *MockConfig) SetBackendDragThreshold(px float64) { m.Called(px) }
func (m *MockConfig) SetReplayFormat(format string)      { m.Called(format) }
func (m *MockConfig) SetReplayPretty(b bool)             { m.Called(b) }
func (m *MockConfig) SetCaptureHeadless(b bool)          { m.Called(b) }
func (m *MockConfig) SetCaptureTimeout(d time.Duration)  { m.Called(d) }

// -- Orchestration Mocks --

// MockActions mocks schemas.Actions.
type MockActions struct {
	mock.Mock
}

func (m *MockActions) BeginDrag(sourceIDs []schemas.SourceID, opts schemas.BeginDragOptions) {
	m.Called(sourceIDs, opts)
}

func (m *MockActions) PublishDragSource() { m.Called() }

func (m *MockActions) Hover(targetIDs []schemas.TargetID, opts schemas.HoverOptions) {
	m.Called(targetIDs, opts)
}

func (m *MockActions) Drop()    { m.Called() }
func (m *MockActions) EndDrag() { m.Called() }

// MockMonitor mocks schemas.Monitor.
type MockMonitor struct {
	mock.Mock
}

func (m *MockMonitor) IsDragging() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMonitor) DidDrop() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMonitor) GetSourceID() schemas.SourceID {
	args := m.Called()
	return args.Get(0).(schemas.SourceID)
}

func (m *MockMonitor) CanDragSource(id schemas.SourceID) bool {
	args := m.Called(id)
	return args.Bool(0)
}

// MockRegistry mocks schemas.Registry.
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) AddSource(itemType string, source schemas.DragSource) schemas.SourceID {
	args := m.Called(itemType, source)
	return args.Get(0).(schemas.SourceID)
}

func (m *MockRegistry) RemoveSource(id schemas.SourceID) { m.Called(id) }

// MockManager bundles the three collaborator mocks.
type MockManager struct {
	Actions  *MockActions
	Monitor  *MockMonitor
	Registry *MockRegistry
}

// NewMockManager returns a MockManager with fresh collaborator mocks.
func NewMockManager() *MockManager {
	return &MockManager{
		Actions:  new(MockActions),
		Monitor:  new(MockMonitor),
		Registry: new(MockRegistry),
	}
}

func (m *MockManager) GetActions() schemas.Actions   { return m.Actions }
func (m *MockManager) GetMonitor() schemas.Monitor   { return m.Monitor }
func (m *MockManager) GetRegistry() schemas.Registry { return m.Registry }

// AssertExpectations checks all three collaborators.
func (m *MockManager) AssertExpectations(t mock.TestingT) bool {
	return m.Actions.AssertExpectations(t) &&
		m.Monitor.AssertExpectations(t) &&
		m.Registry.AssertExpectations(t)
}

// -- Platform Mocks --

// MockSubtreeWatcher mocks dom.SubtreeWatcher.
type MockSubtreeWatcher struct {
	mock.Mock
}

func (m *MockSubtreeWatcher) Observe(node *html.Node, onDetach func(node *html.Node)) {
	m.Called(node, onDetach)
}

func (m *MockSubtreeWatcher) Disconnect() { m.Called() }

var (
	_ config.Interface   = (*MockConfig)(nil)
	_ schemas.Manager    = (*MockManager)(nil)
	_ dom.SubtreeWatcher = (*MockSubtreeWatcher)(nil)
)
