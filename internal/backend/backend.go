// Package backend turns raw pointer, keyboard and platform drag events into
// drag-and-drop lifecycle actions for an external orchestration layer, and
// answers which registered drop targets lie under the pointer.
//
// A Backend is driven by the platform's single event-dispatch goroutine. It
// is not safe for concurrent use.
package backend

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
)

// ErrAlreadySetUp is returned by Setup when the backend is already listening.
var ErrAlreadySetUp = errors.New("backend: already set up")

// Backend is the pointer input backend.
type Backend struct {
	cfg      config.BackendConfig
	logger   *zap.Logger
	actions  schemas.Actions
	monitor  schemas.Monitor
	registry schemas.Registry
	platform Platform

	setUp bool
	// nativeListeners are the window listeners installed by Setup.
	nativeListeners []func()

	sources  table[schemas.SourceID]
	targets  table[schemas.TargetID]
	previews table[schemas.SourceID]
	// previewOpts is keyed by source id, alongside previews.
	previewOpts map[schemas.SourceID]PreviewOptions

	gesture *gesture
	native  *nativeHandle
	// swallow holds the one-shot listeners installed after a keyboard cancel.
	swallow map[schemas.EventType]func()

	watcher     dom.SubtreeWatcher
	resurrected *resurrection
}

// New creates a backend that reports to mgr and listens on platform. The
// backend does nothing until Setup is called.
func New(cfg config.BackendConfig, logger *zap.Logger, mgr schemas.Manager, platform Platform) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		cfg:         cfg,
		logger:      logger.Named("backend"),
		actions:     mgr.GetActions(),
		monitor:     mgr.GetMonitor(),
		registry:    mgr.GetRegistry(),
		platform:    platform,
		sources:     table[schemas.SourceID]{uniqueNodes: true},
		previewOpts: make(map[schemas.SourceID]PreviewOptions),
		swallow:     make(map[schemas.EventType]func()),
	}
}

// Setup installs the window listeners. Calling it again before Teardown is a
// wiring mistake and returns ErrAlreadySetUp.
func (b *Backend) Setup() error {
	if b.setUp {
		return ErrAlreadySetUp
	}
	b.setUp = true

	b.nativeListeners = []func(){
		b.platform.AddEventListener(schemas.EventDragEnter, b.handleNativeOver, true),
		b.platform.AddEventListener(schemas.EventDragOver, b.handleNativeOver, true),
		b.platform.AddEventListener(schemas.EventDragLeave, b.handleNativeEnd, true),
		b.platform.AddEventListener(schemas.EventDrop, b.handleNativeEnd, true),
	}
	for _, reg := range b.sources.entries {
		b.listenSource(reg)
	}

	b.logger.Debug("Backend set up.", zap.Int("sources", b.sources.len()), zap.Int("targets", b.targets.len()))
	return nil
}

// Teardown removes every listener the backend installed and ends any
// gesture or native drag in progress. A drag the backend began is ended with
// EndDrag so the dispatcher is not left dragging. Registrations are kept, so
// a later Setup resumes where this left off. Calling it when not set up is a
// no-op.
func (b *Backend) Teardown() {
	if !b.setUp {
		return
	}
	b.setUp = false

	if b.ownsActiveDrag() {
		b.actions.EndDrag()
		b.logger.Debug("Drag ended by teardown.", zap.String("source", string(b.monitor.GetSourceID())))
	}

	for _, remove := range b.nativeListeners {
		remove()
	}
	b.nativeListeners = nil
	for _, reg := range b.sources.entries {
		reg.unlisten()
	}

	b.releaseCapture()
	b.stopWatching()
	for typ, remove := range b.swallow {
		remove()
		delete(b.swallow, typ)
	}
	if h := b.native; h != nil {
		b.native = nil
		b.registry.RemoveSource(h.id)
	}

	b.logger.Debug("Backend torn down.")
}

// ownsActiveDrag reports whether the dispatcher is in a drag this backend
// began, by pointer or natively.
func (b *Backend) ownsActiveDrag() bool {
	switch {
	case b.gesture != nil && b.gesture.began:
		return b.monitor.IsDragging() && b.monitor.GetSourceID() == b.gesture.sourceID
	case b.native != nil:
		return b.ownsNativeDrag()
	}
	return false
}

// IsSetUp reports whether Setup has run without a matching Teardown.
func (b *Backend) IsSetUp() bool { return b.setUp }

// ConnectDragSource makes node a handle for the drag source id. A node belongs
// to one source at a time; connecting the same id or node again replaces the
// earlier registration. The returned func disconnects and may be called more
// than once.
func (b *Backend) ConnectDragSource(id schemas.SourceID, node *html.Node) (disconnect func()) {
	reg := b.sources.put(id, node)
	if b.setUp {
		b.listenSource(reg)
	}
	b.logger.Debug("Drag source connected.", zap.String("source", string(id)), zap.String("node", dom.Describe(node)))
	return func() {
		if b.sources.remove(reg) {
			b.logger.Debug("Drag source disconnected.", zap.String("source", string(id)))
		}
	}
}

// ConnectDropTarget makes node the drop zone of target id. Several targets may
// share a node.
func (b *Backend) ConnectDropTarget(id schemas.TargetID, node *html.Node) (disconnect func()) {
	reg := b.targets.put(id, node)
	b.logger.Debug("Drop target connected.", zap.String("target", string(id)), zap.String("node", dom.Describe(node)))
	return func() {
		if b.targets.remove(reg) {
			b.logger.Debug("Drop target disconnected.", zap.String("target", string(id)))
		}
	}
}

// ConnectDragPreview records the preview node of source id.
func (b *Backend) ConnectDragPreview(id schemas.SourceID, node *html.Node, opts PreviewOptions) (disconnect func()) {
	reg := b.previews.put(id, node)
	b.previewOpts[id] = opts
	return func() {
		if b.previews.remove(reg) {
			delete(b.previewOpts, id)
		}
	}
}

// DragPreview returns the preview registered for source id.
func (b *Backend) DragPreview(id schemas.SourceID) (*html.Node, PreviewOptions, bool) {
	node, ok := b.previews.lookup(id)
	if !ok {
		return nil, PreviewOptions{}, false
	}
	return node, b.previewOpts[id], true
}

// SourceClientOffset returns the top-left corner of the node registered for
// source id. Native handles have no node and report false.
func (b *Backend) SourceClientOffset(id schemas.SourceID) (schemas.Point, bool) {
	node, ok := b.sources.lookup(id)
	if !ok {
		return schemas.Point{}, false
	}
	return NodeClientOffset(b.platform, node)
}

// State reports the phase of the pointer gesture. A native drag owned by the
// backend also reports StateDragging.
func (b *Backend) State() GestureState {
	switch {
	case b.gesture != nil && b.gesture.began && b.monitor.IsDragging():
		return StateDragging
	case b.gesture != nil:
		return StatePressed
	case b.native != nil && b.ownsNativeDrag():
		return StateDragging
	default:
		return StateIdle
	}
}

// listenSource installs the pointer-down listener of a source registration.
func (b *Backend) listenSource(reg *registration[schemas.SourceID]) {
	if reg.detach != nil {
		return
	}
	id := reg.id
	reg.detach = b.platform.AddNodeListener(reg.node, schemas.EventMouseDown, func(e *dom.Event) {
		b.handleStartDrag(e, id)
	}, false)
}
