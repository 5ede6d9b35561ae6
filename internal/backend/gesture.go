package backend

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// gesture is a pointer press on a drag source, from pointer-down until the
// terminating event.
type gesture struct {
	sourceID schemas.SourceID
	node     *html.Node
	origin   schemas.Point
	// began is set once BeginDrag was dispatched and accepted.
	began bool
	// captured maps each window listener type to its remover.
	captured map[schemas.EventType]func()
}

// handleStartDrag runs for pointer-down on the node of source id. Listeners
// on nested sources run innermost first, so the innermost source claims the
// gesture and the outer ones find it pending.
func (b *Backend) handleStartDrag(e *dom.Event, id schemas.SourceID) {
	if !b.setUp || b.gesture != nil || b.native != nil {
		return
	}
	if e.Button != schemas.ButtonPrimary {
		return
	}
	origin, ok := EventClientOffset(e)
	if !ok {
		return
	}
	if !b.monitor.CanDragSource(id) {
		b.logger.Debug("Press on source that cannot drag.", zap.String("source", string(id)))
		return
	}

	node, _ := b.sources.lookup(id)
	b.gesture = &gesture{sourceID: id, node: node, origin: origin}
	b.capture()
	b.logger.Debug("Source pressed.",
		zap.String("source", string(id)),
		zap.Float64("x", origin.X), zap.Float64("y", origin.Y))
}

// capture starts listening at window level for the rest of the gesture.
func (b *Backend) capture() {
	b.gesture.captured = map[schemas.EventType]func(){
		schemas.EventMouseMove:   b.platform.AddEventListener(schemas.EventMouseMove, b.handleMove, false),
		schemas.EventMouseUp:     b.platform.AddEventListener(schemas.EventMouseUp, b.handleEnd, true),
		schemas.EventKeyDown:     b.platform.AddEventListener(schemas.EventKeyDown, b.handleKeyDown, true),
		schemas.EventContextMenu: b.platform.AddEventListener(schemas.EventContextMenu, preventDefault, true),
		schemas.EventDragStart:   b.platform.AddEventListener(schemas.EventDragStart, preventDefault, true),
	}
}

// releaseCapture removes the gesture listeners and forgets the gesture. It
// does not consult the monitor.
func (b *Backend) releaseCapture() {
	g := b.gesture
	if g == nil {
		return
	}
	b.gesture = nil
	for typ, remove := range g.captured {
		remove()
		delete(g.captured, typ)
	}
}

// release ends the gesture without dispatching anything.
func (b *Backend) release() {
	b.releaseCapture()
	b.stopWatching()
}

func (b *Backend) handleMove(e *dom.Event) {
	g := b.gesture
	if g == nil {
		return
	}
	p, ok := EventClientOffset(e)
	if !ok {
		return
	}

	if !g.began {
		if p.Dist(g.origin) < b.cfg.DragThreshold {
			return
		}
		origin := g.origin
		b.actions.BeginDrag([]schemas.SourceID{g.sourceID}, schemas.BeginDragOptions{
			ClientOffset:          &origin,
			GetSourceClientOffset: b.SourceClientOffset,
			PublishSource:         false,
		})
		if !b.monitor.IsDragging() {
			b.logger.Debug("Drag refused by dispatcher.", zap.String("source", string(g.sourceID)))
			b.release()
			return
		}
		g.began = true
		b.watchSourceNode(g.node)
		b.logger.Debug("Drag began.", zap.String("source", string(g.sourceID)))
	} else if !b.monitor.IsDragging() {
		b.logger.Debug("Drag ended elsewhere; releasing gesture.", zap.String("source", string(g.sourceID)))
		b.release()
		return
	}

	b.actions.PublishDragSource()
	b.actions.Hover(b.hoverTargets(e), schemas.HoverOptions{ClientOffset: &p})
}

// handleEnd runs for pointer-up. A press that never became a drag is a click
// and is left to the application.
func (b *Backend) handleEnd(e *dom.Event) {
	g := b.gesture
	if g == nil || e.Button != schemas.ButtonPrimary {
		return
	}
	b.releaseCapture()

	if g.began && b.monitor.IsDragging() {
		e.PreventDefault()
		b.actions.Drop()
		b.actions.EndDrag()
		b.logger.Debug("Drag dropped.", zap.String("source", string(g.sourceID)))
	}
	b.stopWatching()
}

// handleKeyDown cancels the gesture on Escape.
func (b *Backend) handleKeyDown(e *dom.Event) {
	g := b.gesture
	if g == nil || e.Key != schemas.KeyEscape {
		return
	}
	b.releaseCapture()

	if g.began && b.monitor.IsDragging() {
		b.actions.EndDrag()
		// The button is usually still down; its release must not read as a click.
		b.swallowNext(schemas.EventMouseUp)
		b.swallowNext(schemas.EventClick)
		b.logger.Debug("Drag cancelled.", zap.String("source", string(g.sourceID)))
	}
	b.stopWatching()
}

// swallowNext suppresses the next event of typ anywhere in the document.
func (b *Backend) swallowNext(typ schemas.EventType) {
	if remove, ok := b.swallow[typ]; ok {
		remove()
	}
	var remove func()
	remove = b.platform.AddEventListener(typ, func(e *dom.Event) {
		e.PreventDefault()
		e.StopPropagation()
		remove()
		delete(b.swallow, typ)
	}, true)
	b.swallow[typ] = remove
}

func preventDefault(e *dom.Event) { e.PreventDefault() }
