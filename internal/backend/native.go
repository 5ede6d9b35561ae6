package backend

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/native"
)

// nativeHandle is the registered stand-in for a payload dragged in from
// outside the page.
type nativeHandle struct {
	id     schemas.SourceID
	source native.Source
}

func (b *Backend) ownsNativeDrag() bool {
	return b.monitor.IsDragging() && b.monitor.GetSourceID() == b.native.id
}

// handleNativeOver runs for dragenter and dragover. Payloads of unknown kind
// keep the browser's default handling.
func (b *Backend) handleNativeOver(e *dom.Event) {
	if b.gesture != nil {
		return
	}
	kind, ok := native.Match(e.DataTransfer)
	if !ok {
		return
	}

	if b.native == nil {
		if b.monitor.IsDragging() {
			return
		}
		src := native.NewSource(kind)
		id := b.registry.AddSource(kind.String(), src)
		b.native = &nativeHandle{id: id, source: src}

		opts := schemas.BeginDragOptions{
			GetSourceClientOffset: b.SourceClientOffset,
			PublishSource:         true,
		}
		if p, ok := EventClientOffset(e); ok {
			opts.ClientOffset = &p
		}
		b.actions.BeginDrag([]schemas.SourceID{id}, opts)
		b.logger.Debug("Native drag began.", zap.String("kind", kind.String()), zap.String("handle", string(id)))
	}
	if !b.ownsNativeDrag() {
		return
	}

	b.actions.PublishDragSource()
	e.PreventDefault()
	if e.DataTransfer != nil {
		e.DataTransfer.DropEffect = schemas.DropEffectCopy
	}

	var opts schemas.HoverOptions
	if p, ok := EventClientOffset(e); ok {
		opts.ClientOffset = &p
	}
	b.actions.Hover(b.hoverTargets(e), opts)
}

// handleNativeEnd runs for dragleave and drop.
func (b *Backend) handleNativeEnd(e *dom.Event) {
	if e.Type == schemas.EventDragLeave && e.RelatedTarget != nil {
		// Still inside the document; only the element under the pointer changed.
		return
	}
	h := b.native
	if h == nil {
		return
	}
	if _, ok := native.Match(e.DataTransfer); !ok {
		return
	}

	if e.Type == schemas.EventDrop {
		e.PreventDefault()
		h.source.Ingest(e.DataTransfer)
		if b.ownsNativeDrag() {
			b.actions.Drop()
		}
	}
	if b.ownsNativeDrag() {
		b.actions.EndDrag()
	}

	b.native = nil
	b.registry.RemoveSource(h.id)
	b.logger.Debug("Native drag ended.", zap.String("event", string(e.Type)), zap.String("handle", string(h.id)))
}
