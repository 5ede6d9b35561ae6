package backend

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

const hiddenStyle = "display: none"

// resurrection remembers what was changed on a source node that was parked
// under the body.
type resurrection struct {
	node     *html.Node
	style    string
	hadStyle bool
}

// watchSourceNode starts watching for the dragged node being detached.
func (b *Backend) watchSourceNode(node *html.Node) {
	if node == nil {
		return
	}
	b.watcher = b.platform.NewSubtreeWatcher()
	b.watcher.Observe(node, b.resurrect)
}

// resurrect hides a detached source node and parks it under the body, where
// the drag can keep referring to it.
func (b *Backend) resurrect(node *html.Node) {
	if b.resurrected == nil {
		style, had := dom.Attr(node, "style")
		b.resurrected = &resurrection{node: node, style: style, hadStyle: had}
	}
	dom.SetAttr(node, "style", hiddenStyle)

	body := b.platform.Body()
	if err := b.platform.AppendChild(body, node); err != nil {
		b.logger.Warn("Could not park detached source node.", zap.String("node", dom.Describe(node)), zap.Error(err))
		return
	}
	b.logger.Debug("Source node detached during drag; parked under body.", zap.String("node", dom.Describe(node)))
	if b.watcher != nil {
		b.watcher.Observe(node, b.resurrect)
	}
}

// stopWatching disconnects the watcher and undoes any resurrection. A node
// still parked under the body is detached again, as the application left it.
func (b *Backend) stopWatching() {
	if b.watcher != nil {
		b.watcher.Disconnect()
		b.watcher = nil
	}
	r := b.resurrected
	if r == nil {
		return
	}
	b.resurrected = nil

	if r.hadStyle {
		dom.SetAttr(r.node, "style", r.style)
	} else {
		dom.RemoveAttr(r.node, "style")
	}
	if body := b.platform.Body(); r.node.Parent == body {
		if err := b.platform.RemoveChild(body, r.node); err != nil {
			b.logger.Warn("Could not detach parked source node.", zap.Error(err))
		}
	}
}
