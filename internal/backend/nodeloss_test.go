package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
	"github.com/xkilldash9x/mousebackend/internal/manager"
	"github.com/xkilldash9x/mousebackend/internal/mocks"
)

func style(n *html.Node) (string, bool) { return dom.Attr(n, "style") }

func TestNodeLoss_ResurrectsDetachedSource(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	h.down(10, 10)
	h.move(60, 60)

	// The application re-renders and drops the card mid-drag.
	require.NoError(t, h.doc.Remove(card))

	assert.Same(t, h.doc.Body(), card.Parent, "parked under body")
	s, ok := style(card)
	assert.True(t, ok)
	assert.Equal(t, "display: none", s)
	assert.Equal(t, StateDragging, h.b.State())

	h.move(120, 120)
	h.up(120, 120)

	assert.Nil(t, card.Parent, "detached again once the drag ends")
	_, ok = style(card)
	assert.False(t, ok, "a style attribute that did not exist is removed")
	assert.Equal(t, manager.ActionEndDrag, h.mgr.Actions()[len(h.mgr.Actions())-1])
}

func TestNodeLoss_RestoresOriginalStyle(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	dom.SetAttr(card, "style", "color: red")

	h.down(10, 10)
	h.move(60, 60)
	require.NoError(t, h.doc.Remove(card))
	h.key(schemas.KeyEscape)

	s, _ := style(card)
	assert.Equal(t, "color: red", s)
	assert.Nil(t, card.Parent)
}

func TestNodeLoss_ReattachedSourceStays(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	h.down(10, 10)
	h.move(60, 60)

	require.NoError(t, h.doc.Remove(card))
	require.NoError(t, h.doc.AppendChild(h.node("other"), card))
	h.up(60, 60)

	assert.Same(t, h.node("other"), card.Parent)
	_, ok := style(card)
	assert.False(t, ok)
}

func TestNodeLoss_DetachedTwice(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	dom.SetAttr(card, "style", "opacity: 0.5")
	h.down(10, 10)
	h.move(60, 60)

	require.NoError(t, h.doc.Remove(card))
	require.NoError(t, h.doc.AppendChild(h.node("zone"), card))
	require.NoError(t, h.doc.Remove(card))
	assert.Same(t, h.doc.Body(), card.Parent, "watch follows the node after it is parked")

	h.up(60, 60)
	s, _ := style(card)
	assert.Equal(t, "opacity: 0.5", s, "the first saved style wins")
	assert.Nil(t, card.Parent)
}

func TestNodeLoss_NotWatchedBeforeDrag(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	h.down(10, 10)
	require.NoError(t, h.doc.Remove(card))

	assert.Nil(t, card.Parent)
	h.up(10, 10)
	assert.Nil(t, card.Parent)
}

func TestNodeLoss_TeardownDisconnects(t *testing.T) {
	h := newHarness(t)
	card := h.node("card")
	h.down(10, 10)
	h.move(60, 60)
	require.NoError(t, h.doc.Remove(card))
	require.Same(t, h.doc.Body(), card.Parent)

	h.b.Teardown()
	assert.Nil(t, card.Parent)

	require.NoError(t, h.doc.AppendChild(h.doc.Body(), card))
	require.NoError(t, h.doc.Remove(card))
	assert.Nil(t, card.Parent, "no watcher remains")
}

func TestNodeLoss_WatcherLifecycle(t *testing.T) {
	h := newHarness(t)
	h.b.Teardown()

	watcher := new(mocks.MockSubtreeWatcher)
	platform := &watcherPlatform{Document: h.doc, watcher: watcher}
	b := New(config.BackendConfig{DragThreshold: 4}, zaptest.NewLogger(t), h.mgr, platform)
	b.ConnectDragSource("S1", h.node("card"))
	require.NoError(t, b.Setup())
	defer b.Teardown()

	watcher.On("Observe", h.node("card"), mock.Anything).Once()
	watcher.On("Disconnect").Once()

	h.down(10, 10)
	h.move(60, 60)
	h.up(60, 60)

	watcher.AssertExpectations(t)
}

// watcherPlatform is a Document whose watcher is supplied by the test.
type watcherPlatform struct {
	*dom.Document
	watcher dom.SubtreeWatcher
}

func (p *watcherPlatform) NewSubtreeWatcher() dom.SubtreeWatcher { return p.watcher }
