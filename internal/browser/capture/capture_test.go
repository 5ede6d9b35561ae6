package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFromEvent(t *testing.T) {
	t.Run("files and text", func(t *testing.T) {
		p := FromEvent(&input.EventDragIntercepted{Data: &input.DragData{
			Items: []*input.DragDataItem{
				{MimeType: "text/plain", Data: "hello"},
				{MimeType: "text/uri-list", Data: "https://example.com"},
			},
			Files:              []string{"/tmp/report.pdf"},
			DragOperationsMask: 1,
		}})

		assert.Equal(t, map[string]string{
			"text/plain":    "hello",
			"text/uri-list": "https://example.com",
		}, p.Data)
		assert.Equal(t, []dom.File{{Name: "report.pdf", Path: "/tmp/report.pdf"}}, p.Files)
		assert.Equal(t, "copy", p.EffectAllowed)
	})

	t.Run("files only", func(t *testing.T) {
		p := FromEvent(&input.EventDragIntercepted{Data: &input.DragData{Files: []string{"a.txt"}}})
		assert.Nil(t, p.Data)
		assert.Len(t, p.Files, 1)
		assert.Equal(t, "none", p.EffectAllowed)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Payload{}, FromEvent(nil))
	})
}

func TestPayloadSteps(t *testing.T) {
	p := Payload{Data: map[string]string{"text/plain": "hi"}}
	steps := p.Steps(schemas.Point{X: 5, Y: 6})

	require.Len(t, steps, 3)
	assert.Equal(t, "dragenter", steps[0].Event)
	assert.Equal(t, "dragover", steps[1].Event)
	assert.Equal(t, "drop", steps[2].Event)
	for _, st := range steps {
		assert.Equal(t, &schemas.Point{X: 5, Y: 6}, st.At)
		assert.Equal(t, p.Data, st.Data)
	}
	steps[0].At.X = 99
	assert.Equal(t, 5.0, steps[1].At.X, "each step owns its position")
}

func TestAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	opts := allocatorOptions(config.CaptureConfig{Headless: true})
	assert.Len(t, opts, base+2)

	opts = allocatorOptions(config.CaptureConfig{Headless: false, ExecPath: "/opt/chrome"})
	assert.Len(t, opts, base+4)
}

func TestDrain(t *testing.T) {
	t.Run("stops at limit", func(t *testing.T) {
		payloads := make(chan Payload, 3)
		for i := 0; i < 3; i++ {
			payloads <- Payload{}
		}
		var seen int
		n, err := drain(context.Background(), payloads, 2, func(Payload) error { seen++; return nil })
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, seen)
	})

	t.Run("handler error", func(t *testing.T) {
		payloads := make(chan Payload, 1)
		payloads <- Payload{}
		boom := errors.New("boom")
		n, err := drain(context.Background(), payloads, 0, func(Payload) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, n)
	})

	t.Run("timeout after a payload", func(t *testing.T) {
		payloads := make(chan Payload, 1)
		payloads <- Payload{}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		n, err := drain(ctx, payloads, 0, func(Payload) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("timeout with nothing", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		n, err := drain(ctx, make(chan Payload), 0, func(Payload) error { return nil })
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, n)
	})

	t.Run("cancelled", func(t *testing.T) {
		payloads := make(chan Payload, 1)
		payloads <- Payload{}
		ctx, cancel := context.WithCancel(context.Background())
		n, err := drain(ctx, payloads, 0, func(Payload) error { cancel(); return nil })
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, n)
	})
}
