package replay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/config"
	"github.com/xkilldash9x/mousebackend/internal/manager"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRunner(t *testing.T) *Runner {
	return NewRunner(config.BackendConfig{DragThreshold: config.DefaultDragThreshold}, zaptest.NewLogger(t))
}

func runFile(t *testing.T, name string) *Result {
	t.Helper()
	s, err := LoadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	return res
}

func pt(x, y float64) *schemas.Point { return &schemas.Point{X: x, Y: y} }

func TestRun_CardOntoZone(t *testing.T) {
	res := runFile(t, "card_onto_zone.yaml")

	want := []manager.Record{
		{Action: manager.ActionBeginDrag, SourceIDs: []schemas.SourceID{"S1"}, ClientOffset: pt(10, 10)},
		{Action: manager.ActionPublishDragSource},
		{Action: manager.ActionHover, ClientOffset: pt(15, 10)},
		{Action: manager.ActionPublishDragSource},
		{Action: manager.ActionHover, TargetIDs: []schemas.TargetID{"T1"}, ClientOffset: pt(60, 60)},
		{Action: manager.ActionDrop},
		{Action: manager.ActionEndDrag},
	}
	if diff := cmp.Diff(want, res.Actions, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []StepOutcome{
		{Index: 0, Event: "mousedown", State: "pressed"},
		{Index: 1, Event: "mousemove", State: "dragging"},
		{Index: 2, Event: "mousemove", State: "dragging"},
		{Index: 3, Event: "mouseup", Prevented: true, State: "idle"},
	}
	if diff := cmp.Diff(wantSteps, res.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "zone", res.DropResult)
}

func TestRun_NativeFile(t *testing.T) {
	res := runFile(t, "native_file.yaml")

	require.NotEmpty(t, res.Actions)
	begin := res.Actions[0]
	assert.Equal(t, []schemas.SourceID{"native-1"}, begin.SourceIDs)
	assert.True(t, begin.PublishSource)
	assert.Empty(t, res.Actions[2].TargetIDs)
	assert.Nil(t, res.DropResult, "dropped outside the inbox")
	for _, step := range res.Steps {
		assert.True(t, step.Prevented, step.Event)
	}
}

func TestRun_EscapeCancel(t *testing.T) {
	res := runFile(t, "escape_cancel.yaml")

	require.Len(t, res.Steps, 6)
	assert.True(t, res.Steps[3].Prevented, "mouseup after cancel is swallowed")
	assert.True(t, res.Steps[4].Prevented, "first click is swallowed")
	assert.False(t, res.Steps[5].Prevented, "second click is not")
}

func TestRun_DragMacro(t *testing.T) {
	res := runFile(t, "drag_macro.yaml")

	assert.Equal(t, map[string]any{"slot": 3}, res.DropResult)
	require.Len(t, res.Steps, 7, "press, five moves, release")
	for _, step := range res.Steps {
		assert.Equal(t, 0, step.Index)
	}

	var hovers []manager.Record
	for _, r := range res.Actions {
		if r.Action == manager.ActionHover {
			hovers = append(hovers, r)
		}
	}
	require.Len(t, hovers, 5)
	assert.Equal(t, pt(20, 20), hovers[0].ClientOffset)
	assert.Empty(t, hovers[2].TargetIDs)
	assert.Equal(t, []schemas.TargetID{"T1"}, hovers[3].TargetIDs, "the zone's edge is inside it")
	assert.Equal(t, pt(60, 60), hovers[4].ClientOffset)
}

const twoBoxes = `
html: |
  <html><body><div id="card">card</div><div id="zone"></div><div id="shelf"></div></body></html>
layout:
  - {xpath: "//*[@id='card']", rect: {x: 0, y: 0, width: 100, height: 100}}
  - {xpath: "//*[@id='zone']", rect: {x: 50, y: 50, width: 200, height: 200}}
sources:
  - {id: S1, xpath: "//*[@id='card']", type: CARD}
targets:
  - {id: T1, xpath: "//*[@id='zone']", accepts: [CARD]}
`

func TestRun_HumanizedDrag(t *testing.T) {
	s, err := Load([]byte(twoBoxes + `
steps:
  - {event: drag, from: {x: 10, y: 10}, to: {x: 150, y: 150}, moves: 15, easing: true, jitter: 2, seed: 42}
`))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(res.Actions), 5)
	assert.Equal(t, manager.ActionBeginDrag, res.Actions[0].Action)
	n := len(res.Actions)
	assert.Equal(t, manager.ActionDrop, res.Actions[n-2].Action)
	assert.Equal(t, manager.ActionEndDrag, res.Actions[n-1].Action)
	lastHover := res.Actions[n-3]
	assert.Equal(t, []schemas.TargetID{"T1"}, lastHover.TargetIDs)
	assert.Equal(t, pt(150, 150), lastHover.ClientOffset)
}

func TestRun_NodeRemovedMidDrag(t *testing.T) {
	s, err := Load([]byte(twoBoxes + `
steps:
  - {event: mousedown, at: {x: 10, y: 10}}
  - {event: mousemove, at: {x: 60, y: 60}}
  - {event: remove, target: "//*[@id='card']"}
  - {event: mousemove, at: {x: 70, y: 70}}
  - {event: mouseup, at: {x: 70, y: 70}}
expect:
  actions: [beginDrag, publishDragSource, hover, publishDragSource, hover, drop, endDrag]
`))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "dragging", res.Steps[2].State, "removing the source does not end the drag")
}

func TestRun_AppendAndRightButton(t *testing.T) {
	s, err := Load([]byte(twoBoxes + `
steps:
  - {event: append, target: "//*[@id='card']", parent: "//*[@id='shelf']"}
  - {event: mousedown, at: {x: 10, y: 10}, button: right}
  - {event: mousemove, at: {x: 60, y: 60}}
  - {event: contextmenu, at: {x: 60, y: 60}, button: right}
`))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, res.Actions)
	assert.False(t, res.Steps[2].Prevented)
}

func TestRun_ThresholdOverride(t *testing.T) {
	s, err := Load([]byte(twoBoxes + `
drag_threshold: 50
steps:
  - {event: mousedown, at: {x: 10, y: 10}}
  - {event: mousemove, at: {x: 40, y: 40}}
`))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, res.Actions, "42px is below the script's threshold")
	assert.Equal(t, "pressed", res.Steps[1].State)
}

func TestRun_KeyboardStepWithTarget(t *testing.T) {
	s, err := Load([]byte(twoBoxes + `
steps:
  - {event: keydown, key: Escape, target: "//*[@id='zone']"}
  - {event: dragleave, target: "//*[@id='zone']"}
`))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, res.Steps, 2)
	assert.Empty(t, res.Actions)
}

func TestRun_Errors(t *testing.T) {
	t.Run("failed expectation", func(t *testing.T) {
		s, err := Load([]byte(twoBoxes + `
steps:
  - {event: mousedown, at: {x: 10, y: 10}}
expect:
  actions: [beginDrag]
`))
		require.NoError(t, err)
		res, err := newRunner(t).Run(context.Background(), s)
		require.Error(t, err)
		var assertion *AssertionError
		require.True(t, errors.As(err, &assertion))
		assert.Equal(t, "actions", assertion.Check)
		assert.Contains(t, err.Error(), "expected: beginDrag")
		assert.NotNil(t, res, "the result is still reported")
	})

	t.Run("failed drop result", func(t *testing.T) {
		s, err := Load([]byte(twoBoxes + `
steps:
  - {event: drag, from: {x: 10, y: 10}, to: {x: 60, y: 60}}
expect:
  drop_result: somewhere
`))
		require.NoError(t, err)
		_, err = newRunner(t).Run(context.Background(), s)
		var assertion *AssertionError
		require.True(t, errors.As(err, &assertion))
		assert.Equal(t, "drop_result", assertion.Check)
	})

	t.Run("unknown node", func(t *testing.T) {
		s, err := Load([]byte(`
html: "<html><body></body></html>"
steps:
  - {event: remove, target: "//*[@id='ghost']"}
`))
		require.NoError(t, err)
		_, err = newRunner(t).Run(context.Background(), s)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("unknown layout node", func(t *testing.T) {
		s, err := Load([]byte(`
html: "<html><body></body></html>"
layout:
  - {xpath: "//*[@id='ghost']", rect: {x: 0, y: 0, width: 1, height: 1}}
steps:
  - {event: keydown, key: a}
`))
		require.NoError(t, err)
		_, err = newRunner(t).Run(context.Background(), s)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("bad xpath", func(t *testing.T) {
		s, err := Load([]byte(`
html: "<html><body></body></html>"
steps:
  - {event: remove, target: "//*["}
`))
		require.NoError(t, err)
		_, err = newRunner(t).Run(context.Background(), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad xpath")
	})

	t.Run("cancelled context", func(t *testing.T) {
		s, err := LoadFile(filepath.Join("testdata", "card_onto_zone.yaml"))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = newRunner(t).Run(ctx, s)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid script", func(t *testing.T) {
		_, err := newRunner(t).Run(context.Background(), &Script{})
		assert.ErrorIs(t, err, ErrInvalidScript)
	})
}
