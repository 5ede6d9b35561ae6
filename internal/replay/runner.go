package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/input"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/backend"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
	"github.com/xkilldash9x/mousebackend/internal/manager"
)

// ErrNodeNotFound is returned when an xpath in the script matches nothing.
var ErrNodeNotFound = errors.New("node not found")

// defaultDragMoves is the number of interpolated moves of a drag step.
const defaultDragMoves = 10

// Result is the outcome of a replay.
type Result struct {
	Name       string           `json:"name" yaml:"name"`
	Actions    []manager.Record `json:"actions" yaml:"actions"`
	Steps      []StepOutcome    `json:"steps" yaml:"steps"`
	DropResult any              `json:"dropResult,omitempty" yaml:"dropResult,omitempty"`
}

// StepOutcome reports how a single dispatched event was handled.
type StepOutcome struct {
	Index     int    `json:"index" yaml:"index"`
	Event     string `json:"event" yaml:"event"`
	Prevented bool   `json:"prevented,omitempty" yaml:"prevented,omitempty"`
	State     string `json:"state" yaml:"state"`
}

// Runner replays scripts.
type Runner struct {
	cfg    config.BackendConfig
	logger *zap.Logger
}

// NewRunner creates a runner whose backends use cfg.
func NewRunner(cfg config.BackendConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger.Named("replay")}
}

// session is the state of one run.
type session struct {
	doc *dom.Document
	mgr *manager.Manager
	b   *backend.Backend
	res *Result
}

// Run builds the fixture, replays every step and checks the script's
// expectations. The result is returned alongside an *AssertionError when an
// expectation fails.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sess, err := r.prepare(s)
	if err != nil {
		return nil, err
	}
	defer sess.b.Teardown()

	r.logger.Info("Replaying script.", zap.String("name", s.Name), zap.Int("steps", len(s.Steps)))
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay interrupted at step %d: %w", i, err)
		}
		if err := sess.apply(i, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Event, err)
		}
	}

	sess.res.Actions = sess.mgr.Trace()
	sess.res.DropResult = sess.mgr.LastDropResult()
	if s.Expect != nil {
		if err := s.Expect.check(sess.res); err != nil {
			return sess.res, err
		}
	}
	return sess.res, nil
}

func (r *Runner) prepare(s *Script) (*session, error) {
	doc, err := dom.Parse(strings.NewReader(s.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	handles := 0
	mgr := manager.New(
		manager.WithLogger(r.logger),
		manager.WithIDFunc(func(string) string {
			handles++
			return fmt.Sprintf("native-%d", handles)
		}),
	)

	cfg := r.cfg
	if s.DragThreshold != nil {
		cfg.DragThreshold = *s.DragThreshold
	}
	sess := &session{
		doc: doc,
		mgr: mgr,
		b:   backend.New(cfg, r.logger, mgr, doc),
		res: &Result{Name: s.Name},
	}

	for _, box := range s.Layout {
		n, err := sess.find(box.XPath)
		if err != nil {
			return nil, err
		}
		doc.SetRect(n, box.Rect)
	}
	for _, src := range s.Sources {
		n, err := sess.find(src.XPath)
		if err != nil {
			return nil, err
		}
		id := schemas.SourceID(src.ID)
		if err := mgr.AddSourceWithID(id, src.Type, &manager.StaticSource{Item: src.Item, Disabled: src.Disabled}); err != nil {
			return nil, err
		}
		sess.b.ConnectDragSource(id, n)
		if src.Preview != "" {
			p, err := sess.find(src.Preview)
			if err != nil {
				return nil, err
			}
			sess.b.ConnectDragPreview(id, p, backend.PreviewOptions{})
		}
	}
	for _, tgt := range s.Targets {
		n, err := sess.find(tgt.XPath)
		if err != nil {
			return nil, err
		}
		id := schemas.TargetID(tgt.ID)
		if err := mgr.AddTargetWithID(id, tgt.Accepts, &manager.StaticTarget{Result: tgt.Result, Refuse: tgt.Refuse}); err != nil {
			return nil, err
		}
		sess.b.ConnectDropTarget(id, n)
	}

	if err := sess.b.Setup(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *session) find(xpath string) (*html.Node, error) {
	n, err := dom.FindOne(s.doc.Root(), xpath)
	if err != nil {
		return nil, fmt.Errorf("bad xpath %q: %w", xpath, err)
	}
	if n == nil {
		return nil, fmt.Errorf("%q: %w", xpath, ErrNodeNotFound)
	}
	return n, nil
}

// findOptional resolves xpath, returning nil for an empty expression.
func (s *session) findOptional(xpath string) (*html.Node, error) {
	if xpath == "" {
		return nil, nil
	}
	return s.find(xpath)
}

func (s *session) apply(i int, st Step) error {
	switch st.Event {
	case StepRemove:
		n, err := s.find(st.Target)
		if err != nil {
			return err
		}
		return s.doc.Remove(n)
	case StepAppend:
		n, err := s.find(st.Target)
		if err != nil {
			return err
		}
		parent, err := s.find(st.Parent)
		if err != nil {
			return err
		}
		return s.doc.AppendChild(parent, n)
	case StepDrag:
		return s.drag(i, st)
	}

	typ := schemas.EventType(st.Event)
	target, err := s.findOptional(st.Target)
	if err != nil {
		return err
	}

	var e *dom.Event
	switch {
	case typ == schemas.EventKeyDown:
		e = dom.NewKeyEvent(typ, st.Key, s.orBody(target))
	case typ.IsNativeDrag():
		related, err := s.findOptional(st.Related)
		if err != nil {
			return err
		}
		at := schemas.Point{}
		if st.At != nil {
			at = *st.At
		}
		e = dom.NewDragEvent(typ, at.X, at.Y, s.orBody(target), related, st.dataTransfer())
		e.HasClientOffset = st.At != nil
	default:
		button, _ := parseButton(st.Button)
		if target == nil {
			target = s.doc.ElementFromPoint(*st.At)
		}
		e = dom.NewMouseEvent(typ, st.At.X, st.At.Y, button, s.orBody(target))
	}
	s.dispatch(i, e)
	return nil
}

// drag replays a press, interpolated moves and a release.
func (s *session) drag(i int, st Step) error {
	button, err := parseButton(st.Button)
	if err != nil {
		return err
	}

	s.pointer(i, schemas.EventMouseDown, *st.From, button)
	for _, p := range dragPath(st) {
		s.pointer(i, schemas.EventMouseMove, p, button)
	}
	s.pointer(i, schemas.EventMouseUp, *st.To, button)
	return nil
}

func (s *session) pointer(i int, typ schemas.EventType, p schemas.Point, button schemas.MouseButton) {
	target := s.orBody(s.doc.ElementFromPoint(p))
	s.dispatch(i, dom.NewMouseEvent(typ, p.X, p.Y, button, target))
}

func (s *session) dispatch(i int, e *dom.Event) {
	notPrevented := s.doc.Dispatch(e)
	s.res.Steps = append(s.res.Steps, StepOutcome{
		Index:     i,
		Event:     string(e.Type),
		Prevented: !notPrevented,
		State:     s.b.State().String(),
	})
}

func (s *session) orBody(n *html.Node) *html.Node {
	if n == nil {
		return s.doc.Body()
	}
	return n
}

// parseButton maps a CDP button name; empty means the left button.
func parseButton(name string) (schemas.MouseButton, error) {
	if name == "" {
		return schemas.ButtonPrimary, nil
	}
	b, ok := dom.ButtonFromCDP(input.MouseButton(name))
	if !ok {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return b, nil
}
