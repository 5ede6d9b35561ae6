// Package replay runs scripted input against a real backend over an HTML
// fixture and reports the drag actions it produced.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// Step event names beyond the DOM event types.
const (
	// StepRemove detaches the target node, as an application re-render would.
	StepRemove = "remove"
	// StepAppend moves the target node under Parent.
	StepAppend = "append"
	// StepDrag expands to a press at From, Moves moves toward To, and a release at To.
	StepDrag = "drag"
)

// ErrInvalidScript wraps every script validation failure.
var ErrInvalidScript = errors.New("invalid script")

// Script is a replay scenario.
type Script struct {
	Name    string   `yaml:"name"`
	HTML    string   `yaml:"html"`
	Layout  []Box    `yaml:"layout,omitempty"`
	Sources []Source `yaml:"sources,omitempty"`
	Targets []Target `yaml:"targets,omitempty"`
	Steps   []Step   `yaml:"steps"`
	// DragThreshold overrides the configured threshold when set.
	DragThreshold *float64 `yaml:"drag_threshold,omitempty"`
	Expect        *Expect  `yaml:"expect,omitempty"`
}

// Box places a node in the viewport.
type Box struct {
	XPath string       `yaml:"xpath"`
	Rect  schemas.Rect `yaml:"rect"`
}

// Source registers a drag source.
type Source struct {
	ID       string `yaml:"id"`
	XPath    string `yaml:"xpath"`
	Type     string `yaml:"type"`
	Item     any    `yaml:"item,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
	// Preview is the xpath of the drag preview node, if any.
	Preview string `yaml:"preview,omitempty"`
}

// Target registers a drop target.
type Target struct {
	ID      string   `yaml:"id"`
	XPath   string   `yaml:"xpath"`
	Accepts []string `yaml:"accepts"`
	Result  any      `yaml:"result,omitempty"`
	Refuse  bool     `yaml:"refuse,omitempty"`
}

// Step is one scripted input.
type Step struct {
	Event string `yaml:"event"`

	// At is the pointer position. Omitted for keyboard and mutation steps.
	At *schemas.Point `yaml:"at,omitempty"`
	// Target is an xpath. Pointer steps without one target the topmost
	// element under At.
	Target string `yaml:"target,omitempty"`
	// Button uses CDP names: left, middle, right, back, forward.
	Button string `yaml:"button,omitempty"`
	Key    string `yaml:"key,omitempty"`

	// Related is the xpath of the related target of a dragleave.
	Related string            `yaml:"related,omitempty"`
	Data    map[string]string `yaml:"data,omitempty"`
	Files   []dom.File        `yaml:"files,omitempty"`

	Parent string `yaml:"parent,omitempty"`

	From  *schemas.Point `yaml:"from,omitempty"`
	To    *schemas.Point `yaml:"to,omitempty"`
	Moves int            `yaml:"moves,omitempty"`
	// Easing applies ease-in-out timing to the moves of a drag.
	Easing bool `yaml:"easing,omitempty"`
	// Jitter is the amplitude in pixels of the noise added to a drag's
	// intermediate moves. Seed makes it reproducible.
	Jitter float64 `yaml:"jitter,omitempty"`
	Seed   int64   `yaml:"seed,omitempty"`
}

// Expect lists checks applied after the run.
type Expect struct {
	// Actions is the exact sequence of action names.
	Actions []string `yaml:"actions,omitempty"`
	// DropResult is compared with the last drop result when set.
	DropResult any `yaml:"drop_result,omitempty"`
}

// LoadFile reads a script from disk.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Load(data)
}

// Load parses a script. Unknown fields are rejected so typos do not pass silently.
func Load(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script's structure. Node lookups happen at run time.
func (s *Script) Validate() error {
	if s.HTML == "" {
		return fmt.Errorf("%w: html is required", ErrInvalidScript)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: steps list is required and must be non-empty", ErrInvalidScript)
	}
	if s.DragThreshold != nil && *s.DragThreshold < 0 {
		return fmt.Errorf("%w: drag_threshold must not be negative", ErrInvalidScript)
	}

	seen := make(map[string]bool)
	for i, src := range s.Sources {
		if src.ID == "" || src.XPath == "" || src.Type == "" {
			return fmt.Errorf("%w: sources[%d] needs id, xpath and type", ErrInvalidScript, i)
		}
		if seen[src.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidScript, src.ID)
		}
		seen[src.ID] = true
	}
	for i, tgt := range s.Targets {
		if tgt.ID == "" || tgt.XPath == "" {
			return fmt.Errorf("%w: targets[%d] needs id and xpath", ErrInvalidScript, i)
		}
		if seen[tgt.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidScript, tgt.ID)
		}
		seen[tgt.ID] = true
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("%w: steps[%d]: %v", ErrInvalidScript, i, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch schemas.EventType(st.Event) {
	case schemas.EventMouseDown, schemas.EventMouseMove, schemas.EventMouseUp,
		schemas.EventClick, schemas.EventContextMenu:
		if st.At == nil {
			return fmt.Errorf("%s needs at", st.Event)
		}
		if _, err := parseButton(st.Button); err != nil {
			return err
		}
		return nil
	case schemas.EventKeyDown:
		if st.Key == "" {
			return fmt.Errorf("keydown needs key")
		}
		return nil
	case schemas.EventDragStart, schemas.EventDragEnter, schemas.EventDragOver,
		schemas.EventDragLeave, schemas.EventDrop:
		if st.At == nil && st.Target == "" {
			return fmt.Errorf("%s needs at or target", st.Event)
		}
		return nil
	}

	switch st.Event {
	case StepRemove:
		if st.Target == "" {
			return fmt.Errorf("remove needs target")
		}
	case StepAppend:
		if st.Target == "" || st.Parent == "" {
			return fmt.Errorf("append needs target and parent")
		}
	case StepDrag:
		if st.From == nil || st.To == nil {
			return fmt.Errorf("drag needs from and to")
		}
		if st.Moves < 0 {
			return fmt.Errorf("drag moves must not be negative")
		}
		if st.Jitter < 0 {
			return fmt.Errorf("drag jitter must not be negative")
		}
	case "":
		return fmt.Errorf("event is required")
	default:
		return fmt.Errorf("unknown event %q", st.Event)
	}
	return nil
}

// dataTransfer builds the payload of a native step.
func (st Step) dataTransfer() *dom.DataTransfer {
	if len(st.Data) == 0 && len(st.Files) == 0 {
		return nil
	}
	dt := dom.NewDataTransfer()
	for _, format := range slices.Sorted(maps.Keys(st.Data)) {
		dt.SetData(format, st.Data[format])
	}
	for _, f := range st.Files {
		dt.AddFile(f)
	}
	return dt
}
