// Package native classifies platform drag payloads (files, links, text)
// dragged in from outside the page and materializes the transient drag
// sources that stand in for them while the drag is in progress.
package native

import (
	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// Item types registered for native payloads. Drop targets list these to
// accept drags coming from outside the page.
const (
	TypeFile = "__NATIVE_FILE__"
	TypeURL  = "__NATIVE_URL__"
	TypeText = "__NATIVE_TEXT__"
)

// Kind is a recognized native payload kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindURL
	KindText
)

// String returns the item type the kind is registered under.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return TypeFile
	case KindURL:
		return TypeURL
	case KindText:
		return TypeText
	default:
		return "unknown"
	}
}

// kindInfo ties a kind to the DataTransfer types that announce it and the
// factory for its source.
type kindInfo struct {
	kind       Kind
	matchTypes []string
	factory    func() Source
}

// kinds is checked in order; the first kind with a matching type wins.
var kinds = []kindInfo{
	{
		kind:       KindFile,
		matchTypes: []string{dom.TypeFiles},
		factory:    func() Source { return &fileSource{} },
	},
	{
		kind:       KindURL,
		matchTypes: []string{"Url", "text/uri-list"},
		factory:    func() Source { return &urlSource{} },
	},
	{
		kind:       KindText,
		matchTypes: []string{"Text", "text/plain"},
		factory:    func() Source { return &textSource{} },
	},
}

// Match returns the kind of the payload, or false if nothing recognizable is
// being dragged.
func Match(dt *dom.DataTransfer) (Kind, bool) {
	if dt == nil {
		return KindUnknown, false
	}
	for _, k := range kinds {
		for _, typ := range k.matchTypes {
			if dt.HasType(typ) {
				return k.kind, true
			}
		}
	}
	return KindUnknown, false
}

// NewSource creates the transient source for kind. It returns nil for
// KindUnknown.
func NewSource(kind Kind) Source {
	for _, k := range kinds {
		if k.kind == kind {
			return k.factory()
		}
	}
	return nil
}

// Source is the drag source registered for a native payload.
type Source interface {
	schemas.DragSource
	Kind() Kind
	// Item returns the item handed out by BeginDrag. It is filled in by Ingest.
	Item() *Item
	// Ingest reads the payload. Browsers only expose payload contents on drop.
	Ingest(dt *dom.DataTransfer)
}

// Item is the dragged item of a native source. Only the field for the
// source's kind is populated.
type Item struct {
	Files    []dom.File `json:"files,omitempty" yaml:"files,omitempty"`
	URLs     []string   `json:"urls,omitempty" yaml:"urls,omitempty"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Ingested bool       `json:"ingested" yaml:"ingested"`
}
