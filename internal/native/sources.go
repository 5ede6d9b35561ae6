package native

import (
	"strings"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
)

// baseSource holds the behavior shared by every kind.
type baseSource struct {
	item Item
}

func (s *baseSource) Item() *Item { return &s.item }

func (s *baseSource) CanDrag(schemas.Monitor, schemas.SourceID) bool { return true }

func (s *baseSource) BeginDrag(schemas.Monitor, schemas.SourceID) any { return &s.item }

func (s *baseSource) IsDragging(monitor schemas.Monitor, id schemas.SourceID) bool {
	return monitor.GetSourceID() == id
}

func (s *baseSource) EndDrag(schemas.Monitor, schemas.SourceID) {}

type fileSource struct{ baseSource }

func (s *fileSource) Kind() Kind { return KindFile }

func (s *fileSource) Ingest(dt *dom.DataTransfer) {
	s.item.Files = dt.Files()
	s.item.Ingested = true
}

type urlSource struct{ baseSource }

func (s *urlSource) Kind() Kind { return KindURL }

func (s *urlSource) Ingest(dt *dom.DataTransfer) {
	data := firstData(dt, "Url", "text/uri-list")
	if data == "" {
		s.item.URLs = nil
	} else {
		s.item.URLs = strings.Split(data, "\n")
	}
	s.item.Ingested = true
}

type textSource struct{ baseSource }

func (s *textSource) Kind() Kind { return KindText }

func (s *textSource) Ingest(dt *dom.DataTransfer) {
	s.item.Text = firstData(dt, "Text", "text/plain")
	s.item.Ingested = true
}

// firstData returns the first non-empty value among formats.
func firstData(dt *dom.DataTransfer, formats ...string) string {
	for _, f := range formats {
		if v := dt.GetData(f); v != "" {
			return v
		}
	}
	return ""
}
