// internal/browser/dom/datatransfer.go
package dom

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/chromedp/cdproto/input"
	"github.com/xkilldash9x/mousebackend/api/schemas"
)

// TypeFiles is the DataTransfer type advertised when files are present.
const TypeFiles = "Files"

// File describes one file carried by a native drag.
type File struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// DataTransfer is the platform payload attached to drag events. A nil
// *DataTransfer behaves as an empty one.
type DataTransfer struct {
	DropEffect    string
	EffectAllowed string

	types []string
	data  map[string]string
	files []File
}

// NewDataTransfer returns an empty payload.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: make(map[string]string)}
}

// normalizeFormat applies the HTML rules: formats are lowercased, and the
// legacy "text" and "url" aliases map to their MIME types.
func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	switch format {
	case "text":
		return "text/plain"
	case "url":
		return "text/uri-list"
	}
	return format
}

// SetData stores data under format and advertises the format in Types.
func (dt *DataTransfer) SetData(format, data string) {
	format = normalizeFormat(format)
	if dt.data == nil {
		dt.data = make(map[string]string)
	}
	dt.data[format] = data
	if !slices.Contains(dt.types, format) {
		dt.types = append(dt.types, format)
	}
}

// GetData returns the data stored under format, or "".
func (dt *DataTransfer) GetData(format string) string {
	if dt == nil {
		return ""
	}
	return dt.data[normalizeFormat(format)]
}

// AddFile appends a file and advertises the Files type.
func (dt *DataTransfer) AddFile(f File) {
	dt.files = append(dt.files, f)
	if !slices.Contains(dt.types, TypeFiles) {
		dt.types = append(dt.types, TypeFiles)
	}
}

// Files returns a copy of the carried files.
func (dt *DataTransfer) Files() []File {
	if dt == nil {
		return nil
	}
	return slices.Clone(dt.files)
}

// Types returns the advertised types in insertion order.
func (dt *DataTransfer) Types() []string {
	if dt == nil {
		return nil
	}
	return slices.Clone(dt.types)
}

// HasType reports whether typ is advertised. The comparison is exact, which
// is how the legacy "Text"/"Url" spellings stay distinguishable.
func (dt *DataTransfer) HasType(typ string) bool {
	if dt == nil {
		return false
	}
	return slices.Contains(dt.types, typ)
}

// -- Chrome DevTools Protocol interop --

// Drag operation bits used by Input.DragData.dragOperationsMask.
const (
	dragOperationCopy = 1
	dragOperationLink = 2
	dragOperationMove = 16
)

// FromDragData converts a CDP drag payload (as delivered by
// Input.dragIntercepted) into a DataTransfer.
func FromDragData(data *input.DragData) *DataTransfer {
	dt := NewDataTransfer()
	if data == nil {
		return dt
	}
	for _, item := range data.Items {
		if item == nil || item.MimeType == "" {
			continue
		}
		dt.SetData(item.MimeType, item.Data)
	}
	for _, p := range data.Files {
		dt.AddFile(File{Name: filepath.Base(p), Path: p})
	}
	dt.EffectAllowed = effectAllowedFromMask(data.DragOperationsMask)
	return dt
}

func effectAllowedFromMask(mask int64) string {
	copyOp := mask&dragOperationCopy != 0
	link := mask&dragOperationLink != 0
	move := mask&dragOperationMove != 0
	switch {
	case copyOp && link && move:
		return "all"
	case copyOp && link:
		return "copyLink"
	case copyOp && move:
		return "copyMove"
	case link && move:
		return "linkMove"
	case copyOp:
		return "copy"
	case link:
		return "link"
	case move:
		return "move"
	}
	return "none"
}

// ButtonFromCDP maps a CDP mouse button name onto MouseEvent.button.
func ButtonFromCDP(b input.MouseButton) (schemas.MouseButton, bool) {
	switch b {
	case input.Left:
		return schemas.ButtonPrimary, true
	case input.Middle:
		return schemas.ButtonAuxiliary, true
	case input.Right:
		return schemas.ButtonSecondary, true
	case input.Back:
		return schemas.ButtonBack, true
	case input.Forward:
		return schemas.ButtonForward, true
	}
	return 0, false
}
