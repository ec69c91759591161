// Package slidedoc defines the document-object contract the fill engine works
// against: an opened presentation, its slides, their shapes, and the handful of
// shape operations the engine needs. Concrete document backends (pkg/pptx)
// implement these interfaces; the engine never touches file bytes itself.
package slidedoc

// Box is a shape bounding box in EMU (English Metric Units), the native
// linear unit of OOXML drawing coordinates.
type Box struct {
	Left   int64
	Top    int64
	Width  int64
	Height int64
}

// ShapeKind classifies a shape for resolver dispatch.
type ShapeKind int

const (
	// KindShape is any shape that is not one of the specific kinds below
	// (text boxes, auto shapes, connectors, groups).
	KindShape ShapeKind = iota
	// KindPicture is an embedded raster image.
	KindPicture
	// KindPlaceholder is a layout-bound placeholder shape.
	KindPlaceholder
	// KindTable is a graphic frame holding a table.
	KindTable
)

// String returns the kind name used in logs.
func (k ShapeKind) String() string {
	switch k {
	case KindPicture:
		return "picture"
	case KindPlaceholder:
		return "placeholder"
	case KindTable:
		return "table"
	default:
		return "shape"
	}
}

// Document is an opened presentation. One engine instance owns a Document for
// its whole lifetime and mutates it in place; Documents are not safe for
// concurrent use.
type Document interface {
	// Slides returns the slides in presentation order.
	Slides() []Slide
	// Save writes the document, including all in-place edits, to path.
	Save(path string) error
}

// Slide is a single slide handle.
type Slide interface {
	// Title returns the text of the slide's title placeholder. The second
	// return is false when the slide has no title shape.
	Title() (string, bool)
	// Shapes returns the slide's top-level shapes in document order.
	Shapes() []Shape
	// RemoveShape detaches a shape obtained from Shapes. The removal is
	// destructive: there is no undo within the in-memory document.
	RemoveShape(Shape) error
	// AddPicture inserts the image file at path as a new picture shape with
	// the given geometry.
	AddPicture(path string, box Box) error
}

// Shape is a single shape handle.
type Shape interface {
	Kind() ShapeKind
	// Name is the shape name from the document (cNvPr@name).
	Name() string
	// AltText is the shape's alternative text (cNvPr@descr).
	AltText() string
	// Box returns the shape's bounding box, resolving inherited placeholder
	// geometry where the shape itself carries none.
	Box() (Box, error)
	// HasText reports whether the shape carries a writable text body.
	// Tables and pictures report false even though Text may be non-empty.
	HasText() bool
	// Text returns the shape's visible text. For table shapes this is the
	// concatenated cell text, which is what identifier lookup scans.
	Text() string
	// SetText replaces the shape's text body. Run-level formatting is reset,
	// so callers should write back only when the text actually changed.
	SetText(text string) error
	// Table returns the shape's table. The second return is false for
	// non-table shapes.
	Table() (Table, bool)
}

// Table is a table embedded in a slide shape.
type Table interface {
	Rows() int
	Cols() int
	// SetCell overwrites the text of the cell at (row, col), zero-based.
	SetCell(row, col int, text string) error
}
