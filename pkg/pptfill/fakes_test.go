package pptfill

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// The fake types below implement the slidedoc contract in memory so resolver
// behavior can be exercised without real presentation files.

type fakeDoc struct {
	slides    []*fakeSlide
	savedPath string
	saveErr   error
}

func (d *fakeDoc) Slides() []slidedoc.Slide {
	out := make([]slidedoc.Slide, len(d.slides))
	for i, s := range d.slides {
		out[i] = s
	}
	return out
}

func (d *fakeDoc) Save(path string) error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.savedPath = path
	return nil
}

type addedPicture struct {
	path string
	box  slidedoc.Box
}

type fakeSlide struct {
	title     string
	hasTitle  bool
	shapes    []*fakeShape
	added     []addedPicture
	addErr    error
	removeErr error
}

func (s *fakeSlide) Title() (string, bool) { return s.title, s.hasTitle }

func (s *fakeSlide) Shapes() []slidedoc.Shape {
	out := make([]slidedoc.Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh
	}
	return out
}

func (s *fakeSlide) RemoveShape(sh slidedoc.Shape) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	for i, cur := range s.shapes {
		if cur == sh {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return nil
		}
	}
	return errors.New("shape not on slide")
}

func (s *fakeSlide) AddPicture(path string, box slidedoc.Box) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, addedPicture{path: path, box: box})
	return nil
}

// has reports whether the shape is still on the slide.
func (s *fakeSlide) has(sh *fakeShape) bool {
	for _, cur := range s.shapes {
		if cur == sh {
			return true
		}
	}
	return false
}

type fakeShape struct {
	kind     slidedoc.ShapeKind
	name     string
	alt      string
	text     string
	hasText  bool
	setCalls int
	setErr   error
	box      slidedoc.Box
	boxErr   error
	table    *fakeTable
}

func (sh *fakeShape) Kind() slidedoc.ShapeKind { return sh.kind }
func (sh *fakeShape) Name() string             { return sh.name }
func (sh *fakeShape) AltText() string          { return sh.alt }

func (sh *fakeShape) Box() (slidedoc.Box, error) {
	if sh.boxErr != nil {
		return slidedoc.Box{}, sh.boxErr
	}
	return sh.box, nil
}

func (sh *fakeShape) HasText() bool { return sh.hasText }
func (sh *fakeShape) Text() string  { return sh.text }

func (sh *fakeShape) SetText(text string) error {
	sh.setCalls++
	if sh.setErr != nil {
		return sh.setErr
	}
	sh.text = text
	return nil
}

func (sh *fakeShape) Table() (slidedoc.Table, bool) {
	if sh.table == nil {
		return nil, false
	}
	return sh.table, true
}

type fakeTable struct {
	rows, cols int
	cells      map[[2]int]string
	setErr     error
}

func newFakeTable(rows, cols int) *fakeTable {
	return &fakeTable{rows: rows, cols: cols, cells: make(map[[2]int]string)}
}

func (t *fakeTable) Rows() int { return t.rows }
func (t *fakeTable) Cols() int { return t.cols }

func (t *fakeTable) SetCell(row, col int, text string) error {
	if t.setErr != nil {
		return t.setErr
	}
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	t.cells[[2]int{row, col}] = text
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestTemplate wraps a fake document in a Template with logging discarded.
func newTestTemplate(doc *fakeDoc) *Template {
	return New(doc, Options{Logger: discardLogger()})
}

// textShape returns a text-bearing shape as title/placeholder text frames
// report themselves.
func textShape(name, text string) *fakeShape {
	return &fakeShape{kind: slidedoc.KindShape, name: name, text: text, hasText: true}
}

// writePNG writes a solid PNG with the given pixel dimensions and returns
// its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return path
}
