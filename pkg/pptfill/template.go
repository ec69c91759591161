package pptfill

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/patrickmn/go-cache"

	"github.com/Dragosjosan/powerpoint-automation/pkg/pptx"
	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// Template is an opened presentation together with its slide index. One
// Template owns its document for the document's lifetime and mutates it in
// place; it is not safe for concurrent use.
type Template struct {
	doc    slidedoc.Document
	index  map[string]slideEntry
	titled []SlideInfo
	log    *slog.Logger
	probes *cache.Cache
}

type slideEntry struct {
	index int
	slide slidedoc.Slide
}

// SlideInfo identifies one titled slide of the template.
type SlideInfo struct {
	// Index is the zero-based position of the slide in the presentation.
	Index int
	// Title is the text of the slide's title shape.
	Title string
}

// Open loads the presentation at path and indexes its slides. A missing file
// is reported as ErrTemplateNotFound; an unreadable or legacy-format file
// surfaces the document library's error.
func Open(path string, opts Options) (*Template, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}
	doc, err := pptx.Open(path)
	if err != nil {
		return nil, err
	}
	return New(doc, opts), nil
}

// New wraps an already opened document and builds its slide index.
func New(doc slidedoc.Document, opts Options) *Template {
	t := &Template{
		doc:    doc,
		log:    opts.logger(),
		probes: cache.New(opts.probeTTL(), 2*opts.probeTTL()),
	}
	t.buildSlideIndex()
	return t
}

// buildSlideIndex maps slide titles to slide handles. Slides without a title
// shape, or with an empty title, are unreachable by name and left out. Titles
// are not guaranteed unique; the last slide with a given title wins.
func (t *Template) buildSlideIndex() {
	t.index = make(map[string]slideEntry)
	for i, slide := range t.doc.Slides() {
		title, ok := slide.Title()
		if !ok || title == "" {
			continue
		}
		t.index[title] = slideEntry{index: i, slide: slide}
		t.titled = append(t.titled, SlideInfo{Index: i, Title: title})
	}
}

// Slides lists the titled slides in presentation order, duplicates included.
// Slides without a title do not appear because they cannot be addressed.
func (t *Template) Slides() []SlideInfo {
	out := make([]SlideInfo, len(t.titled))
	copy(out, t.titled)
	return out
}

// Save writes the modified presentation to path.
func (t *Template) Save(path string) error {
	return t.doc.Save(path)
}
