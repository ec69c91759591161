package pptfill

import "github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"

// Report summarizes one Apply run. Everything below template level is
// recovered, so Apply reports rather than fails: each skipped slide, table
// or image shows up as one warning.
type Report struct {
	// SlidesApplied counts payload entries whose slide was found, whether or
	// not every section of the entry succeeded.
	SlidesApplied int
	// SlidesSkipped counts payload entries naming unknown slide titles.
	SlidesSkipped int
	// Warnings holds every recovered failure in application order.
	Warnings []*ApplyError
}

// HasWarnings reports whether anything was skipped or recovered during the run.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Apply walks the payload in document order and dispatches each entry's
// sections to the slide named by its title. Unknown titles are warned and
// skipped. Within a slide the sections run in a fixed order (text, tables,
// images); a section failing as a whole abandons the slide's remaining
// sections, while processing always continues with the next payload entry.
// Nothing is rolled back, so partially applied slides are a possible
// terminal state.
func (t *Template) Apply(payload *Payload) *Report {
	report := &Report{}
	for _, entry := range payload.Entries {
		t.log.Debug("applying data to slide", "slide", entry.SlideTitle)
		target, ok := t.index[entry.SlideTitle]
		if !ok {
			t.warn(report, NewApplyError(entry.SlideTitle, "", "", ErrSlideNotFound))
			report.SlidesSkipped++
			continue
		}
		t.applySlide(report, entry.SlideTitle, target.slide, entry.Directive)
		report.SlidesApplied++
	}
	return report
}

func (t *Template) applySlide(report *Report, title string, slide slidedoc.Slide, d SlideDirective) {
	if d.Text != nil {
		t.log.Debug("slide has text data", "slide", title)
		if err := t.applyText(report, title, slide, d.Text); err != nil {
			t.warn(report, NewApplyError(title, "text", "", err))
			return
		}
	}
	if d.Tables != nil {
		t.log.Debug("slide has table data", "slide", title)
		if err := t.applyTables(report, title, slide, d.Tables); err != nil {
			t.warn(report, NewApplyError(title, "tables", "", err))
			return
		}
	}
	if d.Images != nil {
		t.log.Debug("slide has image data", "slide", title)
		if err := t.applyImages(report, title, slide, d.Images); err != nil {
			t.warn(report, NewApplyError(title, "images", "", err))
			return
		}
	}
}

// warn records a recovered failure and logs it.
func (t *Template) warn(report *Report, ae *ApplyError) {
	report.Warnings = append(report.Warnings, ae)
	attrs := []any{"slide", ae.Slide}
	if ae.Section != "" {
		attrs = append(attrs, "section", ae.Section)
	}
	if ae.Ref != "" {
		attrs = append(attrs, "ref", ae.Ref)
	}
	attrs = append(attrs, "error", ae.Err)
	t.log.Warn("skipped", attrs...)
}
