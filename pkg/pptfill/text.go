package pptfill

import (
	"strings"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// applyText rewrites {{key}} tokens in every text-bearing shape of the slide.
// Each key in textData replaces all occurrences of its token; the shape text
// is written back only when it actually changed, so shapes with no matching
// tokens keep their formatting untouched. A shape that fails to update is
// skipped without aborting the rest of the slide.
func (t *Template) applyText(report *Report, title string, slide slidedoc.Slide, textData map[string]any) error {
	for _, shape := range slide.Shapes() {
		t.log.Debug("processing shape", "slide", title, "shape", shape.Name())
		if !shape.HasText() {
			continue
		}
		text := shape.Text()
		updated := text
		for key, value := range textData {
			token := "{{" + key + "}}"
			if !strings.Contains(updated, token) {
				continue
			}
			replacement := coerceString(value)
			t.log.Debug("replacing placeholder", "slide", title, "token", token, "value", replacement)
			updated = strings.ReplaceAll(updated, token, replacement)
		}
		if updated == text {
			continue
		}
		if err := shape.SetText(updated); err != nil {
			t.warn(report, NewApplyError(title, "text", shape.Name(), err))
		}
	}
	return nil
}
