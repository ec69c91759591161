package pptfill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// applyTables fills the slide's tables from the directives in tablesData.
// Directives are applied in reference order, positions first. A slide with a
// tables section but no table shapes is warned once and left alone; a
// directive that cannot be resolved or loaded is warned and skipped without
// affecting the remaining directives.
func (t *Template) applyTables(report *Report, title string, slide slidedoc.Slide, tablesData map[string]TableDirective) error {
	var tableShapes []slidedoc.Shape
	for _, shape := range slide.Shapes() {
		if shape.Kind() == slidedoc.KindTable {
			tableShapes = append(tableShapes, shape)
		}
	}
	if len(tableShapes) == 0 {
		t.warn(report, NewApplyError(title, "tables", "", ErrTableNotFound))
		return nil
	}
	t.log.Debug("found tables in slide", "slide", title, "count", len(tableShapes))

	keys := make([]string, 0, len(tablesData))
	for k := range tablesData {
		keys = append(keys, k)
	}
	sortRefs(keys)

	for _, key := range keys {
		directive := tablesData[key]
		table := resolveTable(tableShapes, key, directive)
		if table == nil {
			t.warn(report, NewApplyError(title, "tables", key, errors.New("no matching table shape")))
			continue
		}
		matrix, err := directive.matrix()
		if err != nil {
			t.warn(report, NewApplyError(title, "tables", key, err))
			continue
		}
		if matrix == nil {
			t.warn(report, NewApplyError(title, "tables", key, errors.New("directive has no data")))
			continue
		}
		if err := fillTable(table, matrix); err != nil {
			t.warn(report, NewApplyError(title, "tables", key, err))
		}
	}
	return nil
}

// resolveTable picks the table a payload reference names. A reference parsing
// as an in-range position short-circuits name lookup even when a same-named
// shape exists elsewhere. Out-of-range positions and non-numeric references
// fall back to scanning the table shapes for one whose name equals the raw
// reference, or whose text contains the directive's identifier; first match
// wins.
func resolveTable(tableShapes []slidedoc.Shape, rawRef string, directive TableDirective) slidedoc.Table {
	if r := parseRef(rawRef); r.kind == refIndex && r.index < len(tableShapes) {
		table, _ := tableShapes[r.index].Table()
		return table
	}
	for _, shape := range tableShapes {
		if shape.Name() == rawRef ||
			(directive.Identifier != "" && strings.Contains(shape.Text(), directive.Identifier)) {
			table, _ := shape.Table()
			return table
		}
	}
	return nil
}

// fillTable overwrites cell text row by row over the overlap of the supplied
// matrix and the table grid. Excess supplied data is dropped; cells beyond
// the supplied data keep their content.
func fillTable(table slidedoc.Table, matrix [][]any) error {
	rows := min(len(matrix), table.Rows())
	for r := 0; r < rows; r++ {
		cols := min(len(matrix[r]), table.Cols())
		for c := 0; c < cols; c++ {
			if err := table.SetCell(r, c, coerceString(matrix[r][c])); err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
		}
	}
	return nil
}
