package pptx

import "fmt"

// Table exposes the grid of a table shape.
type Table struct {
	shape *Shape
	tbl   *xmlNode
}

// Rows returns the number of table rows.
func (t *Table) Rows() int {
	return len(t.tbl.childAll(nsA, "tr"))
}

// Cols returns the number of grid columns.
func (t *Table) Cols() int {
	grid := t.tbl.child(nsA, "tblGrid")
	if grid == nil {
		return 0
	}
	return len(grid.childAll(nsA, "gridCol"))
}

// Cell returns the text of the cell at row, col.
func (t *Table) Cell(row, col int) (string, error) {
	tc, err := t.cellAt(row, col)
	if err != nil {
		return "", err
	}
	return cellText(tc), nil
}

// SetCell replaces the text of the cell at row, col. Cell fill and text
// body settings are preserved.
func (t *Table) SetCell(row, col int, text string) error {
	tc, err := t.cellAt(row, col)
	if err != nil {
		return err
	}
	txBody := tc.child(nsA, "txBody")
	if txBody == nil {
		txBody = &xmlNode{Space: nsA, Local: "txBody", Children: []*xmlNode{
			{Space: nsA, Local: "bodyPr"},
		}}
		// txBody precedes tcPr in the cell schema
		t.insertCellBody(tc, txBody)
	}
	setTxBodyText(txBody, text)
	t.shape.slide.dirty = true
	return nil
}

func (t *Table) insertCellBody(tc, txBody *xmlNode) {
	for i, c := range tc.Children {
		if c.Space == nsA && c.Local == "tcPr" {
			tc.Children = append(tc.Children[:i], append([]*xmlNode{txBody}, tc.Children[i:]...)...)
			return
		}
	}
	tc.Children = append(tc.Children, txBody)
}

func (t *Table) cellAt(row, col int) (*xmlNode, error) {
	rows := t.tbl.childAll(nsA, "tr")
	if row < 0 || row >= len(rows) {
		return nil, fmt.Errorf("row %d out of range, table has %d rows", row, len(rows))
	}
	cells := rows[row].childAll(nsA, "tc")
	if col < 0 || col >= len(cells) {
		return nil, fmt.Errorf("column %d out of range, row has %d cells", col, len(cells))
	}
	return cells[col], nil
}

// cellText extracts the text of a table cell's text body.
func cellText(tc *xmlNode) string {
	txBody := tc.child(nsA, "txBody")
	if txBody == nil {
		return ""
	}
	return txBodyText(txBody)
}
