package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// Shape wraps one top-level shape element of a slide.
type Shape struct {
	slide *Slide
	node  *xmlNode
	kind  slidedoc.ShapeKind
}

func (sh *Shape) Kind() slidedoc.ShapeKind {
	return sh.kind
}

// Name returns the shape name from its non-visual properties.
func (sh *Shape) Name() string {
	if cNvPr := sh.cNvPr(); cNvPr != nil {
		return cNvPr.attr("", "name")
	}
	return ""
}

// AltText returns the shape's alternative text description.
func (sh *Shape) AltText() string {
	if cNvPr := sh.cNvPr(); cNvPr != nil {
		return cNvPr.attr("", "descr")
	}
	return ""
}

func (sh *Shape) cNvPr() *xmlNode {
	nv := nonVisualContainer(sh.node)
	if nv == nil {
		return nil
	}
	return nv.child(nsP, "cNvPr")
}

// Box returns the shape's position and size in EMU. Placeholders without
// their own transform inherit it from the slide layout, then the master.
func (sh *Shape) Box() (slidedoc.Box, error) {
	if xfrm := sh.ownXfrm(); xfrm != nil {
		if box, ok := parseXfrm(xfrm); ok {
			return box, nil
		}
	}
	if box, ok := sh.inheritedBox(); ok {
		return box, nil
	}
	return slidedoc.Box{}, fmt.Errorf("shape %q has no resolvable geometry", sh.Name())
}

func (sh *Shape) ownXfrm() *xmlNode {
	switch sh.node.Local {
	case "graphicFrame":
		return sh.node.child(nsP, "xfrm")
	case "grpSp":
		if pr := sh.node.child(nsP, "grpSpPr"); pr != nil {
			return pr.child(nsA, "xfrm")
		}
	default:
		if pr := sh.node.child(nsP, "spPr"); pr != nil {
			return pr.child(nsA, "xfrm")
		}
	}
	return nil
}

func (sh *Shape) inheritedBox() (slidedoc.Box, bool) {
	ph := placeholderOf(sh.node)
	if ph == nil {
		return slidedoc.Box{}, false
	}
	idx := phIndex(ph)
	for _, pp := range []*parsedPart{sh.slide.layoutTree(), sh.slide.masterTree()} {
		if pp == nil {
			continue
		}
		if box, ok := placeholderBoxIn(pp.root, idx); ok {
			return box, true
		}
	}
	return slidedoc.Box{}, false
}

// phIndex normalizes a placeholder index, which defaults to 0 when absent.
func phIndex(ph *xmlNode) string {
	if idx := ph.attr("", "idx"); idx != "" {
		return idx
	}
	return "0"
}

// placeholderBoxIn finds the placeholder with the given index in a layout
// or master part and parses its transform.
func placeholderBoxIn(root *xmlNode, idx string) (slidedoc.Box, bool) {
	tree := spTreeOf(root)
	if tree == nil {
		return slidedoc.Box{}, false
	}
	for _, sp := range tree.childAll(nsP, "sp") {
		ph := placeholderOf(sp)
		if ph == nil || phIndex(ph) != idx {
			continue
		}
		pr := sp.child(nsP, "spPr")
		if pr == nil {
			continue
		}
		if xfrm := pr.child(nsA, "xfrm"); xfrm != nil {
			if box, ok := parseXfrm(xfrm); ok {
				return box, true
			}
		}
	}
	return slidedoc.Box{}, false
}

func spTreeOf(root *xmlNode) *xmlNode {
	cSld := root.child(nsP, "cSld")
	if cSld == nil {
		return nil
	}
	return cSld.child(nsP, "spTree")
}

func parseXfrm(xfrm *xmlNode) (slidedoc.Box, bool) {
	off := xfrm.child(nsA, "off")
	ext := xfrm.child(nsA, "ext")
	if off == nil || ext == nil {
		return slidedoc.Box{}, false
	}
	vals := [4]int64{}
	for i, spec := range []struct {
		node *xmlNode
		attr string
	}{{off, "x"}, {off, "y"}, {ext, "cx"}, {ext, "cy"}} {
		v, err := strconv.ParseInt(spec.node.attr("", spec.attr), 10, 64)
		if err != nil {
			return slidedoc.Box{}, false
		}
		vals[i] = v
	}
	return slidedoc.Box{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]}, true
}

// HasText reports whether the shape owns a text frame. Only regular shapes
// and placeholders do; pictures, tables and connectors never carry one.
func (sh *Shape) HasText() bool {
	return sh.node.Space == nsP && sh.node.Local == "sp" && sh.node.child(nsP, "txBody") != nil
}

// Text returns the visible text of the shape. Paragraphs are joined with
// newlines and soft line breaks read as newlines. For tables the text of
// every cell is concatenated, which lets callers search for markers
// anywhere in the table.
func (sh *Shape) Text() string {
	if sh.kind == slidedoc.KindTable {
		return sh.tableCellText()
	}
	if sh.node.Local == "sp" {
		return shapeText(sh.node)
	}
	return ""
}

func (sh *Shape) tableCellText() string {
	tbl := tableOf(sh.node)
	if tbl == nil {
		return ""
	}
	var parts []string
	for _, tr := range tbl.childAll(nsA, "tr") {
		for _, tc := range tr.childAll(nsA, "tc") {
			if txt := cellText(tc); txt != "" {
				parts = append(parts, txt)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// SetText replaces the whole text frame content with the given text, one
// paragraph per line. Frame-level settings are kept; run formatting is not.
func (sh *Shape) SetText(text string) error {
	if !sh.HasText() {
		return fmt.Errorf("shape %q has no text frame", sh.Name())
	}
	setTxBodyText(sh.node.child(nsP, "txBody"), text)
	sh.slide.dirty = true
	return nil
}

// Table returns the table behind a table shape.
func (sh *Shape) Table() (slidedoc.Table, bool) {
	if sh.kind != slidedoc.KindTable {
		return nil, false
	}
	return &Table{shape: sh, tbl: tableOf(sh.node)}, true
}

// shapeText extracts the text of an sp element's text body.
func shapeText(sp *xmlNode) string {
	txBody := sp.child(nsP, "txBody")
	if txBody == nil {
		return ""
	}
	return txBodyText(txBody)
}

func txBodyText(txBody *xmlNode) string {
	var paras []string
	for _, p := range txBody.childAll(nsA, "p") {
		paras = append(paras, paragraphText(p))
	}
	return strings.Join(paras, "\n")
}

func paragraphText(p *xmlNode) string {
	var b strings.Builder
	for _, c := range p.Children {
		if c.Space != nsA {
			continue
		}
		switch c.Local {
		case "r", "fld":
			if t := c.child(nsA, "t"); t != nil {
				b.WriteString(t.textContent())
			}
		case "br":
			b.WriteString("\n")
		}
	}
	return b.String()
}

// setTxBodyText rewrites the paragraphs of a text body, keeping bodyPr and
// lstStyle children in place. Each line becomes one paragraph with a single
// unformatted run; empty lines become empty paragraphs.
func setTxBodyText(txBody *xmlNode, text string) {
	var kept []*xmlNode
	for _, c := range txBody.Children {
		if c.Local != "" && !(c.Space == nsA && c.Local == "p") {
			kept = append(kept, c)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		p := &xmlNode{Space: nsA, Local: "p"}
		if line != "" {
			t := &xmlNode{Space: nsA, Local: "t", Children: []*xmlNode{{Text: line}}}
			r := &xmlNode{Space: nsA, Local: "r", Children: []*xmlNode{t}}
			p.Children = append(p.Children, r)
		}
		kept = append(kept, p)
	}
	txBody.Children = kept
}
