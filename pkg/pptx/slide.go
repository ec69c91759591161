package pptx

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// Slide is one slide part of an open presentation. Mutating methods mark
// the slide dirty so only its XML is rewritten on save.
type Slide struct {
	pres      *Presentation
	partName  string
	root      *xmlNode
	ns        nsTable
	rels      *relationships
	dirty     bool
	relsDirty bool
}

// PartName returns the package path of the slide part, such as
// "ppt/slides/slide1.xml".
func (s *Slide) PartName() string {
	return s.partName
}

func (s *Slide) spTree() *xmlNode {
	return spTreeOf(s.root)
}

// Title returns the text of the slide's title placeholder. The second
// return is false when the slide has no title shape at all; a title shape
// with no text yields ("", true).
func (s *Slide) Title() (string, bool) {
	tree := s.spTree()
	if tree == nil {
		return "", false
	}
	for _, n := range tree.childAll(nsP, "sp") {
		ph := placeholderOf(n)
		if ph == nil {
			continue
		}
		switch ph.attr("", "type") {
		case "title", "ctrTitle":
			return shapeText(n), true
		}
	}
	return "", false
}

// Shapes returns the top-level shapes of the slide in document order.
// Shapes nested inside groups are not enumerated.
func (s *Slide) Shapes() []slidedoc.Shape {
	tree := s.spTree()
	if tree == nil {
		return nil
	}
	var out []slidedoc.Shape
	for _, n := range tree.elements() {
		if n.Space != nsP {
			continue
		}
		switch n.Local {
		case "sp":
			kind := slidedoc.KindShape
			if placeholderOf(n) != nil {
				kind = slidedoc.KindPlaceholder
			}
			out = append(out, &Shape{slide: s, node: n, kind: kind})
		case "pic":
			out = append(out, &Shape{slide: s, node: n, kind: slidedoc.KindPicture})
		case "graphicFrame":
			kind := slidedoc.KindShape
			if tableOf(n) != nil {
				kind = slidedoc.KindTable
			}
			out = append(out, &Shape{slide: s, node: n, kind: kind})
		case "cxnSp", "grpSp":
			out = append(out, &Shape{slide: s, node: n, kind: slidedoc.KindShape})
		}
	}
	return out
}

// RemoveShape detaches the shape's element from the slide. The shape must
// have come from this slide's Shapes.
func (s *Slide) RemoveShape(sh slidedoc.Shape) error {
	shape, ok := sh.(*Shape)
	if !ok || shape.slide != s {
		return fmt.Errorf("shape does not belong to slide %s", s.partName)
	}
	tree := s.spTree()
	if tree == nil || !tree.removeChild(shape.node) {
		return fmt.Errorf("shape %q not found on slide %s", shape.Name(), s.partName)
	}
	s.dirty = true
	return nil
}

// AddPicture reads an image file, stores it as a new media part and appends
// a picture shape with the given geometry on top of the slide.
func (s *Slide) AddPicture(imgPath string, box slidedoc.Box) error {
	data, err := os.ReadFile(imgPath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(imgPath), "."))
	mediaPart, err := s.pres.addMedia(data, ext)
	if err != nil {
		return err
	}

	target := "../media/" + path.Base(mediaPart)
	relID := s.rels.add(relTypeImage, target)
	s.relsDirty = true

	id := s.nextShapeID()
	pic, err := newPicNode(id, fmt.Sprintf("Picture %d", id), relID, box)
	if err != nil {
		return err
	}
	tree := s.spTree()
	if tree == nil {
		return fmt.Errorf("slide %s has no shape tree", s.partName)
	}
	tree.Children = append(tree.Children, pic)
	s.dirty = true
	return nil
}

// nextShapeID returns one past the highest shape id on the slide.
func (s *Slide) nextShapeID() int {
	max := 0
	var walk func(n *xmlNode)
	walk = func(n *xmlNode) {
		if n.Space == nsP && n.Local == "cNvPr" {
			if v, err := strconv.Atoi(n.attr("", "id")); err == nil && v > max {
				max = v
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.root)
	return max + 1
}

// layoutTree returns the parsed slide layout part, or nil when the slide
// has no layout relationship.
func (s *Slide) layoutTree() *parsedPart {
	rel := s.rels.firstOfType(relTypeLayout)
	if rel == nil {
		return nil
	}
	pp, err := s.pres.treeFor(resolveTarget(s.partName, rel.Target))
	if err != nil {
		return nil
	}
	return pp
}

// masterTree returns the parsed slide master behind the slide's layout.
func (s *Slide) masterTree() *parsedPart {
	rel := s.rels.firstOfType(relTypeLayout)
	if rel == nil {
		return nil
	}
	layoutPart := resolveTarget(s.partName, rel.Target)
	layoutRels, err := s.pres.relsFor(layoutPart)
	if err != nil {
		return nil
	}
	masterRel := layoutRels.firstOfType(relTypeMaster)
	if masterRel == nil {
		return nil
	}
	pp, err := s.pres.treeFor(resolveTarget(layoutPart, masterRel.Target))
	if err != nil {
		return nil
	}
	return pp
}

// placeholderOf returns the p:ph element of a shape, or nil when the shape
// is not a placeholder.
func placeholderOf(n *xmlNode) *xmlNode {
	nv := nonVisualContainer(n)
	if nv == nil {
		return nil
	}
	nvPr := nv.child(nsP, "nvPr")
	if nvPr == nil {
		return nil
	}
	return nvPr.child(nsP, "ph")
}

// nonVisualContainer returns the nv*Pr child of a shape element.
func nonVisualContainer(n *xmlNode) *xmlNode {
	for _, name := range []string{"nvSpPr", "nvPicPr", "nvGraphicFramePr", "nvCxnSpPr", "nvGrpSpPr"} {
		if c := n.child(nsP, name); c != nil {
			return c
		}
	}
	return nil
}

// tableOf returns the a:tbl element of a graphic frame, or nil.
func tableOf(n *xmlNode) *xmlNode {
	graphic := n.child(nsA, "graphic")
	if graphic == nil {
		return nil
	}
	data := graphic.child(nsA, "graphicData")
	if data == nil {
		return nil
	}
	return data.child(nsA, "tbl")
}

// picScaffold is the pristine picture element new pictures are cloned from.
var picScaffold = buildPicScaffold()

func buildPicScaffold() *xmlNode {
	el := func(space, local string, children ...*xmlNode) *xmlNode {
		return &xmlNode{Space: space, Local: local, Children: children}
	}
	return el(nsP, "pic",
		el(nsP, "nvPicPr",
			el(nsP, "cNvPr"),
			el(nsP, "cNvPicPr", el(nsA, "picLocks")),
			el(nsP, "nvPr"),
		),
		el(nsP, "blipFill",
			el(nsA, "blip"),
			el(nsA, "stretch", el(nsA, "fillRect")),
		),
		el(nsP, "spPr",
			el(nsA, "xfrm",
				el(nsA, "off"),
				el(nsA, "ext"),
			),
			el(nsA, "prstGeom", el(nsA, "avLst")),
		),
	)
}

// newPicNode clones the picture scaffold and fills in identity, image
// relationship and geometry.
func newPicNode(id int, name, relID string, box slidedoc.Box) (*xmlNode, error) {
	pic := &xmlNode{}
	if err := deepcopy.Copy(pic, picScaffold); err != nil {
		return nil, fmt.Errorf("failed to clone picture template: %w", err)
	}

	cNvPr := pic.child(nsP, "nvPicPr").child(nsP, "cNvPr")
	cNvPr.setAttr("", "id", strconv.Itoa(id))
	cNvPr.setAttr("", "name", name)

	picLocks := pic.child(nsP, "nvPicPr").child(nsP, "cNvPicPr").child(nsA, "picLocks")
	picLocks.setAttr("", "noChangeAspect", "1")

	blip := pic.child(nsP, "blipFill").child(nsA, "blip")
	blip.setAttr(nsR, "embed", relID)

	xfrm := pic.child(nsP, "spPr").child(nsA, "xfrm")
	off := xfrm.child(nsA, "off")
	off.setAttr("", "x", strconv.FormatInt(box.Left, 10))
	off.setAttr("", "y", strconv.FormatInt(box.Top, 10))
	ext := xfrm.child(nsA, "ext")
	ext.setAttr("", "cx", strconv.FormatInt(box.Width, 10))
	ext.setAttr("", "cy", strconv.FormatInt(box.Height, 10))

	pic.child(nsP, "spPr").child(nsA, "prstGeom").setAttr("", "prst", "rect")
	return pic, nil
}
