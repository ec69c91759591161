package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

var (
	// ErrNotPresentation is returned when the file is not a PowerPoint
	// package this library can read.
	ErrNotPresentation = errors.New("not a .pptx presentation")

	// ErrLegacyFormat is returned for binary .ppt files, which predate the
	// Office Open XML format and cannot be edited by this library.
	ErrLegacyFormat = errors.New("legacy binary PowerPoint format")
)

const (
	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	packageRelsPart       = "_rels/.rels"
)

// parsedPart is a slide, layout or master part parsed into a node tree.
type parsedPart struct {
	root *xmlNode
	ns   nsTable
}

// Presentation is an open .pptx package. Every part is held in memory;
// edits mark the owning slide dirty and only dirty parts are re-serialized
// on save, so untouched parts round-trip byte for byte.
type Presentation struct {
	parts     map[string][]byte
	partOrder []string

	types      *contentTypes
	typesDirty bool

	slides []*Slide

	// layout and master parts, parsed on first use
	treeCache map[string]*parsedPart
	relsCache map[string]*relationships
}

// Open reads the presentation at path into memory. Binary .ppt files are
// detected and rejected with ErrLegacyFormat.
func Open(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrNotPresentation)
	}

	if isLegacyFile(f) {
		return nil, fmt.Errorf("%s: %w", path, describeLegacy(f))
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNotPresentation, err)
	}
	return newPresentation(zr)
}

func newPresentation(zr *zip.Reader) (*Presentation, error) {
	p := &Presentation{
		parts:     make(map[string][]byte, len(zr.File)),
		treeCache: make(map[string]*parsedPart),
		relsCache: make(map[string]*relationships),
	}
	for _, zf := range zr.File {
		name := path.Clean(zf.Name)
		data, err := readZipPart(zf)
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", zf.Name, err)
		}
		if _, seen := p.parts[name]; seen {
			continue
		}
		p.parts[name] = data
		p.partOrder = append(p.partOrder, name)
	}

	ctData, ok := p.parts[contentTypesPart]
	if !ok {
		return nil, fmt.Errorf("missing %s: %w", contentTypesPart, ErrNotPresentation)
	}
	types, err := parseContentTypes(ctData)
	if err != nil {
		return nil, err
	}
	p.types = types

	if err := p.loadSlides(); err != nil {
		return nil, err
	}
	return p, nil
}

func readZipPart(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// presentationDoc captures the slide id list of ppt/presentation.xml. Slide
// order comes from this list, never from slide part file names.
type presentationDoc struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

func (p *Presentation) loadSlides() error {
	mainPart, err := p.mainDocumentPart()
	if err != nil {
		return err
	}

	var doc presentationDoc
	if err := xml.Unmarshal(p.parts[mainPart], &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", mainPart, err)
	}

	presRels, err := p.relsFor(mainPart)
	if err != nil {
		return err
	}

	for _, sid := range doc.SlideIDs {
		rel := presRels.byID(sid.RelID)
		if rel == nil || rel.Type != relTypeSlide {
			return fmt.Errorf("slide relationship %q not found in %s", sid.RelID, relsPathFor(mainPart))
		}
		partName := resolveTarget(mainPart, rel.Target)
		data, ok := p.parts[partName]
		if !ok {
			return fmt.Errorf("slide part %s missing from package", partName)
		}
		root, ns, err := parseXMLTree(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", partName, err)
		}
		rels, err := p.relsFor(partName)
		if err != nil {
			return err
		}
		p.slides = append(p.slides, &Slide{
			pres:     p,
			partName: partName,
			root:     root,
			ns:       ns,
			rels:     rels,
		})
	}
	return nil
}

// mainDocumentPart resolves the package-level officeDocument relationship,
// normally ppt/presentation.xml.
func (p *Presentation) mainDocumentPart() (string, error) {
	data, ok := p.parts[packageRelsPart]
	if !ok {
		return "", fmt.Errorf("missing %s: %w", packageRelsPart, ErrNotPresentation)
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return "", err
	}
	rel := rels.firstOfType(relTypeOfficeDocument)
	if rel == nil {
		return "", fmt.Errorf("no office document relationship: %w", ErrNotPresentation)
	}
	name := strings.TrimPrefix(path.Clean(rel.Target), "/")
	if _, ok := p.parts[name]; !ok {
		return "", fmt.Errorf("main document part %s missing from package", name)
	}
	return name, nil
}

// relsFor returns the parsed relationships of the given part, an empty set
// when the part has no .rels file. The result is cached and shared.
func (p *Presentation) relsFor(partName string) (*relationships, error) {
	relsPath := relsPathFor(partName)
	if cached, ok := p.relsCache[relsPath]; ok {
		return cached, nil
	}
	rels := &relationships{}
	if data, ok := p.parts[relsPath]; ok {
		parsed, err := parseRelationships(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", relsPath, err)
		}
		rels = parsed
	}
	p.relsCache[relsPath] = rels
	return rels, nil
}

// treeFor parses the given part into a node tree, caching the result.
// Used for layout and master parts, which are read but never written.
func (p *Presentation) treeFor(partName string) (*parsedPart, error) {
	if cached, ok := p.treeCache[partName]; ok {
		return cached, nil
	}
	data, ok := p.parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s missing from package", partName)
	}
	root, ns, err := parseXMLTree(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", partName, err)
	}
	pp := &parsedPart{root: root, ns: ns}
	p.treeCache[partName] = pp
	return pp, nil
}

// Slides returns the slides in presentation order.
func (p *Presentation) Slides() []slidedoc.Slide {
	out := make([]slidedoc.Slide, len(p.slides))
	for i, s := range p.slides {
		out[i] = s
	}
	return out
}

// appendPart stores a part, adding it to the package order when new.
func (p *Presentation) appendPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.partOrder = append(p.partOrder, name)
	}
	p.parts[name] = data
}

// nextMediaName picks the first unused ppt/media/imageN name for a new
// media part with the given extension.
func (p *Presentation) nextMediaName(ext string) string {
	max := 0
	for name := range p.parts {
		base := path.Base(name)
		if !strings.HasPrefix(name, "ppt/media/") || !strings.HasPrefix(base, "image") {
			continue
		}
		num := strings.TrimPrefix(base, "image")
		if dot := strings.IndexByte(num, '.'); dot >= 0 {
			num = num[:dot]
		}
		if v, err := strconv.Atoi(num); err == nil && v > max {
			max = v
		}
	}
	return fmt.Sprintf("ppt/media/image%d.%s", max+1, ext)
}

// addMedia stores image bytes as a new media part and registers its content
// type. It returns the new part name.
func (p *Presentation) addMedia(data []byte, ext string) (string, error) {
	ct, ok := imageContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
	name := p.nextMediaName(ext)
	p.appendPart(name, data)
	if p.types.ensureDefault(ext, ct) {
		p.typesDirty = true
	}
	return name, nil
}

// Save writes the presentation to path, creating or truncating the file.
func (p *Presentation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Write serializes dirty parts and writes the whole package to w in the
// original part order, new parts last.
func (p *Presentation) Write(w io.Writer) error {
	if err := p.flush(); err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, name := range p.partOrder {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish package: %w", err)
	}
	return nil
}

// Bytes returns the serialized package. Mostly useful in tests.
func (p *Presentation) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Presentation) flush() error {
	for _, s := range p.slides {
		if s.dirty {
			p.parts[s.partName] = serializeXMLTree(s.root, s.ns)
			s.dirty = false
		}
		if s.relsDirty {
			data, err := marshalRelationships(s.rels)
			if err != nil {
				return err
			}
			p.appendPart(relsPathFor(s.partName), data)
			s.relsDirty = false
		}
	}
	if p.typesDirty {
		data, err := marshalContentTypes(p.types)
		if err != nil {
			return err
		}
		p.parts[contentTypesPart] = data
		p.typesDirty = false
	}
	return nil
}
