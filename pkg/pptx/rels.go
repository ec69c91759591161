package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

// Relationship types this package resolves or creates.
const (
	relTypeSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) (*relationships, error) {
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}
	return &rels, nil
}

func marshalRelationships(rels *relationships) ([]byte, error) {
	body, err := xml.Marshal(rels)
	if err != nil {
		return nil, fmt.Errorf("marshal relationships: %w", err)
	}
	return append([]byte(xmlHeader), body...), nil
}

// byID returns the relationship with the given Id, or nil.
func (r *relationships) byID(id string) *relationship {
	for i := range r.Rels {
		if r.Rels[i].ID == id {
			return &r.Rels[i]
		}
	}
	return nil
}

// firstOfType returns the first relationship of the given type, or nil.
func (r *relationships) firstOfType(relType string) *relationship {
	for i := range r.Rels {
		if r.Rels[i].Type == relType {
			return &r.Rels[i]
		}
	}
	return nil
}

// add appends a new internal relationship with the next free rId and returns
// that id. Existing ids are kept untouched so references elsewhere in the
// part stay valid.
func (r *relationships) add(relType, target string) string {
	max := 0
	for _, rel := range r.Rels {
		if n, ok := strings.CutPrefix(rel.ID, "rId"); ok {
			if v, err := strconv.Atoi(n); err == nil && v > max {
				max = v
			}
		}
	}
	id := "rId" + strconv.Itoa(max+1)
	r.Rels = append(r.Rels, relationship{ID: id, Type: relType, Target: target})
	return id
}

// relsPathFor returns the path of the .rels part that describes the given
// part, e.g. "ppt/slides/slide1.xml" -> "ppt/slides/_rels/slide1.xml.rels".
func relsPathFor(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget resolves a relationship target against the directory of the
// part that owns the relationship. Targets may climb with "../" or be
// package-absolute with a leading "/".
func resolveTarget(ownerPart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	dir := path.Dir(ownerPart)
	return path.Clean(path.Join(dir, target))
}
