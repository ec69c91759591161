package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XML namespaces used in PresentationML and DrawingML.
const (
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// wellKnownPrefixes maps namespace URIs to their conventional prefixes, used
// when a serialized element's namespace was never declared in the source part.
var wellKnownPrefixes = map[string]string{
	nsP: "p",
	nsA: "a",
	nsR: "r",
	// the reserved xml prefix is never declared but the decoder still
	// resolves it to its canonical URI
	"http://www.w3.org/XML/1998/namespace":                             "xml",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":     "mc",
	"http://schemas.microsoft.com/office/drawing/2014/main":           "a16",
	"http://schemas.microsoft.com/office/powerpoint/2010/main":        "p14",
	"http://schemas.microsoft.com/office/powerpoint/2012/main":        "p15",
	"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes": "vt",
}

// xmlNode is one node of a parsed XML part. Element nodes carry Space/Local
// and children; text nodes have Local == "" and carry Text. Fields are
// exported so the node tree can be deep-copied by reflection.
type xmlNode struct {
	Space    string
	Local    string
	Attrs    []xml.Attr
	Children []*xmlNode
	Text     string
}

// nsTable maps namespace URI to the prefix declared for it in a part.
// The empty prefix marks the default namespace.
type nsTable map[string]string

// parseXMLTree parses a full XML part into a node tree, collecting every
// namespace declaration it sees. Character data is kept verbatim, including
// whitespace, so untouched regions re-serialize faithfully.
func parseXMLTree(data []byte) (*xmlNode, nsTable, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	ns := make(nsTable)
	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Space: t.Name.Space, Local: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = append(n.Attrs, t.Attr...)
				for _, a := range t.Attr {
					if a.Name.Space == "xmlns" {
						ns[a.Value] = a.Name.Local
					} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
						ns[a.Value] = ""
					}
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, nil, fmt.Errorf("parse xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("parse xml: unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, &xmlNode{Text: string(t)})
			}
		}
	}

	if root == nil {
		return nil, nil, fmt.Errorf("parse xml: no root element")
	}
	if len(stack) != 0 {
		return nil, nil, fmt.Errorf("parse xml: unclosed elements")
	}
	return root, ns, nil
}

// serializeXMLTree writes a node tree back to bytes with the standard OOXML
// header. Namespace prefixes come from the part's own declarations, falling
// back to the conventional OOXML prefixes for namespaces the part never
// declared (only synthesized nodes can hit that path).
func serializeXMLTree(root *xmlNode, ns nsTable) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	writeNode(&buf, root, ns)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *xmlNode, ns nsTable) {
	if n.Local == "" {
		escapeTo(buf, n.Text)
		return
	}

	tag := qualify(n.Space, n.Local, ns)
	buf.WriteByte('<')
	buf.WriteString(tag)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attrName(a.Name, ns))
		buf.WriteString(`="`)
		escapeTo(buf, a.Value)
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		writeNode(buf, c, ns)
	}
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func qualify(space, local string, ns nsTable) string {
	if space == "" {
		return local
	}
	if prefix, ok := ns[space]; ok {
		if prefix == "" {
			return local
		}
		return prefix + ":" + local
	}
	if prefix, ok := wellKnownPrefixes[space]; ok {
		return prefix + ":" + local
	}
	return local
}

func attrName(name xml.Name, ns nsTable) string {
	switch {
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Space == "":
		return name.Local
	default:
		return qualify(name.Space, name.Local, ns)
	}
}

func escapeTo(buf *bytes.Buffer, s string) {
	// bytes.Buffer writes cannot fail, so neither can EscapeText here.
	_ = xml.EscapeText(buf, []byte(s))
}

// child returns the first child element matching space and local, or nil.
func (n *xmlNode) child(space, local string) *xmlNode {
	for _, c := range n.Children {
		if c.Local == local && c.Space == space {
			return c
		}
	}
	return nil
}

// childAll returns every child element matching space and local, in order.
func (n *xmlNode) childAll(space, local string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.Children {
		if c.Local == local && c.Space == space {
			out = append(out, c)
		}
	}
	return out
}

// attr returns the value of the named attribute, or "" when absent. Plain
// (unprefixed) attributes have an empty space.
func (n *xmlNode) attr(space, local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

// setAttr overwrites the named attribute, appending it when absent.
func (n *xmlNode) setAttr(space, local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// removeChild detaches the given child node. It reports whether the node was
// actually a child of n.
func (n *xmlNode) removeChild(target *xmlNode) bool {
	for i, c := range n.Children {
		if c == target {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// elements returns only the element children of n, skipping text nodes.
func (n *xmlNode) elements() []*xmlNode {
	var out []*xmlNode
	for _, c := range n.Children {
		if c.Local != "" {
			out = append(out, c)
		}
	}
	return out
}

// textContent concatenates the text of n and all its descendants.
func (n *xmlNode) textContent() string {
	if n.Local == "" {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.textContent())
	}
	return b.String()
}
