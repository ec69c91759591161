package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const contentTypesPart = "[Content_Types].xml"

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

func parseContentTypes(data []byte) (*contentTypes, error) {
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("parse content types: %w", err)
	}
	return &ct, nil
}

func marshalContentTypes(ct *contentTypes) ([]byte, error) {
	body, err := xml.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("marshal content types: %w", err)
	}
	return append([]byte(xmlHeader), body...), nil
}

// ensureDefault registers a Default mapping for the extension unless one is
// already present. It reports whether the part changed.
func (ct *contentTypes) ensureDefault(ext, contentType string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return false
		}
	}
	ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: contentType})
	return true
}

// imageContentTypes maps the image extensions the package accepts to their
// MIME types.
var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
}
