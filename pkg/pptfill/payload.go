package pptfill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Payload is a parsed data payload: one directive per slide title, kept in
// payload document order. Entries are never reordered or deduplicated, so a
// title listed twice is applied twice.
type Payload struct {
	Entries []PayloadEntry
}

// PayloadEntry pairs a slide title with the directive to apply to it.
type PayloadEntry struct {
	SlideTitle string
	Directive  SlideDirective
}

// SlideDirective holds the optional data sections for one slide. A nil
// section is skipped.
type SlideDirective struct {
	// Text maps placeholder keys to substitution values. The key "name"
	// rewrites every occurrence of the literal token {{name}}.
	Text map[string]any `json:"text,omitempty" yaml:"text,omitempty"`
	// Tables maps a table reference (decimal position or name) to the data
	// to fill it with.
	Tables map[string]TableDirective `json:"tables,omitempty" yaml:"tables,omitempty"`
	// Images maps an image reference (decimal position or name/alt text) to
	// the path of the replacement image file.
	Images map[string]string `json:"images,omitempty" yaml:"images,omitempty"`
}

// TableDirective describes the content for one table.
type TableDirective struct {
	// Identifier is matched against the text of table shapes when the
	// reference does not resolve positionally or by shape name.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	// Data is the cell matrix, rows of columns. It wins over DataFile when
	// both are present.
	Data [][]any `json:"data,omitempty" yaml:"data,omitempty"`
	// DataFile names an xlsx workbook to load the matrix from instead.
	DataFile string `json:"data_file,omitempty" yaml:"data_file,omitempty"`
	// Sheet selects the worksheet within DataFile; empty means the first.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	// Range restricts DataFile to a cell range such as "A1:D5".
	Range string `json:"range,omitempty" yaml:"range,omitempty"`
}

// LoadPayload reads and parses a payload file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON. All failures are reported as
// ErrPayloadLoad; a payload that fails to load aborts the run.
func LoadPayload(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadLoad, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLPayload(data)
	default:
		return parseJSONPayload(data)
	}
}

// parseJSONPayload decodes the top-level object with a token walk so entry
// order follows the document, which encoding/json maps would not preserve.
// Numbers decode as json.Number and keep their source form. Content after
// the closing brace is rejected.
func parseJSONPayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadLoad, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrPayloadLoad)
	}

	payload := &Payload{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayloadLoad, err)
		}
		title, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key token %v", ErrPayloadLoad, keyTok)
		}
		var directive SlideDirective
		if err := dec.Decode(&directive); err != nil {
			return nil, fmt.Errorf("%w: slide %q: %v", ErrPayloadLoad, title, err)
		}
		payload.Entries = append(payload.Entries, PayloadEntry{SlideTitle: title, Directive: directive})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadLoad, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level object", ErrPayloadLoad)
	}
	return payload, nil
}

// parseYAMLPayload decodes through yaml.Node, whose mapping content keeps
// document order. The payload must be a single document; a stream with a
// second document is rejected rather than silently truncated.
func parseYAMLPayload(data []byte) (*Payload, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return &Payload{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPayloadLoad, err)
	}
	if err := dec.Decode(new(yaml.Node)); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected content after the first document", ErrPayloadLoad)
	}
	payload := &Payload{}
	if len(root.Content) == 0 {
		return payload, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrPayloadLoad)
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valNode := doc.Content[i], doc.Content[i+1]
		var directive SlideDirective
		if err := valNode.Decode(&directive); err != nil {
			return nil, fmt.Errorf("%w: slide %q: %v", ErrPayloadLoad, keyNode.Value, err)
		}
		payload.Entries = append(payload.Entries, PayloadEntry{SlideTitle: keyNode.Value, Directive: directive})
	}
	return payload, nil
}

// coerceString renders a payload value as the text written into the document.
// Strings pass through, numbers keep their source form where possible and
// nil becomes the empty string.
func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
