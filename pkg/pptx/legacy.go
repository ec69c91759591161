package pptx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// oleMagic is the signature of an OLE compound file, the container used by
// binary .ppt presentations.
var oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

func isLegacyFile(ra io.ReaderAt) bool {
	var head [8]byte
	if _, err := ra.ReadAt(head[:], 0); err != nil {
		return false
	}
	return bytes.Equal(head[:], oleMagic)
}

// describeLegacy builds the ErrLegacyFormat error for a binary .ppt file,
// including the document title from the OLE summary stream when one can be
// read. Failures while digging for the title are ignored.
func describeLegacy(ra io.ReaderAt) error {
	if title := legacyTitle(ra); title != "" {
		return fmt.Errorf("%w (title %q)", ErrLegacyFormat, title)
	}
	return ErrLegacyFormat
}

func legacyTitle(ra io.ReaderAt) string {
	doc, err := mscfb.New(ra)
	if err != nil {
		return ""
	}
	props := msoleps.New()
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !msoleps.IsMSOLEPS(entry.Initial) {
			continue
		}
		if err := props.Reset(doc); err != nil {
			continue
		}
		for _, prop := range props.Property {
			if prop.Name == "Title" {
				return prop.String()
			}
		}
	}
	return ""
}
