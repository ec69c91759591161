package pptfill

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound indicates the template file does not exist.
var ErrTemplateNotFound = errors.New("template file not found")

// ErrPayloadLoad indicates the payload file is missing, unreadable or malformed.
var ErrPayloadLoad = errors.New("cannot load payload")

// ErrSlideNotFound indicates a payload entry references a slide title that is
// not in the template's slide index.
var ErrSlideNotFound = errors.New("slide not found in template")

// ErrTableNotFound indicates a slide with a tables section has no table shapes.
var ErrTableNotFound = errors.New("no tables found in slide")

// ErrImageNotFound indicates a referenced image file is missing on disk.
var ErrImageNotFound = errors.New("image file not found")

// ErrReplacementFailed indicates an image swap could not be completed; the
// original shape is left on the slide.
var ErrReplacementFailed = errors.New("image replacement failed")

// ApplyError represents a recovered failure during payload application.
type ApplyError struct {
	Slide   string
	Section string // "text", "tables" or "images"; empty for slide-level failures
	Ref     string // table or image reference within the section, if any
	Err     error
}

func (e *ApplyError) Error() string {
	switch {
	case e.Section == "":
		return fmt.Sprintf("apply error in slide %q: %v", e.Slide, e.Err)
	case e.Ref == "":
		return fmt.Sprintf("apply error in slide %q (%s): %v", e.Slide, e.Section, e.Err)
	default:
		return fmt.Sprintf("apply error in slide %q (%s %q): %v", e.Slide, e.Section, e.Ref, e.Err)
	}
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// NewApplyError creates a new ApplyError.
func NewApplyError(slide, section, ref string, err error) *ApplyError {
	return &ApplyError{
		Slide:   slide,
		Section: section,
		Ref:     ref,
		Err:     err,
	}
}
