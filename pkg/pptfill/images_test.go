package pptfill

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

func pictureShape(name string, box slidedoc.Box) *fakeShape {
	return &fakeShape{kind: slidedoc.KindPicture, name: name, box: box}
}

func placeholderShape(name string, box slidedoc.Box) *fakeShape {
	return &fakeShape{kind: slidedoc.KindPlaceholder, name: name, box: box}
}

func TestReplaceImagePreservesAspectRatio(t *testing.T) {
	// A 4:1 image in a 2:1 box scales to the box width and centers
	// vertically: 400x100 into 200x100 gives 200x50 with 25-unit margins.
	imgPath := writePNG(t, t.TempDir(), "wide.png", 400, 100)
	pic := pictureShape("Picture 1", slidedoc.Box{Left: 100, Top: 50, Width: 200, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}

	if len(slide.added) != 1 {
		t.Fatalf("got %d added pictures, expected 1", len(slide.added))
	}
	got := slide.added[0]
	want := slidedoc.Box{Left: 100, Top: 75, Width: 200, Height: 50}
	if got.box != want {
		t.Errorf("picture box = %+v, expected %+v", got.box, want)
	}
	if got.path != imgPath {
		t.Errorf("picture path = %q, expected %q", got.path, imgPath)
	}
	if slide.has(pic) {
		t.Errorf("original shape still on slide")
	}
}

func TestReplaceImageTallImage(t *testing.T) {
	// A tall image centers horizontally: 100x400 into a 200x100 box gives
	// 25x100 at left offset 100 + (200-25)/2 = 187 (truncated).
	imgPath := writePNG(t, t.TempDir(), "tall.png", 100, 400)
	pic := pictureShape("Picture 1", slidedoc.Box{Left: 100, Top: 0, Width: 200, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})

	if err := tmpl.applyImages(&Report{}, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(slide.added) != 1 {
		t.Fatalf("got %d added pictures, expected 1", len(slide.added))
	}
	want := slidedoc.Box{Left: 187, Top: 0, Width: 25, Height: 100}
	if slide.added[0].box != want {
		t.Errorf("picture box = %+v, expected %+v", slide.added[0].box, want)
	}
}

func TestApplyImagesMissingFileSkipsEntry(t *testing.T) {
	pic := pictureShape("Picture 1", slidedoc.Box{Width: 100, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	missing := filepath.Join(t.TempDir(), "missing.png")
	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"0": missing}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("got %d warnings, expected 1", len(report.Warnings))
	}
	if !errors.Is(report.Warnings[0], ErrImageNotFound) {
		t.Errorf("warning = %v, expected ErrImageNotFound", report.Warnings[0])
	}
	if !slide.has(pic) || len(slide.added) != 0 {
		t.Errorf("slide modified for a missing image file")
	}
}

func TestApplyImagesIndexTriesPicturesThenPlaceholders(t *testing.T) {
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "square.png", 100, 100)

	pic0 := pictureShape("Picture 1", slidedoc.Box{Width: 100, Height: 100})
	pic1 := pictureShape("Picture 2", slidedoc.Box{Width: 100, Height: 100})
	ph0 := placeholderShape("Content Placeholder 1", slidedoc.Box{Width: 100, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{ph0, pic0, textShape("Body", "x"), pic1}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	// Index 1 targets the second picture, not the placeholder or body.
	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"1": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}
	if slide.has(pic1) {
		t.Errorf("second picture still on slide")
	}
	if !slide.has(pic0) || !slide.has(ph0) {
		t.Errorf("wrong shape removed")
	}

	// Index 2 is past the pictures (one left) and past the placeholders, so
	// the entry is skipped.
	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"2": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("got %d warnings, expected 1", len(report.Warnings))
	}

	// Index 0 consumes the remaining picture first.
	if err := tmpl.applyImages(&Report{}, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}
	if slide.has(pic0) {
		t.Errorf("first picture still on slide")
	}

	// With no pictures left, index 0 falls back to the placeholder.
	if err := tmpl.applyImages(&Report{}, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}
	if slide.has(ph0) {
		t.Errorf("placeholder still on slide after fallback")
	}
}

func TestApplyImagesNameMatchesNameOrAltText(t *testing.T) {
	imgPath := writePNG(t, t.TempDir(), "square.png", 100, 100)

	decoy := textShape("Logo", "not a picture")
	byAlt := pictureShape("Picture 7", slidedoc.Box{Width: 100, Height: 100})
	byAlt.alt = "Logo"
	slide := &fakeSlide{shapes: []*fakeShape{decoy, byAlt}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"Logo": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}
	if slide.has(byAlt) {
		t.Errorf("alt-text match not replaced")
	}
	if !slide.has(decoy) {
		t.Errorf("non-picture shape with matching name was removed")
	}
}

func TestApplyImagesNoMatchWarns(t *testing.T) {
	imgPath := writePNG(t, t.TempDir(), "square.png", 100, 100)
	slide := &fakeSlide{shapes: []*fakeShape{textShape("Body", "x")}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"Missing Shape": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("got %d warnings, expected 1", len(report.Warnings))
	}
	if report.Warnings[0].Ref != "Missing Shape" {
		t.Errorf("warning ref = %q", report.Warnings[0].Ref)
	}
}

func TestApplyImagesUndecodableImageKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(badPath, []byte("not an image at all"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	pic := pictureShape("Picture 1", slidedoc.Box{Width: 100, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"0": badPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 1 || !errors.Is(report.Warnings[0], ErrReplacementFailed) {
		t.Fatalf("warnings = %v, expected one ErrReplacementFailed", report.Warnings)
	}
	if !slide.has(pic) {
		t.Errorf("original shape removed after probe failure")
	}
	if len(slide.added) != 0 {
		t.Errorf("picture added after probe failure")
	}
}

func TestApplyImagesInsertFailureKeepsOriginal(t *testing.T) {
	imgPath := writePNG(t, t.TempDir(), "square.png", 100, 100)
	pic := pictureShape("Picture 1", slidedoc.Box{Width: 100, Height: 100})
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	slide.addErr = errors.New("no shape tree")
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 1 || !errors.Is(report.Warnings[0], ErrReplacementFailed) {
		t.Fatalf("warnings = %v, expected one ErrReplacementFailed", report.Warnings)
	}
	if !slide.has(pic) {
		t.Errorf("original shape removed after insert failure")
	}
}

func TestApplyImagesBoxFailureKeepsOriginal(t *testing.T) {
	imgPath := writePNG(t, t.TempDir(), "square.png", 100, 100)
	pic := pictureShape("Picture 1", slidedoc.Box{})
	pic.boxErr = errors.New("no geometry")
	slide := &fakeSlide{shapes: []*fakeShape{pic}}
	tmpl := newTestTemplate(&fakeDoc{slides: []*fakeSlide{slide}})
	report := &Report{}

	if err := tmpl.applyImages(report, "Intro", slide, map[string]string{"0": imgPath}); err != nil {
		t.Fatalf("applyImages failed: %v", err)
	}

	if len(report.Warnings) != 1 || !errors.Is(report.Warnings[0], ErrReplacementFailed) {
		t.Fatalf("warnings = %v, expected one ErrReplacementFailed", report.Warnings)
	}
	if !slide.has(pic) || len(slide.added) != 0 {
		t.Errorf("slide modified after geometry failure")
	}
}

func TestProbeImageCachesDimensions(t *testing.T) {
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "logo.png", 300, 150)
	tmpl := newTestTemplate(&fakeDoc{})

	w, h, err := tmpl.probeImage(imgPath)
	if err != nil {
		t.Fatalf("probeImage failed: %v", err)
	}
	if w != 300 || h != 150 {
		t.Fatalf("probe = %dx%d, expected 300x150", w, h)
	}

	// Overwrite the file; the cached dimensions must still be served.
	writePNG(t, dir, "logo.png", 10, 10)
	w, h, err = tmpl.probeImage(imgPath)
	if err != nil {
		t.Fatalf("probeImage failed: %v", err)
	}
	if w != 300 || h != 150 {
		t.Errorf("probe = %dx%d, expected cached 300x150", w, h)
	}
}
