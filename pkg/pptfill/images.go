package pptfill

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for dimension probing
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp" // and the less common raster formats
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Dragosjosan/powerpoint-automation/pkg/slidedoc"
)

// applyImages swaps the slide's pictures and placeholders named in imagesData
// for the image files they map to. Entries run in reference order, positions
// first; a missing file, unmatched reference or failed swap is warned and
// skips only its own entry.
func (t *Template) applyImages(report *Report, title string, slide slidedoc.Slide, imagesData map[string]string) error {
	keys := make([]string, 0, len(imagesData))
	for k := range imagesData {
		keys = append(keys, k)
	}
	sortRefs(keys)

	for _, key := range keys {
		imgPath := imagesData[key]
		if _, err := os.Stat(imgPath); err != nil {
			t.warn(report, NewApplyError(title, "images", key, fmt.Errorf("%w: %s", ErrImageNotFound, imgPath)))
			continue
		}
		target := findImageTarget(slide, key)
		if target == nil {
			t.warn(report, NewApplyError(title, "images", key, errors.New("no matching picture or placeholder")))
			continue
		}
		if err := t.replaceImage(slide, title, target, imgPath); err != nil {
			t.warn(report, NewApplyError(title, "images", key, fmt.Errorf("%w: %v", ErrReplacementFailed, err)))
		}
	}
	return nil
}

// findImageTarget resolves an image reference to a shape. A position indexes
// the slide's pictures first, falling back to its placeholders; a name
// matches shape name or alt text over both kinds in shape order, first match
// wins.
func findImageTarget(slide slidedoc.Slide, rawRef string) slidedoc.Shape {
	shapes := slide.Shapes()
	if r := parseRef(rawRef); r.kind == refIndex {
		if sh := shapeAt(shapes, slidedoc.KindPicture, r.index); sh != nil {
			return sh
		}
		return shapeAt(shapes, slidedoc.KindPlaceholder, r.index)
	}
	for _, sh := range shapes {
		if sh.Kind() != slidedoc.KindPicture && sh.Kind() != slidedoc.KindPlaceholder {
			continue
		}
		if sh.Name() == rawRef || sh.AltText() == rawRef {
			return sh
		}
	}
	return nil
}

// shapeAt returns the idx-th shape of the given kind, or nil when idx is out
// of range.
func shapeAt(shapes []slidedoc.Shape, kind slidedoc.ShapeKind, idx int) slidedoc.Shape {
	n := 0
	for _, sh := range shapes {
		if sh.Kind() != kind {
			continue
		}
		if n == idx {
			return sh
		}
		n++
	}
	return nil
}

// replaceImage swaps the target shape for the image at imgPath. The shape's
// bounding box is the placement contract: the image is scaled uniformly to
// the largest size that fits the box without distortion and centered inside
// it, so the image may not fill the box on one axis. The new picture is
// inserted before the old shape is removed; a probe or insert failure leaves
// the slide unchanged.
func (t *Template) replaceImage(slide slidedoc.Slide, title string, target slidedoc.Shape, imgPath string) error {
	box, err := target.Box()
	if err != nil {
		return err
	}
	imgW, imgH, err := t.probeImage(imgPath)
	if err != nil {
		return err
	}

	scale := math.Min(float64(box.Width)/float64(imgW), float64(box.Height)/float64(imgH))
	newW := int64(float64(imgW) * scale)
	newH := int64(float64(imgH) * scale)
	newBox := slidedoc.Box{
		Left:   box.Left + (box.Width-newW)/2,
		Top:    box.Top + (box.Height-newH)/2,
		Width:  newW,
		Height: newH,
	}

	t.log.Debug("replacing image",
		"slide", title, "shape", target.Name(), "image", imgPath,
		"width", newW, "height", newH)
	if err := slide.AddPicture(imgPath, newBox); err != nil {
		return err
	}
	return slide.RemoveShape(target)
}

type imageDims struct {
	width  int
	height int
}

// probeImage returns the native pixel dimensions of the image file at path.
// Results are cached per path, so decks reusing one logo or plot across many
// slides probe it once. The file handle is released as soon as the header is
// read, before any document mutation happens.
func (t *Template) probeImage(path string) (int, int, error) {
	if v, ok := t.probes.Get(path); ok {
		dims := v.(imageDims)
		return dims.width, dims.height, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("image %s has no pixels", path)
	}
	t.probes.Set(path, imageDims{width: cfg.Width, height: cfg.Height}, cache.DefaultExpiration)
	return cfg.Width, cfg.Height, nil
}
