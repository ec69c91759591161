// Package pptx implements the slidedoc contract over PowerPoint 2007+ (.pptx)
// files. A presentation is an OPC zip of XML parts; this package reads every
// part into memory, parses the slide parts into a namespace-preserving node
// tree, edits that tree in place, and writes back only the parts that changed.
package pptx

// EMUPerInch is the number of EMUs (English Metric Units) in one inch.
const EMUPerInch = 914400

// EMUPerPixel is the number of EMUs per pixel at 96 DPI: 914400 / 96 = 9525.
const EMUPerPixel = EMUPerInch / 96

// EMUToPixels converts EMU to pixels at 96 DPI. PowerPoint uses EMU for all
// shape coordinates; pixels are only for human-readable logging.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// PixelsToEMU converts pixels at 96 DPI to EMU.
func PixelsToEMU(px int) int64 {
	return int64(px) * EMUPerPixel
}
