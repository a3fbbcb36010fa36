// Package geometry provides the coordinate transforms shared by the overlay
// pipeline and the external picking tools: mapping clicks on a raster preview
// into document point space, and aspect-preserving downscaling of previews.
//
// Document point space has its origin at the bottom-left corner of the page
// with y increasing upward (units of 1/72 inch). Raster previews use the
// usual image convention: origin top-left, y increasing downward.
package geometry

// MapClick maps a click position on a displayed raster preview to document
// point space. clickX and clickY are pixel coordinates on the preview
// (top-left origin), displayW and displayH are the preview's displayed pixel
// dimensions, and targetW and targetH are the document-point dimensions the
// preview represents.
//
// The transform is pure and applies no rounding. The caller is responsible
// for only passing clicks that lie inside the display bounds.
func MapClick(clickX, clickY, displayW, displayH, targetW, targetH float64) (docX, docY float64) {
	propX := clickX / displayW
	propY := clickY / displayH

	docX = propX * targetW

	// Scale y in top-left orientation first, then invert to the page's
	// bottom-left origin.
	yTopLeft := propY * targetH
	docY = targetH - yTopLeft

	return docX, docY
}

// FitScale returns the uniform scale factor that fits a source image of
// srcW x srcH inside maxW x maxH while preserving aspect ratio. The factor
// is the minimum of the per-axis ratios and is clamped to 1.0 so previews
// are never upscaled.
func FitScale(srcW, srcH, maxW, maxH float64) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 1.0
	}

	scale := maxW / srcW
	if s := maxH / srcH; s < scale {
		scale = s
	}
	if scale > 1.0 {
		scale = 1.0
	}
	return scale
}

// FitDims applies FitScale to the source dimensions and returns the resulting
// display dimensions in whole pixels.
func FitDims(srcW, srcH, maxW, maxH float64) (w, h int) {
	scale := FitScale(srcW, srcH, maxW, maxH)
	return int(srcW * scale), int(srcH * scale)
}
