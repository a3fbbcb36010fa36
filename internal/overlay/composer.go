// Package overlay builds transient text layers and composites them onto the
// pages of an existing PDF. The original page content always paints first;
// overlay content paints on top of it.
package overlay

import (
	"bytes"
	"fmt"

	gofpdf "github.com/lvillar/gofpdf"

	"github.com/inkform/pdffill/internal/placement"
)

// RGB is an overlay fill color.
type RGB struct {
	R, G, B int
}

// MarineBlue is the default overlay text color, RGB (0, 51, 102).
var MarineBlue = RGB{R: 0, G: 51, B: 102}

// DefaultBaselineOffset compensates for baseline vs. click-point alignment:
// text draws this many points below the requested y.
const DefaultBaselineOffset = 5.0

// Layer is a standalone single-page rendering artifact containing only the
// newly drawn text. It has no awareness of the destination page's content.
type Layer struct {
	Bytes []byte // a complete single-page PDF sized to the target page
	Drawn int    // placements actually rendered (empty responses skipped)
}

// Composer renders placements into page-sized layers. The rendering policy
// is fixed: built-in Helvetica italic, left-aligned single runs.
type Composer struct {
	color          RGB
	baselineOffset float64
}

// NewComposer creates a composer. A zero color selects MarineBlue; a
// negative offset selects DefaultBaselineOffset.
func NewComposer(color RGB, baselineOffset float64) *Composer {
	if color == (RGB{}) {
		color = MarineBlue
	}
	if baselineOffset < 0 {
		baselineOffset = DefaultBaselineOffset
	}
	return &Composer{color: color, baselineOffset: baselineOffset}
}

// Compose builds a single-page layer of pageW x pageH points containing the
// given placements at the given text size. Placements with empty responses
// are skipped without any layout side effect.
//
// Placement coordinates are document points (bottom-left origin); gofpdf
// draws from the top-left, so y is flipped here.
func (c *Composer) Compose(pageW, pageH float64, placements []placement.Placement, size float64) (*Layer, error) {
	if pageW <= 0 || pageH <= 0 {
		return nil, fmt.Errorf("invalid layer dimensions %.2f x %.2f", pageW, pageH)
	}

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPageFormat("P", gofpdf.SizeType{Wd: pageW, Ht: pageH})

	doc.SetFont("Helvetica", "I", size)
	doc.SetTextColor(c.color.R, c.color.G, c.color.B)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	drawn := 0
	for _, p := range placements {
		if p.Response == "" {
			continue
		}
		x := p.Position.X
		y := p.Position.Y - c.baselineOffset
		doc.Text(x, pageH-y, tr(p.Response))
		drawn++
	}

	if doc.Err() {
		return nil, fmt.Errorf("failed to compose layer: %w", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize layer: %w", err)
	}

	return &Layer{Bytes: buf.Bytes(), Drawn: drawn}, nil
}
