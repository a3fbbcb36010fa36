package overlay

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/contrib/gofpdi"

	"github.com/inkform/pdffill/internal/pdfread"
)

// DefaultGridSpacing is the calibration grid interval in points.
const DefaultGridSpacing = 50.0

// Grid line and label styling, fixed.
var (
	gridLineColor  = RGB{R: 211, G: 211, B: 211} // light gray
	gridLabelColor = RGB{R: 169, G: 169, B: 169} // dark gray
)

const (
	gridLineWidth     = 0.5
	gridLabelFontSize = 6.0
)

// AnnotateGrid draws a coordinate ruler over every page of srcPath and
// writes the result to outPath: vertical and horizontal lines at every
// spacing-point interval, labeled with their document-point coordinate.
// Labels sit at the foot of each non-origin vertical line and at the left
// edge of every horizontal line, matching the bottom-left point origin the
// placement pipeline uses.
func AnnotateGrid(srcPath, outPath string, spacing float64) error {
	if spacing <= 0 {
		spacing = DefaultGridSpacing
	}

	doc, err := pdfread.Open(srcPath)
	if err != nil {
		return err
	}

	dims, err := doc.PageDims()
	if err != nil {
		return fmt.Errorf("failed to read page dimensions: %w", err)
	}

	out := gofpdf.New("P", "pt", "A4", "")
	out.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()

	for i := 0; i < doc.PageCount(); i++ {
		w, h := dims[i].Width, dims[i].Height

		tplID := imp.ImportPage(out, srcPath, i+1, "/MediaBox")
		out.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(out, tplID, 0, 0, w, h)

		drawGrid(out, w, h, spacing)
	}

	if out.Err() {
		return fmt.Errorf("failed to assemble gridded document: %w", out.Error())
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return fmt.Errorf("failed to serialize gridded document: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return nil
}

// drawGrid rules the current page. Coordinates below are document points
// with a bottom-left origin; gofpdf draws top-down, so y flips as h-y.
func drawGrid(out *gofpdf.Fpdf, w, h, spacing float64) {
	out.SetDrawColor(gridLineColor.R, gridLineColor.G, gridLineColor.B)
	out.SetLineWidth(gridLineWidth)
	out.SetTextColor(gridLabelColor.R, gridLabelColor.G, gridLabelColor.B)
	out.SetFont("Helvetica", "", gridLabelFontSize)

	for x := 0.0; x <= w; x += spacing {
		out.Line(x, 0, x, h)
		if x > 0 { // the origin is labeled once, by the horizontal pass
			out.Text(x+2, h-3, strconv.Itoa(int(x)))
		}
	}

	for y := 0.0; y <= h; y += spacing {
		out.Line(0, h-y, w, h-y)
		out.Text(3, h-(y+2), strconv.Itoa(int(y)))
	}
}
