// Package raster renders per-page preview images of a document for the
// coordinate-picking workflow. Previews are approximate by design: a white
// page at the true aspect ratio, an optional calibration grid, and text
// landmarks re-drawn from the extracted layout. Full-fidelity page
// rasterization would require a native PDF renderer; the picking tools only
// need the ruler and the text anchors to line clicks up against.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/inkform/pdffill/internal/pdfread"
)

// DefaultDPI is the preview resolution. Document points are 1/72 inch, so
// 96 DPI scales a page by 4/3.
const DefaultDPI = 96.0

var (
	pageColor  = color.RGBA{255, 255, 255, 255}
	gridColor  = color.RGBA{211, 211, 211, 255}
	labelColor = color.RGBA{128, 128, 128, 255}
	textColor  = color.RGBA{32, 32, 32, 255}
)

// Renderer produces preview PNGs.
type Renderer struct {
	dpi         float64
	withGrid    bool
	gridSpacing float64 // points
}

// NewRenderer creates a renderer. Zero dpi selects DefaultDPI; a grid is
// drawn at gridSpacing points when withGrid is set (zero spacing means 50).
func NewRenderer(dpi float64, withGrid bool, gridSpacing float64) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if gridSpacing <= 0 {
		gridSpacing = 50
	}
	return &Renderer{dpi: dpi, withGrid: withGrid, gridSpacing: gridSpacing}
}

// RenderPages writes one PNG per page of srcPath, named prefix + 1-based
// page number + ".png", and returns the written paths in page order.
func (r *Renderer) RenderPages(srcPath, prefix string) ([]string, error) {
	doc, err := pdfread.Open(srcPath)
	if err != nil {
		return nil, err
	}

	dims, err := doc.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	runsByPage := make(map[int][]pdfread.TextRun)
	runs, err := pdfread.ExtractTextRuns(srcPath)
	if err != nil {
		// Previews degrade to page-and-grid only.
		log.Printf("preview: text landmarks unavailable: %v", err)
	} else {
		for _, run := range runs {
			runsByPage[run.Page] = append(runsByPage[run.Page], run)
		}
	}

	paths := make([]string, 0, len(dims))
	for i, dim := range dims {
		img := r.renderPage(dim, runsByPage[i+1])

		path := fmt.Sprintf("%s%d.png", prefix, i+1)
		if err := writePNG(path, img); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// renderPage draws one page image. Document coordinates are bottom-left
// origin; image rows run top-down, so y maps as (pageH - y) * scale.
func (r *Renderer) renderPage(dim pdfread.Dim, runs []pdfread.TextRun) *image.RGBA {
	scale := r.dpi / 72.0
	w := int(dim.Width * scale)
	h := int(dim.Height * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pageColor), image.Point{}, draw.Src)

	if r.withGrid {
		r.drawGrid(img, dim, scale)
	}

	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		x := int(run.X * scale)
		y := int((dim.Height - run.Y) * scale)
		drawString(img, x, y, run.Text, textColor)
	}

	return img
}

func (r *Renderer) drawGrid(img *image.RGBA, dim pdfread.Dim, scale float64) {
	b := img.Bounds()

	for x := 0.0; x <= dim.Width; x += r.gridSpacing {
		px := int(x * scale)
		for py := b.Min.Y; py < b.Max.Y; py++ {
			img.Set(px, py, gridColor)
		}
		if x > 0 {
			drawString(img, px+2, b.Max.Y-3, strconv.Itoa(int(x)), labelColor)
		}
	}

	for y := 0.0; y <= dim.Height; y += r.gridSpacing {
		py := int((dim.Height - y) * scale)
		for px := b.Min.X; px < b.Max.X; px++ {
			img.Set(px, py, gridColor)
		}
		drawString(img, 3, py-2, strconv.Itoa(int(y)), labelColor)
	}
}

// drawString renders s with the fixed 7x13 face, baseline at (x, y).
func drawString(img *image.RGBA, x, y int, s string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
