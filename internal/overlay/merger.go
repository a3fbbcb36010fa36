package overlay

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/contrib/gofpdi"

	"github.com/inkform/pdffill/internal/pdfread"
	"github.com/inkform/pdffill/internal/placement"
)

// DefaultOutputSuffix is appended to the source name (before the extension)
// when no explicit destination is supplied: "form.pdf" -> "form_filled.pdf".
const DefaultOutputSuffix = "_filled"

// MergeResult reports what a merge produced.
type MergeResult struct {
	OutputPath string `json:"output_path"`
	Pages      int    `json:"pages"`
	Drawn      int    `json:"placements_drawn"`
	Skipped    int    `json:"placements_skipped"` // empty responses
}

// Merger composites text layers onto the pages of a source document and
// writes the assembled result.
type Merger struct {
	composer *Composer
	suffix   string
}

// NewMerger creates a merger drawing layers with the given composer. An
// empty suffix selects DefaultOutputSuffix.
func NewMerger(composer *Composer, suffix string) *Merger {
	if composer == nil {
		composer = NewComposer(RGB{}, -1)
	}
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return &Merger{composer: composer, suffix: suffix}
}

// DeriveOutputPath derives the default destination from the source name.
func (m *Merger) DeriveOutputPath(srcPath string) string {
	ext := filepath.Ext(srcPath)
	return strings.TrimSuffix(srcPath, ext) + m.suffix + ext
}

// Merge overlays the placements onto srcPath at the given text size and
// writes the result to outPath (derived from srcPath when empty).
//
// Placements are validated against the page count before anything is built;
// a reference past the last page aborts with *placement.PageRangeError and
// no output file. Pages pass through in source order, untouched unless they
// have placements. The destination is written once, after the whole
// document is assembled in memory.
func (m *Merger) Merge(srcPath, outPath string, placements []placement.Placement, size float64) (*MergeResult, error) {
	doc, err := pdfread.Open(srcPath)
	if err != nil {
		return nil, err
	}

	byPage, err := placement.GroupByPage(placements, doc.PageCount())
	if err != nil {
		return nil, err
	}

	dims, err := doc.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	if outPath == "" {
		outPath = m.DeriveOutputPath(srcPath)
	}

	out := gofpdf.New("P", "pt", "A4", "")
	out.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()

	result := &MergeResult{OutputPath: outPath, Pages: doc.PageCount()}

	for i := 0; i < doc.PageCount(); i++ {
		w, h := dims[i].Width, dims[i].Height

		// Original page content first.
		tplID := imp.ImportPage(out, srcPath, i+1, "/MediaBox")
		out.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(out, tplID, 0, 0, w, h)

		pls := byPage[i]
		if len(pls) == 0 {
			continue
		}

		layer, err := m.composer.Compose(w, h, pls, size)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		result.Drawn += layer.Drawn
		result.Skipped += len(pls) - layer.Drawn

		if layer.Drawn == 0 {
			// All responses empty; nothing to stamp.
			continue
		}

		// Overlay layer last, so it paints on top. The layer stream goes
		// through the same importer as the page imports: template names are
		// issued per importer, and a second importer would restart the
		// numbering and alias the layer onto an already imported page.
		rs := io.ReadSeeker(bytes.NewReader(layer.Bytes))
		layerTpl := imp.ImportPageFromStream(out, &rs, 1, "/MediaBox")
		imp.UseImportedTemplate(out, layerTpl, 0, 0, w, h)
	}

	if out.Err() {
		return nil, fmt.Errorf("failed to assemble output document: %w", out.Error())
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize output document: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return result, nil
}
