package pdfread

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// TextRun is one laid-out text fragment with its rendered position and size.
type TextRun struct {
	Page     int // 1-based
	Text     string
	Font     string
	FontSize float64
	X        float64
	Y        float64
}

// ExtractTextRuns extracts positioned text runs from every page. Pages that
// fail to parse are skipped; their absence degrades downstream heuristics
// rather than aborting the run.
func ExtractTextRuns(path string) ([]TextRun, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for text extraction: %w", err)
	}
	defer f.Close()

	var runs []TextRun

	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}

		content := extractPageContent(page)
		for _, t := range content {
			runs = append(runs, TextRun{
				Page:     pageNr,
				Text:     t.S,
				Font:     t.Font,
				FontSize: t.FontSize,
				X:        t.X,
				Y:        t.Y,
			})
		}
	}

	return runs, nil
}

// extractPageContent isolates the panic-prone content parse of a single
// page; a page that blows up simply contributes no runs.
func extractPageContent(page pdf.Page) (texts []pdf.Text) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
		}
	}()
	return page.Content().Text
}
