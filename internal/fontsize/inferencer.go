// Package fontsize estimates a usable default text size for a document that
// may not declare one anywhere obvious.
//
// Three independent collectors contribute guesses to a single candidate
// pool: declared font metrics, Tf operators in raw content streams, and the
// rendered size of extracted text runs. The pool is clamped to a plausible
// range, trimmed of outliers and averaged. PDFs vary wildly in how (or
// whether) they declare sizes; pooling several weak signals beats trusting
// any single one, at the cost of being an approximation.
package fontsize

import (
	"fmt"
	"log"

	"github.com/inkform/pdffill/internal/pdfread"
)

// Default bounds for the estimate.
const (
	DefaultFallback = 9.0
	DefaultMin      = 4.0
	DefaultMax      = 72.0
)

// Estimate is the outcome of one inference pass over a document.
type Estimate struct {
	Size         float64 `json:"size"`
	Candidates   int     `json:"candidates"`
	Descriptor   int     `json:"descriptor_candidates"`
	ContentScan  int     `json:"content_scan_candidates"`
	TextLayout   int     `json:"text_layout_candidates"`
	UsedFallback bool    `json:"used_fallback"`
	PagesSkipped int     `json:"pages_skipped"`
}

// Inferencer computes font size estimates for whole documents.
type Inferencer struct {
	fallback float64
	min      float64
	max      float64
}

// NewInferencer creates an inferencer with the given fallback size and
// plausibility bounds. Zero values select the documented defaults.
func NewInferencer(fallback, min, max float64) *Inferencer {
	if fallback == 0 {
		fallback = DefaultFallback
	}
	if min == 0 {
		min = DefaultMin
	}
	if max == 0 {
		max = DefaultMax
	}
	return &Inferencer{fallback: fallback, min: min, max: max}
}

// Infer estimates the document's prevailing text size. Failures local to a
// single page degrade the estimate instead of aborting; only failure to
// open the document at all is an error.
func (inf *Inferencer) Infer(path string) (*Estimate, error) {
	doc, err := pdfread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("font size inference: %w", err)
	}
	return inf.inferFromDocument(doc)
}

// InferDocument runs inference against an already-open document.
func (inf *Inferencer) InferDocument(doc *pdfread.Document) (*Estimate, error) {
	return inf.inferFromDocument(doc)
}

func (inf *Inferencer) inferFromDocument(doc *pdfread.Document) (*Estimate, error) {
	est := &Estimate{}
	var pool []float64

	// Method 1: declared font metrics.
	descriptor := Plausible(DescriptorCandidates(doc.FontInfos()), inf.min, inf.max)
	est.Descriptor = len(descriptor)
	pool = append(pool, descriptor...)

	// Method 2: Tf operators in raw content streams. A page whose stream
	// cannot be decoded contributes nothing.
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		content, err := doc.ContentStream(pageNr)
		if err != nil {
			est.PagesSkipped++
			log.Printf("font size inference: skipping page %d content: %v", pageNr, err)
			continue
		}
		scanned := Plausible(ContentStreamCandidates(content), inf.min, inf.max)
		est.ContentScan += len(scanned)
		pool = append(pool, scanned...)
	}

	// Method 3: rendered sizes of laid-out text runs.
	runs, err := pdfread.ExtractTextRuns(doc.Path())
	if err != nil {
		log.Printf("font size inference: text layout pass failed: %v", err)
	} else {
		layout := Plausible(TextRunCandidates(runs), inf.min, inf.max)
		est.TextLayout = len(layout)
		pool = append(pool, layout...)
	}

	pool = RejectOutliers(pool)
	est.Candidates = len(pool)

	if len(pool) == 0 {
		est.Size = inf.fallback
		est.UsedFallback = true
		log.Printf("font size inference: no usable signal, falling back to %.1fpt", inf.fallback)
		return est, nil
	}

	est.Size = Mean(pool)
	return est, nil
}
