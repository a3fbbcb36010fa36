package fontsize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkform/pdffill/internal/pdfread"
)

// tfOperator matches text-sizing operators like "/F1 12 Tf" in a raw
// content stream and captures the size operand.
var tfOperator = regexp.MustCompile(`/[A-Za-z0-9+]+\s+(\d+\.?\d*)\s+Tf`)

// DescriptorCandidates derives one size guess per font resource from its
// declared metrics. For each font the first present signal wins, in order:
// descriptor metrics (cap height, x-height, ascent, font height), the
// descriptor bounding box, a trailing numeric suffix on the base font name,
// and finally the font matrix vertical scale.
func DescriptorCandidates(fonts []pdfread.FontInfo) []float64 {
	var pool []float64

	for _, f := range fonts {
		if size, ok := descriptorCandidate(f); ok {
			pool = append(pool, size)
		}
	}

	return pool
}

func descriptorCandidate(f pdfread.FontInfo) (float64, bool) {
	for _, key := range []string{
		pdfread.MetricCapHeight,
		pdfread.MetricXHeight,
		pdfread.MetricAscent,
		pdfread.MetricFontHeight,
	} {
		if v, ok := f.Metrics[key]; ok {
			return v, true
		}
	}

	if f.HasBBox {
		// Glyph-space box scaled to a nominal 12pt rendering.
		return (f.BBoxTop - f.BBoxBottom) / 1000.0 * 12.0, true
	}

	if size, ok := baseFontSuffix(f.BaseFont); ok {
		return size, true
	}

	if f.HasMatrix {
		v := f.MatrixVScale
		if v < 0 {
			v = -v
		}
		return v * 1000.0, true
	}

	return 0, false
}

// baseFontSuffix parses a trailing numeric segment out of a base font name,
// e.g. "ABCDEF+Courier-12" yields 12.
func baseFontSuffix(baseFont string) (float64, bool) {
	idx := strings.LastIndex(baseFont, "-")
	if idx < 0 || idx == len(baseFont)-1 {
		return 0, false
	}
	size, err := strconv.ParseFloat(baseFont[idx+1:], 64)
	if err != nil {
		return 0, false
	}
	return size, true
}

// ContentStreamCandidates collects every size operand of a Tf operator in a
// decoded content stream.
func ContentStreamCandidates(content []byte) []float64 {
	var pool []float64

	for _, m := range tfOperator.FindAllSubmatch(content, -1) {
		size, err := strconv.ParseFloat(string(m[1]), 64)
		if err != nil {
			continue
		}
		pool = append(pool, size)
	}

	return pool
}

// TextRunCandidates collects the rendered size of every extracted text run.
func TextRunCandidates(runs []pdfread.TextRun) []float64 {
	var pool []float64
	for _, r := range runs {
		if r.FontSize > 0 {
			pool = append(pool, r.FontSize)
		}
	}
	return pool
}
