package pdfread

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ContentStream returns the decoded content stream of a page (1-based).
// Multi-part Contents arrays are concatenated in order. A page with no
// Contents entry yields nil without error; a stream that cannot be decoded
// is an error the caller is expected to absorb per page.
func (d *Document) ContentStream(pageNr int) ([]byte, error) {
	if pageNr < 1 || pageNr > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageNr, len(d.pages))
	}

	obj, found := d.pages[pageNr-1].dict.Find("Contents")
	if !found {
		return nil, nil
	}

	// Contents is either a single stream or an array of streams.
	if arr, err := d.ctx.DereferenceArray(obj); err == nil && arr != nil {
		var content []byte
		for _, part := range arr {
			b, err := d.streamBytes(part)
			if err != nil {
				return nil, fmt.Errorf("page %d content part: %w", pageNr, err)
			}
			content = append(content, b...)
			content = append(content, '\n')
		}
		return content, nil
	}

	b, err := d.streamBytes(obj)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", pageNr, err)
	}
	return b, nil
}

// XObjectStreams returns the decoded form XObject streams reachable from a
// page's resources (1-based), keyed by resource name. Image XObjects are
// skipped. Note that documents may share one resource dictionary across
// pages; pair the result with ContentStream to see which forms a page
// actually invokes.
func (d *Document) XObjectStreams(pageNr int) (map[string][]byte, error) {
	if pageNr < 1 || pageNr > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageNr, len(d.pages))
	}

	streams := make(map[string][]byte)

	res := d.pages[pageNr-1].resources
	if res == nil {
		return streams, nil
	}
	xObj, found := res.Find("XObject")
	if !found {
		return streams, nil
	}
	xDict, err := d.ctx.DereferenceDict(xObj)
	if err != nil || xDict == nil {
		return streams, nil
	}

	for name, obj := range xDict {
		sd, _, err := d.ctx.DereferenceStreamDict(obj)
		if err != nil || sd == nil {
			continue
		}
		if st, found := sd.Find("Subtype"); found {
			if nm, ok := st.(types.Name); ok && string(nm) != "Form" {
				continue
			}
		}
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("page %d XObject %s: %w", pageNr, name, err)
		}
		streams[name] = sd.Content
	}

	return streams, nil
}

// streamBytes dereferences a stream object and returns its decoded bytes.
func (d *Document) streamBytes(o types.Object) ([]byte, error) {
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference stream: %w", err)
	}
	if sd == nil {
		return nil, nil
	}
	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return sd.Content, nil
}
