// Package placement defines the placement record schema exchanged with the
// picking and editing tools, and the loading, validation and page-grouping
// logic the overlay pipeline runs before touching a document.
package placement

import (
	"encoding/json"
	"fmt"
	"os"
)

// Position locates a placement on a document page. Page is 1-based in the
// external representation; X and Y are document points with a bottom-left
// origin.
type Position struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Placement is a single request to draw text on a document. Question is a
// display label only; Response is the text to draw and may be empty, in
// which case the placement is skipped at render time.
type Placement struct {
	Question string   `json:"question"`
	Response string   `json:"response"`
	Position Position `json:"position"`
}

// Load reads an ordered placement list from a JSON file.
func Load(path string) ([]Placement, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("placement file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read placement file: %w", err)
	}

	var placements []Placement
	if err := json.Unmarshal(data, &placements); err != nil {
		return nil, fmt.Errorf("malformed placement file %s: %w", path, err)
	}

	if err := Validate(placements); err != nil {
		return nil, err
	}

	return placements, nil
}

// Save writes a placement list to a JSON file, matching the layout the
// picking tools produce.
func Save(path string, placements []Placement) error {
	data, err := json.MarshalIndent(placements, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode placements: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write placement file %s: %w", path, err)
	}
	return nil
}

// Validate checks structural invariants: every placement needs a non-empty
// question label and a page index of at least 1. Empty responses are valid.
func Validate(placements []Placement) error {
	for i, p := range placements {
		if p.Question == "" {
			return fmt.Errorf("placement %d has an empty question label", i)
		}
		if p.Position.Page < 1 {
			return fmt.Errorf("placement %q has invalid page %d (pages are 1-based)",
				p.Question, p.Position.Page)
		}
	}
	return nil
}

// PageRangeError reports a placement that references a page beyond the
// document's page count. The merge aborts on it rather than silently
// dropping the placement.
type PageRangeError struct {
	Question  string
	Page      int
	PageCount int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("placement %q references page %d but the document has only %d page(s)",
		e.Question, e.Page, e.PageCount)
}

// GroupByPage buckets placements by 0-based page index against a document of
// pageCount pages. Any placement referencing a missing page returns a
// *PageRangeError; nothing is dropped silently.
func GroupByPage(placements []Placement, pageCount int) (map[int][]Placement, error) {
	byPage := make(map[int][]Placement)

	for _, p := range placements {
		if p.Position.Page > pageCount {
			return nil, &PageRangeError{
				Question:  p.Question,
				Page:      p.Position.Page,
				PageCount: pageCount,
			}
		}
		idx := p.Position.Page - 1
		byPage[idx] = append(byPage[idx], p)
	}

	return byPage, nil
}
