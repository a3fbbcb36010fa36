// Package pdfread provides read-only access to the parts of a PDF document
// the overlay pipeline needs: page count and dimensions, font resource
// dictionaries, decoded content streams, and positioned text runs.
//
// It wraps pdfcpu for structural access and ledongthuc/pdf for text layout;
// callers never see either library's types.
package pdfread

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Dim is a page bounding box size in points.
type Dim struct {
	Width  float64
	Height float64
}

// Document is an open PDF, read-only for the lifetime of a pipeline run.
type Document struct {
	path  string
	ctx   *model.Context
	pages []pageNode
}

// pageNode is one leaf of the page tree with inherited attributes resolved.
type pageNode struct {
	dict      types.Dict
	resources types.Dict
}

// Open reads a PDF with relaxed validation and resolves its page tree.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	d := &Document{path: path, ctx: ctx}
	if err := d.resolvePageTree(); err != nil {
		return nil, fmt.Errorf("failed to walk page tree: %w", err)
	}

	return d, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// PageDims returns the bounding box dimensions of every page in order.
func (d *Document) PageDims() ([]Dim, error) {
	dims := make([]Dim, 0, len(d.pages))
	for i := range d.pages {
		w, h, err := d.pageSize(i)
		if err != nil {
			return nil, err
		}
		dims = append(dims, Dim{Width: w, Height: h})
	}
	return dims, nil
}

// pageSize reads a page's MediaBox, inherited boxes included.
func (d *Document) pageSize(pageIdx int) (w, h float64, err error) {
	page := d.pages[pageIdx]

	obj, found := page.dict.Find("MediaBox")
	if !found {
		return 0, 0, fmt.Errorf("page %d has no MediaBox", pageIdx+1)
	}

	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil || len(arr) < 4 {
		return 0, 0, fmt.Errorf("page %d has an invalid MediaBox", pageIdx+1)
	}

	llx, ok1 := d.number(arr[0])
	lly, ok2 := d.number(arr[1])
	urx, ok3 := d.number(arr[2])
	ury, ok4 := d.number(arr[3])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, 0, fmt.Errorf("page %d has a non-numeric MediaBox", pageIdx+1)
	}

	return urx - llx, ury - lly, nil
}

// resolvePageTree walks the catalog's page tree in order, carrying the
// inheritable attributes (Resources, MediaBox) down to each leaf.
func (d *Document) resolvePageTree() error {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return fmt.Errorf("catalog has no Pages entry")
	}

	pagesDict, err := d.ctx.DereferenceDict(pagesObj)
	if err != nil || pagesDict == nil {
		return fmt.Errorf("failed to dereference page tree root: %w", err)
	}

	return d.walkPages(pagesDict, nil, nil)
}

func (d *Document) walkPages(node types.Dict, inhResources types.Dict, inhMediaBox types.Object) error {
	// Inheritable attributes: a node's own entry shadows the inherited one.
	if resObj, found := node.Find("Resources"); found {
		if res, err := d.ctx.DereferenceDict(resObj); err == nil && res != nil {
			inhResources = res
		}
	}
	if mbObj, found := node.Find("MediaBox"); found {
		inhMediaBox = mbObj
	}

	kidsObj, found := node.Find("Kids")
	if !found {
		// Leaf page. Materialize inherited entries so later lookups are flat.
		leaf := node.Clone().(types.Dict)
		if _, found := leaf.Find("Resources"); !found && inhResources != nil {
			leaf["Resources"] = inhResources
		}
		if _, found := leaf.Find("MediaBox"); !found && inhMediaBox != nil {
			leaf["MediaBox"] = inhMediaBox
		}
		d.pages = append(d.pages, pageNode{dict: leaf, resources: inhResources})
		return nil
	}

	kids, err := d.ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference Kids: %w", err)
	}

	for _, kid := range kids {
		kidDict, err := d.ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		if err := d.walkPages(kidDict, inhResources, inhMediaBox); err != nil {
			return err
		}
	}

	return nil
}

// number dereferences an object and returns its numeric value.
func (d *Document) number(o types.Object) (float64, bool) {
	v, err := d.ctx.Dereference(o)
	if err != nil || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case types.Integer:
		return float64(n), true
	case types.Float:
		return float64(n), true
	}
	return 0, false
}
