package pdfread

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Descriptor metric keys, in the priority order size inference consumes them.
const (
	MetricCapHeight  = "CapHeight"
	MetricXHeight    = "XHeight"
	MetricAscent     = "Ascent"
	MetricFontHeight = "FontHeight"
)

// FontInfo is the declared-size surface of one font resource, flattened out
// of the font and descriptor dictionaries so callers need no pdfcpu types.
type FontInfo struct {
	Page     int    // 1-based page the resource appears on
	Resource string // resource name within the page's font dictionary
	BaseFont string

	// Descriptor metrics present on this font, keyed by Metric* constants.
	Metrics map[string]float64

	// Descriptor FontBBox, valid when HasBBox is set.
	BBoxBottom float64
	BBoxTop    float64
	HasBBox    bool

	// FontMatrix vertical scale component, valid when HasMatrix is set.
	MatrixVScale float64
	HasMatrix    bool
}

// FontInfos collects every font resource on every page. Pages whose
// resources cannot be resolved contribute nothing; that is not an error.
func (d *Document) FontInfos() []FontInfo {
	var infos []FontInfo

	for i, page := range d.pages {
		if page.resources == nil {
			continue
		}

		fontObj, found := page.resources.Find("Font")
		if !found {
			continue
		}

		fontsDict, err := d.ctx.DereferenceDict(fontObj)
		if err != nil || fontsDict == nil {
			continue
		}

		for name, obj := range fontsDict {
			fontDict, err := d.ctx.DereferenceDict(obj)
			if err != nil || fontDict == nil {
				continue
			}
			infos = append(infos, d.fontInfo(i+1, name, fontDict))
		}
	}

	return infos
}

func (d *Document) fontInfo(pageNr int, resource string, fontDict types.Dict) FontInfo {
	info := FontInfo{
		Page:     pageNr,
		Resource: resource,
		Metrics:  make(map[string]float64),
	}

	if bfObj, found := fontDict.Find("BaseFont"); found {
		if name, err := d.ctx.DereferenceName(bfObj, model.V10, nil); err == nil {
			info.BaseFont = string(name)
		}
	}

	if descObj, found := fontDict.Find("FontDescriptor"); found {
		if desc, err := d.ctx.DereferenceDict(descObj); err == nil && desc != nil {
			for _, key := range []string{MetricCapHeight, MetricXHeight, MetricAscent, MetricFontHeight} {
				if obj, found := desc.Find(key); found {
					if v, ok := d.number(obj); ok {
						info.Metrics[key] = v
					}
				}
			}

			if bboxObj, found := desc.Find("FontBBox"); found {
				if arr, err := d.ctx.DereferenceArray(bboxObj); err == nil && len(arr) >= 4 {
					bottom, ok1 := d.number(arr[1])
					top, ok2 := d.number(arr[3])
					if ok1 && ok2 {
						info.BBoxBottom = bottom
						info.BBoxTop = top
						info.HasBBox = true
					}
				}
			}
		}
	}

	if mtxObj, found := fontDict.Find("FontMatrix"); found {
		if arr, err := d.ctx.DereferenceArray(mtxObj); err == nil && len(arr) >= 4 {
			if v, ok := d.number(arr[3]); ok {
				info.MatrixVScale = v
				info.HasMatrix = true
			}
		}
	}

	return info
}
