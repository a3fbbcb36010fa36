// Package fill orchestrates the overlay pipeline: placement loading, text
// size inference, layer composition, and the final merge. It is the single
// entry point the CLI and the MCP server share.
package fill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkform/pdffill/internal/config"
	"github.com/inkform/pdffill/internal/fontsize"
	"github.com/inkform/pdffill/internal/geometry"
	"github.com/inkform/pdffill/internal/overlay"
	"github.com/inkform/pdffill/internal/pdfread"
	"github.com/inkform/pdffill/internal/placement"
	"github.com/inkform/pdffill/internal/raster"
)

// Service handles overlay operations by orchestrating the pipeline components
type Service struct {
	cfg        *config.Config
	inferencer *fontsize.Inferencer
	merger     *overlay.Merger
}

// NewService creates a service wired from the configuration
func NewService(cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	composer := overlay.NewComposer(overlay.MarineBlue, cfg.BaselineOffset)

	return &Service{
		cfg:        cfg,
		inferencer: fontsize.NewInferencer(cfg.FallbackFontSize, cfg.MinFontSize, cfg.MaxFontSize),
		merger:     overlay.NewMerger(composer, cfg.OutputSuffix),
	}
}

// FillFile overlays responses onto a document and writes the result.
//
// Placements come from the request body or from PlacementsPath. The text
// size is inferred from the document unless the request pins one. A
// placement referencing a page past the end aborts the whole operation
// before any output is written.
func (s *Service) FillFile(req FillFileRequest) (*FillFileResult, error) {
	if err := s.validateSourceFile(req.Path); err != nil {
		return nil, err
	}

	placements := req.Placements
	if len(placements) == 0 {
		if req.PlacementsPath == "" {
			return nil, fmt.Errorf("no placements provided: set placements or placements_path")
		}
		loaded, err := placement.Load(req.PlacementsPath)
		if err != nil {
			return nil, err
		}
		placements = loaded
	}

	if err := placement.Validate(placements); err != nil {
		return nil, err
	}

	size := req.FontSize
	var estimate *fontsize.Estimate
	if size <= 0 {
		est, err := s.inferencer.Infer(req.Path)
		if err != nil {
			return nil, fmt.Errorf("font size inference failed: %w", err)
		}
		estimate = est
		size = est.Size
	}

	result, err := s.merger.Merge(req.Path, req.OutputPath, placements, size)
	if err != nil {
		return nil, err
	}

	return &FillFileResult{
		SourcePath: req.Path,
		OutputPath: result.OutputPath,
		Pages:      result.Pages,
		Drawn:      result.Drawn,
		Skipped:    result.Skipped,
		FontSize:   size,
		Estimate:   estimate,
	}, nil
}

// GridFile writes a copy of the document with a coordinate grid on every page
func (s *Service) GridFile(req GridFileRequest) (*GridFileResult, error) {
	if err := s.validateSourceFile(req.Path); err != nil {
		return nil, err
	}

	spacing := req.Spacing
	if spacing <= 0 {
		spacing = s.cfg.GridSpacing
	}

	outPath := req.OutputPath
	if outPath == "" {
		ext := filepath.Ext(req.Path)
		outPath = strings.TrimSuffix(req.Path, ext) + "_grid" + ext
	}

	if err := overlay.AnnotateGrid(req.Path, outPath, spacing); err != nil {
		return nil, err
	}

	doc, err := pdfread.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen grid output: %w", err)
	}

	return &GridFileResult{
		SourcePath: req.Path,
		OutputPath: outPath,
		Pages:      doc.PageCount(),
		Spacing:    spacing,
	}, nil
}

// PreviewFile writes per-page preview images for the coordinate picker
func (s *Service) PreviewFile(req PreviewFileRequest) (*PreviewFileResult, error) {
	if err := s.validateSourceFile(req.Path); err != nil {
		return nil, err
	}

	prefix := req.Prefix
	if prefix == "" {
		prefix = strings.TrimSuffix(req.Path, filepath.Ext(req.Path)) + "_page"
	}

	r := raster.NewRenderer(s.cfg.PreviewDPI, req.WithGrid, s.cfg.GridSpacing)
	paths, err := r.RenderPages(req.Path, prefix)
	if err != nil {
		return nil, err
	}

	return &PreviewFileResult{
		SourcePath: req.Path,
		Paths:      paths,
		Pages:      len(paths),
	}, nil
}

// FontSizeFile estimates the dominant text size of a document
func (s *Service) FontSizeFile(req FontSizeFileRequest) (*FontSizeFileResult, error) {
	if err := s.validateSourceFile(req.Path); err != nil {
		return nil, err
	}

	est, err := s.inferencer.Infer(req.Path)
	if err != nil {
		return nil, fmt.Errorf("font size inference failed: %w", err)
	}

	return &FontSizeFileResult{
		SourcePath: req.Path,
		Estimate:   est,
	}, nil
}

// MapClick converts a click on a displayed page image to document points
func (s *Service) MapClick(req MapClickRequest) (*MapClickResult, error) {
	targetW, targetH := s.cfg.TargetWidth, s.cfg.TargetHeight
	page := req.Page

	if req.Path != "" && req.Page >= 1 {
		if err := s.validateSourceFile(req.Path); err != nil {
			return nil, err
		}
		doc, err := pdfread.Open(req.Path)
		if err != nil {
			return nil, err
		}
		if req.Page > doc.PageCount() {
			return nil, &placement.PageRangeError{Question: "click", Page: req.Page, PageCount: doc.PageCount()}
		}
		dims, err := doc.PageDims()
		if err != nil {
			return nil, fmt.Errorf("failed to read page dimensions: %w", err)
		}
		targetW, targetH = dims[req.Page-1].Width, dims[req.Page-1].Height
	} else {
		page = 1
	}

	displayW, displayH := req.DisplayWidth, req.DisplayHeight
	if displayW <= 0 || displayH <= 0 {
		w, h := geometry.FitDims(targetW, targetH, s.cfg.MaxDisplayWidth, s.cfg.MaxDisplayHeight)
		displayW, displayH = float64(w), float64(h)
	}
	if displayW <= 0 || displayH <= 0 {
		return nil, fmt.Errorf("display dimensions must be positive")
	}

	x, y := geometry.MapClick(req.ClickX, req.ClickY, displayW, displayH, targetW, targetH)

	return &MapClickResult{
		Page:          page,
		X:             x,
		Y:             y,
		TargetWidth:   targetW,
		TargetHeight:  targetH,
		DisplayWidth:  displayW,
		DisplayHeight: displayH,
	}, nil
}

// GetMaxFileSize returns the maximum source document size
func (s *Service) GetMaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// ServerInfo returns server information and usage guidance
func (s *Service) ServerInfo(_ ServerInfoRequest) (*ServerInfoResult, error) {
	availableTools := []ToolInfo{
		{
			Name:        "pdf_fill_file",
			Description: "Overlay typed responses onto a PDF at fixed page coordinates",
			Usage: "Use this tool to place response text onto a form-style PDF that has no " +
				"interactive form fields. Positions come from a placements JSON file or inline placements.",
			Parameters: "path (required): source PDF, placements_path or placements (required), " +
				"output_path (optional), font_size (optional, inferred when omitted)",
		},
		{
			Name:        "pdf_grid_file",
			Description: "Write a copy of a PDF with a labeled coordinate grid on every page",
			Usage:       "Use this tool to read off document-point coordinates when authoring placements.",
			Parameters:  "path (required): source PDF, output_path (optional), spacing (optional, points)",
		},
		{
			Name:        "pdf_preview_file",
			Description: "Render approximate per-page preview images of a PDF",
			Usage:       "Use this tool to produce PNG previews for the click-to-place picking workflow.",
			Parameters:  "path (required): source PDF, prefix (optional), with_grid (optional)",
		},
		{
			Name:        "pdf_fontsize_file",
			Description: "Estimate the dominant text size of a PDF",
			Usage:       "Use this tool to see what size overlaid text will be drawn at, with the evidence behind it.",
			Parameters:  "path (required): source PDF",
		},
		{
			Name:        "pdf_map_click",
			Description: "Convert a click on a displayed page image to document point coordinates",
			Usage:       "Use this tool to turn preview-image pixel positions into placement x/y values.",
			Parameters: "click_x, click_y (required): pixel position, path and page (optional): use the " +
				"true page size, display_width/display_height (optional): displayed image size",
		},
		{
			Name:        "pdf_server_info",
			Description: "Get server capabilities and usage guidance",
			Usage:       "Use this tool to discover the available tools and the pipeline defaults.",
			Parameters:  "No parameters required",
		},
	}

	usageGuidance := fmt.Sprintf(`PDF Fill Server Usage Guide:

1. FIND YOUR COORDINATES:
   - Use 'pdf_grid_file' to get a gridded copy and read positions off the ruler
   - Or use 'pdf_preview_file' and pick positions on the preview images

2. AUTHOR PLACEMENTS:
   - A placements file is a JSON array of objects:
     {"question": "...", "response": "...", "position": {"page": 1, "x": 100, "y": 700}}
   - Pages are 1-based; x/y are document points with a bottom-left origin

3. FILL:
   - Use 'pdf_fill_file' to overlay the responses
   - Text size is inferred from the document's own fonts unless you pin one
   - Empty responses are skipped; a page reference past the end fails the whole run

4. CHECK THE SIZE:
   - Use 'pdf_fontsize_file' to inspect the inferred size and its evidence first

IMPORTANT NOTES:
- Always use absolute file paths
- The server can handle files up to %dMB
- Output defaults to the source name with a '%s' suffix
- Source documents are never modified`,
		s.cfg.MaxFileSize/(1024*1024), s.cfg.OutputSuffix)

	return &ServerInfoResult{
		ServerName:       s.cfg.ServerName,
		Version:          s.cfg.Version,
		DefaultDirectory: s.cfg.PDFDirectory,
		MaxFileSize:      s.cfg.MaxFileSize,
		AvailableTools:   availableTools,
		UsageGuidance:    usageGuidance,
	}, nil
}

// validateSourceFile checks that the path names a readable document within
// the configured size limit.
func (s *Service) validateSourceFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("failed to access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", info.Size(), s.cfg.MaxFileSize)
	}

	return nil
}
