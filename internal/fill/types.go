package fill

import (
	"github.com/inkform/pdffill/internal/fontsize"
	"github.com/inkform/pdffill/internal/placement"
)

// FillFileRequest asks for responses to be overlaid onto a document.
// Placements may be given inline or loaded from PlacementsPath; inline
// placements win when both are set. FontSize overrides inference when
// positive.
type FillFileRequest struct {
	Path           string                `json:"path"`
	PlacementsPath string                `json:"placements_path,omitempty"`
	Placements     []placement.Placement `json:"placements,omitempty"`
	OutputPath     string                `json:"output_path,omitempty"`
	FontSize       float64               `json:"font_size,omitempty"`
}

// FillFileResult reports the outcome of a fill operation
type FillFileResult struct {
	SourcePath string             `json:"source_path"`
	OutputPath string             `json:"output_path"`
	Pages      int                `json:"pages"`
	Drawn      int                `json:"placements_drawn"`
	Skipped    int                `json:"placements_skipped"`
	FontSize   float64            `json:"font_size"`
	Estimate   *fontsize.Estimate `json:"font_size_estimate,omitempty"`
}

// GridFileRequest asks for a calibration grid copy of a document
type GridFileRequest struct {
	Path       string  `json:"path"`
	OutputPath string  `json:"output_path,omitempty"`
	Spacing    float64 `json:"spacing,omitempty"`
}

// GridFileResult reports the written grid document
type GridFileResult struct {
	SourcePath string  `json:"source_path"`
	OutputPath string  `json:"output_path"`
	Pages      int     `json:"pages"`
	Spacing    float64 `json:"spacing"`
}

// PreviewFileRequest asks for per-page preview images
type PreviewFileRequest struct {
	Path     string `json:"path"`
	Prefix   string `json:"prefix,omitempty"`
	WithGrid bool   `json:"with_grid,omitempty"`
}

// PreviewFileResult lists the written preview images in page order
type PreviewFileResult struct {
	SourcePath string   `json:"source_path"`
	Paths      []string `json:"paths"`
	Pages      int      `json:"pages"`
}

// FontSizeFileRequest asks for a text size estimate for a document
type FontSizeFileRequest struct {
	Path string `json:"path"`
}

// FontSizeFileResult carries the estimate and its evidence
type FontSizeFileResult struct {
	SourcePath string             `json:"source_path"`
	Estimate   *fontsize.Estimate `json:"estimate"`
}

// MapClickRequest converts a click on a displayed page image to document
// point coordinates. When Path and Page are set the true page size is the
// target space; otherwise the configured logical page size is assumed.
// Display dimensions default to the page scaled into the configured maximum
// display area.
type MapClickRequest struct {
	Path          string  `json:"path,omitempty"`
	Page          int     `json:"page,omitempty"`
	ClickX        float64 `json:"click_x"`
	ClickY        float64 `json:"click_y"`
	DisplayWidth  float64 `json:"display_width,omitempty"`
	DisplayHeight float64 `json:"display_height,omitempty"`
}

// MapClickResult carries the mapped document point position
type MapClickResult struct {
	Page          int     `json:"page"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	TargetWidth   float64 `json:"target_width"`
	TargetHeight  float64 `json:"target_height"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// ServerInfoRequest asks for server capabilities and usage guidance
type ServerInfoRequest struct{}

// ToolInfo describes one exposed tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult provides server information and usage guidance
type ServerInfoResult struct {
	ServerName       string     `json:"server_name"`
	Version          string     `json:"version"`
	DefaultDirectory string     `json:"default_directory"`
	MaxFileSize      int64      `json:"max_file_size"`
	AvailableTools   []ToolInfo `json:"available_tools"`
	UsageGuidance    string     `json:"usage_guidance"`
}
