package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/inkform/pdffill/internal/config"
	"github.com/inkform/pdffill/internal/fill"
	"github.com/inkform/pdffill/internal/placement"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server instance
type Server struct {
	config      *config.Config
	fillService *fill.Service
	mcpServer   *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, fillService *fill.Service) (*Server, error) {
	if fillService == nil {
		return nil, fmt.Errorf("fillService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:      cfg,
		fillService: fillService,
		mcpServer:   mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register fill tool
	fillFileTool := mcp.NewTool(
		"pdf_fill_file",
		mcp.WithDescription("Overlay typed responses onto a PDF at fixed page coordinates"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("placements_path",
			mcp.Description("Path to a placements JSON file"),
		),
		mcp.WithString("placements",
			mcp.Description("Inline placements as a JSON array (used instead of placements_path)"),
		),
		mcp.WithString("output_path",
			mcp.Description("Destination path (defaults to the source name with a suffix)"),
		),
		mcp.WithNumber("font_size",
			mcp.Description("Text size in points (inferred from the document when omitted)"),
		),
	)
	s.mcpServer.AddTool(fillFileTool, s.handleFillFile)

	// Register grid tool
	gridFileTool := mcp.NewTool(
		"pdf_grid_file",
		mcp.WithDescription("Write a copy of a PDF with a labeled coordinate grid on every page"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("output_path",
			mcp.Description("Destination path (defaults to the source name with a _grid suffix)"),
		),
		mcp.WithNumber("spacing",
			mcp.Description("Grid spacing in points (defaults to 50)"),
		),
	)
	s.mcpServer.AddTool(gridFileTool, s.handleGridFile)

	// Register preview tool
	previewFileTool := mcp.NewTool(
		"pdf_preview_file",
		mcp.WithDescription("Render approximate per-page preview images of a PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("prefix",
			mcp.Description("Output file prefix (defaults to the source name plus _page)"),
		),
		mcp.WithBoolean("with_grid",
			mcp.Description("Draw a coordinate grid on the previews"),
		),
	)
	s.mcpServer.AddTool(previewFileTool, s.handlePreviewFile)

	// Register font size tool
	fontSizeFileTool := mcp.NewTool(
		"pdf_fontsize_file",
		mcp.WithDescription("Estimate the dominant text size of a PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
	)
	s.mcpServer.AddTool(fontSizeFileTool, s.handleFontSizeFile)

	// Register click mapping tool
	mapClickTool := mcp.NewTool(
		"pdf_map_click",
		mcp.WithDescription("Convert a click on a displayed page image to document point coordinates"),
		mcp.WithNumber("click_x",
			mcp.Required(),
			mcp.Description("Click x position in display pixels (left edge origin)"),
		),
		mcp.WithNumber("click_y",
			mcp.Required(),
			mcp.Description("Click y position in display pixels (top edge origin)"),
		),
		mcp.WithString("path",
			mcp.Description("Source PDF (with page, maps against the true page size)"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based page number the click was made on"),
		),
		mcp.WithNumber("display_width",
			mcp.Description("Displayed image width in pixels"),
		),
		mcp.WithNumber("display_height",
			mcp.Description("Displayed image height in pixels"),
		),
	)
	s.mcpServer.AddTool(mapClickTool, s.handleMapClick)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription("Get server information, available tools, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleFillFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	req := fill.FillFileRequest{Path: path}
	if p, ok := args["placements_path"].(string); ok {
		req.PlacementsPath = p
	}
	if raw, ok := args["placements"].(string); ok && raw != "" {
		var placements []placement.Placement
		if err := json.Unmarshal([]byte(raw), &placements); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid placements JSON: %v", err)), nil
		}
		req.Placements = placements
	}
	if out, ok := args["output_path"].(string); ok {
		req.OutputPath = out
	}
	if size, ok := args["font_size"].(float64); ok {
		req.FontSize = size
	}

	result, err := s.fillService.FillFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Successfully filled PDF: %s\n", result.SourcePath)
	responseText += fmt.Sprintf("Output: %s\n", result.OutputPath)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Placements drawn: %d\n", result.Drawn)
	responseText += fmt.Sprintf("Placements skipped (empty responses): %d\n", result.Skipped)
	responseText += fmt.Sprintf("Text size: %.1fpt", result.FontSize)
	if result.Estimate != nil {
		if result.Estimate.UsedFallback {
			responseText += " (fallback: no usable size signal in the document)"
		} else {
			responseText += fmt.Sprintf(" (inferred from %d candidates)", result.Estimate.Candidates)
		}
	} else {
		responseText += " (pinned by request)"
	}
	responseText += "\n"

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleGridFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	req := fill.GridFileRequest{Path: path}
	if out, ok := args["output_path"].(string); ok {
		req.OutputPath = out
	}
	if spacing, ok := args["spacing"].(float64); ok {
		req.Spacing = spacing
	}

	result, err := s.fillService.GridFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Wrote gridded copy of %s\n", result.SourcePath)
	responseText += fmt.Sprintf("Output: %s\n", result.OutputPath)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Grid spacing: %.0fpt\n", result.Spacing)
	responseText += "Line labels are document-point coordinates with a bottom-left origin.\n"

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePreviewFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	req := fill.PreviewFileRequest{Path: path}
	if prefix, ok := args["prefix"].(string); ok {
		req.Prefix = prefix
	}
	if withGrid, ok := args["with_grid"].(bool); ok {
		req.WithGrid = withGrid
	}

	result, err := s.fillService.PreviewFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Rendered %d preview image(s) for %s\n", result.Pages, result.SourcePath)
	for i, p := range result.Paths {
		responseText += fmt.Sprintf("%d. %s\n", i+1, p)
	}
	responseText += "\nPreviews are approximate: page outline, grid, and text landmarks only.\n"

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFontSizeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.fillService.FontSizeFile(fill.FontSizeFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatFontSizeFileResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMapClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := fill.MapClickRequest{}
	clickX, ok := args["click_x"].(float64)
	if !ok {
		return mcp.NewToolResultError("click_x is required"), nil
	}
	clickY, ok := args["click_y"].(float64)
	if !ok {
		return mcp.NewToolResultError("click_y is required"), nil
	}
	req.ClickX, req.ClickY = clickX, clickY

	if path, ok := args["path"].(string); ok {
		req.Path = path
	}
	if page, ok := args["page"].(float64); ok {
		req.Page = int(page)
	}
	if w, ok := args["display_width"].(float64); ok {
		req.DisplayWidth = w
	}
	if h, ok := args["display_height"].(float64); ok {
		req.DisplayHeight = h
	}

	result, err := s.fillService.MapClick(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Click (%.0f, %.0f) on a %.0fx%.0f display maps to document point (%.1f, %.1f)\n",
		req.ClickX, req.ClickY, result.DisplayWidth, result.DisplayHeight, result.X, result.Y)
	responseText += fmt.Sprintf("Page %d, %.0fx%.0fpt, bottom-left origin\n", result.Page, result.TargetWidth, result.TargetHeight)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.fillService.ServerInfo(fill.ServerInfoRequest{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatServerInfoResult(result)
	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatFontSizeFileResult(result *fill.FontSizeFileResult) string {
	est := result.Estimate

	text := fmt.Sprintf("Font size estimate for: %s\n", result.SourcePath)
	text += fmt.Sprintf("Estimated size: %.2fpt\n", est.Size)
	if est.UsedFallback {
		text += "Source: fallback (no usable size signal found)\n"
	} else {
		text += fmt.Sprintf("Source: %d candidate(s) after outlier rejection\n", est.Candidates)
	}
	text += fmt.Sprintf("  Declared font metrics: %d\n", est.Descriptor)
	text += fmt.Sprintf("  Content stream scan:   %d\n", est.ContentScan)
	text += fmt.Sprintf("  Text layout pass:      %d\n", est.TextLayout)
	if est.PagesSkipped > 0 {
		text += fmt.Sprintf("Pages skipped (undecodable content): %d\n", est.PagesSkipped)
	}

	return text
}

func (s *Server) formatServerInfoResult(result *fill.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	// Usage guidance
	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF fill MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// For now, we'll just use stdio mode since the mark3labs library
	// handles the transport differently
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
