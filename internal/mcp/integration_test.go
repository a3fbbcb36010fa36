package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkform/pdffill/internal/fill"
	"github.com/inkform/pdffill/internal/placement"
)

func TestServerIntegration(t *testing.T) {
	tempDir := t.TempDir()

	cfg := testConfig(tempDir)
	cfg.ServerName = "integration-test-server"

	fillService := fill.NewService(cfg)
	server, err := NewServer(cfg, fillService)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	// Verify server properties
	if server.config != cfg {
		t.Error("server config not set correctly")
	}
	if server.fillService != fillService {
		t.Error("server fillService not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

// TestServerFillWorkflow walks the whole picking workflow through the tool
// handlers: grid the document, author placements against the grid, fill.
func TestServerFillWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	srcPath := filepath.Join(tempDir, "application.pdf")
	writeTestPDF(t, srcPath, true)

	server := newTestServer(t, tempDir)
	ctx := context.Background()

	// Step 1: gridded copy for coordinate lookup.
	gridResult, err := server.handleGridFile(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{"path": srcPath},
		},
	})
	if err != nil {
		t.Fatalf("grid handler failed: %v", err)
	}
	if !strings.Contains(extractTextFromResult(gridResult), "application_grid.pdf") {
		t.Fatalf("grid output missing from response: %s", extractTextFromResult(gridResult))
	}

	// Step 2: placements file, as the picking tools would write it.
	placementsPath := filepath.Join(tempDir, "placements.json")
	if err := placement.Save(placementsPath, []placement.Placement{
		{Question: "Full name", Response: "Jane Doe", Position: placement.Position{Page: 1, X: 150, Y: 700}},
		{Question: "Signature", Response: "", Position: placement.Position{Page: 1, X: 150, Y: 120}},
	}); err != nil {
		t.Fatalf("failed to write placements: %v", err)
	}

	// Step 3: fill.
	fillResult, err := server.handleFillFile(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path":            srcPath,
				"placements_path": placementsPath,
			},
		},
	})
	if err != nil {
		t.Fatalf("fill handler failed: %v", err)
	}

	resultText := extractTextFromResult(fillResult)
	if !strings.Contains(resultText, "Placements drawn: 1") {
		t.Errorf("expected one drawn placement, got: %s", resultText)
	}
	if !strings.Contains(resultText, "Placements skipped (empty responses): 1") {
		t.Errorf("expected one skipped placement, got: %s", resultText)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "application_filled.pdf")); err != nil {
		t.Errorf("expected filled output to exist: %v", err)
	}

	// Source must be untouched.
	if _, err := os.Stat(srcPath); err != nil {
		t.Errorf("source document missing after fill: %v", err)
	}
}

func TestServerToolsRegistration(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	// Test that tools are properly registered by checking the MCP server
	if server.mcpServer == nil {
		t.Fatal("MCP server should be initialized")
	}

	// The mark3labs library doesn't expose registered tools directly,
	// but we can verify the server was created successfully
	// which means tools were registered without errors
}

func TestServerErrorHandling(t *testing.T) {
	cfg := testConfig(t.TempDir())

	// Test with nil fill service (should not panic)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Server creation with nil service caused panic: %v", r)
		}
	}()

	_, err := NewServer(cfg, nil)
	if err == nil {
		t.Error("expected error with nil fill service")
	}
}
