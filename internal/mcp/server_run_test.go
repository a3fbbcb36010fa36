package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkform/pdffill/internal/fill"
)

func TestServer_Run_StdioMode(t *testing.T) {
	cfg := testConfig(t.TempDir())
	server, err := NewServer(cfg, fill.NewService(cfg))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	// Under 'go test' stdin is closed, so stdio mode returns on EOF.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !strings.Contains(err.Error(), "context") {
			t.Logf("Run() stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Run() did not return")
	}
}

func TestServer_Run_ServerMode(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Mode = "server"
	server, err := NewServer(cfg, fill.NewService(cfg))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	// Server mode currently falls back to stdio, which returns on EOF.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !strings.Contains(err.Error(), "context") {
			t.Logf("Run() stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Run() did not return")
	}
}

func TestServer_Run_MultipleShutdowns(t *testing.T) {
	cfg := testConfig(t.TempDir())
	server, err := NewServer(cfg, fill.NewService(cfg))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	// Test multiple rapid shutdowns
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		done := make(chan error, 1)
		go func() {
			done <- server.Run(ctx)
		}()

		select {
		case err := <-done:
			if err != nil && strings.Contains(err.Error(), "panic") {
				t.Errorf("Run() iteration %d should not panic, got error: %v", i, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Run() iteration %d did not return", i)
		}
	}
}
