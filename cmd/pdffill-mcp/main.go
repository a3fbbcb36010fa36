package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/inkform/pdffill/internal/config"
	"github.com/inkform/pdffill/internal/fill"
	"github.com/inkform/pdffill/internal/mcp"
)

// Populated via -ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// configureLogging routes log output so it never mixes with the MCP
// protocol stream. Stdio mode keeps stderr quiet unless debugging.
func configureLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
		return
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// runServerMode runs the server until it fails or a termination signal
// arrives, then waits for it to drain.
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("shutting down on %s", sig)
		cancel()
		if err := <-errCh; err != nil {
			log.Printf("shutdown finished with error: %v", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			log.Printf("server failed: %v", err)
			os.Exit(1)
		}
	}

	log.Println("server stopped")
}

// runStdioMode serves until the client closes stdin; the parent process
// owns the lifecycle.
func runStdioMode(ctx context.Context, server *mcp.Server, debug bool) {
	if err := server.Run(ctx); err != nil {
		if debug {
			log.Printf("server failed: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Version request short-circuits config loading entirely.
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	configureLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("starting with %s", cfg.String())
	}

	fillService := fill.NewService(cfg)
	server, err := mcp.NewServer(cfg, fillService)
	if err != nil {
		log.Fatalf("cannot create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, server, cfg.IsDebug())
	}
}

func printVersion() {
	fmt.Printf("pdffill-mcp %s\n", version)
	fmt.Printf("  commit:  %s\n", gitCommit)
	fmt.Printf("  built:   %s\n", buildTime)
	fmt.Printf("  runtime: %s\n", runtime.Version())
}
