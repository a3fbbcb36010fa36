package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/inkform/pdffill/internal/config"
	"github.com/inkform/pdffill/internal/fill"
)

var (
	outputPath   = flag.String("output", "", "Destination path (defaults to the source name with a suffix)")
	outputFormat = flag.String("format", "text", "Output format: text, json")
	fontSize     = flag.Float64("size", 0, "Text size in points (inferred from the document when 0)")
	spacing      = flag.Float64("spacing", 0, "Grid spacing in points (defaults to 50)")
	withGrid     = flag.Bool("grid", false, "Draw a coordinate grid on preview images")
	prefix       = flag.String("prefix", "", "Preview file prefix (defaults to the source name plus _page)")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: command and PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	pdfPath := flag.Arg(1)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	svc := fill.NewService(config.DefaultConfig())

	var result interface{}
	var err error

	switch command {
	case "fill":
		if flag.NArg() < 3 {
			fmt.Fprintf(os.Stderr, "Error: fill requires a placements JSON file\n\n")
			printUsage()
			os.Exit(1)
		}
		result, err = runFill(svc, pdfPath, flag.Arg(2))
	case "grid":
		result, err = runGrid(svc, pdfPath)
	case "preview":
		result, err = runPreview(svc, pdfPath)
	case "fontsize":
		result, err = runFontSize(svc, pdfPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResult(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func runFill(svc *fill.Service, pdfPath, placementsPath string) (*fill.FillFileResult, error) {
	return svc.FillFile(fill.FillFileRequest{
		Path:           pdfPath,
		PlacementsPath: placementsPath,
		OutputPath:     *outputPath,
		FontSize:       *fontSize,
	})
}

func runGrid(svc *fill.Service, pdfPath string) (*fill.GridFileResult, error) {
	return svc.GridFile(fill.GridFileRequest{
		Path:       pdfPath,
		OutputPath: *outputPath,
		Spacing:    *spacing,
	})
}

func runPreview(svc *fill.Service, pdfPath string) (*fill.PreviewFileResult, error) {
	return svc.PreviewFile(fill.PreviewFileRequest{
		Path:     pdfPath,
		Prefix:   *prefix,
		WithGrid: *withGrid,
	})
}

func runFontSize(svc *fill.Service, pdfPath string) (*fill.FontSizeFileResult, error) {
	return svc.FontSizeFile(fill.FontSizeFileRequest{Path: pdfPath})
}

func outputResult(result interface{}) error {
	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch r := result.(type) {
	case *fill.FillFileResult:
		fmt.Printf("Filled %s\n", r.SourcePath)
		fmt.Printf("Output: %s\n", r.OutputPath)
		fmt.Printf("Pages: %d\n", r.Pages)
		fmt.Printf("Placements drawn: %d, skipped: %d\n", r.Drawn, r.Skipped)
		fmt.Printf("Text size: %.1fpt", r.FontSize)
		if r.Estimate != nil && r.Estimate.UsedFallback {
			fmt.Printf(" (fallback)")
		}
		fmt.Println()
	case *fill.GridFileResult:
		fmt.Printf("Wrote gridded copy: %s\n", r.OutputPath)
		fmt.Printf("Pages: %d, spacing: %.0fpt\n", r.Pages, r.Spacing)
	case *fill.PreviewFileResult:
		fmt.Printf("Rendered %d preview image(s):\n", r.Pages)
		for _, p := range r.Paths {
			fmt.Printf("  %s\n", p)
		}
	case *fill.FontSizeFileResult:
		est := r.Estimate
		fmt.Printf("Estimated text size for %s: %.2fpt\n", r.SourcePath, est.Size)
		if est.UsedFallback {
			fmt.Println("No usable size signal found; this is the fallback size.")
		} else {
			fmt.Printf("Based on %d candidate(s): %d from font metrics, %d from content streams, %d from text layout\n",
				est.Candidates, est.Descriptor, est.ContentScan, est.TextLayout)
		}
	default:
		return fmt.Errorf("unknown result type %T", result)
	}

	return nil
}

func printHelp() {
	fmt.Println("pdffill - overlay typed responses onto PDF forms without form fields")
	fmt.Println()
	fmt.Println("Positions responses at fixed page coordinates on top of the original")
	fmt.Println("pages, for scanned or flattened forms that have no interactive fields.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("COMMANDS:")
	fmt.Println("  fill <pdf> <placements.json>   Overlay responses and write the filled copy")
	fmt.Println("  grid <pdf>                     Write a copy with a labeled coordinate grid")
	fmt.Println("  preview <pdf>                  Render per-page preview images (PNG)")
	fmt.Println("  fontsize <pdf>                 Estimate the document's dominant text size")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -output        Destination path (defaults to the source name with a suffix)")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -size          Text size in points (inferred from the document when 0)")
	fmt.Println("  -spacing       Grid spacing in points (defaults to 50)")
	fmt.Println("  -grid          Draw a coordinate grid on preview images")
	fmt.Println("  -prefix        Preview file prefix (defaults to the source name plus _page)")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("PLACEMENTS FILE:")
	fmt.Println("  A JSON array of placements. Pages are 1-based; x/y are document points")
	fmt.Println("  with a bottom-left origin (use the grid command to read them off):")
	fmt.Println()
	fmt.Println(`  [{"question": "Full name", "response": "Jane Doe",`)
	fmt.Println(`    "position": {"page": 1, "x": 150, "y": 700}}]`)
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  pdffill grid application.pdf")
	fmt.Println("  pdffill fill application.pdf placements.json")
	fmt.Println("  pdffill -size 10 fill application.pdf placements.json")
	fmt.Println("  pdffill -format json fontsize application.pdf")
	fmt.Println()
	fmt.Println("BEHAVIOR NOTES:")
	fmt.Println("  • The source document is never modified")
	fmt.Println("  • Placements with empty responses are skipped")
	fmt.Println("  • A placement referencing a page past the end fails the whole run")
	fmt.Println("  • Overlay text is drawn in italic Helvetica, dark blue, slightly below")
	fmt.Println("    the given y so the baseline sits on the form's answer line")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdffill [OPTIONS] <command> <pdf_file> [placements.json]")
}
