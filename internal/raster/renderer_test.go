package raster

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/stretchr/testify/require"
)

func writeTestPDF(t *testing.T, path string, pages int, w, h float64) {
	t.Helper()

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	for i := 0; i < pages; i++ {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		doc.SetFont("Helvetica", "", 12)
		doc.Text(72, 72, "preview fixture")
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, doc.Output(f))
}

func TestRenderPages(t *testing.T) {
	tempDir := t.TempDir()
	srcPath := filepath.Join(tempDir, "doc.pdf")
	writeTestPDF(t, srcPath, 2, 612, 792)

	r := NewRenderer(96, true, 50)
	prefix := filepath.Join(tempDir, "doc_preview")

	paths, err := r.RenderPages(srcPath, prefix)
	require.NoError(t, err)
	require.Equal(t, []string{prefix + "1.png", prefix + "2.png"}, paths)

	for _, p := range paths {
		f, err := os.Open(p)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)

		// 612x792pt at 96 DPI is 816x1056px.
		require.Equal(t, 816, img.Bounds().Dx())
		require.Equal(t, 1056, img.Bounds().Dy())
	}
}

func TestRenderPagesMissingSource(t *testing.T) {
	r := NewRenderer(0, false, 0)
	_, err := r.RenderPages(filepath.Join(t.TempDir(), "nope.pdf"), "out")
	require.Error(t, err)
}
