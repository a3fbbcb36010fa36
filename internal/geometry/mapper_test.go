package geometry

import (
	"math"
	"testing"
)

func TestMapClick(t *testing.T) {
	tests := []struct {
		name                 string
		clickX, clickY       float64
		displayW, displayH   float64
		targetW, targetH     float64
		wantX, wantY         float64
	}{
		{
			name:   "top-left corner maps to top of page",
			clickX: 0, clickY: 0,
			displayW: 1200, displayH: 800,
			targetW: 600, targetH: 850,
			wantX: 0, wantY: 850,
		},
		{
			name:   "center maps to center",
			clickX: 600, clickY: 400,
			displayW: 1200, displayH: 800,
			targetW: 600, targetH: 850,
			wantX: 300, wantY: 425,
		},
		{
			name:   "lower area maps near page bottom",
			clickX: 300, clickY: 780,
			displayW: 1200, displayH: 800,
			targetW: 600, targetH: 850,
			wantX: 150, wantY: 21.25,
		},
		{
			name:   "letter-size target",
			clickX: 100, clickY: 100,
			displayW: 612, displayH: 792,
			targetW: 612, targetH: 792,
			wantX: 100, wantY: 692,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := MapClick(tt.clickX, tt.clickY, tt.displayW, tt.displayH, tt.targetW, tt.targetH)
			if math.Abs(gotX-tt.wantX) > 1e-9 {
				t.Errorf("MapClick() docX = %v, want %v", gotX, tt.wantX)
			}
			if math.Abs(gotY-tt.wantY) > 1e-9 {
				t.Errorf("MapClick() docY = %v, want %v", gotY, tt.wantY)
			}
		})
	}
}

// Mapping a click to document space and back must reproduce the original
// proportional position for any click strictly inside the display bounds.
func TestMapClickInvertible(t *testing.T) {
	displayW, displayH := 1187.0, 793.0
	targetW, targetH := 600.0, 850.0

	clicks := [][2]float64{
		{1, 1},
		{593.5, 396.5},
		{1186, 792},
		{17.25, 700.125},
	}

	for _, c := range clicks {
		docX, docY := MapClick(c[0], c[1], displayW, displayH, targetW, targetH)

		// Invert by hand: recover proportions, then pixel positions.
		propX := docX / targetW
		propY := (targetH - docY) / targetH
		backX := propX * displayW
		backY := propY * displayH

		if math.Abs(backX-c[0]) > 1e-9 || math.Abs(backY-c[1]) > 1e-9 {
			t.Errorf("round trip of (%v, %v) = (%v, %v)", c[0], c[1], backX, backY)
		}
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name               string
		srcW, srcH         float64
		maxW, maxH         float64
		want               float64
	}{
		{"no scaling needed", 800, 600, 1200, 800, 1.0},
		{"width-bound", 2400, 800, 1200, 800, 0.5},
		{"height-bound", 1200, 1600, 1200, 800, 0.5},
		{"both exceed, min wins", 2400, 3200, 1200, 800, 0.25},
		{"exact fit", 1200, 800, 1200, 800, 1.0},
		{"degenerate source", 0, 0, 1200, 800, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitScale(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FitScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitScaleNeverUpscales(t *testing.T) {
	sizes := [][4]float64{
		{100, 100, 1200, 800},
		{1199, 799, 1200, 800},
		{3508, 2480, 1200, 800},
		{640, 1, 1200, 800},
	}

	for _, s := range sizes {
		scale := FitScale(s[0], s[1], s[2], s[3])
		if scale > 1.0 {
			t.Errorf("FitScale(%v, %v, %v, %v) = %v, must be <= 1.0", s[0], s[1], s[2], s[3], scale)
		}

		w, h := FitDims(s[0], s[1], s[2], s[3])
		if float64(w) > s[2] || float64(h) > s[3] {
			t.Errorf("FitDims(%v, %v, %v, %v) = (%d, %d) exceeds bounds", s[0], s[1], s[2], s[3], w, h)
		}
	}
}

func TestFitDimsPreservesAspect(t *testing.T) {
	srcW, srcH := 2480.0, 3508.0
	w, h := FitDims(srcW, srcH, 1200, 800)

	srcAspect := srcW / srcH
	gotAspect := float64(w) / float64(h)

	// Integer truncation allows a small deviation.
	if math.Abs(srcAspect-gotAspect) > 0.01 {
		t.Errorf("aspect ratio %v differs from source %v", gotAspect, srcAspect)
	}
}
