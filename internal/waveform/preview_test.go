package waveform

import (
	"math"
	"testing"
)

// --- BuildPreview ---

func TestBuildPreviewPadsShortInput(t *testing.T) {
	raw := make([]float64, 40)
	for i := range raw {
		raw[i] = 0.5
	}
	out := BuildPreview(raw, 128)
	if len(out) != 128 {
		t.Fatalf("len = %d, want exactly 128", len(out))
	}
	for i := 0; i < 40; i++ {
		if out[i] != 0.5 {
			t.Errorf("out[%d] = %v, want 0.5", i, out[i])
		}
	}
	for i := 40; i < 128; i++ {
		if out[i] != 0 {
			t.Errorf("out[%d] = %v, want zero padding", i, out[i])
		}
	}
}

func TestBuildPreviewEmptyInput(t *testing.T) {
	out := BuildPreview(nil, 16)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestBuildPreviewAveragesWindows(t *testing.T) {
	// 8 samples into 4 windows of 2: averages of each pair.
	raw := []float64{0, 1, 0.2, 0.4, 1, 1, 0, 0.6}
	out := BuildPreview(raw, 4)
	want := []float64{0.5, 0.3, 1, 0.3}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestBuildPreviewStopsAtTargetLength(t *testing.T) {
	// 10 samples, target 3: step = floor(10/3) = 3, so windows start at
	// 0, 3, 6 and the scan stops with sample 9 never visited.
	raw := []float64{9, 9, 9, 3, 3, 3, 6, 6, 6, 100}
	out := BuildPreview(raw, 3)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	want := []float64{9, 3, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v (forward-only scan)", i, out[i], want[i])
		}
	}
}

func TestBuildPreviewZeroTarget(t *testing.T) {
	if out := BuildPreview([]float64{1, 2}, 0); len(out) != 0 {
		t.Errorf("target 0 returned %d entries, want 0", len(out))
	}
}

// --- RMS ---

func TestRMS(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"silence", []float64{0, 0, 0}, 0},
		{"unit", []float64{1, 1, 1, 1}, 1},
		{"signed", []float64{1, -1}, 1},
		{"half", []float64{0.5, -0.5, 0.5, -0.5}, 0.5},
	}
	for _, tt := range tests {
		if got := RMS(tt.window); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RMS(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// --- Render ---

func TestRenderBarGeometry(t *testing.T) {
	dl := Render([]float64{0.5, 1, 0.25, 0}, 80, 40, 0)
	if len(dl.Bars) != 4 {
		t.Fatalf("bars = %d, want 4", len(dl.Bars))
	}
	if dl.Bars[1].H != 40 || dl.Bars[1].Y != 0 {
		t.Errorf("full-scale bar = %+v, want height 40 at y 0", dl.Bars[1])
	}
	if dl.Bars[0].H != 20 || dl.Bars[0].Y != 10 {
		t.Errorf("half bar = %+v, want height 20 centered at y 10", dl.Bars[0])
	}
	if dl.Bars[2].X != 40 {
		t.Errorf("bar 2 x = %v, want 40", dl.Bars[2].X)
	}
	if dl.Bars[3].H != 1 {
		t.Errorf("silent bar height = %v, want hairline 1", dl.Bars[3].H)
	}
	if dl.Overlay != nil {
		t.Error("progress 0 should draw no overlay")
	}
}

func TestRenderNegativeAmplitudes(t *testing.T) {
	dl := Render([]float64{-0.5}, 10, 40, 0)
	if dl.Bars[0].H != 20 {
		t.Errorf("bar height for -0.5 = %v, want 20 (magnitude)", dl.Bars[0].H)
	}
}

func TestRenderOverlay(t *testing.T) {
	dl := Render([]float64{0.5, 0.5}, 100, 20, 0.25)
	if dl.Overlay == nil {
		t.Fatal("expected overlay")
	}
	if dl.Overlay.W != 25 || dl.Overlay.H != 20 || dl.Overlay.X != 0 {
		t.Errorf("overlay = %+v, want 25x20 at origin", *dl.Overlay)
	}

	over := Render([]float64{0.5}, 100, 20, 4)
	if over.Overlay.W != 100 {
		t.Errorf("overlay width at progress>1 = %v, want clamp to 100", over.Overlay.W)
	}
}

func TestRenderDegenerateInputs(t *testing.T) {
	if dl := Render(nil, 100, 20, 0.5); len(dl.Bars) != 0 || dl.Overlay != nil {
		t.Error("empty amplitude array should render nothing")
	}
	if dl := Render([]float64{1}, 0, 20, 0.5); len(dl.Bars) != 0 {
		t.Error("zero width should render nothing")
	}
}

// --- View ---

func TestViewRerendersOnGeometryChange(t *testing.T) {
	var v View
	amps := []float64{0.5, 0.5}

	_, rendered := v.Sync(amps, 4, 1, 120, 40, 0)
	if !rendered {
		t.Fatal("first Sync should render")
	}
	if _, rendered = v.Sync(amps, 4, 1, 120, 40, 0); rendered {
		t.Error("unchanged Sync should reuse cache")
	}
	if _, rendered = v.Sync(amps, 4, 2, 120, 40, 0); !rendered {
		t.Error("zoom change should re-render")
	}
	if _, rendered = v.Sync(amps, 4, 2, 90, 40, 0); !rendered {
		t.Error("tempo change should re-render")
	}
	if _, rendered = v.Sync(amps, 8, 2, 90, 40, 0); !rendered {
		t.Error("duration change should re-render")
	}
	if _, rendered = v.Sync(amps, 8, 2, 90, 40, 0.5); !rendered {
		t.Error("progress change should re-render")
	}
	if _, rendered = v.Sync([]float64{0.9, 0.3}, 8, 2, 90, 40, 0.5); !rendered {
		t.Error("waveform contents change should re-render")
	}
	// same length and sum, different order
	if _, rendered = v.Sync([]float64{0.3, 0.9}, 8, 2, 90, 40, 0.5); !rendered {
		t.Error("reordered waveform contents should re-render")
	}
	if _, rendered = v.Sync([]float64{0.3, 0.9}, 8, 2, 90, 40, 0.5); rendered {
		t.Error("unchanged contents should reuse cache")
	}
}

func TestViewWidthTracksZoom(t *testing.T) {
	var v View
	dl, _ := v.Sync([]float64{1}, 2, 1, 120, 40, 0)
	dlZoomed, _ := v.Sync([]float64{1}, 2, 2, 120, 40, 0)
	if dlZoomed.Width != 2*dl.Width {
		t.Errorf("width at zoom 2 = %v, want double %v", dlZoomed.Width, dl.Width)
	}
}
