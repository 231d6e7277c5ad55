package waveform

import (
	"math"

	"github.com/loopcraft/trackline/internal/timemath"
)

// Rect is an axis-aligned rectangle in clip-local pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

// DrawList is one rendered frame of a clip's waveform: vertical amplitude
// bars centered on the midline plus an optional progress overlay covering
// the played or recorded span. A 2D backend replays these rectangles.
type DrawList struct {
	Width   float64
	Height  float64
	Bars    []Rect
	Overlay *Rect
}

// Render lays out the amplitude bars for a preview array at the given pixel
// dimensions. Amplitudes may be signed or unsigned; magnitude is what is
// drawn. Progress outside [0,1] is clamped; progress 0 draws no overlay.
func Render(amps []float64, width, height, progress float64) DrawList {
	dl := DrawList{Width: width, Height: height}
	if width <= 0 || height <= 0 || len(amps) == 0 {
		return dl
	}

	barW := width / float64(len(amps))
	dl.Bars = make([]Rect, len(amps))
	for i, a := range amps {
		mag := math.Abs(a)
		if mag > 1 {
			mag = 1
		}
		h := mag * height
		if h < 1 {
			h = 1 // silent samples still draw a hairline
		}
		dl.Bars[i] = Rect{
			X: float64(i) * barW,
			Y: (height - h) / 2,
			W: barW,
			H: h,
		}
	}

	if progress > 1 {
		progress = 1
	}
	if progress > 0 {
		dl.Overlay = &Rect{X: 0, Y: 0, W: progress * width, H: height}
	}
	return dl
}

// View caches the last rendered geometry for one clip and re-renders only
// when the waveform, duration, zoom, tempo, or lane height actually change.
// Any of those alters the on-screen pixel size, so a render keyed off them
// tracks every zoom and tempo edit, not just the first mount.
type View struct {
	lastDuration float64
	lastZoom     float64
	lastTempo    float64
	lastHeight   float64
	lastProgress float64
	lastAmps     []float64

	list  DrawList
	fresh bool
}

// sameAmps compares waveform contents element by element. A checksum is
// not enough: reordered amplitudes change the bars but not the sum.
func sameAmps(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Sync renders the clip waveform if anything affecting its geometry changed
// since the last call. Returns the current draw list and whether it was
// re-rendered this call. durationUnits is the clip duration in timeline
// units and zoom sets the pixel width. Tempo participates in the cache key
// because recorded clips derive their duration from wall-clock time at the
// current tempo, so a tempo edit must invalidate the cached geometry.
func (v *View) Sync(amps []float64, durationUnits, zoom, tempo, height, progress float64) (DrawList, bool) {
	if v.fresh &&
		durationUnits == v.lastDuration &&
		zoom == v.lastZoom &&
		tempo == v.lastTempo &&
		height == v.lastHeight &&
		progress == v.lastProgress &&
		sameAmps(amps, v.lastAmps) {
		return v.list, false
	}

	width := timemath.BeatsToPixels(durationUnits, timemath.BeatWidth(zoom))
	v.list = Render(amps, width, height, progress)
	v.lastDuration = durationUnits
	v.lastZoom = zoom
	v.lastTempo = tempo
	v.lastHeight = height
	v.lastProgress = progress
	v.lastAmps = append(v.lastAmps[:0], amps...)
	v.fresh = true
	return v.list, true
}
