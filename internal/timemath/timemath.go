// Package timemath holds the pure conversions between the three timeline
// coordinate systems: musical beats, wall-clock seconds, and screen pixels.
// All functions are total for finite non-negative inputs; callers are
// responsible for clamping negative results where their domain requires it.
package timemath

// BasePixelsPerBeat is the beat width at zoom 1.0.
const BasePixelsPerBeat = 32.0

// Ruler density breakpoints, in pixels per beat.
const (
	barOnlyThreshold  = 20.0 // below this, draw bar lines only
	twoBarThreshold   = 10.0 // below this, draw every second bar
)

// RulerStep says how dense the timeline ruler should be at a given beat width.
type RulerStep int

const (
	StepEveryBeat RulerStep = iota
	StepEveryBar
	StepEveryTwoBars
)

// BeatWidth returns pixels per beat at the given zoom factor.
func BeatWidth(zoom float64) float64 {
	return BasePixelsPerBeat * zoom
}

// BeatsToSeconds converts a beat count to seconds at the given tempo (BPM).
func BeatsToSeconds(beats, tempo float64) float64 {
	return beats * 60.0 / tempo
}

// SecondsToBeats converts seconds to beats at the given tempo (BPM).
func SecondsToBeats(seconds, tempo float64) float64 {
	return seconds * tempo / 60.0
}

// BeatsToPixels converts beats to pixels at the given beat width.
func BeatsToPixels(beats, beatWidth float64) float64 {
	return beats * beatWidth
}

// PixelsToBeats converts pixels to beats at the given beat width.
func PixelsToBeats(pixels, beatWidth float64) float64 {
	return pixels / beatWidth
}

// StepFor chooses the ruler step for a beat width. Purely a density control:
// narrow beats collapse the ruler to bars, then to every second bar.
func StepFor(beatWidth float64) RulerStep {
	switch {
	case beatWidth < twoBarThreshold:
		return StepEveryTwoBars
	case beatWidth < barOnlyThreshold:
		return StepEveryBar
	default:
		return StepEveryBeat
	}
}
