// Package waveform turns raw amplitude buffers into fixed-length preview
// arrays and renders previews as backend-neutral draw instructions.
package waveform

import "math"

// PreviewLength is the standard preview resolution stored on clips.
const PreviewLength = 128

// BuildPreview downsamples raw amplitude samples to exactly targetLength
// entries by averaging fixed windows in a single forward scan. The scan
// stops as soon as targetLength windows have been produced, and the output
// is right-padded with zeros when the input runs short. This is a lossy
// forward-only scan, not a full resample: with a fractional samples-per-
// window ratio the tail of the input is ignored.
func BuildPreview(raw []float64, targetLength int) []float64 {
	if targetLength <= 0 {
		return []float64{}
	}
	out := make([]float64, 0, targetLength)

	if len(raw) > 0 {
		step := len(raw) / targetLength
		if step < 1 {
			step = 1
		}
		for i := 0; i < len(raw) && len(out) < targetLength; i += step {
			end := i + step
			if end > len(raw) {
				end = len(raw)
			}
			sum := 0.0
			for _, v := range raw[i:end] {
				sum += v
			}
			out = append(out, sum/float64(end-i))
		}
	}

	for len(out) < targetLength {
		out = append(out, 0)
	}
	return out
}

// RMS computes the root-mean-square amplitude of one analysis window of
// time-domain samples in [-1,1]. Empty windows yield 0.
func RMS(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range window {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(window)))
}
