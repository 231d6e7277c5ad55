package capture

import (
	"fmt"
	"io"
	"os"
	"time"

	wav "github.com/youpy/go-wav"
)

// WriteWAV persists mono int16 samples as a 16-bit WAV file at path.
func WriteWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav %s: %w", path, err)
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(len(samples)), 1, uint32(sampleRate), 16)
	out := make([]wav.Sample, len(samples))
	for i, s := range samples {
		out[i].Values[0] = int(s)
	}
	if err := w.WriteSamples(out); err != nil {
		return fmt.Errorf("write wav %s: %w", path, err)
	}
	return nil
}

// DurationOf decodes a WAV file's header and sample count to measure its
// playback duration.
func DurationOf(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav %s: %w", path, err)
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return 0, fmt.Errorf("wav format %s: %w", path, err)
	}
	if format.SampleRate == 0 {
		return 0, fmt.Errorf("wav %s: zero sample rate", path)
	}

	count := 0
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("wav samples %s: %w", path, err)
		}
		count += len(samples)
	}

	seconds := float64(count) / float64(format.SampleRate)
	return time.Duration(seconds * float64(time.Second)), nil
}
