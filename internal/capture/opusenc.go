package capture

import (
	"fmt"
	"sync"

	"gopkg.in/hraban/opus.v2"
)

// ChunkRecorder is the parallel encoder that runs beside RMS analysis
// during capture: each 20ms frame is opus-encoded and the packets are
// buffered in memory until the recording stops, keeping long takes far
// smaller than raw PCM would.
type ChunkRecorder struct {
	enc *opus.Encoder

	mu     sync.Mutex
	chunks [][]byte
	frames int
}

// NewChunkRecorder creates a recorder encoding mono 48kHz voice audio.
func NewChunkRecorder() (*ChunkRecorder, error) {
	enc, err := opus.NewEncoder(SampleRate, Channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	return &ChunkRecorder{enc: enc}, nil
}

// EncodeFrame appends one FrameSize-sample frame to the chunk buffer.
func (r *ChunkRecorder) EncodeFrame(frame []int16) error {
	buf := make([]byte, 4000)
	n, err := r.enc.Encode(frame, buf)
	if err != nil {
		return fmt.Errorf("opus encode: %w", err)
	}
	r.mu.Lock()
	r.chunks = append(r.chunks, buf[:n])
	r.frames++
	r.mu.Unlock()
	return nil
}

// Frames returns how many frames have been encoded so far.
func (r *ChunkRecorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// DecodeAll decodes every buffered chunk back to PCM, in order. Used at
// finalize time to measure the true duration and persist the take.
func (r *ChunkRecorder) DecodeAll() ([]int16, error) {
	dec, err := opus.NewDecoder(SampleRate, Channels)
	if err != nil {
		return nil, fmt.Errorf("opus decoder: %w", err)
	}

	r.mu.Lock()
	chunks := r.chunks
	r.mu.Unlock()

	out := make([]int16, 0, len(chunks)*FrameSize)
	pcm := make([]int16, FrameSize*Channels)
	for i, chunk := range chunks {
		n, err := dec.Decode(chunk, pcm)
		if err != nil {
			return nil, fmt.Errorf("opus decode chunk %d: %w", i, err)
		}
		out = append(out, pcm[:n*Channels]...)
	}
	return out, nil
}
