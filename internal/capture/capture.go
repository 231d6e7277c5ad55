// Package capture abstracts the audio input hardware behind a small device
// interface so the recording state machine never touches a platform API
// directly. The portaudio-backed microphone device is the production
// implementation; tests substitute fakes.
package capture

import (
	"errors"
	"time"
)

const (
	SampleRate    = 48000
	Channels      = 1 // microphone capture is mono
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960 // samples per 20ms analysis window at 48kHz
)

var (
	// ErrPermissionDenied reports that microphone access was refused.
	// The record control stays disabled and no stream is opened.
	ErrPermissionDenied = errors.New("capture: microphone permission denied")

	// ErrNoInputDevice reports that no capture hardware is available.
	ErrNoInputDevice = errors.New("capture: no input device")

	// ErrNotEncoding reports a stop with no recorder running.
	ErrNotEncoding = errors.New("capture: encoder not running")
)

// Result is the finalized artifact of one recording: an opaque resource
// handle plus the decoded duration.
type Result struct {
	SampleURL string
	Duration  time.Duration
}

// Device is the capability set the recording session needs from a capture
// backend: open an input stream, read RMS analysis frames, run a parallel
// encoder, and finalize to a measurable audio resource.
type Device interface {
	// Permission proactively checks whether capture is allowed. Returns
	// ErrPermissionDenied or ErrNoInputDevice when recording must be
	// refused without opening a stream.
	Permission() error

	// Open acquires the input stream. Blocks until the stream is live.
	Open() error

	// ReadFrame blocks for one analysis window and returns its RMS
	// amplitude in [0,1].
	ReadFrame() (float64, error)

	// StartEncoding begins buffering encoded audio alongside analysis.
	StartEncoding() error

	// StopEncoding stops the encoder and finalizes asynchronously; onDone
	// is invoked exactly once from a background goroutine.
	StopEncoding(onDone func(Result, error))

	// Close releases the stream and the underlying audio host.
	Close() error
}
