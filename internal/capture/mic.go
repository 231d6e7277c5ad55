package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// MicDevice captures from the default system input via portaudio. One
// device serves one recording at a time.
type MicDevice struct {
	// OutputDir is where finalized takes are written as WAV files.
	OutputDir string

	mu       sync.Mutex
	stream   *portaudio.Stream
	buf      []int16
	recorder *ChunkRecorder
}

// NewMicDevice creates a microphone device writing takes into outputDir.
func NewMicDevice(outputDir string) *MicDevice {
	return &MicDevice{OutputDir: outputDir}
}

// Permission checks that an input device exists before any stream is
// opened. Portaudio exposes no separate permission prompt, so a missing
// default input is the refusal signal on headless or locked-down hosts.
func (m *MicDevice) Permission() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil || dev.MaxInputChannels < 1 {
		return ErrNoInputDevice
	}
	return nil
}

// Open acquires and starts the default input stream.
func (m *MicDevice) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	m.buf = make([]int16, FrameSize)
	stream, err := portaudio.OpenDefaultStream(Channels, 0, float64(SampleRate), FrameSize, m.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}
	m.stream = stream
	return nil
}

// ReadFrame blocks for one 20ms window, returning its RMS. If an encoder
// is running, the frame is also fed to it.
func (m *MicDevice) ReadFrame() (float64, error) {
	m.mu.Lock()
	stream := m.stream
	recorder := m.recorder
	m.mu.Unlock()
	if stream == nil {
		return 0, ErrNoInputDevice
	}

	if err := stream.Read(); err != nil {
		return 0, fmt.Errorf("read input frame: %w", err)
	}
	frame := make([]int16, len(m.buf))
	copy(frame, m.buf)

	if recorder != nil {
		if err := recorder.EncodeFrame(frame); err != nil {
			return 0, err
		}
	}
	return FrameRMS(frame), nil
}

// StartEncoding spins up the parallel opus chunk recorder.
func (m *MicDevice) StartEncoding() error {
	recorder, err := NewChunkRecorder()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.recorder = recorder
	m.mu.Unlock()
	return nil
}

// StopEncoding finalizes the take in the background: chunks are decoded to
// PCM, written as a WAV file under OutputDir, and measured for duration.
func (m *MicDevice) StopEncoding(onDone func(Result, error)) {
	m.mu.Lock()
	recorder := m.recorder
	m.recorder = nil
	m.mu.Unlock()

	if recorder == nil {
		go onDone(Result{}, ErrNotEncoding)
		return
	}

	go func() {
		samples, err := recorder.DecodeAll()
		if err != nil {
			onDone(Result{}, err)
			return
		}
		if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
			onDone(Result{}, fmt.Errorf("take dir: %w", err))
			return
		}
		path := filepath.Join(m.OutputDir, fmt.Sprintf("take-%d.wav", time.Now().UnixNano()))
		if err := WriteWAV(path, samples, SampleRate); err != nil {
			onDone(Result{}, err)
			return
		}
		dur, err := DurationOf(path)
		if err != nil {
			onDone(Result{}, err)
			return
		}
		onDone(Result{SampleURL: path, Duration: dur}, nil)
	}()
}

// Close stops and releases the stream and the audio host.
func (m *MicDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	m.stream.Stop()
	err := m.stream.Close()
	m.stream = nil
	portaudio.Terminate()
	if err != nil {
		return fmt.Errorf("close input stream: %w", err)
	}
	return nil
}
