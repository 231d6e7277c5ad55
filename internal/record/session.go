// Package record implements the live-recording state machine: countdown,
// capture into a growing placeholder clip, asynchronous finalization, and
// a forced-cleanup fail-safe for recorders that never call back.
package record

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/loopcraft/trackline/internal/capture"
	"github.com/loopcraft/trackline/internal/song"
	"github.com/loopcraft/trackline/internal/timemath"
	"github.com/loopcraft/trackline/internal/waveform"
)

// State is the recording session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateCapturing
	StateStopping
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateCapturing:
		return "capturing"
	case StateStopping:
		return "stopping"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ErrTrackBusy reports a start on a track that is already recording.
var ErrTrackBusy = errors.New("record: track already recording")

// ErrStopped reports a stop request that arrived before capture began.
// The session cleans up after itself; nothing was recorded.
var ErrStopped = errors.New("record: stopped before capture started")

// placeholderEpsilon is the duration a placeholder clip is born with,
// small enough to be invisible but satisfying duration > 0.
const placeholderEpsilon = 0.001

// Config holds the session's timing parameters. The defaults match the
// interactive editor; tests shrink them.
type Config struct {
	CountdownBeats  int           // visible count-in length, in beats
	PreviewInterval time.Duration // placeholder waveform refresh period
	ElapsedInterval time.Duration // user-visible elapsed counter period
	StopTimeout     time.Duration // forced cleanup deadline after a stop request
	PreviewLength   int           // preview waveform resolution
}

// DefaultConfig returns the interactive timing parameters.
func DefaultConfig() Config {
	return Config{
		CountdownBeats:  4,
		PreviewInterval: 500 * time.Millisecond,
		ElapsedInterval: 100 * time.Millisecond,
		StopTimeout:     2 * time.Second,
		PreviewLength:   waveform.PreviewLength,
	}
}

// Session is one recording run against one track. Sessions are single-use:
// create, Start, Stop, then discard.
type Session struct {
	store    *song.Store
	device   capture.Device
	registry *Registry
	trackID  string
	cfg      Config

	// OnCountdown, when set, is invoked once per count-in beat with the
	// number of beats remaining.
	OnCountdown func(beatsLeft int)

	mu            sync.Mutex
	state         State
	placeholderID string
	samples       []float64
	startedAt     time.Time
	elapsed       time.Duration

	stopOnce sync.Once
	endOnce  sync.Once // guards finalize vs forced cleanup
	stopped  chan struct{}
	done     chan struct{}
}

// NewSession prepares a recording session for the track. Nothing is
// acquired until Start.
func NewSession(store *song.Store, device capture.Device, registry *Registry, trackID string, cfg Config) *Session {
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = waveform.PreviewLength
	}
	return &Session{
		store:    store,
		device:   device,
		registry: registry,
		trackID:  trackID,
		cfg:      cfg,
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the user-visible recording time.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// PlaceholderID returns the id of the clip this session grows, or "".
func (s *Session) PlaceholderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholderID
}

// Done reports the channel closed once the session has fully finalized or
// been cleaned up.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Start runs the count-in, opens the capture device, creates the
// placeholder clip, and begins capturing. It returns once capture is live;
// the capture and refresh loops keep running until Stop. Permission
// refusal and device failures leave the model untouched.
func (s *Session) Start(ctx context.Context) error {
	if !s.registry.TryAcquire(s.trackID) {
		return ErrTrackBusy
	}

	if err := s.device.Permission(); err != nil {
		s.endOnce.Do(s.forceCleanup)
		return err
	}

	s.setState(StateCountdown)
	if err := s.countdown(ctx); err != nil {
		s.endOnce.Do(s.forceCleanup)
		return err
	}

	if err := s.device.Open(); err != nil {
		s.setState(StateError)
		s.endOnce.Do(s.forceCleanup)
		return fmt.Errorf("record: open device: %w", err)
	}
	if err := s.device.StartEncoding(); err != nil {
		s.setState(StateError)
		s.endOnce.Do(s.forceCleanup)
		return fmt.Errorf("record: start encoder: %w", err)
	}

	// The placeholder exists before any preview update can target it.
	startBeats := timemath.SecondsToBeats(s.store.Playhead(), s.store.Tempo())
	placeholderID := s.store.AddClip(s.trackID, song.Clip{
		StartTime:  startBeats,
		Duration:   placeholderEpsilon,
		Type:       song.ClipSample,
		Instrument: "voice",
		Waveform:   []float64{},
	})
	if placeholderID == "" {
		s.endOnce.Do(s.forceCleanup)
		return fmt.Errorf("record: track %s not found", s.trackID)
	}

	// Commit to capturing, unless a stop request slipped in while the
	// device was being set up. The check shares the mutex with Stop so
	// exactly one side runs the cleanup.
	s.mu.Lock()
	select {
	case <-s.stopped:
		s.mu.Unlock()
		s.store.RemoveClip(s.trackID, placeholderID)
		s.endOnce.Do(s.forceCleanup)
		return ErrStopped
	default:
	}
	s.placeholderID = placeholderID
	s.startedAt = time.Now()
	s.state = StateCapturing
	s.mu.Unlock()

	go s.captureLoop()
	go s.previewLoop()
	go s.elapsedLoop()

	log.Printf("Recording started on track %s (placeholder %s)", s.trackID, placeholderID)
	return nil
}

// countdown sleeps through the count-in at the song tempo, one beat at a
// time so a cancelled context or an early stop request cuts it short.
func (s *Session) countdown(ctx context.Context) error {
	beat := time.Duration(timemath.BeatsToSeconds(1, s.store.Tempo()) * float64(time.Second))
	for left := s.cfg.CountdownBeats; left > 0; left-- {
		if s.OnCountdown != nil {
			s.OnCountdown(left)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopped:
			return ErrStopped
		case <-time.After(beat):
		}
	}
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}
	return nil
}

// captureLoop reads analysis frames until stop, accumulating per-frame RMS.
func (s *Session) captureLoop() {
	for {
		select {
		case <-s.stopped:
			return
		default:
		}

		rms, err := s.device.ReadFrame()
		if err != nil {
			select {
			case <-s.stopped:
				return
			default:
			}
			log.Printf("Recording read error on track %s: %v", s.trackID, err)
			s.setState(StateError)
			s.stopOnce.Do(func() { close(s.stopped) })
			s.endOnce.Do(s.forceCleanup)
			return
		}

		s.mu.Lock()
		s.samples = append(s.samples, rms)
		s.mu.Unlock()
	}
}

// previewLoop periodically rebuilds the placeholder's preview waveform and
// advances its duration to the wall-clock elapsed time. Duration never
// shrinks between refreshes.
func (s *Session) previewLoop() {
	ticker := time.NewTicker(s.cfg.PreviewInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopped:
			return
		case <-ticker.C:
			s.refreshPlaceholder()
		}
	}
}

func (s *Session) refreshPlaceholder() {
	s.mu.Lock()
	buf := append([]float64(nil), s.samples...)
	placeholderID := s.placeholderID
	elapsed := time.Since(s.startedAt)
	s.mu.Unlock()
	if placeholderID == "" {
		return
	}

	preview := waveform.BuildPreview(buf, s.cfg.PreviewLength)
	beats := timemath.SecondsToBeats(elapsed.Seconds(), s.store.Tempo())
	if beats < placeholderEpsilon {
		beats = placeholderEpsilon
	}

	if clip, ok := s.store.Clip(s.trackID, placeholderID); ok && clip.Duration > beats {
		beats = clip.Duration // monotonic: never shrink a live recording
	}
	s.store.UpdateClip(s.trackID, placeholderID, song.ClipUpdate{
		Duration: &beats,
		Waveform: preview,
	})
}

// elapsedLoop advances the user-visible elapsed counter. Deliberately
// independent of the preview refresh ticker.
func (s *Session) elapsedLoop() {
	ticker := time.NewTicker(s.cfg.ElapsedInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopped:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.elapsed = time.Since(s.startedAt)
			s.mu.Unlock()
		}
	}
}

// Stop requests finalization. The capture and ticker loops end
// immediately; the encoder finalizes in the background and the placeholder
// is updated in place with the final sample url, duration, and waveform.
// If the encoder's completion never arrives within the stop timeout, every
// resource is force-released and the placeholder is deleted rather than
// left as a ghost clip. A stop during the count-in or device setup aborts
// the in-flight Start before capture begins. Stop is safe to call more
// than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		select {
		case <-s.done:
			return
		default:
		}

		s.mu.Lock()
		s.state = StateStopping
		close(s.stopped)
		capturing := s.placeholderID != ""
		s.mu.Unlock()

		if !capturing {
			// Start has not committed to capturing yet. It observes the
			// closed stop channel and runs the cleanup on its own path;
			// there is no encoder to finalize.
			return
		}

		timeout := time.AfterFunc(s.cfg.StopTimeout, func() {
			log.Printf("Recording stop timed out on track %s, forcing cleanup", s.trackID)
			s.endOnce.Do(s.forceCleanup)
		})

		s.device.StopEncoding(func(res capture.Result, err error) {
			timeout.Stop()
			if err != nil {
				log.Printf("Recording finalize error on track %s: %v", s.trackID, err)
				s.endOnce.Do(s.forceCleanup)
				return
			}
			s.endOnce.Do(func() { s.finalize(res) })
		})
	})
}

// finalize writes the recording's final state into the existing
// placeholder clip. A second clip is never created.
func (s *Session) finalize(res capture.Result) {
	s.mu.Lock()
	buf := s.samples
	placeholderID := s.placeholderID
	s.mu.Unlock()

	preview := waveform.BuildPreview(buf, s.cfg.PreviewLength)
	beats := timemath.SecondsToBeats(res.Duration.Seconds(), s.store.Tempo())
	if beats < placeholderEpsilon {
		beats = placeholderEpsilon
	}
	seconds := res.Duration.Seconds()

	s.store.UpdateClip(s.trackID, placeholderID, song.ClipUpdate{
		Duration:       &beats,
		SampleURL:      &res.SampleURL,
		Waveform:       preview,
		SampleDuration: &seconds,
	})

	s.device.Close()
	s.registry.Release(s.trackID)
	s.setState(StateIdle)
	close(s.done)
	log.Printf("Recording finalized on track %s: %s (%.2fs)", s.trackID, res.SampleURL, seconds)
}

// forceCleanup releases every resource and removes the placeholder clip.
// Runs when the encoder never completes, reports an error, or a device
// failure aborts capture.
func (s *Session) forceCleanup() {
	s.mu.Lock()
	placeholderID := s.placeholderID
	s.placeholderID = ""
	s.mu.Unlock()

	s.device.Close()
	if placeholderID != "" {
		s.store.RemoveClip(s.trackID, placeholderID)
	}
	s.registry.Release(s.trackID)
	s.setState(StateIdle)
	close(s.done)
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
