package song

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store is the mutable model the editor operates on. All mutations are
// synchronous and keyed by id; the clip list keeps insertion order, not
// temporal order; consumers sort by start time when they need it.
// Overlapping clips on one track are allowed.
type Store struct {
	mu       sync.RWMutex
	song     *Song
	playhead float64 // seconds

	notifier *Notifier
}

// NewStore creates a store around an empty song with common defaults:
// 120 BPM, 4/4, 16 bars.
func NewStore() *Store {
	return FromSong(&Song{
		Tempo:         120,
		TimeSignature: [2]int{4, 4},
		DurationBars:  16,
	})
}

// FromSong wraps an existing song. The store takes ownership.
func FromSong(s *Song) *Store {
	if s.Tempo <= 0 {
		s.Tempo = 120
	}
	if s.TimeSignature[0] <= 0 {
		s.TimeSignature = [2]int{4, 4}
	}
	return &Store{song: s, notifier: NewNotifier()}
}

// Tempo returns the song tempo in BPM.
func (s *Store) Tempo() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.song.Tempo
}

// SetTempo updates the song tempo. Non-positive values are ignored.
func (s *Store) SetTempo(bpm float64) {
	if bpm <= 0 {
		return
	}
	s.mu.Lock()
	s.song.Tempo = bpm
	s.mu.Unlock()
	s.notifier.Publish(Change{Kind: SongUpdated})
}

// Playhead returns the transport position in seconds.
func (s *Store) Playhead() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playhead
}

// SetPlayhead moves the transport position, clamped to >= 0.
func (s *Store) SetPlayhead(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.mu.Lock()
	s.playhead = seconds
	s.mu.Unlock()
}

// --- Track operations ---

// AddTrack appends a new track and returns its id. Volume defaults to 0.8,
// pan to center, effects to all-zero. A sample-backed track carries only
// the opaque instrument key; resource handles live on its clips and in the
// external instrument registry.
func (s *Store) AddTrack(name, instrument, category string) string {
	tr := &Track{
		ID:         uuid.NewString(),
		Name:       name,
		Instrument: instrument,
		Category:   category,
		Volume:     0.8,
		Clips:      []*Clip{},
	}

	s.mu.Lock()
	s.song.Tracks = append(s.song.Tracks, tr)
	s.mu.Unlock()

	s.notifier.Publish(Change{Kind: TrackAdded, TrackID: tr.ID})
	return tr.ID
}

// TrackUpdate carries the fields UpdateTrack may change. Nil fields are
// left untouched, so one call can update any subset atomically.
type TrackUpdate struct {
	Name       *string
	Instrument *string
	Category   *string
	Volume     *float64
	Pan        *float64
	Muted      *bool
	Solo       *bool
	VocalStyle *VocalStyle
	Effects    *EffectSettings
}

// UpdateTrack applies a partial update to the track. Unknown ids are a no-op.
func (s *Store) UpdateTrack(trackID string, u TrackUpdate) {
	s.mu.Lock()
	tr := s.findTrack(trackID)
	if tr == nil {
		s.mu.Unlock()
		return
	}
	if u.Name != nil {
		tr.Name = *u.Name
	}
	if u.Instrument != nil {
		tr.Instrument = *u.Instrument
	}
	if u.Category != nil {
		tr.Category = *u.Category
	}
	if u.Volume != nil {
		tr.Volume = clamp01(*u.Volume)
	}
	if u.Pan != nil {
		tr.Pan = clampRange(*u.Pan, -1, 1)
	}
	if u.Muted != nil {
		tr.Muted = *u.Muted
	}
	if u.Solo != nil {
		tr.Solo = *u.Solo
	}
	if u.VocalStyle != nil {
		tr.VocalStyle = *u.VocalStyle
	}
	if u.Effects != nil {
		tr.Effects = *u.Effects
	}
	s.mu.Unlock()

	s.notifier.Publish(Change{Kind: TrackUpdated, TrackID: trackID})
}

// RemoveTrack deletes a track and all its clips. Unknown ids are a no-op.
func (s *Store) RemoveTrack(trackID string) {
	s.mu.Lock()
	removed := false
	for i, tr := range s.song.Tracks {
		if tr.ID == trackID {
			s.song.Tracks = append(s.song.Tracks[:i], s.song.Tracks[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.notifier.Publish(Change{Kind: TrackRemoved, TrackID: trackID})
	}
}

// Track returns a snapshot of the track without its clips copied deeply.
func (s *Store) Track(trackID string) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr := s.findTrack(trackID)
	if tr == nil {
		return Track{}, false
	}
	out := *tr
	out.Clips = nil
	return out, true
}

// TrackIDs returns the track ids in storage order.
func (s *Store) TrackIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.song.Tracks))
	for i, tr := range s.song.Tracks {
		ids[i] = tr.ID
	}
	return ids
}

// --- Clip operations ---

// AddClip creates a clip on the track from the given template, assigning a
// fresh id and structural defaults for zero-valued fields, and returns the
// new clip id. Returns "" if the track does not exist.
func (s *Store) AddClip(trackID string, template Clip) string {
	c := template
	c.ID = uuid.NewString()
	if c.Type == "" {
		c.Type = ClipSynth
	}
	if c.Volume == 0 {
		c.Volume = 0.8
	}
	if c.StartTime < 0 {
		c.StartTime = 0
	}

	s.mu.Lock()
	tr := s.findTrack(trackID)
	if tr == nil {
		s.mu.Unlock()
		return ""
	}
	clip := c
	tr.Clips = append(tr.Clips, &clip)
	s.mu.Unlock()

	s.notifier.Publish(Change{Kind: ClipAdded, TrackID: trackID, ClipID: c.ID})
	return c.ID
}

// ClipUpdate carries the fields UpdateClip may change. Nil fields are left
// untouched; nil slices mean "no change", so an empty waveform must be set
// with a non-nil empty slice.
type ClipUpdate struct {
	StartTime      *float64
	Duration       *float64
	Type           *ClipType
	Instrument     *string
	Notes          []string
	ChordSequence  []string
	SampleURL      *string
	Waveform       []float64
	Volume         *float64
	Effects        *EffectSettings
	SampleDuration *float64
}

// UpdateClip applies a partial update to a clip on the track. Start times
// are clamped to >= 0. Unknown track or clip ids are a no-op.
func (s *Store) UpdateClip(trackID, clipID string, u ClipUpdate) {
	s.mu.Lock()
	c := s.findClip(trackID, clipID)
	if c == nil {
		s.mu.Unlock()
		return
	}
	if u.StartTime != nil {
		c.StartTime = *u.StartTime
		if c.StartTime < 0 {
			c.StartTime = 0
		}
	}
	if u.Duration != nil && *u.Duration > 0 {
		c.Duration = *u.Duration
	}
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Instrument != nil {
		c.Instrument = *u.Instrument
	}
	if u.Notes != nil {
		c.Notes = append([]string(nil), u.Notes...)
	}
	if u.ChordSequence != nil {
		c.ChordSequence = append([]string(nil), u.ChordSequence...)
	}
	if u.SampleURL != nil {
		c.SampleURL = *u.SampleURL
	}
	if u.Waveform != nil {
		c.Waveform = append([]float64(nil), u.Waveform...)
	}
	if u.Volume != nil {
		c.Volume = clamp01(*u.Volume)
	}
	if u.Effects != nil {
		c.Effects = *u.Effects
	}
	if u.SampleDuration != nil {
		c.SampleDuration = *u.SampleDuration
	}
	s.mu.Unlock()

	s.notifier.Publish(Change{Kind: ClipUpdated, TrackID: trackID, ClipID: clipID})
}

// RemoveClip deletes a clip from its track. Unknown ids are a no-op.
func (s *Store) RemoveClip(trackID, clipID string) {
	s.mu.Lock()
	removed := false
	if tr := s.findTrack(trackID); tr != nil {
		for i, c := range tr.Clips {
			if c.ID == clipID {
				tr.Clips = append(tr.Clips[:i], tr.Clips[i+1:]...)
				removed = true
				break
			}
		}
	}
	s.mu.Unlock()

	if removed {
		s.notifier.Publish(Change{Kind: ClipRemoved, TrackID: trackID, ClipID: clipID})
	}
}

// Clip returns a snapshot copy of a clip.
func (s *Store) Clip(trackID, clipID string) (Clip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findClip(trackID, clipID)
	if c == nil {
		return Clip{}, false
	}
	return copyClip(c), true
}

// FindClip scans every track for a clip id and returns its snapshot and
// owning track id. Used by keyboard delete, where only the selected clip id
// is known.
func (s *Store) FindClip(clipID string) (Clip, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tr := range s.song.Tracks {
		for _, c := range tr.Clips {
			if c.ID == clipID {
				return copyClip(c), tr.ID, true
			}
		}
	}
	return Clip{}, "", false
}

// Clips returns snapshot copies of a track's clips in storage order.
func (s *Store) Clips(trackID string) []Clip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr := s.findTrack(trackID)
	if tr == nil {
		return nil
	}
	out := make([]Clip, len(tr.Clips))
	for i, c := range tr.Clips {
		out[i] = copyClip(c)
	}
	return out
}

// ClipsInOrder returns the track's clips sorted by start time, the order
// lyric and arrangement views display them in.
func (s *Store) ClipsInOrder(trackID string) []Clip {
	out := s.Clips(trackID)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// Snapshot returns a deep copy of the whole song for export.
func (s *Store) Snapshot() Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := *s.song
	out.Tracks = make([]*Track, len(s.song.Tracks))
	for i, tr := range s.song.Tracks {
		t := *tr
		t.Clips = make([]*Clip, len(tr.Clips))
		for j, c := range tr.Clips {
			clip := copyClip(c)
			t.Clips[j] = &clip
		}
		out.Tracks[i] = &t
	}
	return out
}

// Subscribe registers a listener for model changes.
func (s *Store) Subscribe() *Subscriber {
	return s.notifier.Subscribe()
}

// Unsubscribe removes a listener.
func (s *Store) Unsubscribe(sub *Subscriber) {
	s.notifier.Unsubscribe(sub)
}

// findTrack returns the track or nil. Must be called with mu held.
func (s *Store) findTrack(trackID string) *Track {
	for _, tr := range s.song.Tracks {
		if tr.ID == trackID {
			return tr
		}
	}
	return nil
}

// findClip returns the clip or nil. Must be called with mu held.
func (s *Store) findClip(trackID, clipID string) *Clip {
	tr := s.findTrack(trackID)
	if tr == nil {
		return nil
	}
	for _, c := range tr.Clips {
		if c.ID == clipID {
			return c
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
