// Package song holds the multitrack data model: a song structure of named
// tracks, each owning a flat list of clips, plus the mutable store the
// editing and recording layers operate on. The JSON field names are the
// external shape consumed by the playback engine and any sync backend.
package song

// ClipType distinguishes what a clip carries.
type ClipType string

const (
	ClipSynth  ClipType = "synth"
	ClipSample ClipType = "sample"
	ClipLyrics ClipType = "lyrics"
)

// VocalStyle is a discrete voice-effect preset tag applied to a track.
type VocalStyle string

const (
	StyleNatural   VocalStyle = "natural"
	StyleChoir     VocalStyle = "choir"
	StyleRobot     VocalStyle = "robot"
	StyleEcho      VocalStyle = "echo"
	StyleSquirrel  VocalStyle = "squirrel"
	StyleAlien     VocalStyle = "alien"
	StyleTelephone VocalStyle = "telephone"
)

// EffectSettings is the 7-parameter effect vector shared by tracks and clips.
// PitchShift is in semitones (roughly -12..12); every other field is 0..1.
type EffectSettings struct {
	Reverb     float64 `json:"reverb"`
	Delay      float64 `json:"delay"`
	Distortion float64 `json:"distortion"`
	PitchShift float64 `json:"pitchShift"`
	Chorus     float64 `json:"chorus"`
	Filter     float64 `json:"filter"`
	Bitcrush   float64 `json:"bitcrush"`
}

// Clip is a time-bounded unit of audio, note, or lyric content on a track.
// StartTime and Duration are in timeline time units; Duration is always > 0.
type Clip struct {
	ID             string         `json:"id"`
	StartTime      float64        `json:"startTime"`
	Duration       float64        `json:"duration"`
	Type           ClipType       `json:"type"`
	Instrument     string         `json:"instrument"`
	Notes          []string       `json:"notes,omitempty"`
	ChordSequence  []string       `json:"chordSequence,omitempty"`
	SampleURL      string         `json:"sampleUrl,omitempty"`
	Waveform       []float64      `json:"waveform,omitempty"`
	Volume         float64        `json:"volume"`
	Effects        EffectSettings `json:"effects"`
	SampleDuration float64        `json:"sampleDuration,omitempty"`
}

// Track is a named channel hosting clips. Instrument is an opaque key
// resolved by an external registry.
type Track struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Instrument string         `json:"instrument"`
	Category   string         `json:"category,omitempty"`
	Volume     float64        `json:"volume"`
	Pan        float64        `json:"pan"`
	Muted      bool           `json:"muted"`
	Solo       bool           `json:"solo"`
	VocalStyle VocalStyle     `json:"vocalStyle,omitempty"`
	Effects    EffectSettings `json:"effects"`
	Clips      []*Clip        `json:"clips"`
}

// Song is the top-level structure: tempo in BPM, time signature as
// [beatsPerBar, beatUnit], length in bars, and the track list.
type Song struct {
	Tempo         float64  `json:"tempo"`
	TimeSignature [2]int   `json:"timeSignature"`
	DurationBars  int      `json:"durationBars"`
	Tracks        []*Track `json:"tracks"`
}

// copyClip returns a value copy with its own Notes, ChordSequence and
// Waveform slices, so callers can hold it without aliasing store state.
func copyClip(c *Clip) Clip {
	out := *c
	if c.Notes != nil {
		out.Notes = append([]string(nil), c.Notes...)
	}
	if c.ChordSequence != nil {
		out.ChordSequence = append([]string(nil), c.ChordSequence...)
	}
	if c.Waveform != nil {
		out.Waveform = append([]float64(nil), c.Waveform...)
	}
	return out
}
