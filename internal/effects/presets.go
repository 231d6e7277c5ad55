// Package effects maps discrete voice styles to fixed effect vectors.
package effects

import "github.com/loopcraft/trackline/internal/song"

// presets maps each vocal style to its fixed 7-parameter effect vector.
// Values are hand-tuned; PitchShift is in semitones, everything else 0..1.
var presets = map[song.VocalStyle]song.EffectSettings{
	song.StyleNatural: {
		Reverb: 0.02,
	},
	song.StyleChoir: {
		Reverb: 0.7,
		Delay:  0.25,
		Chorus: 0.8,
	},
	song.StyleRobot: {
		Distortion: 0.4,
		PitchShift: -4,
		Filter:     0.3,
		Bitcrush:   0.5,
	},
	song.StyleEcho: {
		Reverb: 0.45,
		Delay:  0.65,
	},
	song.StyleSquirrel: {
		PitchShift: 7,
		Chorus:     0.15,
	},
	song.StyleAlien: {
		Reverb:     0.35,
		PitchShift: -7,
		Chorus:     0.6,
		Filter:     0.4,
	},
	song.StyleTelephone: {
		Distortion: 0.2,
		Filter:     0.9,
		Bitcrush:   0.3,
	},
}

// Styles lists the supported vocal styles in display order.
var Styles = []song.VocalStyle{
	song.StyleNatural,
	song.StyleChoir,
	song.StyleRobot,
	song.StyleEcho,
	song.StyleSquirrel,
	song.StyleAlien,
	song.StyleTelephone,
}

// PresetFor returns the effect vector for a vocal style. Unknown styles get
// the natural preset.
func PresetFor(style song.VocalStyle) song.EffectSettings {
	if p, ok := presets[style]; ok {
		return p
	}
	return presets[song.StyleNatural]
}

// IsValidStyle reports whether the style has a defined preset.
func IsValidStyle(style song.VocalStyle) bool {
	_, ok := presets[style]
	return ok
}

// Apply writes the style tag and its effect vector to the track in one
// update, so the tag and the numbers can never desync.
func Apply(store *song.Store, trackID string, style song.VocalStyle) {
	fx := PresetFor(style)
	if !IsValidStyle(style) {
		style = song.StyleNatural
	}
	store.UpdateTrack(trackID, song.TrackUpdate{
		VocalStyle: &style,
		Effects:    &fx,
	})
}
