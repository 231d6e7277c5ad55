package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Song defaults
	DefaultTempo float64 // BPM for new songs
	DefaultBars  int     // length of new songs

	// Recording
	TakesDir        string        // where finalized recordings are written
	CountdownBeats  int           // count-in length before capture
	PreviewInterval time.Duration // placeholder waveform refresh period
	ElapsedInterval time.Duration // elapsed counter tick period
	StopTimeout     time.Duration // forced cleanup deadline after stop
	PreviewLength   int           // preview waveform resolution
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		DefaultTempo: envFloat("TRACKLINE_TEMPO", 120),
		DefaultBars:  envInt("TRACKLINE_BARS", 16),

		TakesDir:        envStr("TRACKLINE_TAKES_DIR", "takes"),
		CountdownBeats:  envInt("TRACKLINE_COUNTDOWN_BEATS", 4),
		PreviewInterval: time.Duration(envInt("TRACKLINE_PREVIEW_MS", 500)) * time.Millisecond,
		ElapsedInterval: time.Duration(envInt("TRACKLINE_ELAPSED_MS", 100)) * time.Millisecond,
		StopTimeout:     time.Duration(envInt("TRACKLINE_STOP_TIMEOUT_MS", 2000)) * time.Millisecond,
		PreviewLength:   envInt("TRACKLINE_PREVIEW_LENGTH", 128),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
