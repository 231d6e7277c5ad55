package song

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes the song as JSON to path. The output is the external shape
// shared with the playback engine and sync backends.
func Save(s Song, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal song: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write song %s: %w", path, err)
	}
	return nil
}

// Load reads a song JSON file from path.
func Load(path string) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read song %s: %w", path, err)
	}
	var s Song
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse song %s: %w", path, err)
	}
	if s.Tempo <= 0 {
		return nil, fmt.Errorf("song %s: tempo must be positive, got %v", path, s.Tempo)
	}
	if s.TimeSignature[0] <= 0 {
		return nil, fmt.Errorf("song %s: invalid time signature %v", path, s.TimeSignature)
	}
	return &s, nil
}
