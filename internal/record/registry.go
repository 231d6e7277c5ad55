package record

import "sync"

// Registry tracks which tracks have an active recording session. The UI
// disables the record control for busy tracks; starting a second session
// on the same track is refused outright, never queued.
type Registry struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]bool)}
}

// TryAcquire marks the track as recording. Returns false if it already is.
func (r *Registry) TryAcquire(trackID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[trackID] {
		return false
	}
	r.active[trackID] = true
	return true
}

// Release clears the track's recording flag.
func (r *Registry) Release(trackID string) {
	r.mu.Lock()
	delete(r.active, trackID)
	r.mu.Unlock()
}

// IsRecording reports whether the track has an active session.
func (r *Registry) IsRecording(trackID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[trackID]
}
