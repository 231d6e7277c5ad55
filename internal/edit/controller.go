// Package edit implements direct-manipulation editing of clips: pointer
// drags for move and resize, plus one-shot split, duplicate and remove
// commands. It is input-system agnostic: a UI layer feeds it abstract
// pointer x coordinates, so the same logic runs under any toolkit or a
// headless test harness.
package edit

import (
	"sync"

	"github.com/loopcraft/trackline/internal/song"
	"github.com/loopcraft/trackline/internal/timemath"
)

// MinClipDuration is the smallest duration a resize may leave behind,
// in timeline time units.
const MinClipDuration = 0.25

// minSplitDuration is the smallest clip a split is permitted on.
const minSplitDuration = 0.5

// DragMode distinguishes what a pointer drag manipulates.
type DragMode int

const (
	DragMove DragMode = iota
	DragResizeLeft
	DragResizeRight
)

// Controller routes edit gestures to the song store and tracks the
// clip selection the context menu and keyboard operate on.
type Controller struct {
	store *song.Store

	mu            sync.Mutex
	selectedTrack string
	selectedClip  string
}

// NewController creates an edit controller over the store.
func NewController(store *song.Store) *Controller {
	return &Controller{store: store}
}

// Select marks a clip as the current selection.
func (c *Controller) Select(trackID, clipID string) {
	c.mu.Lock()
	c.selectedTrack = trackID
	c.selectedClip = clipID
	c.mu.Unlock()
}

// Selection returns the selected track and clip ids, or ok=false when
// nothing is selected.
func (c *Controller) Selection() (trackID, clipID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedTrack, c.selectedClip, c.selectedClip != ""
}

// ClearSelection drops the current selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selectedTrack = ""
	c.selectedClip = ""
	c.mu.Unlock()
}

// DragSession is one in-flight pointer drag: begin is implied by creation,
// Update recomputes the clip on every pointer move, End returns to idle.
type DragSession struct {
	ctrl    *Controller
	trackID string
	clipID  string
	mode    DragMode

	originX       float64
	originStart   float64
	originLength  float64
	beatWidth     float64
	done          bool
}

// BeginDrag starts a move or resize drag on a clip at pointer position x,
// with beatWidth pixels per time unit (see timemath.BeatWidth). Returns nil
// if the clip does not exist.
func (c *Controller) BeginDrag(trackID, clipID string, mode DragMode, x, zoom float64) *DragSession {
	clip, ok := c.store.Clip(trackID, clipID)
	if !ok {
		return nil
	}
	return &DragSession{
		ctrl:         c,
		trackID:      trackID,
		clipID:       clipID,
		mode:         mode,
		originX:      x,
		originStart:  clip.StartTime,
		originLength: clip.Duration,
		beatWidth:    timemath.BeatWidth(zoom),
	}
}

// Update applies the drag for the current pointer position x. Out-of-range
// results are silently clamped, never errors: start times floor at 0 and
// durations at MinClipDuration.
func (d *DragSession) Update(x float64) {
	if d == nil || d.done {
		return
	}
	delta := timemath.PixelsToBeats(x-d.originX, d.beatWidth)

	switch d.mode {
	case DragMove:
		start := d.originStart + delta
		if start < 0 {
			start = 0
		}
		d.ctrl.store.UpdateClip(d.trackID, d.clipID, song.ClipUpdate{StartTime: &start})

	case DragResizeLeft:
		// The right edge stays put: the start advances by delta and the
		// duration shrinks by the same delta. When the duration bottoms
		// out at the minimum the start is not re-adjusted to compensate.
		start := d.originStart + delta
		if start < 0 {
			start = 0
		}
		length := d.originLength - delta
		if length < MinClipDuration {
			length = MinClipDuration
		}
		d.ctrl.store.UpdateClip(d.trackID, d.clipID, song.ClipUpdate{
			StartTime: &start,
			Duration:  &length,
		})

	case DragResizeRight:
		length := d.originLength + delta
		if length < MinClipDuration {
			length = MinClipDuration
		}
		d.ctrl.store.UpdateClip(d.trackID, d.clipID, song.ClipUpdate{Duration: &length})
	}
}

// End finishes the drag. Further Update calls are ignored.
func (d *DragSession) End() {
	if d != nil {
		d.done = true
	}
}

// Split halves a clip in place and creates a second clip covering the
// remaining half, copying notes, sample url, volume and the effect vector
// (as an independent value). Clips at or below the minimum splittable
// duration are left untouched. Returns the new clip id, or "" on no-op.
func (c *Controller) Split(trackID, clipID string) string {
	clip, ok := c.store.Clip(trackID, clipID)
	if !ok || clip.Duration <= minSplitDuration {
		return ""
	}

	half := clip.Duration / 2
	c.store.UpdateClip(trackID, clipID, song.ClipUpdate{Duration: &half})

	return c.store.AddClip(trackID, song.Clip{
		StartTime:  clip.StartTime + half,
		Duration:   half,
		Type:       clip.Type,
		Instrument: clip.Instrument,
		Notes:      clip.Notes,
		SampleURL:  clip.SampleURL,
		Volume:     clip.Volume,
		Effects:    clip.Effects,
	})
}

// Duplicate creates a copy of the clip immediately after it, carrying the
// same fields a split copies. Returns the new clip id, or "" if the clip
// does not exist.
func (c *Controller) Duplicate(trackID, clipID string) string {
	clip, ok := c.store.Clip(trackID, clipID)
	if !ok {
		return ""
	}
	return c.store.AddClip(trackID, song.Clip{
		StartTime:  clip.StartTime + clip.Duration,
		Duration:   clip.Duration,
		Type:       clip.Type,
		Instrument: clip.Instrument,
		Notes:      clip.Notes,
		SampleURL:  clip.SampleURL,
		Volume:     clip.Volume,
		Effects:    clip.Effects,
	})
}

// Remove deletes a clip. If it was the current selection the selection is
// cleared.
func (c *Controller) Remove(trackID, clipID string) {
	c.store.RemoveClip(trackID, clipID)

	c.mu.Lock()
	if c.selectedClip == clipID {
		c.selectedTrack = ""
		c.selectedClip = ""
	}
	c.mu.Unlock()
}

// RemoveSelected deletes whichever clip is currently selected, locating it
// by id across all tracks (the keyboard delete path). No-op when nothing
// is selected or the clip is already gone.
func (c *Controller) RemoveSelected() {
	c.mu.Lock()
	clipID := c.selectedClip
	c.mu.Unlock()
	if clipID == "" {
		return
	}
	if _, trackID, ok := c.store.FindClip(clipID); ok {
		c.Remove(trackID, clipID)
		return
	}
	c.ClearSelection()
}
