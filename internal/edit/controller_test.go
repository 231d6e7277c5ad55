package edit

import (
	"testing"

	"github.com/loopcraft/trackline/internal/song"
	"github.com/loopcraft/trackline/internal/timemath"
)

func newClip(t *testing.T, s *song.Store, start, dur float64) (trackID, clipID string) {
	t.Helper()
	trackID = s.AddTrack("t", "synth", "")
	clipID = s.AddClip(trackID, song.Clip{StartTime: start, Duration: dur})
	return trackID, clipID
}

// --- Move ---

func TestMoveRight(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 2, 3)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragMove, 100, 1)
	d.Update(100 + 4*bw) // +4 time units
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 6 {
		t.Errorf("StartTime = %v, want 6", got.StartTime)
	}
	if got.Duration != 3 {
		t.Errorf("Duration = %v, want unchanged 3", got.Duration)
	}
}

func TestMoveClampsAtZero(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 5, 2)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragMove, 0, 1)
	d.Update(-10 * bw) // -10 time units against startTime 5
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 0 {
		t.Errorf("StartTime = %v, want clamp to 0", got.StartTime)
	}
}

func TestMoveUsesDragOrigin(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 1, 2)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragMove, 50, 1)
	d.Update(50 + 1*bw)
	d.Update(50 + 2*bw) // deltas are from the origin, not cumulative

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 3 {
		t.Errorf("StartTime = %v, want 3", got.StartTime)
	}
}

func TestUpdateAfterEndIgnored(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 1, 2)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragMove, 0, 1)
	d.End()
	d.Update(5 * bw)

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 1 {
		t.Errorf("StartTime = %v, want unchanged 1 after End", got.StartTime)
	}
}

func TestBeginDragUnknownClip(t *testing.T) {
	s := song.NewStore()
	c := NewController(s)
	if d := c.BeginDrag("no", "pe", DragMove, 0, 1); d != nil {
		t.Error("BeginDrag on unknown clip should return nil")
	}
	// nil session methods must not panic
	var d *DragSession
	d.Update(10)
	d.End()
}

// --- Resize ---

func TestResizeRightGrows(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 2, 3)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragResizeRight, 0, 1)
	d.Update(2 * bw)
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 2 || got.Duration != 5 {
		t.Errorf("Clip = start %v dur %v, want 2/5", got.StartTime, got.Duration)
	}
}

func TestResizeRightClampsAtMinimum(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 2, 3)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragResizeRight, 0, 1)
	d.Update(-1000 * bw)
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.Duration != MinClipDuration {
		t.Errorf("Duration = %v, want clamp to %v", got.Duration, MinClipDuration)
	}
}

func TestResizeLeftKeepsRightEdge(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 4, 6)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragResizeLeft, 0, 1)
	d.Update(2 * bw) // left edge moves right by 2
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 6 || got.Duration != 4 {
		t.Errorf("Clip = start %v dur %v, want 6/4", got.StartTime, got.Duration)
	}
	if got.StartTime+got.Duration != 10 {
		t.Errorf("Right edge moved: %v, want 10", got.StartTime+got.Duration)
	}
}

func TestResizeLeftDurationClampWithoutStartReclamp(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 4, 1)
	c := NewController(s)

	// Drag the left edge 0.9 units right: duration would go to 0.1, which
	// clamps to the minimum, but startTime still advances the full 0.9.
	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragResizeLeft, 0, 1)
	d.Update(0.9 * bw)
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 4.9 {
		t.Errorf("StartTime = %v, want 4.9 (not re-clamped)", got.StartTime)
	}
	if got.Duration != MinClipDuration {
		t.Errorf("Duration = %v, want clamp to %v", got.Duration, MinClipDuration)
	}
}

func TestResizeLeftClampsStartAtZero(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 1, 2)
	c := NewController(s)

	bw := timemath.BeatWidth(1)
	d := c.BeginDrag(tid, cid, DragResizeLeft, 0, 1)
	d.Update(-5 * bw)
	d.End()

	got, _ := s.Clip(tid, cid)
	if got.StartTime != 0 {
		t.Errorf("StartTime = %v, want clamp to 0", got.StartTime)
	}
	if got.Duration != 7 {
		t.Errorf("Duration = %v, want 7 (grown by the full delta)", got.Duration)
	}
}

// --- Split ---

func TestSplitHalves(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 3, 10)
	c := NewController(s)

	newID := c.Split(tid, cid)
	if newID == "" {
		t.Fatal("Split returned no new clip")
	}

	orig, _ := s.Clip(tid, cid)
	second, _ := s.Clip(tid, newID)
	if orig.Duration != 5 {
		t.Errorf("Original duration = %v, want 5", orig.Duration)
	}
	if second.StartTime != 8 || second.Duration != 5 {
		t.Errorf("Second half = start %v dur %v, want 8/5", second.StartTime, second.Duration)
	}
}

func TestSplitCopiesFieldsWithoutAliasing(t *testing.T) {
	s := song.NewStore()
	tid := s.AddTrack("t", "synth", "")
	cid := s.AddClip(tid, song.Clip{
		StartTime: 0,
		Duration:  4,
		Notes:     []string{"C4", "E4"},
		SampleURL: "takes/a.wav",
		Volume:    0.6,
		Effects:   song.EffectSettings{Reverb: 0.3},
	})
	c := NewController(s)

	newID := c.Split(tid, cid)
	second, _ := s.Clip(tid, newID)
	if second.SampleURL != "takes/a.wav" || second.Volume != 0.6 {
		t.Errorf("Copied fields wrong: %+v", second)
	}
	if len(second.Notes) != 2 || second.Notes[0] != "C4" {
		t.Errorf("Notes not copied: %v", second.Notes)
	}
	if second.Effects.Reverb != 0.3 {
		t.Errorf("Effects not copied: %+v", second.Effects)
	}

	// Effects must be independent between the halves.
	fx := song.EffectSettings{Reverb: 0.9}
	s.UpdateClip(tid, newID, song.ClipUpdate{Effects: &fx})
	orig, _ := s.Clip(tid, cid)
	if orig.Effects.Reverb != 0.3 {
		t.Errorf("Split halves share effects: original reverb = %v", orig.Effects.Reverb)
	}
}

func TestSplitBelowMinimumIsNoop(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 0, 0.5)
	c := NewController(s)

	if newID := c.Split(tid, cid); newID != "" {
		t.Errorf("Split on 0.5-unit clip returned %q, want no-op", newID)
	}
	got, _ := s.Clip(tid, cid)
	if got.Duration != 0.5 {
		t.Errorf("Duration changed on no-op split: %v", got.Duration)
	}
	if len(s.Clips(tid)) != 1 {
		t.Errorf("Clip count = %d, want 1", len(s.Clips(tid)))
	}
}

// --- Duplicate ---

func TestDuplicatePlacement(t *testing.T) {
	s := song.NewStore()
	tid, cid := newClip(t, s, 2, 3)
	c := NewController(s)

	newID := c.Duplicate(tid, cid)
	if newID == "" {
		t.Fatal("Duplicate returned no new clip")
	}
	dup, _ := s.Clip(tid, newID)
	if dup.StartTime != 5 || dup.Duration != 3 {
		t.Errorf("Duplicate = start %v dur %v, want 5/3", dup.StartTime, dup.Duration)
	}
}

// --- Selection / remove ---

func TestRemoveSelectedScansTracks(t *testing.T) {
	s := song.NewStore()
	s.AddTrack("other", "synth", "")
	tid, cid := newClip(t, s, 0, 1)
	c := NewController(s)

	c.Select(tid, cid)
	c.RemoveSelected()

	if _, ok := s.Clip(tid, cid); ok {
		t.Error("Selected clip not removed")
	}
	if _, _, ok := c.Selection(); ok {
		t.Error("Selection not cleared after remove")
	}
}

func TestRemoveClearsSelectionOnlyForSelectedClip(t *testing.T) {
	s := song.NewStore()
	tid, a := newClip(t, s, 0, 1)
	b := s.AddClip(tid, song.Clip{StartTime: 2, Duration: 1})
	c := NewController(s)

	c.Select(tid, a)
	c.Remove(tid, b)
	if _, clipID, ok := c.Selection(); !ok || clipID != a {
		t.Errorf("Selection = %q/%v, want still %q", clipID, ok, a)
	}

	c.Remove(tid, a)
	if _, _, ok := c.Selection(); ok {
		t.Error("Selection survived removal of selected clip")
	}
}

func TestRemoveSelectedNothingSelected(t *testing.T) {
	s := song.NewStore()
	c := NewController(s)
	c.RemoveSelected() // must not panic
}
