package playback

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

type fakeAudio struct {
	paused bool
	offset float64
	plays  int
}

func newFakeAudio() *fakeAudio { return &fakeAudio{paused: true} }

func (f *fakeAudio) Seek(offset float64) { f.offset = offset }
func (f *fakeAudio) Play()               { f.paused = false; f.plays++ }
func (f *fakeAudio) Pause()              { f.paused = true }
func (f *fakeAudio) Paused() bool        { return f.paused }

func setup(t *testing.T) (*timeline.Timeline, *Clock) {
	t.Helper()
	opts := timeline.DefaultOptions()
	opts.DefaultDuration = 20
	tl := timeline.New(zerolog.Nop(), opts)
	return tl, New(zerolog.Nop(), tl, DefaultOptions())
}

func TestTickAdvancesByWallTime(t *testing.T) {
	tl, c := setup(t)
	base := time.Unix(1000, 0)

	c.Play(base)
	c.Tick(base.Add(250 * time.Millisecond))
	c.Tick(base.Add(1 * time.Second))
	if math.Abs(tl.CurrentTime()-1) > 1e-9 {
		t.Errorf("time = %v, want 1", tl.CurrentTime())
	}

	c.Pause()
	if c.Tick(base.Add(5 * time.Second)) {
		t.Error("Tick while stopped should report false")
	}
	if math.Abs(tl.CurrentTime()-1) > 1e-9 {
		t.Errorf("stopped clock advanced to %v", tl.CurrentTime())
	}
}

func TestNeverPassesDuration(t *testing.T) {
	tl, c := setup(t)
	base := time.Unix(0, 0)
	var states []State
	c.OnStateChange = func(s State) { states = append(states, s) }

	c.Play(base)
	now := base
	for i := 0; i < 100 && c.Playing(); i++ {
		now = now.Add(333 * time.Millisecond)
		c.Tick(now)
		if tl.CurrentTime() > tl.Duration() {
			t.Fatalf("time %v beyond duration %v", tl.CurrentTime(), tl.Duration())
		}
	}
	if c.State() != Stopped || tl.CurrentTime() != 0 {
		t.Errorf("state %v time %v, want stopped at 0", c.State(), tl.CurrentTime())
	}
	if !reflect.DeepEqual(states, []State{Playing, Stopped}) {
		t.Errorf("transitions %v", states)
	}
}

func TestSeekClampsInEitherState(t *testing.T) {
	tl, c := setup(t)
	c.SkipBack()
	if tl.CurrentTime() != 0 {
		t.Errorf("skip back from 0 = %v", tl.CurrentTime())
	}
	c.SkipForward()
	c.Step(1)
	if tl.CurrentTime() != 6 {
		t.Errorf("time = %v, want 6", tl.CurrentTime())
	}
	c.Play(time.Unix(0, 0))
	c.Seek(500)
	if tl.CurrentTime() != 20 {
		t.Errorf("seek past end = %v, want 20", tl.CurrentTime())
	}
}

func TestAudioReconciliation(t *testing.T) {
	tl, c := setup(t)
	early, late := newFakeAudio(), newFakeAudio()
	tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 0, End: 2, Audio: early})
	tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 3, End: 6, Audio: late})

	base := time.Unix(0, 0)
	c.Play(base)
	if early.Paused() || !late.Paused() {
		t.Fatalf("at 0: early paused=%v late paused=%v", early.Paused(), late.Paused())
	}

	c.Tick(base.Add(3500 * time.Millisecond))
	if !early.Paused() || late.Paused() {
		t.Errorf("at 3.5: early paused=%v late paused=%v", early.Paused(), late.Paused())
	}
	if math.Abs(late.offset-0.5) > 1e-9 {
		t.Errorf("late offset = %v, want 0.5", late.offset)
	}

	// scrubbing while playing restarts in-range audio at the new offset
	plays := late.plays
	c.Seek(5)
	if late.plays != plays+1 || math.Abs(late.offset-2) > 1e-9 {
		t.Errorf("after seek plays=%d offset=%v", late.plays, late.offset)
	}

	c.Pause()
	if !late.Paused() {
		t.Error("pause should silence audio")
	}
}

func TestActiveSetSameAfterTickOrSeek(t *testing.T) {
	tl, c := setup(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 4})
	tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 2, End: 3})
	tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text2", Start: 3, End: 5})

	ids := func() []int {
		var out []int
		for _, cl := range tl.ActiveClips(tl.CurrentTime()) {
			out = append(out, cl.ID)
		}
		return out
	}

	base := time.Unix(0, 0)
	c.Play(base)
	c.Tick(base.Add(3 * time.Second))
	ticked := ids()
	c.Pause()

	c.Seek(0)
	c.Seek(3)
	if !reflect.DeepEqual(ticked, ids()) {
		t.Errorf("ticked %v, seeked %v", ticked, ids())
	}
	if !reflect.DeepEqual(ticked, []int{1, 3}) {
		t.Errorf("active at 3 = %v, want [1 3]", ticked)
	}
}

func TestDriveStopsOnFalse(t *testing.T) {
	n := 0
	err := Drive(context.Background(), time.Millisecond, func(time.Time) bool {
		n++
		return n < 3
	})
	if err != nil || n != 3 {
		t.Errorf("err=%v n=%d", err, n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Drive(ctx, time.Hour, func(time.Time) bool { return true }); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSharedHandleFollowsInRangeClip(t *testing.T) {
	tl, c := setup(t)
	h := newFakeAudio()
	tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 0, End: 4, Audio: h})
	tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 4, End: 8, Audio: h})

	base := time.Unix(0, 0)
	c.Play(base)
	for i := 1; i <= 10; i++ {
		c.Tick(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if h.Paused() || h.plays != 1 {
		t.Fatalf("at %v: paused=%v plays=%d, want playing once", tl.CurrentTime(), h.Paused(), h.plays)
	}

	// the copy starts the media over, so crossing into it re-seeks once
	c.Tick(base.Add(4500 * time.Millisecond))
	c.Tick(base.Add(4600 * time.Millisecond))
	if h.Paused() || h.plays != 2 || math.Abs(h.offset-0.5) > 1e-9 {
		t.Errorf("at %v: paused=%v plays=%d offset=%v", tl.CurrentTime(), h.Paused(), h.plays, h.offset)
	}
}

func TestSplitAudioPlaysThroughCut(t *testing.T) {
	tl, c := setup(t)
	h := newFakeAudio()
	src := tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 0, End: 10, Audio: h})
	second := tl.SplitClip(src.ID, 2)
	if second == nil || second.AudioOffset != 2 {
		t.Fatalf("second half = %+v", second)
	}

	c.Seek(1)
	base := time.Unix(0, 0)
	c.Play(base)
	for i := 1; i <= 20; i++ {
		c.Tick(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if h.Paused() || h.plays != 1 {
		t.Errorf("at %v: paused=%v plays=%d, want one uninterrupted play", tl.CurrentTime(), h.Paused(), h.plays)
	}

	c.Seek(4)
	if math.Abs(h.offset-4) > 1e-9 {
		t.Errorf("offset at 4 = %v, want 4", h.offset)
	}
}

func TestRemovedAudioStops(t *testing.T) {
	tests := []struct {
		name   string
		remove func(tl *timeline.Timeline, id int)
	}{
		{"delete", func(tl *timeline.Timeline, id int) { tl.DeleteClip(id) }},
		{"replace", func(tl *timeline.Timeline, id int) { tl.ReplaceClips(nil, 20) }},
		{"reset", func(tl *timeline.Timeline, id int) { tl.Reset() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, c := setup(t)
			h := newFakeAudio()
			cl := tl.AddClip(&clips.Clip{Type: clips.TypeAudio, Track: "audio1", Start: 0, End: 5, Audio: h})

			base := time.Unix(0, 0)
			c.Play(base)
			c.Tick(base.Add(500 * time.Millisecond))
			if h.Paused() {
				t.Fatal("audio should be playing")
			}
			tt.remove(tl, cl.ID)
			if !h.Paused() {
				t.Error("removing the clip should stop its audio")
			}
			h.paused = false
			c.Tick(base.Add(600 * time.Millisecond))
			if !h.Paused() {
				t.Error("the clock should stop a handle it no longer sees")
			}
		})
	}
}
