package gui

import (
	"context"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/timeline"
)

func newTestLanes(t *testing.T) (*lanesWidget, *timeline.Timeline, *clips.Clip, *float64) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	tl := timeline.New(zerolog.Nop(), timeline.DefaultOptions())
	c := tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 10})
	seek := new(float64)
	*seek = -1
	w := newLanesWidget(tl, timeline.NewGesture(tl), func(at float64) { *seek = at })
	w.Resize(w.MinSize())
	return w, tl, c, seek
}

// video1 is the first lane; its centre line sits at y = 38.
const videoLaneY = rulerHeight + laneHeight/2

func TestLaneHit(t *testing.T) {
	w, _, c, _ := newTestLanes(t)
	tests := []struct {
		name  string
		pos   fyne.Position
		clip  bool
		kind  timeline.GestureKind
		ruler bool
	}{
		{"body", fyne.NewPos(150, videoLaneY), true, timeline.GestureMove, false},
		{"left edge", fyne.NewPos(102, videoLaneY), true, timeline.GestureResizeLeft, false},
		{"right edge", fyne.NewPos(198, videoLaneY), true, timeline.GestureResizeRight, false},
		{"empty lane", fyne.NewPos(400, videoLaneY), false, 0, false},
		{"ruler", fyne.NewPos(150, 5), false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := w.hit(tt.pos)
			if h.ruler != tt.ruler {
				t.Fatalf("ruler = %v, want %v", h.ruler, tt.ruler)
			}
			if (h.clip != nil) != tt.clip {
				t.Fatalf("clip = %v, want hit %v", h.clip, tt.clip)
			}
			if tt.clip && (h.clip.ID != c.ID || h.kind != tt.kind) {
				t.Errorf("hit %d kind %v, want %d kind %v", h.clip.ID, h.kind, c.ID, tt.kind)
			}
		})
	}
}

func TestLaneTapSeeksOnRuler(t *testing.T) {
	w, tl, _, seek := newTestLanes(t)
	w.Tapped(&fyne.PointEvent{Position: fyne.NewPos(headerWidth+250, 5)})
	if *seek != 25 {
		t.Errorf("seek = %v, want 25", *seek)
	}

	tl.ClearSelection()
	w.Tapped(&fyne.PointEvent{Position: fyne.NewPos(150, videoLaneY)})
	if tl.Selected() == nil {
		t.Error("tapping a clip should select it")
	}

	w.Tapped(&fyne.PointEvent{Position: fyne.NewPos(20, videoLaneY)})
	if w.selectedTrack != "video1" {
		t.Errorf("selected track = %q", w.selectedTrack)
	}
}

func TestLaneDragMovesClip(t *testing.T) {
	w, tl, c, _ := newTestLanes(t)
	var changes []timeline.Change
	tl.OnChange(func(ch timeline.Change) { changes = append(changes, ch) })

	drag := func(x, dx float32) {
		w.Dragged(&fyne.DragEvent{
			PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, videoLaneY)},
			Dragged:    fyne.NewDelta(dx, 0),
		})
	}
	drag(160, 10)
	drag(200, 40)
	if c.Start != 5 || c.End != 15 {
		t.Fatalf("during drag clip = [%v, %v), want [5, 15)", c.Start, c.End)
	}
	w.DragEnd()

	if changes[len(changes)-1] != timeline.ChangeClips {
		t.Errorf("last change = %v, want a committed clips change", changes[len(changes)-1])
	}
	for _, ch := range changes[:len(changes)-1] {
		if ch.Persistent() {
			t.Errorf("intermediate change %v should not persist", ch)
		}
	}
}

func TestLaneMouseOutCommits(t *testing.T) {
	w, _, c, _ := newTestLanes(t)
	w.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(195, videoLaneY)},
		Dragged:    fyne.NewDelta(-4, 0),
	})
	if !w.gesture.Active() {
		t.Fatal("drag did not start")
	}
	w.MouseOut()
	if w.gesture.Active() {
		t.Error("leaving the lanes should end the drag")
	}
	if math.Abs(c.End-9.6) > 1e-9 {
		t.Errorf("end = %v", c.End)
	}
}

func TestRulerStep(t *testing.T) {
	tests := []struct {
		pps  float64
		want float64
	}{
		{100, 1},
		{10, 10},
		{1, 60},
		{0.1, 120},
	}
	for _, tt := range tests {
		if got := rulerStep(tt.pps); got != tt.want {
			t.Errorf("rulerStep(%v) = %v, want %v", tt.pps, got, tt.want)
		}
	}
}

func TestPreviewMapsToFrame(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	p, err := pipeline.New(context.Background(), zerolog.Nop(), config.Default(), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })

	w := newPreviewWidget(p, timeline.NewGesture(p.Timeline()))
	w.Resize(fyne.NewSize(540, 480))

	// 1080x1920 fits at 0.25 with 135px bars left and right
	x, y, ok := w.toFrame(fyne.NewPos(270, 240))
	if !ok || math.Abs(x-540) > 1e-6 || math.Abs(y-960) > 1e-6 {
		t.Errorf("centre maps to (%v, %v, %v)", x, y, ok)
	}
	if _, _, ok := w.toFrame(fyne.NewPos(10, 240)); ok {
		t.Error("letterbox bar should be outside the frame")
	}
}

func TestPreviewDragRepositionsOverlay(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	p, err := pipeline.New(context.Background(), zerolog.Nop(), config.Default(), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	tl := p.Timeline()
	o := tl.AddTextOverlay("HELLO")

	w := newPreviewWidget(p, timeline.NewGesture(tl))
	w.Resize(fyne.NewSize(540, 480))

	// frame centre is (270, 240); move 27px right, which is 108 frame units or 10%
	w.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(297, 240)},
		Dragged:    fyne.NewDelta(27, 0),
	})
	w.MouseOut()
	if math.Abs(o.PosX-60) > 1e-6 || o.PosY != 50 {
		t.Errorf("overlay at (%v, %v), want (60, 50)", o.PosX, o.PosY)
	}
}
