package timeline

import (
	"testing"

	"github.com/keagan/reelforge/internal/clips"
)

func TestGestureMoveCommitsOnce(t *testing.T) {
	tl := newTestTimeline(t)
	c := addVideo(tl, 10, 20)

	var changes []Change
	tl.OnChange(func(ch Change) { changes = append(changes, ch) })

	g := NewGesture(tl)
	var entered, exited bool
	g.OnEnter = func(GestureKind) { entered = true }
	g.OnExit = func(_ GestureKind, committed bool) { exited = committed }

	if !g.Begin(GestureMove, c.ID, 100) {
		t.Fatal("Begin returned false")
	}
	if g.Begin(GestureMove, c.ID, 0) {
		t.Error("second Begin while dragging should fail")
	}
	g.Move(150, 0) // +5s at 10 px/s
	if c.Start != 15 || c.End != 25 {
		t.Errorf("after move [%v,%v), want [15,25)", c.Start, c.End)
	}
	g.Move(-1000, 0)
	if c.Start != 0 || c.End != 10 {
		t.Errorf("after move left [%v,%v), want [0,10)", c.Start, c.End)
	}
	g.End()

	if !entered || !exited || g.Active() {
		t.Errorf("hooks entered=%v exited=%v active=%v", entered, exited, g.Active())
	}
	persistent := 0
	for _, ch := range changes {
		if ch.Persistent() {
			persistent++
		}
	}
	if persistent != 1 || changes[len(changes)-1] != ChangeClips {
		t.Errorf("changes = %v, want one persistent commit at the end", changes)
	}

	g.Move(500, 0)
	if c.Start != 0 {
		t.Error("Move while idle should be ignored")
	}
}

func TestGestureResize(t *testing.T) {
	tl := newTestTimeline(t)
	tl.SetZoom(2)
	c := addVideo(tl, 10, 20)
	g := NewGesture(tl)

	g.Begin(GestureResizeRight, c.ID, 0)
	g.Move(-1000, 0)
	g.End()
	if c.End != 10.1 {
		t.Errorf("end = %v, want 10.1", c.End)
	}

	g.Begin(GestureResizeLeft, c.ID, 0)
	g.Move(-40, 0) // -2s at 20 px/s
	g.Leave()
	if c.Start != 8 || g.Active() {
		t.Errorf("start = %v active = %v", c.Start, g.Active())
	}
}

func TestGestureOverlayClampsAndLeaveDoesNotCommit(t *testing.T) {
	tl := newTestTimeline(t)
	o := tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 0, End: 3,
		TextProps: clips.TextProps{Text: "hi", PosX: 50, PosY: 50}})

	var commits int
	tl.OnChange(func(ch Change) {
		if ch == ChangeClips {
			commits++
		}
	})

	g := NewGesture(tl)
	if g.BeginOverlay(o.ID, 500, 500, 0, 1920) {
		t.Error("zero frame width should be refused")
	}
	g.BeginOverlay(o.ID, 540, 960, 1080, 1920)
	g.Move(540+108, 960) // +10%
	if o.PosX != 60 || o.PosY != 50 {
		t.Errorf("pos = (%v, %v), want (60, 50)", o.PosX, o.PosY)
	}
	g.Move(0, 5000)
	if o.PosX != 5 || o.PosY != 95 {
		t.Errorf("pos = (%v, %v), want clamped (5, 95)", o.PosX, o.PosY)
	}
	g.Leave()
	if commits != 0 {
		t.Errorf("overlay leave committed %d times", commits)
	}

	g.BeginOverlay(o.ID, 0, 0, 1080, 1920)
	g.End()
	if commits != 1 {
		t.Errorf("overlay release should commit, got %d", commits)
	}
}
