package pipeline

import (
	"context"
	"image"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/store"
	"github.com/keagan/reelforge/internal/timeline"
)

func newSession(t *testing.T, st *store.Store) *Pipeline {
	t.Helper()
	p, err := New(context.Background(), zerolog.Nop(), config.Default(), Options{
		Store: st,
		Rand:  rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestEditsPersistAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(zerolog.Nop(), dir)
	if err != nil {
		t.Fatal(err)
	}
	p := newSession(t, st)
	p.Timeline().SetDuration(42)
	p.Timeline().AddTextOverlay("persist me")
	p.Timeline().SetTimelineHeight(333)
	if err := p.Err(); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	st2, err := store.Open(zerolog.Nop(), dir)
	if err != nil {
		t.Fatal(err)
	}
	p2 := newSession(t, st2)
	defer p2.Close()
	tl := p2.Timeline()
	if tl.Duration() != 42 || len(tl.Clips()) != 1 || tl.Clips()[0].Text != "persist me" {
		t.Errorf("restored duration=%v clips=%d", tl.Duration(), len(tl.Clips()))
	}
	if tl.TimelineHeight() != 333 {
		t.Errorf("timeline height = %d", tl.TimelineHeight())
	}
}

func TestLiveChangesRenderWithoutPersisting(t *testing.T) {
	p := newSession(t, nil)
	var frames int
	var changes []timeline.Change
	p.OnFrame = func(*image.RGBA) { frames++ }
	p.OnChange = func(c timeline.Change) { changes = append(changes, c) }

	c := p.Timeline().AddTextOverlay("drag me")
	g := timeline.NewGesture(p.Timeline())
	g.Begin(timeline.GestureMove, c.ID, 0)
	g.Move(50, 0)
	g.End()

	if frames != len(changes) || frames == 0 {
		t.Errorf("frames=%d changes=%v", frames, changes)
	}
	if got := p.Timeline().Clip(c.ID).Start; got != 5 {
		t.Errorf("start after drag = %v, want 5", got)
	}
	if changes[len(changes)-1] != timeline.ChangeClips {
		t.Errorf("last change = %v, want clips", changes[len(changes)-1])
	}
}

func TestImportPlan(t *testing.T) {
	p := newSession(t, nil)
	p.Timeline().AddTextOverlay("old")

	n := p.ImportPlan("0:00-0:08 – Hook\nOverlay (big): \"NEW\"\n0:08-0:20 – Body\nBackground (sora): city\n")
	if n != 2 {
		t.Fatalf("segments = %d", n)
	}
	tl := p.Timeline()
	if tl.Duration() != 20 {
		t.Errorf("duration = %v, want 20", tl.Duration())
	}
	for _, c := range tl.Clips() {
		if c.Text == "old" {
			t.Error("plan import should replace existing clips")
		}
	}

	before := len(tl.Clips())
	if p.ImportPlan("   ") != 0 || len(tl.Clips()) != before {
		t.Error("blank plan should change nothing")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	p := newSession(t, nil)
	p.Timeline().AddTransition("fade")
	if err := p.ExportProject(path); err != nil {
		t.Fatal(err)
	}

	q := newSession(t, nil)
	if err := q.ImportProject(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if len(q.Timeline().Clips()) != 1 || q.Timeline().ProjectID() != p.Timeline().ProjectID() {
		t.Errorf("imported %d clips, id %q", len(q.Timeline().Clips()), q.Timeline().ProjectID())
	}
}

func TestGenerateCaptions(t *testing.T) {
	p := newSession(t, nil)
	c, err := p.GenerateCaptions(context.Background(), CaptionRequest{
		Transcript:    "buy one get one free",
		AudioDuration: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != clips.TypeCaption || len(c.Words) != 5 || c.End != 5 {
		t.Errorf("caption clip = %+v", c)
	}
	if p.Timeline().Selected() != c {
		t.Error("caption clip should be selected")
	}

	if _, err := p.GenerateCaptions(context.Background(), CaptionRequest{Transcript: " "}); err == nil {
		t.Error("empty transcript should fail")
	}
}

func TestGenerateCaptionsUsesSyncMarks(t *testing.T) {
	p := newSession(t, nil)
	s := p.Captions()
	s.Start("a b")
	s.Mark(0.5)
	s.Mark(1.5)
	c, err := p.GenerateCaptions(context.Background(), CaptionRequest{Transcript: "a b", AudioDuration: 4})
	if err != nil {
		t.Fatal(err)
	}
	if c.Words[0].Start != 0.5 || c.Words[1].Start != 1.5 || c.Words[1].End != 4 {
		t.Errorf("words = %+v", c.Words)
	}
}

func TestMediaWithoutFFmpeg(t *testing.T) {
	p := newSession(t, nil)
	c := p.Timeline().AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 5})
	if err := p.BindVideo(context.Background(), c.ID, "x.mp4"); err == nil {
		t.Error("BindVideo should fail without ffmpeg")
	}
	if err := p.BindAudio(context.Background(), c.ID, "x.mp3"); err != ErrNoFFmpeg {
		t.Errorf("BindAudio err = %v", err)
	}
}

func TestRenderAt(t *testing.T) {
	p := newSession(t, nil)
	img := p.RenderAt(0, 0.1)
	if img.Bounds().Dx() != 108 || img.Bounds().Dy() != 192 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if p.Frame() == nil {
		t.Error("preview frame should be rendered on creation")
	}
}
