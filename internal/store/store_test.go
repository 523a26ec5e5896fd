package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(zerolog.Nop(), dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetUpsert(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, t.TempDir())

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}
	if err := s.Put(ctx, "k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "k", "two"); err != nil {
		t.Fatal(err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "two" {
		t.Errorf("Get = %q %v %v", v, found, err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tl := timeline.New(zerolog.Nop(), timeline.DefaultOptions())
	tl.SetDuration(60)
	tl.AddTrack(timeline.TrackAudio)
	tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text2", Start: 1, End: 4,
		TextProps: clips.TextProps{Text: "hello"}})
	tl.SetTimelineHeight(300)

	s := openStore(t, dir)
	if err := s.SaveState(ctx, tl.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLayout(ctx, tl.LayoutPrefs()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2 := openStore(t, dir)
	st, err := s2.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := s2.LoadLayout(ctx)
	if err != nil {
		t.Fatal(err)
	}

	restored := timeline.New(zerolog.Nop(), timeline.DefaultOptions())
	restored.Restore(st)
	restored.ApplyLayout(layout)
	if restored.Duration() != 60 || len(restored.Clips()) != 1 || restored.Track("audio3") == nil {
		t.Errorf("restored duration=%v clips=%d tracks=%d", restored.Duration(), len(restored.Clips()), len(restored.Tracks()))
	}
	if restored.TimelineHeight() != 300 {
		t.Errorf("timeline height = %d", restored.TimelineHeight())
	}
}

func TestMalformedRecordYieldsDefaults(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, t.TempDir())
	if err := s.Put(ctx, KeyEditor, "{not json"); err != nil {
		t.Fatal(err)
	}
	st, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.Duration != 0 || st.Clips != nil {
		t.Errorf("state = %+v, want zero", st)
	}

	tl := timeline.New(zerolog.Nop(), timeline.DefaultOptions())
	tl.Restore(st)
	if tl.Duration() != 90 || len(tl.Tracks()) != 8 {
		t.Errorf("defaults not applied: duration=%v tracks=%d", tl.Duration(), len(tl.Tracks()))
	}
}

func TestSecondOpenIsLocked(t *testing.T) {
	dir := t.TempDir()
	openStore(t, dir)
	_, err := Open(zerolog.Nop(), dir)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, t.TempDir())
	if err := s.SaveLayout(ctx, timeline.Layout{TimelineHeight: 400}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if l, _ := s.LoadLayout(ctx); l.TimelineHeight != 0 {
		t.Errorf("layout survived reset: %+v", l)
	}
}
