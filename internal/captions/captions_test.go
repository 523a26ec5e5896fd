package captions

import (
	"math"
	"testing"

	"github.com/keagan/reelforge/internal/clips"
)

func TestGenerateEvenSplit(t *testing.T) {
	words := Generate("  one two\tthree\nfour ", nil, 8)
	if len(words) != 4 {
		t.Fatalf("got %d words", len(words))
	}
	for i, w := range words {
		if w.Index != i || w.Start != float64(i)*2 || w.End != float64(i+1)*2 {
			t.Errorf("word %d = %+v", i, w)
		}
	}
}

func TestGenerateDefaultsDuration(t *testing.T) {
	words := Generate("a b c", nil, 0)
	if got := words[len(words)-1].End; got != DefaultAudioDuration {
		t.Errorf("last end = %v", got)
	}
}

func TestGenerateSynced(t *testing.T) {
	tests := []struct {
		name    string
		timings []float64
		want    []clips.Word
	}{
		{
			name:    "complete marks",
			timings: []float64{0.5, 1.2, 2},
			want: []clips.Word{
				{Word: "a", Start: 0.5, End: 1.2, Index: 0},
				{Word: "b", Start: 1.2, End: 2, Index: 1},
				{Word: "c", Start: 2, End: 6, Index: 2},
			},
		},
		{
			name:    "too few marks falls back to even split",
			timings: []float64{0.5},
			want: []clips.Word{
				{Word: "a", Start: 0, End: 2, Index: 0},
				{Word: "b", Start: 2, End: 4, Index: 1},
				{Word: "c", Start: 4, End: 6, Index: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate("a b c", tt.timings, 6)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d", len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("word %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	if got := Generate("   ", nil, 10); got != nil {
		t.Errorf("got %v", got)
	}
}

func TestNewCaptionClip(t *testing.T) {
	c := NewCaptionClip(Generate("hi there", nil, 4), Style{Name: "karaoke"}, 4)
	if c.Type != clips.TypeCaption || c.Track != "captions" || c.End != 4 {
		t.Errorf("clip = %+v", c)
	}
	if c.Style != "karaoke" || c.FontSize != DefaultFontSize || c.HighlightColor != "#FFE135" || c.WordsPerScreen != 4 {
		t.Errorf("caption props = %+v %+v", c.TextProps, c.CaptionProps)
	}
	v := NewVoiceoverClip("vo.mp3", 4)
	if v.Track != "voiceover" || v.AudioSrc != "vo.mp3" {
		t.Errorf("voiceover = %+v", v)
	}
}

func TestSyncSession(t *testing.T) {
	var s SyncSession
	s.Start("one two three")
	if !s.Active() {
		t.Fatal("session should be active")
	}
	if w, next := s.Current(); w != "one" || len(next) != 2 {
		t.Errorf("current = %q %v", w, next)
	}
	s.Mark(0.2)
	s.Mark(0.9)
	s.Mark(1.7)
	if s.Active() {
		t.Error("session should end after the last word")
	}
	s.Mark(3)
	if m, total := s.Progress(); m != 3 || total != 3 {
		t.Errorf("progress = %d/%d", m, total)
	}
	words := Generate("one two three", s.Timings(), 3)
	if words[1].Start != 0.9 || words[2].End != 3 {
		t.Errorf("words = %+v", words)
	}
}

func TestSyncStopSpreadsRemaining(t *testing.T) {
	var s SyncSession
	s.Start("a b c")
	s.Mark(1)
	s.Stop(7)
	got := s.Timings()
	want := []float64{1, 3, 5}
	if len(got) != 3 {
		t.Fatalf("timings = %v", got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("timings = %v, want %v", got, want)
		}
	}
}
