package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

func TestParseTimings(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"spaces", " 0, 0.5 ,1.25", []float64{0, 0.5, 1.25}, false},
		{"bad", "0,x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimings(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRenderLanes(t *testing.T) {
	tl := timeline.New(zerolog.Nop(), timeline.DefaultOptions())
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 45})

	out := renderLanes(tl, 20)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(tl.Tracks())+1 {
		t.Fatalf("got %d lines, want ruler plus %d lanes", len(lines), len(tl.Tracks()))
	}
	var video string
	for _, l := range lines {
		if strings.Contains(l, "BG Video") {
			video = l
		}
	}
	if got := strings.Count(video, "█"); got != 9 {
		t.Errorf("video lane has %d filled cells, want 9 (one under the playhead)\n%s", got, video)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Name"}, [][]string{{"1"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "ID") || !strings.Contains(out, "1") {
		t.Errorf("table missing content:\n%s", out)
	}
}
