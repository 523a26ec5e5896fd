package timeline

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/keagan/reelforge/internal/clips"
)

// TrackType groups tracks by the kind of clip they hold.
type TrackType string

const (
	TrackVideo   TrackType = "video"
	TrackOverlay TrackType = "overlay"
	TrackAudio   TrackType = "audio"
	TrackEffects TrackType = "effects"
	TrackCaption TrackType = "caption"
)

// Track is a named, typed, ranked lane. Order is the stacking rank for
// video and the lane position everywhere else.
type Track struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Type  TrackType `json:"type"`
	Order int       `json:"order"`
}

// Direction for ReorderTrack.
type Direction int

const (
	Up Direction = iota
	Down
)

// TrackTypeFor maps a clip type to the track type that hosts it.
func TrackTypeFor(t clips.Type) TrackType {
	switch t {
	case clips.TypeVideo:
		return TrackVideo
	case clips.TypeOverlay:
		return TrackOverlay
	case clips.TypeAudio:
		return TrackAudio
	case clips.TypeEffect:
		return TrackEffects
	case clips.TypeCaption:
		return TrackCaption
	}
	return ""
}

// DefaultTracks returns the seeded lane set of a fresh project.
func DefaultTracks() []*Track {
	return []*Track{
		{ID: "video1", Name: "BG Video", Type: TrackVideo, Order: 0},
		{ID: "video2", Name: "Overlay Vid", Type: TrackVideo, Order: 1},
		{ID: "text1", Name: "Text 1", Type: TrackOverlay, Order: 2},
		{ID: "text2", Name: "Text 2", Type: TrackOverlay, Order: 3},
		{ID: "captions", Name: "Captions", Type: TrackCaption, Order: 4},
		{ID: "voiceover", Name: "Voiceover", Type: TrackAudio, Order: 5},
		{ID: "audio1", Name: "Audio 1", Type: TrackAudio, Order: 6},
		{ID: "effects", Name: "FX", Type: TrackEffects, Order: 7},
	}
}

const defaultNextTrackID = 3

// legacyTrackIDs maps track identifiers written by older project files.
var legacyTrackIDs = map[string]string{
	"video":        "video1",
	"videoOverlay": "video2",
	"overlay1":     "text1",
	"overlay2":     "text2",
	"audio":        "audio1",
}

// NormalizeTrackID rewrites legacy identifiers to their current names.
func NormalizeTrackID(id string) string {
	if mapped, ok := legacyTrackIDs[id]; ok {
		return mapped
	}
	return id
}

var trackPrefixes = map[TrackType]string{
	TrackVideo:   "video",
	TrackOverlay: "text",
	TrackAudio:   "audio",
	TrackCaption: "captions",
	TrackEffects: "fx",
}

var trackLabels = map[TrackType]string{
	TrackVideo:   "video",
	TrackOverlay: "text",
	TrackAudio:   "audio",
	TrackCaption: "captions",
	TrackEffects: "effects",
}

func trackName(t TrackType, n int) string {
	return fmt.Sprintf("%s %d", cases.Title(language.English).String(trackLabels[t]), n)
}

// sortedTracks returns a copy ordered by ascending rank.
func sortedTracks(tracks []*Track) []*Track {
	out := make([]*Track, len(tracks))
	copy(out, tracks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func cloneTracks(tracks []*Track) []*Track {
	out := make([]*Track, len(tracks))
	for i, t := range tracks {
		cp := *t
		out[i] = &cp
	}
	return out
}
