package timeline

import (
	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/pkg/util"
)

// State is the persisted editor record. Live media handles on clips are
// dropped by their json tags.
type State struct {
	Format          Format        `json:"format"`
	Duration        float64       `json:"duration"`
	PreviewScale    float64       `json:"previewScale"`
	ShowProgressBar bool          `json:"showProgressBar"`
	Tracks          []*Track      `json:"tracks"`
	NextTrackID     int           `json:"nextTrackId"`
	Clips           []*clips.Clip `json:"clips"`
	ProjectID       string        `json:"projectId,omitempty"`
}

// Layout holds window layout preferences, stored apart from the project.
type Layout struct {
	TimelineHeight int     `json:"timelineHeight"`
	PreviewScale   float64 `json:"previewScale"`
}

// Snapshot copies the persistent part of the timeline.
func (tl *Timeline) Snapshot() State {
	all := tl.clips.All()
	cs := make([]*clips.Clip, len(all))
	for i, c := range all {
		cs[i] = c.Clone()
	}
	return State{
		Format:          tl.format,
		Duration:        tl.duration,
		PreviewScale:    tl.previewScale,
		ShowProgressBar: tl.showProgressBar,
		Tracks:          cloneTracks(tl.tracks),
		NextTrackID:     tl.nextTrackID,
		Clips:           cs,
		ProjectID:       tl.projectID,
	}
}

// Restore loads a persisted record. Missing pieces fall back to defaults,
// so a zero State yields a fresh timeline.
func (tl *Timeline) Restore(s State) {
	tl.resetState()
	if s.Format == FormatVertical || s.Format == FormatHorizontal {
		tl.format = s.Format
	}
	if s.Duration > 0 {
		tl.duration = util.Clamp(s.Duration, tl.opts.MinDuration, tl.opts.MaxDuration)
	}
	if s.PreviewScale > 0 {
		tl.previewScale = util.Clamp(s.PreviewScale, minPreviewScale, maxPreviewScale)
	}
	tl.showProgressBar = s.ShowProgressBar
	if len(s.Tracks) > 0 {
		tracks := make([]*Track, 0, len(s.Tracks))
		for _, t := range s.Tracks {
			if t != nil && t.ID != "" {
				cp := *t
				tracks = append(tracks, &cp)
			}
		}
		if len(tracks) > 0 {
			tl.tracks = tracks
		}
	}
	if s.NextTrackID > 0 {
		tl.nextTrackID = s.NextTrackID
	}
	for _, c := range s.Clips {
		if c != nil {
			c.Track = NormalizeTrackID(c.Track)
		}
	}
	tl.clips.Replace(s.Clips)
	tl.projectID = s.ProjectID
	tl.logger.Debug().
		Int("tracks", len(tl.tracks)).
		Int("clips", tl.clips.Len()).
		Float64("duration", tl.duration).
		Msg("restored state")
}

// LayoutPrefs returns the layout record.
func (tl *Timeline) LayoutPrefs() Layout {
	return Layout{TimelineHeight: tl.timelineHeight, PreviewScale: tl.previewScale}
}

// ApplyLayout restores layout preferences without notifying.
func (tl *Timeline) ApplyLayout(l Layout) {
	if l.TimelineHeight > 0 {
		tl.timelineHeight = l.TimelineHeight
	}
	if l.PreviewScale > 0 {
		tl.previewScale = util.Clamp(l.PreviewScale, minPreviewScale, maxPreviewScale)
	}
}
