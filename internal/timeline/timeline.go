// Package timeline is the single source of truth for tracks, clips,
// duration, zoom and selection.
//
// Edits never fail: out-of-range times are clamped and operations without a
// valid target are logged at debug level and ignored. Every mutation is
// reported to the change listener, which is where persistence and re-rendering
// hook in.
package timeline

import (
	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/pkg/util"
)

// Format is the output aspect of the project.
type Format string

const (
	FormatVertical   Format = "vertical"
	FormatHorizontal Format = "horizontal"
)

// Size returns the canvas size in pixels.
func (f Format) Size() (w, h int) {
	if f == FormatHorizontal {
		return 1920, 1080
	}
	return 1080, 1920
}

// Change describes what a mutation touched.
type Change int

const (
	ChangeClips Change = iota
	ChangeTracks
	ChangeSettings
	ChangeLayout
	ChangeSelection
	ChangeTime
	// ChangeLive is an intermediate drag update: redraw, but do not persist.
	ChangeLive
)

// Persistent reports whether the change must be written to storage.
func (c Change) Persistent() bool {
	return c <= ChangeLayout
}

func (c Change) String() string {
	switch c {
	case ChangeClips:
		return "clips"
	case ChangeTracks:
		return "tracks"
	case ChangeSettings:
		return "settings"
	case ChangeLayout:
		return "layout"
	case ChangeSelection:
		return "selection"
	case ChangeTime:
		return "time"
	case ChangeLive:
		return "live"
	}
	return "unknown"
}

// Options bounds timeline values.
type Options struct {
	DefaultDuration float64
	MinDuration     float64
	MaxDuration     float64
	ResizeEpsilon   float64
	PixelsPerSecond float64
	TimelineHeight  int
	Format          Format
}

// DefaultOptions mirrors config.Default().Editor.
func DefaultOptions() Options {
	return Options{
		DefaultDuration: 90,
		MinDuration:     10,
		MaxDuration:     300,
		ResizeEpsilon:   0.1,
		PixelsPerSecond: 10,
		TimelineHeight:  220,
		Format:          FormatVertical,
	}
}

const (
	minZoom         = 0.1
	maxZoom         = 10
	minPreviewScale = 0.1
	maxPreviewScale = 3
)

// Timeline owns tracks, clips and editor settings.
type Timeline struct {
	logger zerolog.Logger
	opts   Options

	duration        float64
	currentTime     float64
	zoom            float64
	format          Format
	previewScale    float64
	timelineHeight  int
	showProgressBar bool
	projectID       string

	tracks      []*Track
	nextTrackID int
	clips       *clips.Manager
	selected    int

	newAudio func(src string) clips.AudioHandle
	onChange func(Change)
}

// New creates a timeline seeded with the default tracks.
func New(logger zerolog.Logger, opts Options) *Timeline {
	if opts.PixelsPerSecond <= 0 {
		opts.PixelsPerSecond = DefaultOptions().PixelsPerSecond
	}
	if opts.ResizeEpsilon <= 0 {
		opts.ResizeEpsilon = DefaultOptions().ResizeEpsilon
	}
	if opts.Format == "" {
		opts.Format = FormatVertical
	}
	tl := &Timeline{
		logger: logger.With().Str("component", "timeline").Logger(),
		opts:   opts,
	}
	tl.resetState()
	return tl
}

func (tl *Timeline) resetState() {
	tl.duration = util.Clamp(tl.opts.DefaultDuration, tl.opts.MinDuration, tl.opts.MaxDuration)
	tl.currentTime = 0
	tl.zoom = 1
	tl.format = tl.opts.Format
	tl.previewScale = 1
	tl.timelineHeight = tl.opts.TimelineHeight
	tl.tracks = DefaultTracks()
	tl.nextTrackID = defaultNextTrackID
	var old []*clips.Clip
	if tl.clips != nil {
		old = tl.clips.All()
	}
	tl.clips = clips.NewManager()
	tl.selected = 0
	tl.releaseAudio(old)
}

// SetAudioFactory installs the constructor used to give duplicated audio
// clips a handle of their own. Without one, copies have no live audio.
func (tl *Timeline) SetAudioFactory(fn func(src string) clips.AudioHandle) {
	tl.newAudio = fn
}

// OnChange registers the single mutation listener.
func (tl *Timeline) OnChange(fn func(Change)) {
	tl.onChange = fn
}

func (tl *Timeline) notify(c Change) {
	if tl.onChange != nil {
		tl.onChange(c)
	}
}

// Options returns the bounds the timeline was created with.
func (tl *Timeline) Options() Options { return tl.opts }

func (tl *Timeline) Duration() float64     { return tl.duration }
func (tl *Timeline) CurrentTime() float64  { return tl.currentTime }
func (tl *Timeline) Zoom() float64         { return tl.zoom }
func (tl *Timeline) Format() Format        { return tl.format }
func (tl *Timeline) PreviewScale() float64 { return tl.previewScale }
func (tl *Timeline) TimelineHeight() int   { return tl.timelineHeight }
func (tl *Timeline) ShowProgressBar() bool { return tl.showProgressBar }
func (tl *Timeline) ProjectID() string     { return tl.projectID }

// PixelsPerSecond is the horizontal scale of the lane view at the current zoom.
func (tl *Timeline) PixelsPerSecond() float64 {
	return tl.opts.PixelsPerSecond * tl.zoom
}

// Clips returns the clip set in insertion order. Callers must not modify the slice.
func (tl *Timeline) Clips() []*clips.Clip {
	return tl.clips.All()
}

// Clip looks up a clip by identifier.
func (tl *Timeline) Clip(id int) *clips.Clip {
	return tl.clips.Get(id)
}

// ActiveClips returns the clips with start <= t < end.
func (tl *Timeline) ActiveClips(t float64) []*clips.Clip {
	return tl.clips.ActiveAt(t)
}

// Tracks returns the tracks sorted by rank.
func (tl *Timeline) Tracks() []*Track {
	return sortedTracks(tl.tracks)
}

// Track looks up a track by identifier.
func (tl *Timeline) Track(id string) *Track {
	for _, t := range tl.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TracksOfType returns tracks of one type sorted by rank.
func (tl *Timeline) TracksOfType(tt TrackType) []*Track {
	var out []*Track
	for _, t := range sortedTracks(tl.tracks) {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

// Selected returns the selected clip or nil.
func (tl *Timeline) Selected() *clips.Clip {
	if tl.selected == 0 {
		return nil
	}
	return tl.clips.Get(tl.selected)
}

// Select marks a clip as selected. Unknown identifiers clear the selection.
func (tl *Timeline) Select(id int) {
	if tl.clips.Get(id) == nil {
		tl.logger.Debug().Int("clip", id).Msg("select: no such clip")
		tl.selected = 0
	} else {
		tl.selected = id
	}
	tl.notify(ChangeSelection)
}

// ClearSelection deselects any clip.
func (tl *Timeline) ClearSelection() {
	tl.selected = 0
	tl.notify(ChangeSelection)
}

// SetCurrentTime moves the playhead, clamped to [0, duration].
func (tl *Timeline) SetCurrentTime(t float64) {
	tl.currentTime = util.Clamp(t, 0, tl.duration)
	tl.notify(ChangeTime)
}

// SetDuration clamps to the configured bounds. The playhead is pulled back
// inside the new range.
func (tl *Timeline) SetDuration(d float64) {
	tl.duration = util.Clamp(d, tl.opts.MinDuration, tl.opts.MaxDuration)
	if tl.currentTime > tl.duration {
		tl.currentTime = tl.duration
	}
	tl.notify(ChangeSettings)
}

// SetZoom changes the lane view scale.
func (tl *Timeline) SetZoom(z float64) {
	tl.zoom = util.Clamp(z, minZoom, maxZoom)
	tl.notify(ChangeLayout)
}

// SetFormat switches between vertical and horizontal canvases.
func (tl *Timeline) SetFormat(f Format) {
	if f != FormatVertical && f != FormatHorizontal {
		tl.logger.Debug().Str("format", string(f)).Msg("ignoring unknown format")
		return
	}
	tl.format = f
	tl.notify(ChangeSettings)
}

// SetPreviewScale stores the preview size preference.
func (tl *Timeline) SetPreviewScale(s float64) {
	tl.previewScale = util.Clamp(s, minPreviewScale, maxPreviewScale)
	tl.notify(ChangeLayout)
}

// SetTimelineHeight stores the lane panel height preference.
func (tl *Timeline) SetTimelineHeight(h int) {
	if h <= 0 {
		return
	}
	tl.timelineHeight = h
	tl.notify(ChangeLayout)
}

// ToggleProgressBar flips the bottom progress bar.
func (tl *Timeline) ToggleProgressBar() {
	tl.showProgressBar = !tl.showProgressBar
	tl.notify(ChangeSettings)
}

// SetProjectID tags the project. Empty identifiers are ignored.
func (tl *Timeline) SetProjectID(id string) {
	if id == "" {
		return
	}
	tl.projectID = id
}

// Reset restores the default tracks and an empty clip set.
func (tl *Timeline) Reset() {
	tl.resetState()
	tl.notify(ChangeClips)
}
