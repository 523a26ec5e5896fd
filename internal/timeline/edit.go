package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/pkg/util"
)

// Edge selects which bound ResizeClipEdge moves.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

// AddClip appends a clip with a fresh identifier and selects it.
// Overlapping clips on the same track are allowed.
func (tl *Timeline) AddClip(c *clips.Clip) *clips.Clip {
	c.ID = 0
	c.Track = NormalizeTrackID(c.Track)
	tl.clips.Add(c)
	tl.selected = c.ID
	tl.logger.Debug().
		Int("clip", c.ID).
		Str("type", string(c.Type)).
		Str("track", c.Track).
		Float64("start", c.Start).
		Float64("end", c.End).
		Msg("added clip")
	tl.notify(ChangeClips)
	return c
}

// AddTextOverlay adds a 3s text overlay at the playhead.
func (tl *Timeline) AddTextOverlay(text string) *clips.Clip {
	if text == "" {
		text = "New Text"
	}
	start, end := tl.span(3)
	c := &clips.Clip{
		Type:  clips.TypeOverlay,
		Track: "text1",
		Start: start,
		End:   end,
		TextProps: clips.TextProps{
			Text:      text,
			Style:     "big",
			PosX:      50,
			PosY:      50,
			FontSize:  48,
			Color:     "#ffffff",
			Animation: "fadeIn",
		},
	}
	return tl.AddClip(c)
}

// AddTransition adds a 0.5s fade on the effects lane at the playhead.
func (tl *Timeline) AddTransition(kind string) *clips.Clip {
	if kind == "" {
		kind = "fade"
	}
	c := &clips.Clip{
		Type:        clips.TypeEffect,
		Track:       "effects",
		Start:       tl.currentTime,
		End:         tl.currentTime + 0.5,
		Label:       strings.ToUpper(kind[:1]) + kind[1:],
		EffectProps: clips.EffectProps{TransitionType: kind},
	}
	return tl.AddClip(c)
}

// AddAudioClip adds a 5s empty audio clip on the first audio track.
func (tl *Timeline) AddAudioClip(src string) *clips.Clip {
	start, end := tl.span(5)
	c := &clips.Clip{
		Type:       clips.TypeAudio,
		Track:      tl.firstTrackID(TrackAudio),
		Start:      start,
		End:        end,
		Label:      "Audio",
		MediaProps: clips.MediaProps{AudioSrc: src, NeedsAudio: src == ""},
	}
	return tl.AddClip(c)
}

// QuickAddSFX drops a 1s sound-effect placeholder at the playhead without
// changing the selection.
func (tl *Timeline) QuickAddSFX(kind string) *clips.Clip {
	c := &clips.Clip{
		Type:       clips.TypeAudio,
		Track:      tl.firstTrackID(TrackAudio),
		Start:      tl.currentTime,
		End:        tl.currentTime + 1,
		Label:      "SFX: " + strings.ToUpper(kind),
		MediaProps: clips.MediaProps{NeedsAudio: true, BgType: "sfx"},
	}
	tl.clips.Add(c)
	tl.notify(ChangeClips)
	return c
}

// AddOverlayVideo places a 10s video on the second video lane.
func (tl *Timeline) AddOverlayVideo(src, label string) *clips.Clip {
	start, end := tl.span(10)
	c := &clips.Clip{
		Type:        clips.TypeVideo,
		Track:       "video2",
		Start:       start,
		End:         end,
		Label:       util.Truncate(label, 15),
		Description: "Overlay video",
		MediaProps:  clips.MediaProps{VideoSrc: src},
	}
	return tl.AddClip(c)
}

// span places a clip of the given length at the playhead, cut at the end of
// the timeline. With the playhead at the end it starts one epsilon earlier.
func (tl *Timeline) span(length float64) (start, end float64) {
	start = math.Max(0, math.Min(tl.currentTime, tl.duration-tl.opts.ResizeEpsilon))
	return start, math.Min(start+length, tl.duration)
}

func (tl *Timeline) firstTrackID(tt TrackType) string {
	if ts := tl.TracksOfType(tt); len(ts) > 0 {
		return ts[0].ID
	}
	if all := tl.Tracks(); len(all) > 0 {
		return all[0].ID
	}
	return ""
}

// ResizeClipEdge moves one bound of a clip. The clip never inverts and the
// moved bound stays inside [0, duration].
func (tl *Timeline) ResizeClipEdge(id int, edge Edge, t float64) {
	tl.resizeEdge(id, edge, t, ChangeClips)
}

func (tl *Timeline) resizeEdge(id int, edge Edge, t float64, change Change) {
	c := tl.clips.Get(id)
	if c == nil {
		tl.logger.Debug().Int("clip", id).Msg("resize: no such clip")
		return
	}
	eps := tl.opts.ResizeEpsilon
	switch edge {
	case EdgeLeft:
		c.Start = math.Max(0, math.Min(c.End-eps, t))
	case EdgeRight:
		c.End = math.Max(c.Start+eps, math.Min(tl.duration, t))
	}
	tl.notify(change)
}

// MoveClip shifts a clip so it starts at start, preserving its duration.
// Only the lower bound is clamped; a clip may be moved past the timeline end.
func (tl *Timeline) MoveClip(id int, start float64) {
	tl.moveClip(id, start, ChangeClips)
}

func (tl *Timeline) moveClip(id int, start float64, change Change) {
	c := tl.clips.Get(id)
	if c == nil {
		tl.logger.Debug().Int("clip", id).Msg("move: no such clip")
		return
	}
	d := c.Duration()
	c.Start = math.Max(0, start)
	c.End = c.Start + d
	tl.notify(change)
}

// SplitClip cuts a clip in two at the given time. The original keeps
// [start, at) and the returned clip, which becomes selected, gets [at, end).
// Caption clips also partition their words; see splitCaption.
func (tl *Timeline) SplitClip(id int, at float64) *clips.Clip {
	c := tl.clips.Get(id)
	if c == nil {
		tl.logger.Debug().Int("clip", id).Msg("split: no such clip")
		return nil
	}
	if at <= c.Start || at >= c.End {
		tl.logger.Debug().Int("clip", id).Float64("at", at).Msg("split point outside clip")
		return nil
	}
	if c.Type == clips.TypeCaption {
		return tl.splitCaption(c, at)
	}

	second := c.Clone()
	second.ID = 0
	second.Start = at
	if c.Type == clips.TypeAudio {
		second.AudioOffset = c.MediaOffset(at)
	}
	c.End = at
	tl.clips.Add(second)
	tl.selected = second.ID
	tl.notify(ChangeClips)
	return second
}

// splitCaption partitions the word list at the first word starting at or
// after at. Splits that would leave either half without words are refused.
func (tl *Timeline) splitCaption(c *clips.Clip, at float64) *clips.Clip {
	idx := len(c.Words)
	for i, w := range c.Words {
		if w.Start >= at {
			idx = i
			break
		}
	}
	if idx == 0 || idx >= len(c.Words) {
		tl.logger.Debug().Int("clip", c.ID).Float64("at", at).Msg("cannot split captions: no words at split point")
		return nil
	}

	second := c.Clone()
	second.ID = 0
	second.Start = at
	second.Label = "Captions (2)"
	second.Words = clips.Reindex(c.Words[idx:])
	c.Words = clips.Reindex(c.Words[:idx])
	c.End = at
	tl.clips.Add(second)
	tl.selected = second.ID
	tl.logger.Debug().
		Int("first", len(c.Words)).
		Int("second", len(second.Words)).
		Msg("split captions")
	tl.notify(ChangeClips)
	return second
}

// SplitSelected splits the selected clip at the playhead.
func (tl *Timeline) SplitSelected() *clips.Clip {
	if tl.selected == 0 {
		tl.logger.Debug().Msg("no clip selected to split")
		return nil
	}
	return tl.SplitClip(tl.selected, tl.currentTime)
}

// DuplicateClip copies a clip to just after its end, or to the playhead when
// that would run past the timeline. The copy is selected.
func (tl *Timeline) DuplicateClip(id int) *clips.Clip {
	c := tl.clips.Get(id)
	if c == nil {
		tl.logger.Debug().Int("clip", id).Msg("duplicate: no such clip")
		return nil
	}
	d := c.Duration()
	cp := c.Clone()
	cp.ID = 0
	cp.Start = c.End
	cp.End = cp.Start + d
	if cp.End > tl.duration {
		cp.Start = tl.currentTime
		cp.End = cp.Start + d
	}
	if cp.Audio != nil {
		cp.Audio = nil
		if tl.newAudio != nil && cp.AudioSrc != "" {
			cp.Audio = tl.newAudio(cp.AudioSrc)
		}
	}
	tl.clips.Add(cp)
	tl.selected = cp.ID
	tl.notify(ChangeClips)
	return cp
}

// DuplicateSelected duplicates the selected clip.
func (tl *Timeline) DuplicateSelected() *clips.Clip {
	if tl.selected == 0 {
		tl.logger.Debug().Msg("no clip selected to duplicate")
		return nil
	}
	return tl.DuplicateClip(tl.selected)
}

// DeleteClip removes a clip, clearing the selection if it pointed at it.
// Its audio stops unless another clip still shares the handle.
func (tl *Timeline) DeleteClip(id int) {
	c := tl.clips.Get(id)
	if c == nil || !tl.clips.Remove(id) {
		tl.logger.Debug().Int("clip", id).Msg("delete: no such clip")
		return
	}
	if tl.selected == id {
		tl.selected = 0
	}
	tl.releaseAudio([]*clips.Clip{c})
	tl.notify(ChangeClips)
}

// releaseAudio pauses the handles of removed clips that no remaining clip
// shares.
func (tl *Timeline) releaseAudio(removed []*clips.Clip) {
	for _, c := range removed {
		if c == nil || c.Audio == nil || c.Audio.Paused() {
			continue
		}
		shared := false
		for _, o := range tl.clips.All() {
			if o.Audio == c.Audio {
				shared = true
				break
			}
		}
		if !shared {
			c.Audio.Pause()
		}
	}
}

// DeleteSelected removes the selected clip.
func (tl *Timeline) DeleteSelected() {
	if tl.selected == 0 {
		tl.logger.Debug().Msg("no clip selected to delete")
		return
	}
	tl.DeleteClip(tl.selected)
}

// UpdateClip applies a property edit. Track references are normalized and
// inverted ranges are repaired afterwards.
func (tl *Timeline) UpdateClip(id int, edit func(*clips.Clip)) {
	c := tl.clips.Get(id)
	if c == nil {
		tl.logger.Debug().Int("clip", id).Msg("update: no such clip")
		return
	}
	edit(c)
	c.ID = id
	c.Track = NormalizeTrackID(c.Track)
	if c.Start < 0 {
		c.Start = 0
	}
	if c.End-c.Start < tl.opts.ResizeEpsilon {
		c.End = c.Start + tl.opts.ResizeEpsilon
	}
	tl.notify(ChangeClips)
}

// ReplaceClips swaps in a whole clip set, as done by project and plan import.
// Duration is clamped to the configured bounds.
func (tl *Timeline) ReplaceClips(cs []*clips.Clip, duration float64) {
	for _, c := range cs {
		if c != nil {
			c.Track = NormalizeTrackID(c.Track)
		}
	}
	old := tl.clips.All()
	tl.clips.Replace(cs)
	tl.selected = 0
	tl.releaseAudio(old)
	tl.duration = util.Clamp(duration, tl.opts.MinDuration, tl.opts.MaxDuration)
	if tl.currentTime > tl.duration {
		tl.currentTime = 0
	}
	tl.logger.Info().Int("clips", tl.clips.Len()).Float64("duration", tl.duration).Msg("replaced clips")
	tl.notify(ChangeClips)
}

// ReorderTrack swaps a track's rank with its nearest same-type neighbour.
// Nothing happens at either end of the group.
func (tl *Timeline) ReorderTrack(id string, dir Direction) {
	tr := tl.Track(id)
	if tr == nil {
		tl.logger.Debug().Str("track", id).Msg("reorder: no such track")
		return
	}
	group := tl.TracksOfType(tr.Type)
	idx := -1
	for i, t := range group {
		if t == tr {
			idx = i
			break
		}
	}
	var other *Track
	switch {
	case dir == Up && idx > 0:
		other = group[idx-1]
	case dir == Down && idx < len(group)-1:
		other = group[idx+1]
	}
	if other == nil {
		return
	}
	tr.Order, other.Order = other.Order, tr.Order
	tl.notify(ChangeTracks)
}

// AddTrack appends a lane of the given type.
func (tl *Timeline) AddTrack(tt TrackType) *Track {
	prefix, ok := trackPrefixes[tt]
	if !ok {
		tl.logger.Debug().Str("type", string(tt)).Msg("add track: unknown type")
		return nil
	}
	order := -1
	for _, t := range tl.tracks {
		if t.Order > order {
			order = t.Order
		}
	}
	id := fmt.Sprintf("%s%d", prefix, tl.nextTrackID)
	for tl.Track(id) != nil {
		tl.nextTrackID++
		id = fmt.Sprintf("%s%d", prefix, tl.nextTrackID)
	}
	tl.nextTrackID++
	tr := &Track{
		ID:    id,
		Name:  trackName(tt, len(tl.TracksOfType(tt))+1),
		Type:  tt,
		Order: order + 1,
	}
	tl.tracks = append(tl.tracks, tr)
	tl.notify(ChangeTracks)
	return tr
}

// DeleteTrack removes a lane. Its clips move to reassignTo when that track
// exists; otherwise they stay in the clip set, orphaned.
func (tl *Timeline) DeleteTrack(id, reassignTo string) {
	idx := -1
	for i, t := range tl.tracks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		tl.logger.Debug().Str("track", id).Msg("delete: no such track")
		return
	}
	tl.tracks = append(tl.tracks[:idx], tl.tracks[idx+1:]...)
	if reassignTo != "" && reassignTo != id && tl.Track(reassignTo) != nil {
		for _, c := range tl.clips.All() {
			if c.Track == id {
				c.Track = reassignTo
			}
		}
	} else {
		orphans := len(tl.clips.Filter(func(c *clips.Clip) bool { return c.Track == id }))
		if orphans > 0 {
			tl.logger.Warn().Str("track", id).Int("clips", orphans).Msg("deleted track left orphaned clips")
		}
	}
	tl.notify(ChangeTracks)
}
