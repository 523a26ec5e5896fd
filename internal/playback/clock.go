// Package playback drives the timeline's current time from the wall clock
// and keeps bound audio handles in step with it.
package playback

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

// State of the clock.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Options configures seek steps.
type Options struct {
	SkipSeconds float64
	StepSeconds float64
}

// DefaultOptions returns 5s skips and 1s keyboard steps.
func DefaultOptions() Options {
	return Options{SkipSeconds: 5, StepSeconds: 1}
}

// Clock advances a timeline's current time by elapsed wall time.
// It is not safe for concurrent use; hosts call it from their UI thread.
type Clock struct {
	logger zerolog.Logger
	tl     *timeline.Timeline
	opts   Options

	state State
	last  time.Time

	// playing maps each started handle to the clip it is voicing.
	playing map[clips.AudioHandle]*clips.Clip

	// OnStateChange is called after every play/stop transition.
	OnStateChange func(State)
}

// New creates a stopped clock over tl.
func New(logger zerolog.Logger, tl *timeline.Timeline, opts Options) *Clock {
	if opts.SkipSeconds <= 0 {
		opts.SkipSeconds = DefaultOptions().SkipSeconds
	}
	if opts.StepSeconds <= 0 {
		opts.StepSeconds = DefaultOptions().StepSeconds
	}
	return &Clock{
		logger:  logger.With().Str("component", "clock").Logger(),
		tl:      tl,
		opts:    opts,
		playing: make(map[clips.AudioHandle]*clips.Clip),
	}
}

// State returns the current state.
func (c *Clock) State() State { return c.state }

// Playing reports whether the clock is running.
func (c *Clock) Playing() bool { return c.state == Playing }

// Play starts the clock with now as the reference timestamp.
func (c *Clock) Play(now time.Time) {
	if c.state == Playing {
		return
	}
	if c.tl.CurrentTime() >= c.tl.Duration() {
		c.tl.SetCurrentTime(0)
	}
	c.last = now
	c.setState(Playing)
	c.logger.Debug().Float64("at", c.tl.CurrentTime()).Msg("play")
	c.reconcile(true)
}

// Pause stops the clock where it is and silences all audio.
func (c *Clock) Pause() {
	if c.state == Stopped {
		return
	}
	c.setState(Stopped)
	c.stopAudio()
	c.logger.Debug().Float64("at", c.tl.CurrentTime()).Msg("pause")
}

// Toggle flips between playing and stopped.
func (c *Clock) Toggle(now time.Time) {
	if c.state == Playing {
		c.Pause()
		return
	}
	c.Play(now)
}

// Tick advances current time by the wall time since the previous tick.
// Reaching the end stops the clock and rewinds to 0. It reports whether the
// clock is still playing.
func (c *Clock) Tick(now time.Time) bool {
	if c.state != Playing {
		return false
	}
	elapsed := now.Sub(c.last).Seconds()
	c.last = now
	if elapsed < 0 {
		elapsed = 0
	}

	next := c.tl.CurrentTime() + elapsed
	if next >= c.tl.Duration() {
		c.setState(Stopped)
		c.stopAudio()
		c.tl.SetCurrentTime(0)
		c.logger.Debug().Msg("reached end")
		return false
	}
	c.tl.SetCurrentTime(next)
	c.reconcile(false)
	return true
}

// Seek moves the playhead, clamped to [0, duration]. While playing, audio
// in range restarts at the new offset.
func (c *Clock) Seek(t float64) {
	c.tl.SetCurrentTime(t)
	if c.state == Playing {
		c.reconcile(true)
	}
}

// SkipForward jumps ahead by the skip step.
func (c *Clock) SkipForward() { c.Seek(c.tl.CurrentTime() + c.opts.SkipSeconds) }

// SkipBack jumps back by the skip step.
func (c *Clock) SkipBack() { c.Seek(c.tl.CurrentTime() - c.opts.SkipSeconds) }

// Step nudges the playhead by the keyboard step; dir is +1 or -1.
func (c *Clock) Step(dir int) {
	c.Seek(c.tl.CurrentTime() + float64(dir)*c.opts.StepSeconds)
}

func (c *Clock) setState(s State) {
	c.state = s
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}

// continuity is how far two clips may disagree on a handle's media position
// before a change of owner forces a re-seek.
const continuity = 1e-3

// reconcile starts audio clips that contain the current time and stops the
// rest. Clips sharing a handle are judged together: the handle plays while
// any of them is in range, voiced by the first such clip. restart forces
// in-range handles to re-seek even if already playing.
func (c *Clock) reconcile(restart bool) {
	now := c.tl.CurrentTime()
	var handles []clips.AudioHandle
	owner := make(map[clips.AudioHandle]*clips.Clip)
	for _, clip := range c.tl.Clips() {
		if clip.Type != clips.TypeAudio || clip.Audio == nil {
			continue
		}
		h := clip.Audio
		if _, seen := owner[h]; !seen {
			handles = append(handles, h)
			owner[h] = nil
		}
		if owner[h] == nil && clip.Contains(now) {
			owner[h] = clip
		}
	}

	for h := range c.playing {
		if _, ok := owner[h]; !ok {
			if !h.Paused() {
				h.Pause()
			}
			delete(c.playing, h)
		}
	}

	for _, h := range handles {
		clip := owner[h]
		if clip == nil {
			if !h.Paused() {
				h.Pause()
			}
			delete(c.playing, h)
			continue
		}
		offset := clip.MediaOffset(now)
		prev := c.playing[h]
		c.playing[h] = clip
		jumped := prev != clip && (prev == nil || math.Abs(prev.MediaOffset(now)-offset) > continuity)
		if h.Paused() || restart || jumped {
			h.Seek(offset)
			h.Play()
		}
	}
}

func (c *Clock) stopAudio() {
	for _, clip := range c.tl.Clips() {
		if clip.Audio != nil && !clip.Audio.Paused() {
			clip.Audio.Pause()
		}
	}
	for h := range c.playing {
		if !h.Paused() {
			h.Pause()
		}
		delete(c.playing, h)
	}
}

// Drive calls onTick at every interval until ctx is done or onTick returns
// false. Hosts with a UI thread marshal the callback themselves.
func Drive(ctx context.Context, interval time.Duration, onTick func(now time.Time) bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !onTick(now) {
				return nil
			}
		}
	}
}
