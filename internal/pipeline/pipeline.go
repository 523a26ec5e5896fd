// Package pipeline owns an editor session: the timeline, its playback clock
// and renderer, and the store that every edit is written to.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/captions"
	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/ffmpeg"
	"github.com/keagan/reelforge/internal/plan"
	"github.com/keagan/reelforge/internal/playback"
	"github.com/keagan/reelforge/internal/project"
	"github.com/keagan/reelforge/internal/render"
	"github.com/keagan/reelforge/internal/store"
	"github.com/keagan/reelforge/internal/timeline"
)

// ErrNoFFmpeg is returned by media operations when no executor is wired.
var ErrNoFFmpeg = errors.New("ffmpeg is not configured")

// Pipeline is the single owner of an editing session. It is not safe for
// concurrent use; hosts call it from one goroutine.
type Pipeline struct {
	logger zerolog.Logger
	cfg    *config.Config

	tl       *timeline.Timeline
	clock    *playback.Clock
	renderer *render.Renderer
	parser   *plan.Parser
	sync     captions.SyncSession

	store  *store.Store
	ffmpeg *ffmpeg.Executor

	frame   *image.RGBA
	saveErr error

	// OnFrame receives every re-rendered preview frame.
	OnFrame func(*image.RGBA)
	// OnChange is called after a change has been persisted and rendered.
	OnChange func(timeline.Change)
}

// New builds a session from cfg, restoring saved state when a store is given.
func New(ctx context.Context, logger zerolog.Logger, cfg *config.Config, opts Options) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	tl := timeline.New(logger, timeline.Options{
		DefaultDuration: cfg.Editor.DefaultDuration,
		MinDuration:     cfg.Editor.MinDuration,
		MaxDuration:     cfg.Editor.MaxDuration,
		ResizeEpsilon:   cfg.Editor.ResizeEpsilon,
		PixelsPerSecond: cfg.Editor.PixelsPerSecond,
		TimelineHeight:  cfg.Editor.TimelineHeight,
		Format:          timeline.Format(cfg.Editor.Format),
	})

	p := &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		cfg:    cfg,
		tl:     tl,
		clock:  playback.New(logger, tl, playback.Options{SkipSeconds: cfg.Editor.SkipSeconds}),
		renderer: render.New(logger, render.Options{
			Background:     cfg.Render.Background,
			Brand:          cfg.Render.BrandColor,
			Scale:          cfg.Render.PreviewScale,
			WordsPerScreen: cfg.Render.WordsPerScreen,
			Rand:           opts.Rand,
		}),
		parser: plan.NewParser(logger),
		store:  opts.Store,
		ffmpeg: opts.FFmpeg,
	}

	if p.ffmpeg != nil {
		tl.SetAudioFactory(p.newAudio)
	}
	if err := p.restore(ctx); err != nil {
		return nil, err
	}
	p.bindMedia(ctx)
	tl.OnChange(p.handleChange)
	p.frame = p.renderer.Render(tl, tl.CurrentTime())
	return p, nil
}

func (p *Pipeline) restore(ctx context.Context) error {
	if p.store == nil {
		if p.cfg.Render.ProgressBar {
			p.tl.ToggleProgressBar()
		}
		return nil
	}

	st, err := p.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load editor state: %w", err)
	}
	fresh := len(st.Tracks) == 0 && len(st.Clips) == 0
	p.tl.Restore(st)
	if fresh && p.cfg.Render.ProgressBar {
		p.tl.ToggleProgressBar()
	}

	layout, err := p.store.LoadLayout(ctx)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	p.tl.ApplyLayout(layout)

	p.logger.Info().
		Int("clips", len(p.tl.Clips())).
		Float64("duration", p.tl.Duration()).
		Bool("fresh", fresh).
		Msg("session restored")
	return nil
}

// bindMedia reattaches live handles that storage dropped. Failures leave the
// clip on its placeholder.
func (p *Pipeline) bindMedia(ctx context.Context) {
	if p.ffmpeg == nil {
		return
	}
	for _, c := range p.tl.Clips() {
		switch {
		case c.Type == clips.TypeVideo && c.VideoSrc != "" && c.Frame == nil:
			if img, _, err := p.poster(ctx, c.VideoSrc); err == nil {
				c.Frame = img
			} else {
				p.logger.Warn().Err(err).Int("clip", c.ID).Msg("poster unavailable")
			}
		case c.Type == clips.TypeAudio && c.AudioSrc != "" && c.Audio == nil:
			if pl, err := p.ffmpeg.NewPlayer(c.AudioSrc); err == nil {
				c.Audio = pl
			}
		}
	}
}

func (p *Pipeline) newAudio(src string) clips.AudioHandle {
	pl, err := p.ffmpeg.NewPlayer(src)
	if err != nil {
		p.logger.Warn().Err(err).Str("src", src).Msg("audio player unavailable")
		return nil
	}
	return pl
}

func (p *Pipeline) handleChange(c timeline.Change) {
	if c.Persistent() {
		p.persist(c)
	}
	p.frame = p.renderer.Render(p.tl, p.tl.CurrentTime())
	if p.OnFrame != nil {
		p.OnFrame(p.frame)
	}
	if p.OnChange != nil {
		p.OnChange(c)
	}
}

// persist writes the record a change touched. Failures are logged and kept
// for Err; editing continues in memory.
func (p *Pipeline) persist(c timeline.Change) {
	if p.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if c == timeline.ChangeLayout {
		err = p.store.SaveLayout(ctx, p.tl.LayoutPrefs())
	} else {
		err = p.store.SaveState(ctx, p.tl.Snapshot())
	}
	if err != nil {
		p.logger.Warn().Err(err).Stringer("change", c).Msg("failed to persist")
	}
	p.saveErr = err
}

// Err returns the most recent persistence error, if any.
func (p *Pipeline) Err() error { return p.saveErr }

func (p *Pipeline) Timeline() *timeline.Timeline { return p.tl }
func (p *Pipeline) Clock() *playback.Clock       { return p.clock }
func (p *Pipeline) Renderer() *render.Renderer   { return p.renderer }
func (p *Pipeline) Config() *config.Config       { return p.cfg }

// Captions returns the tap-to-sync session.
func (p *Pipeline) Captions() *captions.SyncSession { return &p.sync }

// Frame returns the latest preview frame.
func (p *Pipeline) Frame() *image.RGBA { return p.frame }

// RenderAt draws the frame at t with the given pixel scale, independent of
// the preview.
func (p *Pipeline) RenderAt(t, scale float64) *image.RGBA {
	return p.renderer.RenderScaled(p.tl, t, scale)
}

// HitOverlay returns the overlay under a logical frame point at the current time.
func (p *Pipeline) HitOverlay(x, y float64) *clips.Clip {
	return p.renderer.HitOverlay(p.tl, p.tl.CurrentTime(), x, y)
}

// ImportPlan replaces all clips with those described by a visual plan and
// returns the number of segments found. Blank input changes nothing.
func (p *Pipeline) ImportPlan(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	pl := p.parser.Parse(text)
	duration := pl.Duration
	if duration == 0 {
		duration = p.tl.Duration()
	}
	p.tl.ReplaceClips(pl.Clips, duration)
	p.logger.Info().
		Int("segments", len(pl.Segments)).
		Int("clips", len(pl.Clips)).
		Msg("imported plan")
	return len(pl.Segments)
}

// ImportProject loads a project file. The session is unchanged on error.
func (p *Pipeline) ImportProject(ctx context.Context, path string) error {
	if err := project.Import(p.tl, path); err != nil {
		return err
	}
	p.bindMedia(ctx)
	p.logger.Info().Str("path", path).Int("clips", len(p.tl.Clips())).Msg("imported project")
	return nil
}

// ExportProject writes the session to a project file.
func (p *Pipeline) ExportProject(path string) error {
	if err := project.Export(p.tl, path); err != nil {
		return err
	}
	p.persist(timeline.ChangeSettings)
	p.logger.Info().Str("path", path).Msg("exported project")
	return nil
}

func (p *Pipeline) poster(ctx context.Context, path string) (image.Image, *ffmpeg.MediaInfo, error) {
	if p.ffmpeg == nil {
		return nil, nil, ErrNoFFmpeg
	}
	w, h := p.tl.Format().Size()
	return p.ffmpeg.Poster(ctx, path, w, h)
}

// BindVideo attaches a media file to a video clip and loads its poster frame.
func (p *Pipeline) BindVideo(ctx context.Context, clipID int, path string) error {
	if p.tl.Clip(clipID) == nil {
		return fmt.Errorf("no clip %d", clipID)
	}
	img, info, err := p.poster(ctx, path)
	if err != nil {
		return fmt.Errorf("bind video: %w", err)
	}
	p.tl.UpdateClip(clipID, func(c *clips.Clip) {
		c.VideoSrc = path
		c.NeedsVideo = false
		c.Frame = img
	})
	p.logger.Info().
		Int("clip", clipID).
		Str("file", path).
		Dur("duration", info.Duration).
		Msg("bound video")
	return nil
}

// BindAudio attaches an audio file to an audio clip.
func (p *Pipeline) BindAudio(ctx context.Context, clipID int, path string) error {
	if p.tl.Clip(clipID) == nil {
		return fmt.Errorf("no clip %d", clipID)
	}
	if p.ffmpeg == nil {
		return ErrNoFFmpeg
	}
	if _, err := p.ffmpeg.Probe(ctx, path); err != nil {
		return fmt.Errorf("bind audio: %w", err)
	}
	var handle clips.AudioHandle
	if pl, err := p.ffmpeg.NewPlayer(path); err == nil {
		handle = pl
	} else {
		p.logger.Warn().Err(err).Msg("audio will be silent")
	}
	p.tl.UpdateClip(clipID, func(c *clips.Clip) {
		c.AudioSrc = path
		c.NeedsAudio = false
		c.Audio = handle
	})
	return nil
}

// GenerateCaptions adds a caption clip built from a transcript and, when a
// voiceover file is given, the voiceover audio clip under it.
func (p *Pipeline) GenerateCaptions(ctx context.Context, req CaptionRequest) (*clips.Clip, error) {
	duration := req.AudioDuration
	if duration <= 0 && req.AudioPath != "" && p.ffmpeg != nil {
		info, err := p.ffmpeg.Probe(ctx, req.AudioPath)
		if err != nil {
			return nil, fmt.Errorf("probe voiceover: %w", err)
		}
		duration = info.Seconds()
	}

	timings := req.Timings
	if len(timings) == 0 {
		timings = p.sync.Timings()
	}
	words := captions.Generate(req.Transcript, timings, duration)
	if len(words) == 0 {
		return nil, errors.New("transcript is empty")
	}
	if duration <= 0 {
		duration = captions.DefaultAudioDuration
	}

	c := p.tl.AddClip(captions.NewCaptionClip(words, req.Style, duration))
	if req.AudioPath != "" {
		vo := captions.NewVoiceoverClip(req.AudioPath, duration)
		if p.ffmpeg != nil {
			if pl, err := p.ffmpeg.NewPlayer(req.AudioPath); err == nil {
				vo.Audio = pl
			}
		}
		p.tl.AddClip(vo)
		p.tl.Select(c.ID)
	}
	p.logger.Info().
		Int("words", len(words)).
		Str("style", c.Style).
		Bool("synced", len(timings) >= len(words)).
		Msg("generated captions")
	return c, nil
}

// Reset clears the session and its stored records.
func (p *Pipeline) Reset(ctx context.Context) error {
	p.clock.Pause()
	if p.store != nil {
		if err := p.store.Reset(ctx); err != nil {
			return err
		}
	}
	p.tl.Reset()
	return nil
}

// Close stops playback and releases the store.
func (p *Pipeline) Close() error {
	p.clock.Pause()
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}
