// Package render composites the clips active at a point in time onto a
// raster frame.
package render

import (
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
	"github.com/keagan/reelforge/internal/timeline"
)

// Scene is the read-only view of a timeline the renderer needs.
type Scene interface {
	Format() timeline.Format
	Duration() float64
	ActiveClips(t float64) []*clips.Clip
	TracksOfType(tt timeline.TrackType) []*timeline.Track
	Selected() *clips.Clip
	ShowProgressBar() bool
}

// Options configures the renderer.
type Options struct {
	Background string
	Brand      string
	// Scale is the pixel resolution relative to the full output frame.
	Scale          float64
	WordsPerScreen int
	// Rand feeds the flicker and glitch entries. Nil seeds from the clock.
	Rand *rand.Rand
}

// DefaultOptions mirrors config.Default().Render.
func DefaultOptions() Options {
	return Options{
		Background:     "#1a1a2e",
		Brand:          "#00A6CE",
		Scale:          0.25,
		WordsPerScreen: 4,
	}
}

const progressBarHeight = 4

// Renderer draws frames.
type Renderer struct {
	logger  zerolog.Logger
	opts    Options
	bg      color.NRGBA
	brand   color.NRGBA
	rand    *rand.Rand
	measure Measurer
}

// New creates a renderer.
func New(logger zerolog.Logger, opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.WordsPerScreen <= 0 {
		opts.WordsPerScreen = def.WordsPerScreen
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Renderer{
		logger:  logger.With().Str("component", "render").Logger(),
		opts:    opts,
		bg:      overlays.ColorOr(opts.Background, overlays.ColorOr(def.Background, overlays.Black)),
		brand:   overlays.ColorOr(opts.Brand, overlays.Brand),
		rand:    rng,
		measure: bitmapMeasurer{},
	}
}

// Scale returns the pixel resolution factor.
func (r *Renderer) Scale() float64 { return r.opts.Scale }

// SetScale changes the pixel resolution of subsequent frames.
func (r *Renderer) SetScale(scale float64) {
	if scale > 0 {
		r.opts.Scale = scale
	}
}

// Measurer returns the text measurer used for layout.
func (r *Renderer) Measurer() Measurer { return r.measure }

// Render draws the frame at time t. Layers are fixed: background, video
// tracks in ascending rank, overlays, captions, effects, progress bar.
func (r *Renderer) Render(sc Scene, t float64) *image.RGBA {
	return r.RenderScaled(sc, t, r.opts.Scale)
}

// RenderScaled draws the frame at t with an explicit pixel scale.
func (r *Renderer) RenderScaled(sc Scene, t, scale float64) *image.RGBA {
	w, h := sc.Format().Size()
	s := NewSurface(w, h, scale)
	s.Fill(r.bg)

	active := sc.ActiveClips(t)

	for _, tr := range sc.TracksOfType(timeline.TrackVideo) {
		for _, c := range active {
			if c.Type == clips.TypeVideo && c.Track == tr.ID {
				r.drawVideo(s, c, t)
			}
		}
	}

	selected := sc.Selected()
	for _, c := range active {
		if c.Type == clips.TypeOverlay {
			r.drawOverlay(s, c, t, selected != nil && selected.ID == c.ID)
		}
	}
	for _, c := range active {
		if c.Type == clips.TypeCaption {
			r.drawCaptions(s, c, t)
		}
	}
	for _, c := range active {
		if c.Type == clips.TypeEffect {
			r.drawEffect(s, c, t)
		}
	}

	if sc.ShowProgressBar() && sc.Duration() > 0 {
		y := s.H - progressBarHeight
		s.FillRect(0, y, s.W, progressBarHeight, overlays.WithAlpha(overlays.White, 0.2))
		s.FillRect(0, y, s.W*t/sc.Duration(), progressBarHeight, r.brand)
	}

	r.logger.Trace().Float64("t", t).Int("active", len(active)).Msg("rendered frame")
	return s.Img
}

// HitOverlay returns the first overlay active at t whose grab box contains
// the logical frame point (x, y), or nil.
func (r *Renderer) HitOverlay(sc Scene, t, x, y float64) *clips.Clip {
	w, h := sc.Format().Size()
	for _, c := range sc.ActiveClips(t) {
		if c.Type != clips.TypeOverlay {
			continue
		}
		x0, y0, x1, y1 := r.overlayBox(c, float64(w), float64(h))
		if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
			return c
		}
	}
	return nil
}
