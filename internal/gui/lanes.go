package gui

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
	"github.com/keagan/reelforge/internal/timeline"
	"github.com/keagan/reelforge/pkg/util"
)

const (
	headerWidth = 100
	rulerHeight = 22
	laneHeight  = 32
	// edgeGrab is how close to a clip edge a press starts a resize.
	edgeGrab = 6
)

var (
	laneBg       = overlays.ColorOr("#16213e", overlays.Black)
	laneAltBg    = overlays.ColorOr("#1b2748", overlays.Black)
	headerBg     = overlays.ColorOr("#0f3460", overlays.Black)
	headerActive = overlays.ColorOr("#1f5490", overlays.Black)
	rulerBg      = overlays.ColorOr("#0b0b1a", overlays.Black)
	playheadCol  = overlays.ColorOr("#ff4757", overlays.White)
	textCol      = overlays.WithAlpha(overlays.White, 0.85)

	clipColors = map[clips.Type]color.NRGBA{
		clips.TypeVideo:   overlays.ColorOr("#6c5ce7", overlays.White),
		clips.TypeOverlay: overlays.ColorOr("#00a6ce", overlays.White),
		clips.TypeAudio:   overlays.ColorOr("#00b894", overlays.White),
		clips.TypeEffect:  overlays.ColorOr("#fd79a8", overlays.White),
		clips.TypeCaption: overlays.ColorOr("#fdcb6e", overlays.White),
	}
)

// laneHit is what lies under a pointer in the lane area.
type laneHit struct {
	track *timeline.Track
	clip  *clips.Clip
	kind  timeline.GestureKind
	ruler bool
	time  float64
}

// lanesWidget draws the ruler, track headers and clip lanes, and turns
// pointer input into timeline gestures.
type lanesWidget struct {
	widget.BaseWidget

	tl      *timeline.Timeline
	gesture *timeline.Gesture
	raster  *canvas.Raster

	// selectedTrack is the header last tapped, used by the reorder buttons.
	selectedTrack string
	scrubbing     bool
	onSeek        func(t float64)
}

func newLanesWidget(tl *timeline.Timeline, g *timeline.Gesture, onSeek func(float64)) *lanesWidget {
	w := &lanesWidget{tl: tl, gesture: g, onSeek: onSeek}
	w.raster = canvas.NewRaster(w.draw)
	w.ExtendBaseWidget(w)
	return w
}

func (w *lanesWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

func (w *lanesWidget) MinSize() fyne.Size {
	width := headerWidth + float32(w.tl.Duration()*w.tl.PixelsPerSecond()) + 40
	height := rulerHeight + float32(len(w.tl.Tracks())*laneHeight)
	return fyne.NewSize(width, height)
}

func (w *lanesWidget) xOf(t float64) float32 {
	return headerWidth + float32(t*w.tl.PixelsPerSecond())
}

func (w *lanesWidget) timeAt(x float32) float64 {
	return float64(x-headerWidth) / w.tl.PixelsPerSecond()
}

func (w *lanesWidget) hit(pos fyne.Position) laneHit {
	h := laneHit{time: util.Clamp(w.timeAt(pos.X), 0, w.tl.Duration())}
	if pos.Y < rulerHeight {
		h.ruler = pos.X >= headerWidth
		return h
	}
	tracks := w.tl.Tracks()
	idx := int((pos.Y - rulerHeight) / laneHeight)
	if idx < 0 || idx >= len(tracks) {
		return h
	}
	h.track = tracks[idx]
	if pos.X < headerWidth {
		return h
	}
	// later clips draw on top, so search from the end
	cs := w.tl.Clips()
	for i := len(cs) - 1; i >= 0; i-- {
		c := cs[i]
		if c.Track != h.track.ID {
			continue
		}
		x0, x1 := w.xOf(c.Start), w.xOf(c.End)
		if pos.X < x0 || pos.X > x1 {
			continue
		}
		h.clip = c
		switch {
		case pos.X-x0 <= edgeGrab:
			h.kind = timeline.GestureResizeLeft
		case x1-pos.X <= edgeGrab:
			h.kind = timeline.GestureResizeRight
		default:
			h.kind = timeline.GestureMove
		}
		return h
	}
	return h
}

// Tapped selects a clip, a track header, or seeks on the ruler.
func (w *lanesWidget) Tapped(ev *fyne.PointEvent) {
	h := w.hit(ev.Position)
	switch {
	case h.ruler:
		w.onSeek(h.time)
	case h.clip != nil:
		w.tl.Select(h.clip.ID)
	case h.track != nil && ev.Position.X < headerWidth:
		w.selectedTrack = h.track.ID
		w.Refresh()
	default:
		w.tl.ClearSelection()
	}
}

// Dragged starts a gesture on the first event and feeds it afterwards.
func (w *lanesWidget) Dragged(ev *fyne.DragEvent) {
	if w.scrubbing {
		w.onSeek(util.Clamp(w.timeAt(ev.Position.X), 0, w.tl.Duration()))
		return
	}
	if !w.gesture.Active() {
		start := ev.Position.Subtract(ev.Dragged)
		h := w.hit(start)
		switch {
		case h.ruler:
			w.scrubbing = true
			w.onSeek(util.Clamp(w.timeAt(ev.Position.X), 0, w.tl.Duration()))
			return
		case h.clip == nil:
			return
		}
		if !w.gesture.Begin(h.kind, h.clip.ID, float64(start.X)) {
			return
		}
	}
	w.gesture.Move(float64(ev.Position.X), float64(ev.Position.Y))
}

func (w *lanesWidget) DragEnd() {
	w.scrubbing = false
	w.gesture.End()
}

func (w *lanesWidget) MouseIn(*desktop.MouseEvent)    {}
func (w *lanesWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut commits a lane drag that leaves the widget.
func (w *lanesWidget) MouseOut() {
	w.scrubbing = false
	if w.gesture.Active() {
		w.gesture.Leave()
	}
}

// draw paints the lanes at pixel size pw x ph.
func (w *lanesWidget) draw(pw, ph int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	size := w.Size()
	if size.Width <= 0 || pw == 0 {
		return img
	}
	s := float32(pw) / size.Width
	px := func(v float32) int { return int(math.Round(float64(v * s))) }
	rect := func(x0, y0, x1, y1 float32, c color.Color) {
		draw.Draw(img, image.Rect(px(x0), px(y0), px(x1), px(y1)), image.NewUniform(c), image.Point{}, draw.Over)
	}

	rect(0, 0, size.Width, rulerHeight, rulerBg)
	step := rulerStep(w.tl.PixelsPerSecond())
	for t := 0.0; t <= w.tl.Duration(); t += step {
		x := w.xOf(t)
		rect(x, rulerHeight-6, x+1, rulerHeight, textCol)
		label(img, util.FormatClock(t), px(x+3), px(rulerHeight-8), textCol)
	}

	selected := w.tl.Selected()
	for i, tr := range w.tl.Tracks() {
		y := rulerHeight + float32(i*laneHeight)
		bg := laneBg
		if i%2 == 1 {
			bg = laneAltBg
		}
		rect(headerWidth, y, size.Width, y+laneHeight, bg)
		hb := headerBg
		if tr.ID == w.selectedTrack {
			hb = headerActive
		}
		rect(0, y, headerWidth-1, y+laneHeight-1, hb)
		label(img, tr.Name, px(6), px(y+laneHeight/2+4), textCol)

		for _, c := range w.tl.Clips() {
			if c.Track != tr.ID {
				continue
			}
			x0, x1 := w.xOf(c.Start), w.xOf(c.End)
			col := clipColors[c.Type]
			rect(x0, y+3, x1, y+laneHeight-3, col)
			if selected != nil && selected.ID == c.ID {
				rect(x0, y+3, x1, y+5, overlays.White)
				rect(x0, y+laneHeight-5, x1, y+laneHeight-3, overlays.White)
			}
			rect(x0, y+3, x0+2, y+laneHeight-3, overlays.WithAlpha(overlays.Black, 0.4))
			rect(x1-2, y+3, x1, y+laneHeight-3, overlays.WithAlpha(overlays.Black, 0.4))
			label(img, clipTitle(c), px(x0+5), px(y+laneHeight/2+4), overlays.Black)
		}
	}

	x := w.xOf(w.tl.CurrentTime())
	rect(x-1, 0, x+1, size.Height, playheadCol)
	return img
}

// rulerStep picks a tick spacing that keeps labels apart.
func rulerStep(pps float64) float64 {
	for _, s := range []float64{1, 2, 5, 10, 15, 30, 60} {
		if s*pps >= 60 {
			return s
		}
	}
	return 120
}

func clipTitle(c *clips.Clip) string {
	switch {
	case c.Label != "":
		return c.Label
	case c.Text != "":
		return c.Text
	case c.TransitionType != "":
		return c.TransitionType
	}
	return string(c.Type)
}

func label(dst draw.Image, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
