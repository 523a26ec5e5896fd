package render

import (
	"image/color"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
)

const (
	defaultFontSize = 48
	labelPadX       = 15
	labelPadY       = 8
	outlineWidth    = 10
)

// overlayPos returns the logical centre of an overlay. Zero positions mean centred.
func overlayPos(c *clips.Clip, w, h float64) (x, y float64) {
	px, py := c.PosX, c.PosY
	if px == 0 {
		px = 50
	}
	if py == 0 {
		py = 50
	}
	return px / 100 * w, py / 100 * h
}

func fontSizeOf(c *clips.Clip) float64 {
	if c.FontSize > 0 {
		return c.FontSize
	}
	return defaultFontSize
}

// drawOverlay renders one text overlay at time t.
func (r *Renderer) drawOverlay(s *Surface, c *clips.Clip, t float64, selected bool) {
	elapsed := t - c.Start
	p := overlays.AnimateText(c.Animation, overlays.TextInput{
		Progress: overlays.Progress(elapsed, overlays.TextEntryWindow),
		Elapsed:  elapsed,
		Text:     c.Text,
		Color:    c.Color,
		Rand:     r.rand,
	})
	alpha := p.Alpha * overlays.FadeOut(t, c.End)

	x, y := overlayPos(c, s.W, s.H)
	x += p.OffsetX
	y += p.OffsetY
	size := fontSizeOf(c) * p.Scale

	var fill color.Color = overlays.ColorOr(c.Color, overlays.White)
	if p.Color != nil {
		fill = p.Color
	}
	st := textStyle{Fill: fill}
	switch c.TextStyle {
	case "label-white":
		st.Label, st.Fill = overlays.White, overlays.Black
	case "label-black":
		st.Label, st.Fill = overlays.Black, overlays.White
	case "label-brand":
		st.Label, st.Fill = r.brand, overlays.White
	case "outline":
		st.Stroke = overlays.Black
		st.StrokeWidth = outlineWidth * p.Scale
	}
	if st.Label != nil {
		st.LabelPadX = labelPadX * p.Scale
		st.LabelPadY = labelPadY * p.Scale
	} else if p.Glow > 0 {
		st.Glow = p.Glow * p.Scale
		st.GlowColor = st.Fill
	} else {
		st.Shadow = true
		st.ShadowOffset = 2 * p.Scale
	}

	if alpha > 0 && size > 0 {
		s.drawText(p.Text, size, x, y, st, alpha, p.Rotation)
	}

	if selected {
		tw := r.measure.Measure(c.Text, size)
		bx, by := x-tw/2-10, y-size/2-5
		bw, bh := tw+20, size+10
		r.strokeRect(s, bx, by, bw, bh, 3)
	}
}

// strokeRect outlines a logical rectangle in the brand colour.
func (r *Renderer) strokeRect(s *Surface, x, y, w, h, width float64) {
	s.FillRect(x, y, w, width, r.brand)
	s.FillRect(x, y+h-width, w, width, r.brand)
	s.FillRect(x, y, width, h, r.brand)
	s.FillRect(x+w-width, y, width, h, r.brand)
}

// overlayBox is the grab area of an overlay on the preview.
func (r *Renderer) overlayBox(c *clips.Clip, w, h float64) (x0, y0, x1, y1 float64) {
	x, y := overlayPos(c, w, h)
	hw := r.measure.Measure(c.Text, fontSizeOf(c))/2 + 20
	hh := fontSizeOf(c)/2 + 10
	return x - hw, y - hh, x + hw, y + hh
}
