package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphHeight is the cell height of the bitmap face text sprites are cut from.
const glyphHeight = 13

var face = basicfont.Face7x13

// Measurer reports the logical width of text at a font size.
type Measurer interface {
	Measure(text string, fontSize float64) float64
}

// bitmapMeasurer measures with the bitmap face scaled to the font size.
type bitmapMeasurer struct{}

func (bitmapMeasurer) Measure(text string, fontSize float64) float64 {
	w := font.MeasureString(face, text).Ceil()
	return float64(w) * fontSize / glyphHeight
}

// textMask renders text into an alpha mask whose height is px pixels.
func textMask(text string, px float64) image.Image {
	w := font.MeasureString(face, text).Ceil()
	if w == 0 || px < 1 {
		return nil
	}
	m := image.NewAlpha(image.Rect(0, 0, w, glyphHeight))
	d := &font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)
	tw := uint(math.Max(1, math.Round(float64(w)*px/glyphHeight)))
	th := uint(math.Max(1, math.Round(px)))
	return resize.Resize(tw, th, m, resize.Bilinear)
}

// textStyle describes how a run of text is decorated.
type textStyle struct {
	Fill color.Color
	// Label draws a filled box behind the text when non-nil.
	Label        color.Color
	LabelPadX    float64
	LabelPadY    float64
	Stroke       color.Color
	StrokeWidth  float64
	Glow         float64
	GlowColor    color.Color
	Shadow       bool
	ShadowOffset float64
}

// textLayer renders text with its decorations into a layer centred on the
// returned origin. Lengths are in pixels.
func textLayer(text string, px float64, st textStyle) (layer *image.RGBA, ox, oy float64) {
	mask := textMask(text, px)
	if mask == nil {
		return nil, 0, 0
	}
	mb := mask.Bounds()
	pad := 2 + math.Max(math.Max(st.StrokeWidth, st.Glow), st.ShadowOffset)
	if st.Label != nil {
		pad = math.Max(pad, math.Max(st.LabelPadX, st.LabelPadY))
	}
	p := int(math.Ceil(pad))
	layer = image.NewRGBA(image.Rect(0, 0, mb.Dx()+2*p, mb.Dy()+2*p))
	at := image.Pt(p, p)

	stamp := func(dx, dy float64, c color.Color) {
		off := at.Add(image.Pt(int(math.Round(dx)), int(math.Round(dy))))
		r := image.Rectangle{Min: off, Max: off.Add(mb.Size())}
		draw.DrawMask(layer, r, image.NewUniform(c), image.Point{}, mask, mb.Min, draw.Over)
	}

	if st.Label != nil {
		r := image.Rect(
			p-int(math.Round(st.LabelPadX)), p-int(math.Round(st.LabelPadY)),
			p+mb.Dx()+int(math.Round(st.LabelPadX)), p+mb.Dy()+int(math.Round(st.LabelPadY)),
		)
		draw.Draw(layer, r, image.NewUniform(st.Label), image.Point{}, draw.Src)
	} else if st.Glow > 0 {
		gc := st.GlowColor
		if gc == nil {
			gc = st.Fill
		}
		halo := withAlpha(gc, 0.25)
		for _, r := range []float64{st.Glow / 2, st.Glow} {
			ring(r, func(dx, dy float64) { stamp(dx, dy, halo) })
		}
	} else if st.Shadow {
		stamp(st.ShadowOffset, st.ShadowOffset, color.NRGBA{A: 0x80})
	}

	if st.Stroke != nil && st.StrokeWidth > 0 {
		ring(st.StrokeWidth/2, func(dx, dy float64) { stamp(dx, dy, st.Stroke) })
	}
	stamp(0, 0, st.Fill)

	return layer, float64(layer.Bounds().Dx()) / 2, float64(layer.Bounds().Dy()) / 2
}

// ring calls fn for eight points on a circle of radius r.
func ring(r float64, fn func(dx, dy float64)) {
	if r < 0.5 {
		return
	}
	for i := 0; i < 8; i++ {
		sin, cos := math.Sincos(float64(i) * math.Pi / 4)
		fn(cos*r, sin*r)
	}
}

func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, a))))
	return n
}

// drawText centres text on logical point (x, y). Style lengths are logical.
func (s *Surface) drawText(text string, fontSize, x, y float64, st textStyle, alpha, rotation float64) {
	st.LabelPadX = s.px(st.LabelPadX)
	st.LabelPadY = s.px(st.LabelPadY)
	st.StrokeWidth = s.px(st.StrokeWidth)
	st.Glow = s.px(st.Glow)
	st.ShadowOffset = s.px(st.ShadowOffset)
	layer, ox, oy := textLayer(text, s.px(fontSize), st)
	if layer == nil {
		return
	}
	s.Composite(layer, Placement{
		OX: ox, OY: oy,
		DX: s.px(x), DY: s.px(y),
		Scale:    1,
		Rotation: rotation,
		Alpha:    alpha,
	})
}
