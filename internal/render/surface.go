package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface is a raster frame addressed in logical frame units. Scale maps
// logical units to pixels, so a 1080x1920 frame at 0.25 is 270x480 pixels.
type Surface struct {
	Img   *image.RGBA
	W, H  float64
	Scale float64
}

// NewSurface allocates a frame of w x h logical units.
func NewSurface(w, h int, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	pw := int(math.Max(1, math.Round(float64(w)*scale)))
	ph := int(math.Max(1, math.Round(float64(h)*scale)))
	return &Surface{
		Img:   image.NewRGBA(image.Rect(0, 0, pw, ph)),
		W:     float64(w),
		H:     float64(h),
		Scale: scale,
	}
}

// px converts a logical length to pixels.
func (s *Surface) px(v float64) float64 { return v * s.Scale }

// Rect converts a logical rectangle to pixel bounds, clipped to the frame.
func (s *Surface) Rect(x, y, w, h float64) image.Rectangle {
	r := image.Rect(
		int(math.Floor(s.px(x))),
		int(math.Floor(s.px(y))),
		int(math.Ceil(s.px(x+w))),
		int(math.Ceil(s.px(y+h))),
	)
	return r.Intersect(s.Img.Bounds())
}

// Fill paints the whole frame.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.Img, s.Img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect blends c over a logical rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	r := s.Rect(x, y, w, h)
	if r.Empty() {
		return
	}
	draw.Draw(s.Img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// AddRect adds c to a logical rectangle, saturating each channel.
func (s *Surface) AddRect(x, y, w, h float64, c color.NRGBA) {
	r := s.Rect(x, y, w, h)
	a := uint32(c.A)
	add := [3]uint32{uint32(c.R) * a / 255, uint32(c.G) * a / 255, uint32(c.B) * a / 255}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		i := s.Img.PixOffset(r.Min.X, py)
		for px := r.Min.X; px < r.Max.X; px++ {
			for ch := 0; ch < 3; ch++ {
				v := uint32(s.Img.Pix[i+ch]) + add[ch]
				if v > 255 {
					v = 255
				}
				s.Img.Pix[i+ch] = uint8(v)
			}
			i += 4
		}
	}
}

// RadialGradient blends c at (cx, cy) fading linearly to transparent at radius.
func (s *Surface) RadialGradient(cx, cy, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	r := s.Rect(cx-radius, cy-radius, radius*2, radius*2)
	pcx, pcy, pr := s.px(cx), s.px(cy), s.px(radius)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d := math.Hypot(float64(px)+0.5-pcx, float64(py)+0.5-pcy)
			if d >= pr {
				continue
			}
			k := c
			k.A = uint8(float64(c.A) * (1 - d/pr))
			blendPixel(s.Img, px, py, k)
		}
	}
}

// LinearGradient fills a logical rectangle with a diagonal gradient from
// its top-left corner to its bottom-right corner.
func (s *Surface) LinearGradient(x, y, w, h float64, from, to color.NRGBA) {
	r := s.Rect(x, y, w, h)
	x0, y0 := s.px(x), s.px(y)
	dx, dy := s.px(w), s.px(h)
	den := dx*dx + dy*dy
	if den == 0 {
		return
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			t := ((float64(px)-x0)*dx + (float64(py)-y0)*dy) / den
			s.Img.SetRGBA(px, py, lerpColor(from, to, t))
		}
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	l := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: 0xff}
}

func blendPixel(img *image.RGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(x, y)
	a := uint32(c.A)
	inv := 255 - a
	img.Pix[i+0] = uint8((uint32(c.R)*a + uint32(img.Pix[i+0])*inv) / 255)
	img.Pix[i+1] = uint8((uint32(c.G)*a + uint32(img.Pix[i+1])*inv) / 255)
	img.Pix[i+2] = uint8((uint32(c.B)*a + uint32(img.Pix[i+2])*inv) / 255)
	img.Pix[i+3] = uint8(a + uint32(img.Pix[i+3])*inv/255)
}

// Placement positions a layer on the surface: the layer pixel (OX, OY) lands
// on surface pixel (DX, DY), scaled and rotated about that point.
type Placement struct {
	OX, OY   float64
	DX, DY   float64
	Scale    float64
	Rotation float64
	Alpha    float64
	// Clip limits drawing to these pixel bounds; empty means the whole frame.
	Clip image.Rectangle
}

// Composite draws a pixel layer onto the surface.
func (s *Surface) Composite(layer image.Image, p Placement) {
	if p.Alpha <= 0 || p.Scale <= 0 {
		return
	}
	dst := s.Img
	if !p.Clip.Empty() {
		sub, ok := s.Img.SubImage(p.Clip.Intersect(s.Img.Bounds())).(*image.RGBA)
		if !ok || sub.Bounds().Empty() {
			return
		}
		dst = sub
	}

	var mask image.Image
	if p.Alpha < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(math.Round(p.Alpha * 255))})
	}

	lb := layer.Bounds()
	if p.Scale == 1 && p.Rotation == 0 {
		at := image.Pt(int(math.Round(p.DX-p.OX)), int(math.Round(p.DY-p.OY)))
		r := image.Rectangle{Min: at, Max: at.Add(lb.Size())}
		if mask == nil {
			draw.Draw(dst, r, layer, lb.Min, draw.Over)
		} else {
			draw.DrawMask(dst, r, layer, lb.Min, mask, image.Point{}, draw.Over)
		}
		return
	}

	sin, cos := math.Sincos(p.Rotation)
	a, b := p.Scale*cos, -p.Scale*sin
	d, e := p.Scale*sin, p.Scale*cos
	s2d := f64.Aff3{
		a, b, p.DX - (a*p.OX + b*p.OY),
		d, e, p.DY - (d*p.OX + e*p.OY),
	}
	var opts *xdraw.Options
	if mask != nil {
		opts = &xdraw.Options{SrcMask: mask}
	}
	xdraw.ApproxBiLinear.Transform(dst, s2d, layer, lb, xdraw.Over, opts)
}
