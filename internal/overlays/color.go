package overlays

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor reads a #rgb or #rrggbb string.
func ParseColor(s string) (color.NRGBA, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
}

// ColorOr parses s, falling back to def.
func ColorOr(s string, def color.NRGBA) color.NRGBA {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return def
}

// HSL converts hue in degrees, saturation and lightness in [0, 1].
func HSL(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// WithAlpha returns c with its alpha replaced by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(a) * 255))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black = color.NRGBA{A: 0xff}
	// Brand is the editor accent colour.
	Brand = color.NRGBA{R: 0x00, G: 0xa6, B: 0xce, A: 0xff}
)
