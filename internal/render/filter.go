package render

import (
	"image"
	"math"
)

// colorMatrix is a 3x3 transform on linear-ish RGB in [0, 1].
type colorMatrix [9]float64

func (m colorMatrix) apply(r, g, b float64) (float64, float64, float64) {
	return m[0]*r + m[1]*g + m[2]*b,
		m[3]*r + m[4]*g + m[5]*b,
		m[6]*r + m[7]*g + m[8]*b
}

func grayscale() colorMatrix {
	return colorMatrix{
		0.2126, 0.7152, 0.0722,
		0.2126, 0.7152, 0.0722,
		0.2126, 0.7152, 0.0722,
	}
}

func sepia(amount float64) colorMatrix {
	k := 1 - amount
	return colorMatrix{
		0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k,
		0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k,
		0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k,
	}
}

func saturate(s float64) colorMatrix {
	return colorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

func hueRotate(deg float64) colorMatrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return colorMatrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
}

// pixelOp transforms one unpremultiplied pixel.
type pixelOp func(r, g, b float64) (float64, float64, float64)

func matrixOp(m colorMatrix) pixelOp { return m.apply }

func brightness(k float64) pixelOp {
	return func(r, g, b float64) (float64, float64, float64) { return r * k, g * k, b * k }
}

func contrast(k float64) pixelOp {
	c := func(v float64) float64 { return (v-0.5)*k + 0.5 }
	return func(r, g, b float64) (float64, float64, float64) { return c(r), c(g), c(b) }
}

// filters maps a clip filter name to its chain of pixel operations.
var filters = map[string][]pixelOp{
	"grayscale": {matrixOp(grayscale())},
	"sepia":     {matrixOp(sepia(1))},
	"cold":      {matrixOp(hueRotate(180)), matrixOp(saturate(1.2))},
	"warm":      {matrixOp(sepia(0.3)), matrixOp(saturate(1.5)), brightness(1.1)},
	"vibrant":   {matrixOp(saturate(2)), contrast(1.1)},
	"dark":      {brightness(0.6), contrast(1.2)},
}

// applyFilter rewrites img in place. Unknown names and "none" do nothing.
func applyFilter(img *image.RGBA, name string) {
	chain, ok := filters[name]
	if !ok {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			a := float64(img.Pix[i+3])
			if a > 0 {
				r := float64(img.Pix[i+0]) / a
				g := float64(img.Pix[i+1]) / a
				bl := float64(img.Pix[i+2]) / a
				for _, op := range chain {
					r, g, bl = op(r, g, bl)
				}
				img.Pix[i+0] = unit8(r, a)
				img.Pix[i+1] = unit8(g, a)
				img.Pix[i+2] = unit8(bl, a)
			}
			i += 4
		}
	}
}

// unit8 re-premultiplies a [0, 1] channel by alpha a in [0, 255].
func unit8(v, a float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * a))
}
