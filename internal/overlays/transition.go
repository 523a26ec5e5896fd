package overlays

import (
	"image/color"
	"math"
	"math/rand"
)

// OpKind identifies a transition draw operation.
type OpKind int

const (
	// OpFill blends Color over Rect.
	OpFill OpKind = iota
	// OpAdd adds Color to Rect, brightening it.
	OpAdd
	// OpRadial draws a radial gradient from Color at the centre to transparent at Radius.
	OpRadial
	// OpTransform scales, rotates and shifts the composited frame.
	OpTransform
)

// Op is one drawing step of a transition. Coordinates are in frame pixels.
type Op struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	Color  color.NRGBA
	Radius float64
	// Frame transform, for OpTransform.
	ScaleX, ScaleY float64
	Rotation       float64
}

// TransitionInput is what a transition sees for one frame.
type TransitionInput struct {
	// Progress through the effect clip, in [0, 1).
	Progress float64
	Width    float64
	Height   float64
	Rand     *rand.Rand
}

// Transition builds the draw ops for one frame of an effect clip.
type Transition func(in TransitionInput) []Op

// Transitions is the effect catalog.
var Transitions = newTransitions()

func fill(x, y, w, h float64, c color.NRGBA, a float64) Op {
	return Op{Kind: OpFill, X: x, Y: y, W: w, H: h, Color: WithAlpha(c, a)}
}

func newTransitions() *Registry[Transition] {
	r := NewRegistry[Transition]()

	r.Register("fade", func(in TransitionInput) []Op {
		a := 1 - math.Abs(in.Progress-0.5)*2
		return []Op{fill(0, 0, in.Width, in.Height, Black, a)}
	})
	r.Register("wipeLeft", func(in TransitionInput) []Op {
		return []Op{fill(0, 0, in.Width*(1-in.Progress), in.Height, Black, 1)}
	})
	r.Register("wipeUp", func(in TransitionInput) []Op {
		y := in.Height * in.Progress
		return []Op{fill(0, y, in.Width, in.Height-y, Black, 1)}
	})
	r.Register("blur", func(in TransitionInput) []Op {
		return []Op{fill(0, 0, in.Width, in.Height, White, math.Sin(in.Progress*math.Pi)*0.3)}
	})
	r.Register("zoomCloud", func(in TransitionInput) []Op {
		s := 1 + math.Sin(in.Progress*math.Pi)*0.5
		return []Op{{Kind: OpTransform, ScaleX: s, ScaleY: s}}
	})
	r.Register("whipPan", func(in TransitionInput) []Op {
		return []Op{{Kind: OpTransform, X: math.Sin(in.Progress*math.Pi) * 100, ScaleX: 1, ScaleY: 1}}
	})
	r.Register("flare", func(in TransitionInput) []Op {
		return []Op{{
			Kind:   OpRadial,
			X:      in.Width * in.Progress,
			Y:      in.Height / 2,
			Radius: in.Width * 0.5,
			Color:  WithAlpha(White, math.Sin(in.Progress*math.Pi)*0.8),
		}}
	})
	r.Register("glitchHeavy", func(in TransitionInput) []Op {
		if !chance(in.Rand, 0.8) {
			return nil
		}
		return []Op{
			fill(in.Rand.Float64()*in.Width, 0, 50, in.Height, color.NRGBA{R: 0xff, B: 0xff, A: 0xff}, 0.2),
			fill(in.Rand.Float64()*in.Width, 0, 50, in.Height, color.NRGBA{G: 0xff, B: 0xff, A: 0xff}, 0.2),
		}
	})
	r.Register("ghost", func(in TransitionInput) []Op {
		a := math.Sin(in.Progress*math.Pi) * 0.4
		dx := math.Sin(in.Progress*10) * 10
		return []Op{fill(dx, 0, in.Width, in.Height, White, 0.2*a)}
	})
	r.Register("bloom", func(in TransitionInput) []Op {
		return []Op{{
			Kind:  OpAdd,
			W:     in.Width,
			H:     in.Height,
			Color: WithAlpha(White, math.Sin(in.Progress*math.Pi)*0.5),
		}}
	})
	r.Register("warp", func(in TransitionInput) []Op {
		s := math.Sin(in.Progress * math.Pi)
		return []Op{{Kind: OpTransform, ScaleX: 1 + s*0.1, ScaleY: 1, Rotation: s * 0.1}}
	})

	return r
}

// TransitionOps evaluates a transition by tag. Unknown tags draw nothing.
func TransitionOps(name string, in TransitionInput) []Op {
	if fn, ok := Transitions.Get(name); ok {
		return fn(in)
	}
	return nil
}
