package overlays

import (
	"image/color"
	"math"
	"math/rand"
	"strings"
)

const (
	// TextEntryWindow is the entry animation length of overlay text.
	TextEntryWindow = 0.35
	// FadeOutWindow is the linear fade applied before an overlay ends.
	FadeOutWindow = 0.3
)

// TextInput is what a text animation sees for one frame.
type TextInput struct {
	// Progress through the entry window, in [0, 1].
	Progress float64
	// Elapsed seconds since the clip started.
	Elapsed float64
	Text    string
	Color   string
	// Rand feeds the flicker entries. Nil disables flicker.
	Rand *rand.Rand
}

// TextParams are the render parameters a text animation produces.
type TextParams struct {
	Alpha    float64
	OffsetX  float64
	OffsetY  float64
	Scale    float64
	Rotation float64
	Glow     float64
	// Color overrides the clip colour when non-nil.
	Color color.Color
	Text  string
}

// TextAnimation computes one frame of an overlay entry animation.
type TextAnimation func(in TextInput) TextParams

func base(in TextInput) TextParams {
	return TextParams{Alpha: 1, Scale: 1, Text: in.Text}
}

func chance(r *rand.Rand, threshold float64) bool {
	return r != nil && r.Float64() > threshold
}

// TextAnimations is the overlay animation catalog.
var TextAnimations = newTextAnimations()

// AnimateText looks up name and evaluates it. Unknown names render static.
func AnimateText(name string, in TextInput) TextParams {
	if fn, ok := TextAnimations.Get(name); ok {
		return fn(in)
	}
	return base(in)
}

// FadeOut returns the multiplier for the linear fade over the final
// FadeOutWindow seconds before end.
func FadeOut(t, end float64) float64 {
	start := end - FadeOutWindow
	if t <= start {
		return 1
	}
	return clamp01(1 - (t-start)/FadeOutWindow)
}

func newTextAnimations() *Registry[TextAnimation] {
	r := NewRegistry[TextAnimation]()

	r.Register("fadeIn", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		return p
	})
	r.Register("slideUp", func(in TextInput) TextParams {
		p := base(in)
		p.OffsetY = (1 - in.Progress) * 50
		p.Alpha = in.Progress
		return p
	})
	r.Register("slideDown", func(in TextInput) TextParams {
		p := base(in)
		p.OffsetY = (in.Progress - 1) * 50
		p.Alpha = in.Progress
		return p
	})
	r.Register("slideLeft", func(in TextInput) TextParams {
		p := base(in)
		p.OffsetX = (1 - in.Progress) * 100
		p.Alpha = in.Progress
		return p
	})
	r.Register("slideRight", func(in TextInput) TextParams {
		p := base(in)
		p.OffsetX = (in.Progress - 1) * 100
		p.Alpha = in.Progress
		return p
	})
	r.Register("scale", func(in TextInput) TextParams {
		p := base(in)
		p.Scale = 0.5 + in.Progress*0.5
		p.Alpha = in.Progress
		return p
	})
	r.Register("typewriter", func(in TextInput) TextParams {
		p := base(in)
		runes := []rune(in.Text)
		n := int(math.Floor(in.Progress * float64(len(runes)) * 3))
		if n > len(runes) {
			n = len(runes)
		}
		p.Text = string(runes[:n])
		return p
	})
	r.Register("drawOn", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Scale = 0.95 + in.Progress*0.05
		return p
	})

	r.Register("bounce", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = EaseOutElastic(in.Progress)
			p.Alpha = math.Min(in.Progress*2, 1)
		} else {
			p.Scale = 1 + math.Sin(in.Elapsed*4)*0.03
		}
		return p
	})
	r.Register("shake", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = math.Min(in.Progress*2, 1)
		if in.Progress >= 1 {
			p.OffsetX = math.Sin(in.Elapsed*30) * 3
			p.OffsetY = math.Cos(in.Elapsed*25) * 2
		}
		return p
	})
	r.Register("glow", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Glow = 10 + math.Sin(in.Elapsed*4)*8
		return p
	})
	r.Register("zoom", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = 0.3 + EaseOutBack(in.Progress)*0.7
			p.Alpha = in.Progress
		} else {
			p.Scale = 1 + math.Sin(in.Elapsed*2)*0.05
		}
		return p
	})
	r.Register("wiggle", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = math.Min(in.Progress*2, 1)
		p.Rotation = math.Sin(in.Elapsed*8) * 0.05
		return p
	})
	r.Register("explode", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = EaseOutBack(in.Progress) * 1.2
			p.Alpha = in.Progress
		}
		return p
	})
	r.Register("glitch", func(in TextInput) TextParams {
		p := base(in)
		if chance(in.Rand, 0.92) {
			p.OffsetX = (in.Rand.Float64() - 0.5) * 10
			if in.Rand.Float64() > 0.5 {
				p.Color = color.NRGBA{R: 0xff, G: 0x00, B: 0x66, A: 0xff}
			} else {
				p.Color = color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
			}
		}
		return p
	})
	r.Register("rainbow", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Color = HSL(math.Mod(in.Elapsed*100, 360), 1, 0.6)
		return p
	})
	r.Register("wordByWord", func(in TextInput) TextParams {
		p := base(in)
		words := strings.Split(in.Text, " ")
		n := int(math.Ceil(in.Progress * float64(len(words)) * 2))
		if n > len(words) {
			n = len(words)
		}
		p.Text = strings.Join(words[:n], " ")
		return p
	})

	// impact
	r.Register("stomp", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = 2 - in.Progress
			p.Alpha = in.Progress
			p.OffsetY = -50 * (1 - in.Progress)
		}
		return p
	})
	r.Register("slam", func(in TextInput) TextParams {
		p := base(in)
		switch {
		case in.Progress < 0.3:
			p.OffsetY = -100 * (1 - in.Progress/0.3)
			p.Alpha = in.Progress / 0.3
			p.Scale = 0.5
		case in.Progress < 0.5:
			p.Scale = 0.5 + (in.Progress-0.3)*2.5
		}
		return p
	})
	r.Register("whip", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.OffsetX = 200 * (1 - EaseOutBack(in.Progress))
			p.Rotation = (1 - in.Progress) * 0.3
			p.Alpha = in.Progress
		}
		return p
	})
	r.Register("drop", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.OffsetY = -150 * (1 - EaseOutElastic(in.Progress))
			p.Alpha = math.Min(in.Progress*2, 1)
		}
		return p
	})
	r.Register("rubberband", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			stretch := math.Sin(in.Progress*math.Pi*3) * (1 - in.Progress)
			p.Scale = 1 + stretch*0.3
			p.Alpha = in.Progress
		}
		return p
	})

	// attention
	r.Register("pulse", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Scale = 1 + math.Sin(in.Elapsed*6)*0.1
		return p
	})
	r.Register("heartbeat", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Scale = 1 + math.Abs(math.Sin(in.Elapsed*4))*0.15
		return p
	})
	r.Register("spin", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Rotation = (1 - in.Progress) * math.Pi * 2
			p.Scale = in.Progress
			p.Alpha = in.Progress
		}
		return p
	})
	r.Register("flip", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = math.Abs(math.Cos(in.Progress * math.Pi))
			p.Alpha = in.Progress
		}
		return p
	})
	r.Register("jello", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = EaseOutElastic(in.Progress)
			p.Alpha = in.Progress
		} else {
			p.Rotation = math.Sin(in.Elapsed*8) * 0.02
		}
		return p
	})

	// glow and neon
	r.Register("neon", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		flicker := 1.0
		if chance(in.Rand, 0.95) {
			flicker = 0.5
		}
		p.Glow = 15*flicker + math.Sin(in.Elapsed*10)*5
		p.Color = ColorOr(in.Color, color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff})
		return p
	})
	r.Register("fire", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.Color = HSL(20+math.Sin(in.Elapsed*8)*20, 1, 0.5)
		p.Glow = 20 + math.Sin(in.Elapsed*12)*10
		p.OffsetY = math.Sin(in.Elapsed*15) * 2
		return p
	})
	r.Register("spotlight", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Alpha = in.Progress
			p.Scale = 0.8 + in.Progress*0.2
		}
		p.Glow = 30
		return p
	})
	r.Register("shadowDrop", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Alpha = in.Progress
			p.OffsetY = -30 * (1 - in.Progress)
		}
		return p
	})

	// 3D
	r.Register("rotate3d", func(in TextInput) TextParams {
		p := base(in)
		if in.Progress < 1 {
			p.Scale = math.Abs(math.Cos(in.Progress * math.Pi / 2))
			p.Alpha = in.Progress
		}
		return p
	})
	r.Register("wave", func(in TextInput) TextParams {
		p := base(in)
		p.Alpha = in.Progress
		p.OffsetY = math.Sin(in.Elapsed*3) * 10
		p.Rotation = math.Sin(in.Elapsed*2) * 0.05
		return p
	})

	return r
}
