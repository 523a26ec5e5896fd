package render

import (
	"image/color"
	"math"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
)

const (
	captionGap       = 20
	captionMaxWidth  = 0.9
	captionPosY      = 78
	captionFontSize  = 48
	defaultHighlight = "#FFE135"
)

// WordGroup is a run of caption words shown on screen together.
type WordGroup struct {
	Words      []clips.Word
	Start, End float64
}

// GroupWords chunks words into groups of n.
func GroupWords(words []clips.Word, n int) []WordGroup {
	if n <= 0 {
		n = 4
	}
	var groups []WordGroup
	for i := 0; i < len(words); i += n {
		j := min(i+n, len(words))
		g := words[i:j]
		groups = append(groups, WordGroup{Words: g, Start: g[0].Start, End: g[len(g)-1].End})
	}
	return groups
}

// ActiveGroup finds the group on screen at t and the index of the word
// being spoken, or -1 when t falls in a gap between words.
func ActiveGroup(groups []WordGroup, t float64) (*WordGroup, int) {
	for i := range groups {
		g := &groups[i]
		if t >= g.Start && t < g.End {
			for _, w := range g.Words {
				if t >= w.Start && t < w.End {
					return g, w.Index
				}
			}
			return g, -1
		}
	}
	return nil, -1
}

// wordLook is how one caption word is drawn.
type wordLook struct {
	Color   color.Color
	Scale   float64
	OffsetY float64
}

// captionLook applies the caption style to a word. current is the index of
// the word being spoken.
func captionLook(style string, w clips.Word, current int, t float64, base, highlight color.NRGBA, karaoke color.NRGBA) wordLook {
	look := wordLook{Color: base, Scale: 1}
	isCurrent := w.Index == current
	isPast := w.Index < current
	switch style {
	case "tiktok":
		if isCurrent {
			look.Color = highlight
			look.Scale = 1.2
		} else if isPast {
			look.Color = overlays.WithAlpha(overlays.White, 0.7)
		}
	case "bounce":
		if isCurrent {
			p := 0.0
			if w.End > w.Start {
				p = (t - w.Start) / (w.End - w.Start)
			}
			arc := math.Sin(p * math.Pi)
			look.OffsetY = -arc * 12
			look.Scale = 1 + arc*0.15
			look.Color = highlight
		} else if isPast {
			look.Color = overlays.WithAlpha(overlays.White, 0.7)
		}
	case "karaoke":
		if isCurrent || isPast {
			look.Color = karaoke
		} else {
			look.Color = overlays.WithAlpha(overlays.White, 0.4)
		}
	}
	return look
}

// drawCaptions renders the word group of a caption clip active at t.
func (r *Renderer) drawCaptions(s *Surface, c *clips.Clip, t float64) {
	if len(c.Words) == 0 {
		return
	}
	per := c.WordsPerScreen
	if per <= 0 {
		per = r.opts.WordsPerScreen
	}
	group, current := ActiveGroup(GroupWords(c.Words, per), t)
	if group == nil {
		return
	}

	size := c.FontSize
	if size <= 0 {
		size = captionFontSize
	}
	posY := c.PosY
	if posY == 0 {
		posY = captionPosY
	}
	centerY := s.H * posY / 100

	widths := make([]float64, len(group.Words))
	total := 0.0
	for i, w := range group.Words {
		widths[i] = r.measure.Measure(w.Word, size)
		total += widths[i] + captionGap
	}
	total -= captionGap

	fit := CaptionFit(r.measure, group.Words, size, s.W)

	base := overlays.ColorOr(c.Color, overlays.White)
	highlight := overlays.ColorOr(c.HighlightColor, overlays.ColorOr(defaultHighlight, overlays.White))
	karaoke := overlays.ColorOr(c.HighlightColor, r.brand)

	x := (s.W - total*fit) / 2
	for i, w := range group.Words {
		ww := widths[i] * fit
		look := captionLook(c.Style, w, current, t, base, highlight, karaoke)
		fs := size * fit * look.Scale
		st := textStyle{
			Fill:        look.Color,
			Stroke:      color.NRGBA{A: 0xe6},
			StrokeWidth: math.Max(4, fs/12),
		}
		s.drawText(w.Word, fs, x+ww/2, centerY+look.OffsetY, st, 1, 0)
		x += ww + captionGap*fit
	}
}

// CaptionFit reports the scale factor applied to a word group so it fits
// within 90% of the frame width.
func CaptionFit(m Measurer, words []clips.Word, fontSize, frameW float64) float64 {
	total := 0.0
	for _, w := range words {
		total += m.Measure(w.Word, fontSize) + captionGap
	}
	total -= captionGap
	if maxW := frameW * captionMaxWidth; total > maxW {
		return maxW / total
	}
	return 1
}
