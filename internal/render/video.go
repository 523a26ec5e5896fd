package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
)

var placeholderGradients = map[string][2]color.NRGBA{
	"sora":            {{R: 0x0d, G: 0x4f, B: 0x4f, A: 0xff}, {R: 0x1a, G: 0x3a, B: 0x3a, A: 0xff}},
	"screenRecording": {{R: 0x2a, G: 0x2a, B: 0x4a, A: 0xff}, {R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}},
	"":                {{R: 0x2d, G: 0x2d, B: 0x4a, A: 0xff}, {R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}},
}

func placeholderCaption(bgType string) string {
	switch bgType {
	case "sora":
		return "Sora Video Needed"
	case "screenRecording":
		return "Screen Recording Needed"
	}
	return "Video Placeholder"
}

// layoutRect returns the logical region a layout confines a clip to.
func layoutRect(layout string, w, h float64) (x, y, rw, rh float64) {
	switch layout {
	case "top":
		return 0, 0, w, h / 2
	case "bottom":
		return 0, h / 2, w, h / 2
	case "left":
		return 0, 0, w / 2, h
	case "right":
		return w / 2, 0, w / 2, h
	}
	return 0, 0, w, h
}

// drawVideo composites one video clip at time t.
func (r *Renderer) drawVideo(s *Surface, c *clips.Clip, t float64) {
	elapsed := t - c.Start
	tr := overlays.VideoTransform(c.InAnimation, c.Motion, elapsed, c.Duration())

	lx, ly, lw, lh := layoutRect(c.Layout, s.W, s.H)
	layer := NewSurface(int(s.W), int(s.H), s.Scale)
	dst := layer.Rect(lx, ly, lw, lh)

	if c.Frame != nil {
		frame := resize.Resize(uint(dst.Dx()), uint(dst.Dy()), c.Frame, resize.Bilinear)
		draw.Draw(layer.Img, dst, frame, frame.Bounds().Min, draw.Src)
	} else {
		g, ok := placeholderGradients[c.BgType]
		if !ok {
			g = placeholderGradients[""]
		}
		layer.LinearGradient(lx, ly, lw, lh, g[0], g[1])
		faint := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d}
		layer.drawText(placeholderCaption(c.BgType), 16, lx+lw/2, ly+lh/2-20, textStyle{Fill: faint}, 1, 0)
		if c.Label != "" {
			layer.drawText(c.Label, 12, lx+lw/2, ly+lh/2+10, textStyle{Fill: faint}, 1, 0)
		}
	}
	applyFilter(layer.Img, c.Filter)

	cx, cy := s.px(s.W/2), s.px(s.H/2)
	clip := image.Rectangle{}
	if c.Layout != "" && c.Layout != "full" {
		clip = dst
	}
	s.Composite(layer.Img, Placement{
		OX:       cx - s.px(tr.OffsetX),
		OY:       cy - s.px(tr.OffsetY),
		DX:       cx,
		DY:       cy,
		Scale:    tr.Scale,
		Rotation: tr.Rotation,
		Alpha:    tr.Alpha,
		Clip:     clip,
	})
}
