package render

import (
	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
)

// drawEffect runs the transition of an effect clip at time t.
func (r *Renderer) drawEffect(s *Surface, c *clips.Clip, t float64) {
	d := c.Duration()
	if d <= 0 {
		return
	}
	ops := overlays.TransitionOps(c.TransitionType, overlays.TransitionInput{
		Progress: (t - c.Start) / d,
		Width:    s.W,
		Height:   s.H,
		Rand:     r.rand,
	})
	for _, op := range ops {
		switch op.Kind {
		case overlays.OpFill:
			s.FillRect(op.X, op.Y, op.W, op.H, op.Color)
		case overlays.OpAdd:
			s.AddRect(op.X, op.Y, op.W, op.H, op.Color)
		case overlays.OpRadial:
			s.RadialGradient(op.X, op.Y, op.Radius, op.Color)
		case overlays.OpTransform:
			transformFrame(s, op)
		}
	}
}

// transformFrame redraws the composited frame scaled and rotated about its
// centre and shifted by op.X.
func transformFrame(s *Surface, op overlays.Op) {
	if op.ScaleX == 1 && op.ScaleY == 1 && op.Rotation == 0 && op.X == 0 {
		return
	}
	src := NewSurface(int(s.W), int(s.H), s.Scale)
	copy(src.Img.Pix, s.Img.Pix)
	cx, cy := s.px(s.W/2), s.px(s.H/2)

	// non-uniform scale is approximated by the larger axis
	scale := max(op.ScaleX, op.ScaleY)
	s.Composite(src.Img, Placement{
		OX:       cx - s.px(op.X),
		OY:       cy,
		DX:       cx,
		DY:       cy,
		Scale:    scale,
		Rotation: op.Rotation,
		Alpha:    1,
	})
}
