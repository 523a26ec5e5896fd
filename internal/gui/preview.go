package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/timeline"
)

// previewWidget shows the rendered frame and lets overlays be picked and
// dragged on it.
type previewWidget struct {
	widget.BaseWidget

	p       *pipeline.Pipeline
	gesture *timeline.Gesture
	img     *canvas.Image
}

func newPreviewWidget(p *pipeline.Pipeline, g *timeline.Gesture) *previewWidget {
	w := &previewWidget{p: p, gesture: g}
	w.img = canvas.NewImageFromImage(p.Frame())
	w.img.FillMode = canvas.ImageFillContain
	w.img.ScaleMode = canvas.ImageScaleFastest
	w.ExtendBaseWidget(w)
	return w
}

func (w *previewWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.img)
}

func (w *previewWidget) MinSize() fyne.Size {
	fw, fh := w.p.Timeline().Format().Size()
	return fyne.NewSize(float32(fw)/6, float32(fh)/6)
}

func (w *previewWidget) setFrame(img *image.RGBA) {
	w.img.Image = img
	w.img.Refresh()
}

// toFrame maps a widget position to logical frame coordinates under the
// contain fit. ok is false outside the letterboxed picture.
func (w *previewWidget) toFrame(pos fyne.Position) (x, y float64, ok bool) {
	fw, fh := w.p.Timeline().Format().Size()
	size := w.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0, false
	}
	f := min(float64(size.Width)/float64(fw), float64(size.Height)/float64(fh))
	ox := (float64(size.Width) - float64(fw)*f) / 2
	oy := (float64(size.Height) - float64(fh)*f) / 2
	x = (float64(pos.X) - ox) / f
	y = (float64(pos.Y) - oy) / f
	return x, y, x >= 0 && y >= 0 && x <= float64(fw) && y <= float64(fh)
}

// Tapped selects the overlay under the pointer.
func (w *previewWidget) Tapped(ev *fyne.PointEvent) {
	x, y, ok := w.toFrame(ev.Position)
	if !ok {
		return
	}
	tl := w.p.Timeline()
	if c := w.p.HitOverlay(x, y); c != nil {
		tl.Select(c.ID)
		return
	}
	tl.ClearSelection()
}

func (w *previewWidget) Dragged(ev *fyne.DragEvent) {
	x, y, _ := w.toFrame(ev.Position)
	if !w.gesture.Active() {
		sx, sy, ok := w.toFrame(ev.Position.Subtract(ev.Dragged))
		if !ok {
			return
		}
		c := w.p.HitOverlay(sx, sy)
		if c == nil {
			return
		}
		fw, fh := w.p.Timeline().Format().Size()
		if !w.gesture.BeginOverlay(c.ID, sx, sy, float64(fw), float64(fh)) {
			return
		}
	}
	w.gesture.Move(x, y)
}

func (w *previewWidget) DragEnd() {
	w.gesture.End()
}

func (w *previewWidget) MouseIn(*desktop.MouseEvent)    {}
func (w *previewWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut drops an overlay drag in place.
func (w *previewWidget) MouseOut() {
	if w.gesture.Active() {
		w.gesture.Leave()
	}
}
