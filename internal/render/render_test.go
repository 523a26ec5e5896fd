package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
)

var background = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}

func newTestRenderer() *Renderer {
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(1))
	return New(zerolog.Nop(), opts)
}

func newScene(t *testing.T) *timeline.Timeline {
	t.Helper()
	return timeline.New(zerolog.Nop(), timeline.DefaultOptions())
}

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestEmptyFrameIsBackground(t *testing.T) {
	r := newTestRenderer()
	img := r.Render(newScene(t), 0)
	if img.Bounds().Dx() != 270 || img.Bounds().Dy() != 480 {
		t.Fatalf("bounds = %v, want 270x480", img.Bounds())
	}
	if got := img.RGBAAt(135, 240); got != background {
		t.Errorf("pixel = %v, want %v", got, background)
	}
}

func TestHorizontalFormat(t *testing.T) {
	tl := newScene(t)
	tl.SetFormat(timeline.FormatHorizontal)
	img := newTestRenderer().Render(tl, 0)
	if img.Bounds().Dx() != 480 || img.Bounds().Dy() != 270 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestVideoTracksStackByRank(t *testing.T) {
	tl := newScene(t)
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video2", Start: 0, End: 10, Frame: solid(blue)})
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 10, Frame: solid(red)})
	r := newTestRenderer()

	if got := r.Render(tl, 1).RGBAAt(135, 240); got != blue {
		t.Errorf("video2 should draw over video1, got %v", got)
	}
	tl.ReorderTrack("video2", timeline.Up)
	if got := r.Render(tl, 1).RGBAAt(135, 240); got != red {
		t.Errorf("after reorder video1 should be on top, got %v", got)
	}
}

func TestLayoutConfinesVideo(t *testing.T) {
	tl := newScene(t)
	red := color.RGBA{R: 0xff, A: 0xff}
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 10, Frame: solid(red),
		MediaProps: clips.MediaProps{Layout: "top", Motion: "slowZoom"}})
	img := newTestRenderer().Render(tl, 5)
	if got := img.RGBAAt(135, 100); got != red {
		t.Errorf("top half pixel = %v, want red", got)
	}
	if got := img.RGBAAt(135, 400); got != background {
		t.Errorf("bottom half pixel = %v, want background", got)
	}
}

func TestPlaceholderDrawn(t *testing.T) {
	tl := newScene(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 10, Label: "intro",
		MediaProps: clips.MediaProps{BgType: "sora"}})
	img := newTestRenderer().Render(tl, 2)
	// top-left corner starts the sora gradient
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0x0d, G: 0x4f, B: 0x4f, A: 0xff}) {
		t.Errorf("corner = %v", got)
	}
}

func TestOverlayFadeOut(t *testing.T) {
	tl := newScene(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 2, End: 5,
		TextProps: clips.TextProps{Text: " ", PosX: 50, PosY: 50, FontSize: 96, TextStyle: "label-white"}})
	tl.ClearSelection()
	r := newTestRenderer()

	if got := r.Render(tl, 4).RGBAAt(135, 240); got.R != 0xff {
		t.Errorf("label before fade = %v, want white", got)
	}

	// alpha 1/3 at 0.1s before the end: 255/3 + 26*2/3
	got := r.Render(tl, 4.9).RGBAAt(135, 240)
	if !near(got.R, 102, 3) {
		t.Errorf("label during fade = %v, want R about 102", got)
	}

	if got := r.Render(tl, 5).RGBAAt(135, 240); got != background {
		t.Errorf("clip end is exclusive, got %v", got)
	}
}

func TestEffectFadeMidpointIsBlack(t *testing.T) {
	tl := newScene(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeEffect, Track: "effects", Start: 1, End: 2,
		EffectProps: clips.EffectProps{TransitionType: "fade"}})
	got := newTestRenderer().Render(tl, 1.5).RGBAAt(10, 10)
	if got != (color.RGBA{A: 0xff}) {
		t.Errorf("pixel = %v, want black", got)
	}
}

func TestProgressBar(t *testing.T) {
	tl := newScene(t)
	tl.ToggleProgressBar()
	img := newTestRenderer().Render(tl, 45)
	brand := color.RGBA{R: 0x00, G: 0xa6, B: 0xce, A: 0xff}
	if got := img.RGBAAt(10, 479); got != brand {
		t.Errorf("left of bar = %v, want brand", got)
	}
	if got := img.RGBAAt(260, 479); got == brand {
		t.Error("bar should stop halfway")
	}
	if got := img.RGBAAt(10, 470); got != background {
		t.Errorf("above bar = %v", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	tl := newScene(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeVideo, Track: "video1", Start: 0, End: 10,
		MediaProps: clips.MediaProps{InAnimation: "pop", Motion: "breathe", Filter: "warm"}})
	tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 0, End: 10,
		TextProps: clips.TextProps{Text: "SOLD", Animation: "wave", TextStyle: "outline", FontSize: 72}})
	r := newTestRenderer()
	a := r.Render(tl, 1.234)
	b := r.Render(tl, 1.234)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same time rendered different frames")
	}
}

func TestOverlappingOverlaysDoNotPanic(t *testing.T) {
	tl := newScene(t)
	for i := 0; i < 3; i++ {
		tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 0, End: 5,
			TextProps: clips.TextProps{Text: "x", Animation: "glitch"}})
	}
	newTestRenderer().Render(tl, 1)
}

func TestHitOverlay(t *testing.T) {
	tl := newScene(t)
	o := tl.AddClip(&clips.Clip{Type: clips.TypeOverlay, Track: "text1", Start: 0, End: 5,
		TextProps: clips.TextProps{Text: "HELLO", FontSize: 48}})
	r := newTestRenderer()
	if got := r.HitOverlay(tl, 1, 540, 960); got != o {
		t.Errorf("hit = %v", got)
	}
	if got := r.HitOverlay(tl, 1, 700, 960); got != nil {
		t.Errorf("miss returned %v", got.ID)
	}
	if got := r.HitOverlay(tl, 6, 540, 960); got != nil {
		t.Error("inactive overlay should not be hit")
	}
}

func TestCaptionGrouping(t *testing.T) {
	var words []clips.Word
	for i := 0; i < 6; i++ {
		words = append(words, clips.Word{Word: "w", Start: float64(i), End: float64(i + 1), Index: i})
	}
	groups := GroupWords(words, 4)
	if len(groups) != 2 || groups[0].End != 4 || groups[1].Start != 4 {
		t.Fatalf("groups = %+v", groups)
	}
	g, cur := ActiveGroup(groups, 4.5)
	if g != &groups[1] || cur != 4 {
		t.Errorf("active group at 4.5: %v current %d", g, cur)
	}
	if g, _ := ActiveGroup(groups, 7); g != nil {
		t.Error("no group after the last word")
	}
}

func TestCaptionFitScalesLongGroups(t *testing.T) {
	m := bitmapMeasurer{}
	short := []clips.Word{{Word: "hi"}, {Word: "there"}}
	if f := CaptionFit(m, short, 48, 1080); f != 1 {
		t.Errorf("short group fit = %v", f)
	}
	long := []clips.Word{{Word: "extraordinary"}, {Word: "extraordinary"}, {Word: "extraordinary"}, {Word: "extraordinary"}}
	f := CaptionFit(m, long, 48, 1080)
	total := 0.0
	for _, w := range long {
		total += m.Measure(w.Word, 48) * f
	}
	total += 3 * captionGap * f
	if f >= 1 || math.Abs(total-972) > 1e-6 {
		t.Errorf("fit = %v, fitted width = %v, want 972", f, total)
	}
}

func TestCaptionStyles(t *testing.T) {
	hl := color.NRGBA{R: 0xff, G: 0xe1, B: 0x35, A: 0xff}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	brand := color.NRGBA{G: 0xa6, B: 0xce, A: 0xff}
	w := clips.Word{Word: "a", Start: 1, End: 2, Index: 1}

	look := captionLook("tiktok", w, 1, 1.5, white, hl, brand)
	if look.Color != hl || look.Scale != 1.2 {
		t.Errorf("tiktok current = %+v", look)
	}
	look = captionLook("bounce", w, 1, 1.5, white, hl, brand)
	if math.Abs(look.OffsetY+12) > 1e-9 || math.Abs(look.Scale-1.15) > 1e-9 {
		t.Errorf("bounce peak = %+v", look)
	}
	look = captionLook("karaoke", w, 2, 2.5, white, hl, brand)
	if look.Color != brand {
		t.Errorf("karaoke past word = %+v", look)
	}
	look = captionLook("subtitle", w, 1, 1.5, white, hl, brand)
	if look.Color != white || look.Scale != 1 {
		t.Errorf("subtitle = %+v", look)
	}
}

func TestCaptionClipRenders(t *testing.T) {
	tl := newScene(t)
	tl.AddClip(&clips.Clip{Type: clips.TypeCaption, Track: "captions", Start: 0, End: 4,
		TextProps:    clips.TextProps{Style: "karaoke", FontSize: 96},
		CaptionProps: clips.CaptionProps{Words: []clips.Word{{Word: "MMMM", Start: 0, End: 2, Index: 0}, {Word: "MMMM", Start: 2, End: 4, Index: 1}}}})
	img := newTestRenderer().Render(tl, 1)
	// y = 78% of 1920 at 0.25 scale
	scale := 0.25
	row := int(1920 * 0.78 * scale)
	changed := false
	for x := 0; x < img.Bounds().Dx(); x++ {
		if img.RGBAAt(x, row) != background {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("caption row untouched")
	}
}

func TestFilterGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 200, G: 40, B: 10, A: 255})
	applyFilter(img, "grayscale")
	got := img.RGBAAt(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Errorf("grayscale pixel = %v", got)
	}
	applyFilter(img, "none")
}
