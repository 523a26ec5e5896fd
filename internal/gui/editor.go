// Package gui is the desktop editor: preview, transport and lanes over a
// pipeline session.
package gui

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/overlays"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/playback"
	"github.com/keagan/reelforge/internal/timeline"
	"github.com/keagan/reelforge/pkg/util"
)

var (
	sfxKinds    = []string{"whoosh", "pop", "ding", "boom", "riser"}
	textStyles  = []string{"none", "label-white", "label-black", "label-brand"}
	formatNames = []string{string(timeline.FormatVertical), string(timeline.FormatHorizontal)}
)

// Editor is the main window.
type Editor struct {
	logger zerolog.Logger
	ctx    context.Context
	p      *pipeline.Pipeline
	tl     *timeline.Timeline
	clock  *playback.Clock
	fps    float64

	win     fyne.Window
	preview *previewWidget
	lanes   *lanesWidget
	scroll  *container.Scroll

	playBtn   *widget.Button
	timeLabel *widget.Label
	duration  *widget.Entry
	zoom      *widget.Slider
	format    *widget.Select
	progress  *widget.Check
	props     *fyne.Container

	// syncing suppresses widget callbacks while controls mirror the timeline.
	syncing bool
	stop    context.CancelFunc
}

// Run opens the editor and blocks until the window is closed.
func Run(ctx context.Context, logger zerolog.Logger, p *pipeline.Pipeline) error {
	a := app.NewWithID("dev.reelforge.editor")
	e := &Editor{
		logger: logger.With().Str("component", "gui").Logger(),
		ctx:    ctx,
		p:      p,
		tl:     p.Timeline(),
		clock:  p.Clock(),
		fps:    float64(p.Config().Editor.FPS),
		win:    a.NewWindow("reelforge"),
	}
	if e.fps <= 0 {
		e.fps = 30
	}
	e.build()

	p.OnFrame = func(img *image.RGBA) { e.preview.setFrame(img) }
	p.OnChange = e.handleChange
	e.clock.OnStateChange = func(playback.State) { e.syncTransport() }

	e.win.SetOnClosed(func() {
		if e.stop != nil {
			e.stop()
		}
		e.clock.Pause()
	})
	e.win.Resize(fyne.NewSize(1280, 860))
	e.syncControls()
	e.logger.Info().Msg("editor started")
	e.win.ShowAndRun()
	return p.Err()
}

func (e *Editor) build() {
	g := timeline.NewGesture(e.tl)
	e.preview = newPreviewWidget(e.p, g)
	e.lanes = newLanesWidget(e.tl, g, e.clock.Seek)
	e.scroll = container.NewScroll(e.lanes)
	e.scroll.SetMinSize(fyne.NewSize(0, float32(e.tl.TimelineHeight())))

	e.props = container.NewVBox()
	side := container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("Add", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		e.addControls(),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		e.props,
	))
	side.SetMinSize(fyne.NewSize(260, 0))

	top := container.NewBorder(nil, e.transport(), nil, side, e.preview)
	e.win.SetMainMenu(e.menu())
	e.win.SetContent(container.NewBorder(nil, container.NewBorder(e.trackControls(), nil, nil, nil, e.scroll), nil, nil, top))
	e.win.Canvas().SetOnTypedKey(e.typedKey)
}

func (e *Editor) menu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Import plan...", e.showPlanDialog),
		fyne.NewMenuItem("Open project...", e.openProject),
		fyne.NewMenuItem("Save project...", e.saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset", e.confirmReset),
	)
	tools := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Captions...", e.showCaptionsDialog),
	)
	return fyne.NewMainMenu(file, tools)
}

func (e *Editor) transport() fyne.CanvasObject {
	e.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), e.togglePlay)
	back := widget.NewButtonWithIcon("", theme.MediaFastRewindIcon(), e.clock.SkipBack)
	fwd := widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), e.clock.SkipForward)
	e.timeLabel = widget.NewLabel("")

	e.duration = widget.NewEntry()
	e.duration.OnSubmitted = func(s string) {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil {
			e.syncControls()
			return
		}
		e.tl.SetDuration(d)
	}

	e.zoom = widget.NewSlider(0.1, 10)
	e.zoom.Step = 0.1
	e.zoom.OnChanged = func(v float64) {
		if !e.syncing {
			e.tl.SetZoom(v)
		}
	}

	e.format = widget.NewSelect(formatNames, func(s string) {
		if !e.syncing {
			e.tl.SetFormat(timeline.Format(s))
		}
	})
	e.progress = widget.NewCheck("Progress bar", func(bool) {
		if !e.syncing {
			e.tl.ToggleProgressBar()
		}
	})

	zoomBox := container.NewBorder(nil, nil, widget.NewLabel("Zoom"), nil, e.zoom)
	return container.NewVBox(
		container.NewHBox(back, e.playBtn, fwd, e.timeLabel, widget.NewLabel("Duration"), e.duration, e.format, e.progress),
		zoomBox,
	)
}

func (e *Editor) addControls() fyne.CanvasObject {
	text := widget.NewButtonWithIcon("Text", theme.ContentAddIcon(), func() { e.tl.AddTextOverlay("") })
	transition := widget.NewSelect(overlays.Transitions.List(), nil)
	transition.PlaceHolder = "Transition"
	transition.OnChanged = func(kind string) {
		if kind == "" {
			return
		}
		e.tl.AddTransition(kind)
		transition.ClearSelected()
	}
	sfx := widget.NewSelect(sfxKinds, nil)
	sfx.PlaceHolder = "Sound effect"
	sfx.OnChanged = func(kind string) {
		if kind == "" {
			return
		}
		e.tl.QuickAddSFX(kind)
		sfx.ClearSelected()
	}
	audio := widget.NewButton("Audio", func() { e.tl.AddAudioClip("") })
	video := widget.NewButton("Overlay video", func() {
		e.pickFile(func(path string) {
			c := e.tl.AddOverlayVideo(path, baseName(path))
			e.bind(c.ID, path)
		})
	})
	return container.NewVBox(text, transition, sfx, container.NewGridWithColumns(2, audio, video))
}

func (e *Editor) trackControls() fyne.CanvasObject {
	kinds := []string{
		string(timeline.TrackVideo), string(timeline.TrackOverlay),
		string(timeline.TrackAudio), string(timeline.TrackEffects), string(timeline.TrackCaption),
	}
	add := widget.NewSelect(kinds, nil)
	add.PlaceHolder = "Add track"
	add.OnChanged = func(s string) {
		if s == "" {
			return
		}
		e.tl.AddTrack(timeline.TrackType(s))
		add.ClearSelected()
	}
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { e.tl.ReorderTrack(e.lanes.selectedTrack, timeline.Up) })
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { e.tl.ReorderTrack(e.lanes.selectedTrack, timeline.Down) })
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		id := e.lanes.selectedTrack
		if id == "" {
			return
		}
		e.tl.DeleteTrack(id, siblingTrack(e.tl, id))
		e.lanes.selectedTrack = ""
	})
	split := widget.NewButtonWithIcon("Split", theme.ContentCutIcon(), func() { e.tl.SplitSelected() })
	dup := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() { e.tl.DuplicateSelected() })
	remove := widget.NewButtonWithIcon("Delete", theme.ContentRemoveIcon(), e.tl.DeleteSelected)
	return container.NewHBox(add, up, down, del, widget.NewSeparator(), split, dup, remove)
}

func (e *Editor) togglePlay() {
	e.clock.Toggle(time.Now())
	if !e.clock.Playing() {
		return
	}
	ctx, cancel := context.WithCancel(e.ctx)
	if e.stop != nil {
		e.stop()
	}
	e.stop = cancel
	interval := time.Duration(float64(time.Second) / e.fps)
	go func() {
		defer cancel()
		err := playback.Drive(ctx, interval, func(now time.Time) bool {
			playing := false
			fyne.DoAndWait(func() { playing = e.clock.Tick(now) })
			return playing
		})
		if err != nil && ctx.Err() == nil {
			e.logger.Warn().Err(err).Msg("playback loop stopped")
		}
	}()
}

func (e *Editor) typedKey(ev *fyne.KeyEvent) {
	if _, ok := e.win.Canvas().Focused().(*widget.Entry); ok {
		return
	}
	switch ev.Name {
	case fyne.KeySpace:
		e.togglePlay()
	case fyne.KeyDelete, fyne.KeyBackspace:
		e.tl.DeleteSelected()
	case fyne.KeyLeft:
		e.clock.Step(-1)
	case fyne.KeyRight:
		e.clock.Step(1)
	case fyne.KeyS:
		e.tl.SplitSelected()
	case fyne.KeyD:
		e.tl.DuplicateSelected()
	}
}

func (e *Editor) handleChange(c timeline.Change) {
	switch c {
	case timeline.ChangeTime:
		e.timeLabel.SetText(e.clockText())
	case timeline.ChangeSelection, timeline.ChangeClips:
		e.syncProps()
	case timeline.ChangeSettings, timeline.ChangeTracks, timeline.ChangeLayout:
		e.syncControls()
	}
	e.lanes.Refresh()
	if err := e.p.Err(); err != nil {
		e.logger.Error().Err(err).Msg("session not saved")
	}
}

func (e *Editor) clockText() string {
	return fmt.Sprintf("%s / %s", util.FormatClock(e.tl.CurrentTime()), util.FormatClock(e.tl.Duration()))
}

func (e *Editor) syncTransport() {
	if e.clock.Playing() {
		e.playBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		e.playBtn.SetIcon(theme.MediaPlayIcon())
	}
}

// syncControls mirrors timeline settings into the transport widgets.
func (e *Editor) syncControls() {
	e.syncing = true
	defer func() { e.syncing = false }()
	e.timeLabel.SetText(e.clockText())
	e.duration.SetText(strconv.FormatFloat(e.tl.Duration(), 'f', -1, 64))
	e.zoom.SetValue(e.tl.Zoom())
	e.format.SetSelected(string(e.tl.Format()))
	e.progress.SetChecked(e.tl.ShowProgressBar())
	e.scroll.SetMinSize(fyne.NewSize(0, float32(e.tl.TimelineHeight())))
	e.scroll.Refresh()
	e.preview.Refresh()
	e.syncTransport()
	e.syncProps()
}

// syncProps rebuilds the property panel for the selected clip.
func (e *Editor) syncProps() {
	e.syncing = true
	defer func() { e.syncing = false }()

	e.props.RemoveAll()
	c := e.tl.Selected()
	if c == nil {
		e.props.Add(widget.NewLabel("Nothing selected"))
		return
	}
	e.props.Add(widget.NewLabel(fmt.Sprintf("%s #%d on %s", c.Type, c.ID, c.Track)))
	e.props.Add(widget.NewLabel(fmt.Sprintf("%s - %s", util.FormatClock(c.Start), util.FormatClock(c.End))))

	switch c.Type {
	case clips.TypeOverlay:
		e.overlayProps(c)
	case clips.TypeVideo:
		e.props.Add(widget.NewButton("Bind video...", func() {
			e.pickFile(func(path string) { e.bind(c.ID, path) })
		}))
	case clips.TypeAudio:
		e.props.Add(widget.NewButton("Bind audio...", func() {
			e.pickFile(func(path string) { e.bindAudio(c.ID, path) })
		}))
	case clips.TypeCaption:
		e.props.Add(widget.NewLabel(fmt.Sprintf("%d words, style %s", len(c.Words), c.Style)))
	}
}

func (e *Editor) overlayProps(c *clips.Clip) {
	id := c.ID
	text := widget.NewEntry()
	text.SetText(c.Text)
	text.OnSubmitted = func(s string) {
		e.tl.UpdateClip(id, func(c *clips.Clip) { c.Text = s })
	}
	anim := widget.NewSelect(overlays.TextAnimations.List(), func(s string) {
		if !e.syncing {
			e.tl.UpdateClip(id, func(c *clips.Clip) { c.Animation = s })
		}
	})
	anim.SetSelected(c.Animation)
	style := widget.NewSelect(textStyles, func(s string) {
		if !e.syncing {
			e.tl.UpdateClip(id, func(c *clips.Clip) { c.TextStyle = s })
		}
	})
	style.SetSelected(c.TextStyle)
	e.props.Add(widget.NewForm(
		widget.NewFormItem("Text", text),
		widget.NewFormItem("Animation", anim),
		widget.NewFormItem("Style", style),
	))
}

// siblingTrack returns another lane of the same type as id, or "".
func siblingTrack(tl *timeline.Timeline, id string) string {
	tr := tl.Track(id)
	if tr == nil {
		return ""
	}
	for _, o := range tl.TracksOfType(tr.Type) {
		if o.ID != id {
			return o.ID
		}
	}
	return ""
}
