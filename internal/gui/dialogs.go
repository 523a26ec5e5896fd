package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/keagan/reelforge/internal/captions"
	"github.com/keagan/reelforge/internal/pipeline"
)

var captionStyles = []string{"tiktok", "bounce", "karaoke", "subtitle"}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// pickFile runs fn with the path of a file chosen in an open dialog.
func (e *Editor) pickFile(fn func(path string)) {
	fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		if ur == nil {
			return
		}
		path := ur.URI().Path()
		_ = ur.Close()
		fn(path)
	}, e.win)
	fd.Show()
}

func (e *Editor) bind(clipID int, path string) {
	if err := e.p.BindVideo(e.ctx, clipID, path); err != nil {
		dialog.ShowError(err, e.win)
	}
}

func (e *Editor) bindAudio(clipID int, path string) {
	if err := e.p.BindAudio(e.ctx, clipID, path); err != nil {
		dialog.ShowError(err, e.win)
	}
}

func (e *Editor) showPlanDialog() {
	input := widget.NewMultiLineEntry()
	input.SetPlaceHolder("0:00 - 0:05 - Hook\nBackground: ...\nOverlay: \"...\"")
	input.SetMinRowsVisible(14)
	dialog.ShowCustomConfirm("Import visual plan", "Import", "Cancel", input, func(ok bool) {
		if !ok {
			return
		}
		n := e.p.ImportPlan(input.Text)
		if n == 0 && strings.TrimSpace(input.Text) != "" {
			dialog.ShowInformation("Import visual plan", "No segments found.", e.win)
		}
	}, e.win)
}

func (e *Editor) openProject() {
	fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		if ur == nil {
			return
		}
		path := ur.URI().Path()
		_ = ur.Close()
		if err := e.p.ImportProject(e.ctx, path); err != nil {
			dialog.ShowError(err, e.win)
		}
	}, e.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func (e *Editor) saveProject() {
	fd := dialog.NewFileSave(func(uw fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.win)
			return
		}
		if uw == nil {
			return
		}
		path := uw.URI().Path()
		_ = uw.Close()
		if err := e.p.ExportProject(path); err != nil {
			dialog.ShowError(err, e.win)
		}
	}, e.win)
	fd.SetFileName("project.json")
	fd.Show()
}

func (e *Editor) confirmReset() {
	dialog.ShowConfirm("Reset", "Clear all clips and settings?", func(ok bool) {
		if !ok {
			return
		}
		if err := e.p.Reset(e.ctx); err != nil {
			dialog.ShowError(err, e.win)
		}
	}, e.win)
}

// showCaptionsDialog collects a transcript and optional voiceover, with a
// tap-to-sync session driven by the playhead.
func (e *Editor) showCaptionsDialog() {
	sync := e.p.Captions()
	transcript := widget.NewMultiLineEntry()
	transcript.SetMinRowsVisible(6)
	style := widget.NewSelect(captionStyles, nil)
	style.SetSelected(captions.DefaultStyle)

	var voiceover string
	voLabel := widget.NewLabel("No voiceover")
	pickVO := widget.NewButton("Voiceover...", func() {
		e.pickFile(func(path string) {
			voiceover = path
			voLabel.SetText(filepath.Base(path))
		})
	})

	status := widget.NewLabel("")
	showStatus := func() {
		if !sync.Active() {
			marked, total := sync.Progress()
			if total > 0 {
				status.SetText(fmt.Sprintf("Synced %d of %d words", marked, total))
			}
			return
		}
		word, next := sync.Current()
		marked, total := sync.Progress()
		status.SetText(fmt.Sprintf("%d/%d  %s  %s", marked, total, strings.ToUpper(word), strings.Join(next, " ")))
	}
	startSync := widget.NewButton("Start sync", func() {
		sync.Start(transcript.Text)
		e.clock.Seek(0)
		if !e.clock.Playing() {
			e.togglePlay()
		}
		showStatus()
	})
	tap := widget.NewButton("Tap", func() {
		sync.Mark(e.tl.CurrentTime())
		showStatus()
	})
	stopSync := widget.NewButton("Stop sync", func() {
		sync.Stop(e.tl.Duration())
		e.clock.Pause()
		showStatus()
	})

	content := container.NewVBox(
		transcript,
		widget.NewForm(widget.NewFormItem("Style", style)),
		container.NewHBox(pickVO, voLabel),
		container.NewHBox(startSync, tap, stopSync),
		status,
	)
	dialog.ShowCustomConfirm("Captions", "Generate", "Cancel", content, func(ok bool) {
		if !ok {
			sync.Reset()
			return
		}
		_, err := e.p.GenerateCaptions(e.ctx, pipeline.CaptionRequest{
			Transcript: transcript.Text,
			AudioPath:  voiceover,
			Style:      captions.Style{Name: style.Selected},
		})
		sync.Reset()
		if err != nil {
			dialog.ShowError(err, e.win)
		}
	}, e.win)
}
