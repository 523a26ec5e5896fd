package timeline

import (
	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/pkg/util"
)

// GestureKind is what a pointer drag edits.
type GestureKind int

const (
	GestureMove GestureKind = iota
	GestureResizeLeft
	GestureResizeRight
	// GestureOverlay repositions an overlay on the preview frame.
	GestureOverlay
)

func (k GestureKind) String() string {
	switch k {
	case GestureMove:
		return "move"
	case GestureResizeLeft:
		return "resizeLeft"
	case GestureResizeRight:
		return "resizeRight"
	case GestureOverlay:
		return "overlay"
	}
	return "unknown"
}

const (
	minOverlayPos = 5
	maxOverlayPos = 95
)

// Gesture is the idle -> dragging -> idle machine for pointer edits.
// Intermediate moves write straight to the timeline as live changes; the
// persistent change is emitted once, on End.
type Gesture struct {
	tl *Timeline

	// OnEnter runs when a drag starts, OnExit when it ends.
	// Hosts use them to grab and release the pointer.
	OnEnter func(GestureKind)
	OnExit  func(kind GestureKind, committed bool)

	active  bool
	kind    GestureKind
	clipID  int
	originX float64
	originY float64

	// original bounds and overlay position
	start, end float64
	posX, posY float64

	frameW, frameH float64
}

// NewGesture binds a gesture machine to a timeline.
func NewGesture(tl *Timeline) *Gesture {
	return &Gesture{tl: tl}
}

// Active reports whether a drag is in progress.
func (g *Gesture) Active() bool { return g.active }

// Kind returns the kind of the current or last drag.
func (g *Gesture) Kind() GestureKind { return g.kind }

// ClipID returns the clip being dragged, 0 when idle.
func (g *Gesture) ClipID() int {
	if !g.active {
		return 0
	}
	return g.clipID
}

// Begin starts a lane drag on a clip at pointer x. Returns false when the
// clip does not exist or a drag is already running.
func (g *Gesture) Begin(kind GestureKind, clipID int, x float64) bool {
	return g.begin(kind, clipID, x, 0, 0, 0)
}

// BeginOverlay starts repositioning an overlay on a frame of the given size.
func (g *Gesture) BeginOverlay(clipID int, x, y, frameW, frameH float64) bool {
	if frameW <= 0 || frameH <= 0 {
		return false
	}
	return g.begin(GestureOverlay, clipID, x, y, frameW, frameH)
}

func (g *Gesture) begin(kind GestureKind, clipID int, x, y, frameW, frameH float64) bool {
	if g.active {
		return false
	}
	c := g.tl.Clip(clipID)
	if c == nil {
		g.tl.logger.Debug().Int("clip", clipID).Msg("drag: no such clip")
		return false
	}
	g.active = true
	g.kind = kind
	g.clipID = clipID
	g.originX, g.originY = x, y
	g.start, g.end = c.Start, c.End
	g.posX, g.posY = overlayPos(c)
	g.frameW, g.frameH = frameW, frameH

	g.tl.selected = clipID
	g.tl.notify(ChangeSelection)
	if g.OnEnter != nil {
		g.OnEnter(kind)
	}
	return true
}

func overlayPos(c *clips.Clip) (x, y float64) {
	x, y = c.PosX, c.PosY
	if x == 0 {
		x = 50
	}
	if y == 0 {
		y = 50
	}
	return x, y
}

// Move applies the pointer delta since Begin. Ignored while idle.
func (g *Gesture) Move(x, y float64) {
	if !g.active {
		return
	}
	switch g.kind {
	case GestureMove:
		dt := (x - g.originX) / g.tl.PixelsPerSecond()
		g.tl.moveClip(g.clipID, g.start+dt, ChangeLive)
	case GestureResizeLeft:
		dt := (x - g.originX) / g.tl.PixelsPerSecond()
		g.tl.resizeEdge(g.clipID, EdgeLeft, g.start+dt, ChangeLive)
	case GestureResizeRight:
		dt := (x - g.originX) / g.tl.PixelsPerSecond()
		g.tl.resizeEdge(g.clipID, EdgeRight, g.end+dt, ChangeLive)
	case GestureOverlay:
		c := g.tl.Clip(g.clipID)
		if c == nil {
			return
		}
		dx := (x - g.originX) / g.frameW * 100
		dy := (y - g.originY) / g.frameH * 100
		c.PosX = util.Clamp(g.posX+dx, minOverlayPos, maxOverlayPos)
		c.PosY = util.Clamp(g.posY+dy, minOverlayPos, maxOverlayPos)
		g.tl.notify(ChangeLive)
	}
}

// End finishes the drag on pointer release and commits it.
func (g *Gesture) End() {
	g.finish(true)
}

// Leave handles the pointer leaving the surface. Lane drags commit as on
// release; overlay drags stop where they are without a commit.
func (g *Gesture) Leave() {
	g.finish(g.kind != GestureOverlay)
}

func (g *Gesture) finish(commit bool) {
	if !g.active {
		return
	}
	kind := g.kind
	g.active = false
	if commit {
		g.tl.notify(ChangeClips)
	}
	if g.OnExit != nil {
		g.OnExit(kind, commit)
	}
}
