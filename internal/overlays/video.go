package overlays

import "math"

// VideoEntryWindow is the entry animation length of video clips.
const VideoEntryWindow = 0.5

// Transform is applied about the frame centre when compositing a video clip.
type Transform struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	Alpha    float64
	Rotation float64
}

// Identity leaves the frame untouched.
func Identity() Transform {
	return Transform{Scale: 1, Alpha: 1}
}

// VideoEntry shapes the first VideoEntryWindow seconds of a clip.
type VideoEntry func(progress float64, t Transform) Transform

// Motion runs for the whole clip. progress is elapsed/clip duration.
type Motion func(elapsed, progress float64, t Transform) Transform

// VideoEntries is the video entry animation catalog.
var VideoEntries = newVideoEntries()

// Motions is the continuous motion catalog.
var Motions = newMotions()

func newVideoEntries() *Registry[VideoEntry] {
	r := NewRegistry[VideoEntry]()
	r.Register("pop", func(p float64, t Transform) Transform {
		t.Scale = EaseOutBack(p)
		t.Alpha = p
		return t
	})
	r.Register("fadeIn", func(p float64, t Transform) Transform {
		t.Alpha = p
		return t
	})
	r.Register("slideUp", func(p float64, t Transform) Transform {
		t.OffsetY = (1 - EaseOutBack(p)) * 100
		t.Alpha = p
		return t
	})
	r.Register("slideDown", func(p float64, t Transform) Transform {
		t.OffsetY = -(1 - EaseOutBack(p)) * 100
		t.Alpha = p
		return t
	})
	return r
}

func newMotions() *Registry[Motion] {
	r := NewRegistry[Motion]()
	r.Register("slowZoom", func(_, p float64, t Transform) Transform {
		t.Scale *= 1 + p*0.2
		return t
	})
	r.Register("slowZoomOut", func(_, p float64, t Transform) Transform {
		t.Scale *= 1.2 - p*0.2
		return t
	})
	r.Register("panLeft", func(_, p float64, t Transform) Transform {
		t.OffsetX += p * 50
		return t
	})
	r.Register("panRight", func(_, p float64, t Transform) Transform {
		t.OffsetX -= p * 50
		return t
	})
	r.Register("breathe", func(elapsed, _ float64, t Transform) Transform {
		t.Scale *= 1 + math.Sin(elapsed*1.5)*0.05
		return t
	})
	return r
}

// VideoTransform evaluates the entry animation and motion of a video clip
// elapsed seconds after its start.
func VideoTransform(entry, motion string, elapsed, duration float64) Transform {
	t := Identity()
	if fn, ok := VideoEntries.Get(entry); ok {
		t = fn(Progress(elapsed, VideoEntryWindow), t)
	}
	if fn, ok := Motions.Get(motion); ok {
		p := 0.0
		if duration > 0 {
			p = elapsed / duration
		}
		t = fn(elapsed, p, t)
	}
	return t
}
