package clips

import (
	"image"
)

// Type identifies what a clip carries.
type Type string

const (
	TypeVideo   Type = "video"
	TypeOverlay Type = "overlay"
	TypeAudio   Type = "audio"
	TypeEffect  Type = "effect"
	TypeCaption Type = "caption"
)

// Valid reports whether t is a known clip type.
func (t Type) Valid() bool {
	switch t {
	case TypeVideo, TypeOverlay, TypeAudio, TypeEffect, TypeCaption:
		return true
	}
	return false
}

// Word is one timed word of a caption clip.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"startTime"`
	End   float64 `json:"endTime"`
	Index int     `json:"index"`
}

// AudioHandle is a live playback handle bound to an audio clip.
type AudioHandle interface {
	Seek(offset float64)
	Play()
	Pause()
	Paused() bool
}

// TextProps styles overlay and caption text. Style holds the overlay size
// (big, small, tiny) or the caption style (tiktok, bounce, karaoke, subtitle).
type TextProps struct {
	Text       string  `json:"text,omitempty"`
	Style      string  `json:"style,omitempty"`
	PosX       float64 `json:"posX,omitempty"`
	PosY       float64 `json:"posY,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty"`
	Animation  string  `json:"animation,omitempty"`
	TextStyle  string  `json:"textStyle,omitempty"`
}

// MediaProps describes the visual treatment of video clips and the source of audio clips.
type MediaProps struct {
	VideoSrc    string  `json:"videoSrc,omitempty"`
	AudioSrc    string  `json:"audioSrc,omitempty"`
	AudioOffset float64 `json:"audioOffset,omitempty"`
	BgType      string  `json:"bgType,omitempty"`
	NeedsVideo  bool    `json:"needsVideo,omitempty"`
	NeedsAudio  bool    `json:"needsAudio,omitempty"`
	InAnimation string  `json:"inAnimation,omitempty"`
	Motion      string  `json:"motion,omitempty"`
	Layout      string  `json:"layout,omitempty"`
	Filter      string  `json:"filter,omitempty"`
	SoraPrompt  string  `json:"soraPrompt,omitempty"`
}

// EffectProps selects the transition drawn by an effect clip.
type EffectProps struct {
	TransitionType string `json:"transitionType,omitempty"`
}

// CaptionProps holds the word list of a caption clip.
type CaptionProps struct {
	Words          []Word `json:"words,omitempty"`
	HighlightColor string `json:"highlightColor,omitempty"`
	WordsPerScreen int    `json:"wordsPerScreen,omitempty"`
}

// Clip is a time-bounded unit of content placed on a track.
// Payload fields are flattened so project files stay a single flat object per clip.
type Clip struct {
	ID          int     `json:"id"`
	Type        Type    `json:"type"`
	Track       string  `json:"track"`
	Start       float64 `json:"startTime"`
	End         float64 `json:"endTime"`
	Label       string  `json:"label,omitempty"`
	Description string  `json:"description,omitempty"`

	TextProps
	MediaProps
	EffectProps
	CaptionProps

	// Live handles never reach storage.
	Frame image.Image `json:"-"`
	Audio AudioHandle `json:"-"`
}

// Duration returns End - Start.
func (c *Clip) Duration() float64 {
	return c.End - c.Start
}

// Contains reports whether t falls in [Start, End).
func (c *Clip) Contains(t float64) bool {
	return t >= c.Start && t < c.End
}

// MediaOffset maps timeline time t to a position in the clip's audio source.
func (c *Clip) MediaOffset(t float64) float64 {
	return t - c.Start + c.AudioOffset
}

// Clone copies the clip including its word list. Live handles are shared.
func (c *Clip) Clone() *Clip {
	cp := *c
	if c.Words != nil {
		cp.Words = make([]Word, len(c.Words))
		copy(cp.Words, c.Words)
	}
	return &cp
}

// Reindex renumbers words from zero in order.
func Reindex(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		w.Index = i
		out[i] = w
	}
	return out
}
