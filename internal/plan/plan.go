// Package plan imports a "visual plan": a plain-text shot list where each
// segment starts with a line like
//
//	0:00-0:05 – Hook
//
// followed by Background, Foreground, Overlay, Animation, Transition and
// Sora prompt directives.
package plan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/pkg/util"
)

// Segment is one timestamped block of the plan.
type Segment struct {
	Start, End float64
	Label      string
	Content    string
}

// Plan is the parse result.
type Plan struct {
	Segments []Segment
	Clips    []*clips.Clip
	// Duration is the latest segment end, zero when no segment was found.
	Duration float64
}

var (
	segmentRe    = regexp.MustCompile(`^(\d+):(\d+)\s*[–—-]\s*(\d+):(\d+)\s*[–—-]\s*(.+)`)
	backgroundRe = regexp.MustCompile(`(?i)Background\s*\(([^)]+)\):\s*(.+)`)
	foregroundRe = regexp.MustCompile(`(?i)Foreground:\s*(.+)`)
	overlayRe    = regexp.MustCompile(`(?i)Overlay\s*\(([^)]+)\):\s*["“”]?([^"“”\n]+)["“”]?`)
	animationRe  = regexp.MustCompile(`(?is)Animation:\s*(.+?)(?:\n[A-Z]|$)`)
	transitionRe = regexp.MustCompile(`(?i)Transition(?:\s+(?:in|out))?:\s*([^\n]+)`)
	soraRe       = regexp.MustCompile(`(?i)Sora prompt[^:\n]*:\s*["“”]?([^"“”\n]+)["“”]?`)
	partSplitRe  = regexp.MustCompile(`[.;]`)
)

// TransitionLength is the duration of a transition effect clip.
const TransitionLength = 0.3

// Parser turns plan text into clips.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "plan").Logger()}
}

// Segments splits input on timestamp header lines. Text before the first
// header is ignored.
func Segments(input string) []Segment {
	var segs []Segment
	var cur *Segment
	for _, line := range strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n") {
		if m := segmentRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if cur != nil {
				segs = append(segs, *cur)
			}
			cur = &Segment{
				Start:   util.MinSec(atoi(m[1]), atoi(m[2])),
				End:     util.MinSec(atoi(m[3]), atoi(m[4])),
				Label:   strings.TrimSpace(m[5]),
				Content: line + "\n",
			}
			continue
		}
		if cur != nil {
			cur.Content += line + "\n"
		}
	}
	if cur != nil {
		segs = append(segs, *cur)
	}
	return segs
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Parse builds the clips of every segment. Unrecognized directives are
// skipped; malformed input yields an empty plan rather than an error.
func (p *Parser) Parse(input string) *Plan {
	pl := &Plan{Segments: Segments(input)}
	for i, seg := range pl.Segments {
		before := len(pl.Clips)
		pl.Clips = append(pl.Clips, p.segmentClips(seg)...)
		pl.Duration = max(pl.Duration, seg.End)
		p.logger.Debug().
			Int("segment", i).
			Str("label", seg.Label).
			Int("clips", len(pl.Clips)-before).
			Msg("parsed segment")
	}
	if len(pl.Segments) == 0 {
		p.logger.Warn().Msg("no timestamped segments found")
	}
	return pl
}

func (p *Parser) segmentClips(seg Segment) []*clips.Clip {
	var out []*clips.Clip

	bgType, bgDesc := "placeholder", seg.Label
	if m := backgroundRe.FindStringSubmatch(seg.Content); m != nil {
		bgType, bgDesc = strings.ToLower(m[1]), strings.TrimSpace(m[2])
	}
	video := &clips.Clip{
		Type:        clips.TypeVideo,
		Track:       "video1",
		Start:       seg.Start,
		End:         seg.End,
		Label:       seg.Label,
		Description: bgDesc,
		MediaProps: clips.MediaProps{
			BgType:     backgroundKind(bgType),
			NeedsVideo: true,
		},
	}
	out = append(out, video)

	if m := foregroundRe.FindStringSubmatch(seg.Content); m != nil && !strings.Contains(strings.ToLower(m[1]), "none") {
		out = append(out, &clips.Clip{
			Type:        clips.TypeEffect,
			Track:       "effects",
			Start:       seg.Start,
			End:         seg.End,
			Label:       "FG: " + util.Truncate(m[1], 20),
			Description: strings.TrimSpace(m[1]),
			EffectProps: clips.EffectProps{TransitionType: foregroundEffect(strings.ToLower(m[1]))},
		})
	}

	var overlays []*clips.Clip
	for i, m := range overlayRe.FindAllStringSubmatch(seg.Content, -1) {
		o := newOverlay(strings.ToLower(strings.TrimSpace(m[1])), cleanQuotes(m[2]), i, seg)
		overlays = append(overlays, o)
		out = append(out, o)
	}

	if m := animationRe.FindStringSubmatch(seg.Content); m != nil {
		applyAnimation(strings.ToLower(m[1]), video, overlays)
	}

	if m := transitionRe.FindStringSubmatch(seg.Content); m != nil {
		text := strings.ToLower(m[1])
		if kind := transitionKind(text); kind != "cut" && !strings.Contains(text, "hard") {
			out = append(out, &clips.Clip{
				Type:        clips.TypeEffect,
				Track:       "effects",
				Start:       seg.Start,
				End:         seg.Start + TransitionLength,
				Label:       "Trans: " + kind,
				Description: strings.TrimSpace(m[1]),
				EffectProps: clips.EffectProps{TransitionType: kind},
			})
		} else {
			p.logger.Debug().Str("transition", m[1]).Msg("hard cut, no effect clip")
		}
	}

	if m := soraRe.FindStringSubmatch(seg.Content); m != nil {
		video.SoraPrompt = strings.TrimSpace(m[1])
	}
	return out
}

func backgroundKind(t string) string {
	switch {
	case strings.Contains(t, "sora"):
		return "sora"
	case strings.Contains(t, "screen"):
		return "screenRecording"
	}
	return "placeholder"
}

func foregroundEffect(fg string) string {
	switch {
	case strings.Contains(fg, "outline"), strings.Contains(fg, "box"):
		return "ghost"
	case strings.Contains(fg, "highlight"):
		return "bloom"
	}
	return "flare"
}

func newOverlay(style, text string, idx int, seg Segment) *clips.Clip {
	posX, posY := 50.0, 50.0
	switch {
	case strings.Contains(style, "top-left"), strings.Contains(style, "top left"):
		posX, posY = 15, 15
	case strings.Contains(style, "top-right"):
		posX, posY = 85, 15
	case strings.Contains(style, "center-left"):
		posX, posY = 15, 50
	case strings.Contains(style, "bottom"):
		posY = 85
	case strings.Contains(style, "top"):
		posY = 20
	}

	big := strings.Contains(style, "big")
	tiny := strings.Contains(style, "tiny")
	small := strings.Contains(style, "small")

	size, fontSize := "small", 48.0
	switch {
	case big:
		size, fontSize = "big", 72
	case tiny:
		size, fontSize = "tiny", 24
	case small:
		fontSize = 32
	}
	textStyle := "none"
	switch {
	case big:
		textStyle = "label-brand"
	case small:
		textStyle = "label-black"
	}

	return &clips.Clip{
		Type:  clips.TypeOverlay,
		Track: "text" + strconv.Itoa(idx%2+1),
		Start: seg.Start,
		End:   seg.End,
		TextProps: clips.TextProps{
			Text:      text,
			Style:     size,
			PosX:      posX,
			PosY:      posY,
			FontSize:  fontSize,
			Color:     "#ffffff",
			Animation: "fadeIn",
			TextStyle: textStyle,
		},
	}
}

func applyAnimation(anim string, video *clips.Clip, overlays []*clips.Clip) {
	switch {
	case strings.Contains(anim, "pop"):
		video.InAnimation = "pop"
	case strings.Contains(anim, "fade"):
		video.InAnimation = "fadeIn"
	case strings.Contains(anim, "slide up"):
		video.InAnimation = "slideUp"
	case strings.Contains(anim, "slide down"):
		video.InAnimation = "slideDown"
	}
	switch {
	case strings.Contains(anim, "slow zoom"):
		video.Motion = "slowZoom"
	case strings.Contains(anim, "zoom out"):
		video.Motion = "slowZoomOut"
	case strings.Contains(anim, "pan left"):
		video.Motion = "panLeft"
	case strings.Contains(anim, "pan right"):
		video.Motion = "panRight"
	case strings.Contains(anim, "breathe"):
		video.Motion = "breathe"
	}

	parts := partSplitRe.Split(anim, -1)
	for i, o := range overlays {
		target := anim
		switch i {
		case 0:
			target = firstPart(parts, parts[0], "big", "text animation")
		case 1:
			fallback := parts[0]
			if len(parts) > 1 {
				fallback = parts[1]
			}
			target = firstPart(parts, fallback, "subline", "smaller")
		}
		if a := overlayAnimation(target); a != "" {
			o.Animation = a
		}
	}
}

func firstPart(parts []string, fallback string, keys ...string) string {
	for _, p := range parts {
		for _, k := range keys {
			if strings.Contains(p, k) {
				return p
			}
		}
	}
	return fallback
}

// overlayKeywords is checked in order; the first hit wins.
var overlayKeywords = []struct{ key, animation string }{
	{"pop", "zoom"},
	{"glow", "glow"},
	{"slam", "slam"},
	{"slide down", "slideDown"},
	{"slide up", "slideUp"},
	{"draw", "drawOn"},
	{"typewriter", "typewriter"},
	{"shake", "shake"},
	{"stomp", "stomp"},
	{"bounce", "bounce"},
}

func overlayAnimation(text string) string {
	for _, k := range overlayKeywords {
		if strings.Contains(text, k.key) {
			return k.animation
		}
	}
	return ""
}

var transitionKeywords = []struct{ key, kind string }{
	{"fade", "fade"},
	{"whip", "whipPan"},
	{"wipe left", "wipeLeft"},
	{"wipe up", "wipeUp"},
	{"glitch", "glitchHeavy"},
	{"bloom", "bloom"},
	{"zoom cloud", "zoomCloud"},
	{"flare", "flare"},
	{"ghost", "ghost"},
	{"warp", "warp"},
	{"swipe", "wipeLeft"},
}

func transitionKind(text string) string {
	for _, k := range transitionKeywords {
		if strings.Contains(text, k.key) {
			return k.kind
		}
	}
	return "cut"
}

func cleanQuotes(s string) string {
	return strings.TrimSpace(strings.NewReplacer(`"`, "", "“", "", "”", "").Replace(s))
}

