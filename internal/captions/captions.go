// Package captions turns a transcript into timed caption words, either spread
// evenly over the voiceover or from tap-synced start times.
package captions

import (
	"strings"

	"github.com/keagan/reelforge/internal/clips"
)

const (
	// DefaultAudioDuration is used when the voiceover length is unknown.
	DefaultAudioDuration = 30.0
	DefaultStyle         = "tiktok"
	DefaultFontSize      = 48
	DefaultFont          = "Inter"
	HighlightColor       = "#FFE135"
	WordsPerScreen       = 4
)

// Split breaks a transcript into words on any whitespace.
func Split(transcript string) []string {
	return strings.Fields(transcript)
}

// Generate times every word of transcript. When timings holds a start time
// for every word they are used as-is: each word ends where the next begins and
// the last ends at audioDuration. Otherwise words get equal slices of
// audioDuration.
func Generate(transcript string, timings []float64, audioDuration float64) []clips.Word {
	words := Split(transcript)
	if len(words) == 0 {
		return nil
	}
	if audioDuration <= 0 {
		audioDuration = DefaultAudioDuration
	}

	out := make([]clips.Word, len(words))
	if len(timings) >= len(words) {
		for i, w := range words {
			end := audioDuration
			if i < len(words)-1 {
				end = timings[i+1]
			}
			out[i] = clips.Word{Word: w, Start: timings[i], End: end, Index: i}
		}
		return out
	}

	step := audioDuration / float64(len(words))
	for i, w := range words {
		out[i] = clips.Word{
			Word:  w,
			Start: float64(i) * step,
			End:   float64(i+1) * step,
			Index: i,
		}
	}
	return out
}

// Style is the look of a generated caption clip.
type Style struct {
	Name       string
	FontFamily string
	FontSize   float64
}

// NewCaptionClip builds a caption clip on the captions track spanning
// [0, audioDuration).
func NewCaptionClip(words []clips.Word, st Style, audioDuration float64) *clips.Clip {
	if audioDuration <= 0 {
		audioDuration = DefaultAudioDuration
	}
	if st.Name == "" {
		st.Name = DefaultStyle
	}
	if st.FontFamily == "" {
		st.FontFamily = DefaultFont
	}
	if st.FontSize <= 0 {
		st.FontSize = DefaultFontSize
	}
	return &clips.Clip{
		Type:  clips.TypeCaption,
		Track: "captions",
		Start: 0,
		End:   audioDuration,
		Label: "Captions",
		TextProps: clips.TextProps{
			Style:      st.Name,
			FontFamily: st.FontFamily,
			FontSize:   st.FontSize,
			Color:      "#ffffff",
		},
		CaptionProps: clips.CaptionProps{
			Words:          words,
			HighlightColor: HighlightColor,
			WordsPerScreen: WordsPerScreen,
		},
	}
}

// NewVoiceoverClip places the narration audio under the captions.
func NewVoiceoverClip(src string, audioDuration float64) *clips.Clip {
	if audioDuration <= 0 {
		audioDuration = DefaultAudioDuration
	}
	return &clips.Clip{
		Type:       clips.TypeAudio,
		Track:      "voiceover",
		Start:      0,
		End:        audioDuration,
		Label:      "Voiceover",
		MediaProps: clips.MediaProps{AudioSrc: src},
	}
}
