package pipeline

import (
	"math/rand"

	"github.com/keagan/reelforge/internal/captions"
	"github.com/keagan/reelforge/internal/ffmpeg"
	"github.com/keagan/reelforge/internal/store"
)

// Options wires the optional collaborators of a session.
type Options struct {
	// Store persists every edit. Nil keeps the session in memory.
	Store *store.Store
	// FFmpeg enables poster frames, media probing and audio playback.
	FFmpeg *ffmpeg.Executor
	// Rand feeds the random animation entries; nil seeds from the clock.
	Rand *rand.Rand
}

// CaptionRequest describes a caption generation run.
type CaptionRequest struct {
	Transcript string
	// Timings are tap-synced word starts. Empty uses the sync session's marks.
	Timings []float64
	// AudioPath is the voiceover; when set a voiceover clip is added too.
	AudioPath string
	// AudioDuration overrides the probed voiceover length.
	AudioDuration float64
	Style         captions.Style
}
