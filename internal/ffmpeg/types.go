package ffmpeg

import "time"

// MediaInfo contains metadata about a media file
type MediaInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	Bitrate    int64
	HasVideo   bool
	VideoCodec string
	HasAudio   bool
	AudioCodec string
}

// Seconds returns the duration in seconds.
func (m *MediaInfo) Seconds() float64 {
	return m.Duration.Seconds()
}
