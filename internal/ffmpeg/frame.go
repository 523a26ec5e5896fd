package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"time"
)

// ExtractFrame decodes the frame at offset at. When width and height are set
// the frame is scaled to cover that size.
func (e *Executor) ExtractFrame(ctx context.Context, input string, at time.Duration, width, height int) (image.Image, error) {
	if input == "" {
		return nil, fmt.Errorf("input path is required")
	}

	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", input,
		"-frames:v", "1",
	}
	if vf := NewFilterBuilder().Cover(width, height).Build(); vf != "" {
		args = append(args, "-vf", vf)
	}
	args = append(args, "-f", "image2pipe", "-vcodec", "png", "-")

	out, err := e.output(ctx, e.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("extract frame from %s: %w", input, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("extract frame from %s: no frame at %v", input, at)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// Poster returns a representative still for a video clip: the frame one
// second in, or the first frame of clips shorter than that.
func (e *Executor) Poster(ctx context.Context, input string, width, height int) (image.Image, *MediaInfo, error) {
	info, err := e.Probe(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if !info.HasVideo {
		return nil, info, fmt.Errorf("%s has no video stream", input)
	}
	at := time.Second
	if info.Duration <= at {
		at = 0
	}
	img, err := e.ExtractFrame(ctx, input, at, width, height)
	if err != nil {
		return nil, info, err
	}
	return img, info, nil
}
