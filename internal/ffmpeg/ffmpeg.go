// Package ffmpeg wraps the ffprobe and ffmpeg binaries for the two things the
// editor needs from media files: their metadata and a still frame to draw.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Paths names the binaries. Bare names are resolved on PATH.
type Paths struct {
	FFmpeg  string
	FFprobe string
	// FFplay is optional and only needed for audio playback.
	FFplay  string
}

// Executor runs ffmpeg and ffprobe.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	ffplayPath  string
}

// New resolves both binaries.
func New(logger zerolog.Logger, paths Paths) (*Executor, error) {
	if paths.FFmpeg == "" {
		paths.FFmpeg = "ffmpeg"
	}
	if paths.FFprobe == "" {
		paths.FFprobe = "ffprobe"
	}

	ffmpegPath, err := exec.LookPath(paths.FFmpeg)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	ffprobePath, err := exec.LookPath(paths.FFprobe)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	e := &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
	if paths.FFplay != "" {
		if p, err := exec.LookPath(paths.FFplay); err == nil {
			e.ffplayPath = p
		} else {
			e.logger.Debug().Err(err).Msg("ffplay unavailable, audio playback disabled")
		}
	}
	return e, nil
}

// output runs bin and returns its stdout. Stderr is attached to the error.
func (e *Executor) output(ctx context.Context, bin string, args ...string) ([]byte, error) {
	e.logger.Debug().
		Str("cmd", bin).
		Strs("args", args).
		Msg("executing")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = msg[i+1:]
		}
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
