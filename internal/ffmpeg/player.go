package ffmpeg

import (
	"errors"
	"os/exec"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNoPlayer is returned by NewPlayer when ffplay is not installed.
var ErrNoPlayer = errors.New("ffplay not available")

// Player plays an audio file through an ffplay child process. It satisfies
// clips.AudioHandle. A playing player whose file ran out stays "playing"
// until paused, so the clock does not restart it every tick.
type Player struct {
	logger zerolog.Logger
	bin    string
	src    string

	mu      sync.Mutex
	offset  float64
	playing bool
	cmd     *exec.Cmd
}

// NewPlayer returns a paused player for src.
func (e *Executor) NewPlayer(src string) (*Player, error) {
	if e.ffplayPath == "" {
		return nil, ErrNoPlayer
	}
	return &Player{
		logger: e.logger.With().Str("audio", src).Logger(),
		bin:    e.ffplayPath,
		src:    src,
	}, nil
}

// Seek sets the offset in seconds. A playing player restarts from there.
func (p *Player) Seek(offset float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = max(0, offset)
	if p.playing {
		p.kill()
		p.start()
	}
}

// Play starts playback from the current offset.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.playing = true
	p.start()
}

// Pause stops the child process.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.kill()
}

// Paused reports whether the player is stopped.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.playing
}

func (p *Player) start() {
	cmd := exec.Command(p.bin,
		"-nodisp", "-autoexit", "-loglevel", "quiet",
		"-ss", strconv.FormatFloat(p.offset, 'f', 3, 64),
		p.src,
	)
	if err := cmd.Start(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to start audio")
		return
	}
	p.cmd = cmd
	go func() { _ = cmd.Wait() }()
}

func (p *Player) kill() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
}
