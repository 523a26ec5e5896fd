package main

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/gui"
	"github.com/keagan/reelforge/internal/logging"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/playback"
	"github.com/keagan/reelforge/pkg/util"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the editor window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			return gui.Run(cmd.Context(), logging.WithComponent("gui"), p)
		})
	},
}

var (
	frameAt    string
	frameOut   string
	frameScale float64
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Render one frame of the timeline to a PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := util.ParseTimestamp(frameAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			img := p.RenderAt(at, frameScale)
			f, err := os.Create(frameOut)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info().
				Str("out", frameOut).
				Float64("at", at).
				Int("width", img.Bounds().Dx()).
				Int("height", img.Bounds().Dy()).
				Msg("frame written")
			return nil
		})
	},
}

var playFrom string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the timeline headless, with audio when ffplay is available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := util.ParseTimestamp(playFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		fps := config.FromContext(cmd.Context()).Editor.FPS
		if fps <= 0 {
			fps = 30
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			clock := p.Clock()
			tl := p.Timeline()
			clock.Seek(from)
			started := time.Now()
			clock.Play(started)
			defer clock.Pause()

			lastSecond := -1
			err := playback.Drive(cmd.Context(), time.Second/time.Duration(fps), func(now time.Time) bool {
				playing := clock.Tick(now)
				if sec := int(tl.CurrentTime()); playing && sec != lastSecond {
					lastSecond = sec
					log.Info().
						Str("at", util.FormatClock(tl.CurrentTime())).
						Int("active", len(tl.ActiveClips(tl.CurrentTime()))).
						Msg("playing")
				}
				return playing
			})
			if err != nil && cmd.Context().Err() != nil {
				log.Info().Str("elapsed", util.FormatDuration(time.Since(started))).Msg("playback interrupted")
				return nil
			}
			if err == nil {
				log.Info().Str("elapsed", util.FormatDuration(time.Since(started))).Msg("playback finished")
			}
			return err
		})
	},
}

func init() {
	frameCmd.Flags().StringVar(&frameAt, "at", "0", "time to render (seconds or M:SS)")
	frameCmd.Flags().StringVarP(&frameOut, "out", "o", "frame.png", "output PNG path")
	frameCmd.Flags().Float64Var(&frameScale, "scale", 1, "pixel scale relative to the full frame")

	playCmd.Flags().StringVar(&playFrom, "from", "0", "start time (seconds or M:SS)")
}
