package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/ffmpeg"
	"github.com/keagan/reelforge/internal/logging"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/store"
	"github.com/keagan/reelforge/pkg/util"
)

var (
	cfgFile  string
	verbose  bool
	logJSON  bool
	stateDir string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "reelforge",
	Short:         "reelforge - short-form video timeline editor",
	Long:          "A multi-track editor for vertical and horizontal short-form video: clips, overlays, captions and transitions on a timeline, with a live preview.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logging.Options{Verbose: verbose, JSON: logJSON})

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if stateDir != "" {
			cfg.StateDir = stateDir
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./reelforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "directory holding the editor database")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(clipCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(captionsCmd)
	rootCmd.AddCommand(durationCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
}

// openSession opens the store and builds a pipeline over it. ffmpeg is
// optional; media commands fail later if it is missing.
func openSession(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := log.Logger

	st, err := store.Open(logging.WithComponent("store"), util.ExpandHome(cfg.StateDir))
	if err != nil {
		return nil, err
	}

	ff, err := ffmpeg.New(logging.WithComponent("ffmpeg"), ffmpeg.Paths{
		FFmpeg:  cfg.FFmpeg.BinaryPath,
		FFprobe: cfg.FFmpeg.ProbePath,
		FFplay:  cfg.FFmpeg.PlayPath,
	})
	if err != nil {
		logger.Debug().Err(err).Msg("media features disabled")
		ff = nil
	}

	p, err := pipeline.New(ctx, logger, cfg, pipeline.Options{Store: st, FFmpeg: ff})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return p, nil
}

// withSession runs fn against an open session and reports save failures.
func withSession(cmd *cobra.Command, fn func(p *pipeline.Pipeline) error) error {
	p, err := openSession(cmd)
	if err != nil {
		return err
	}
	runErr := fn(p)
	saveErr := p.Err()
	if err := p.Close(); err != nil {
		log.Warn().Err(err).Msg("close session")
	}
	if runErr != nil {
		return runErr
	}
	return saveErr
}
