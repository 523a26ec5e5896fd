package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keagan/reelforge/internal/captions"
	"github.com/keagan/reelforge/internal/config"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/pkg/util"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Visual plan commands",
}

var planImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the timeline with the clips a visual plan describes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			n := p.ImportPlan(text)
			if n == 0 {
				log.Warn().Msg("no segments found")
			}
			return nil
		})
	},
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project file commands",
}

var projectExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the timeline to a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			return p.ExportProject(args[0])
		})
	},
}

var projectImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a project file, replacing the timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			return p.ImportProject(cmd.Context(), args[0])
		})
	},
}

var (
	captionText     string
	captionFile     string
	captionAudio    string
	captionStyle    string
	captionFont     string
	captionSize     float64
	captionDuration float64
	captionTimings  string
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Caption commands",
}

var captionsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Add a word-timed caption clip from a transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript := captionText
		if captionFile != "" {
			t, err := readInput(captionFile)
			if err != nil {
				return err
			}
			transcript = t
		}
		timings, err := parseTimings(captionTimings)
		if err != nil {
			return err
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			c, err := p.GenerateCaptions(cmd.Context(), pipeline.CaptionRequest{
				Transcript:    transcript,
				Timings:       timings,
				AudioPath:     captionAudio,
				AudioDuration: captionDuration,
				Style: captions.Style{
					Name:       captionStyle,
					FontFamily: captionFont,
					FontSize:   captionSize,
				},
			})
			if err != nil {
				return err
			}
			log.Info().Int("clip", c.ID).Int("words", len(c.Words)).Msg("captions added")
			return nil
		})
	},
}

func parseTimings(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timing %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

var durationCmd = &cobra.Command{
	Use:   "duration",
	Short: "Project duration commands",
}

var durationSetCmd = &cobra.Command{
	Use:   "set <seconds>",
	Short: "Set the project duration, clamped to the configured bounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q", args[0])
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			p.Timeline().SetDuration(d)
			log.Info().Float64("duration", p.Timeline().Duration()).Msg("duration set")
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(config.FromContext(cmd.Context())); err != nil {
			return err
		}
		return enc.Close()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration (.yaml or .toml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "reelforge.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the saved timeline and layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			return p.Reset(cmd.Context())
		})
	},
}

func init() {
	planCmd.AddCommand(planImportCmd)
	projectCmd.AddCommand(projectExportCmd, projectImportCmd)

	f := captionsGenerateCmd.Flags()
	f.StringVar(&captionText, "text", "", "transcript text")
	f.StringVar(&captionFile, "file", "", "transcript file, or - for stdin")
	f.StringVar(&captionAudio, "audio", "", "voiceover file")
	f.StringVar(&captionStyle, "style", captions.DefaultStyle, "tiktok, bounce, karaoke or subtitle")
	f.StringVar(&captionFont, "font", captions.DefaultFont, "font family")
	f.Float64Var(&captionSize, "size", captions.DefaultFontSize, "font size")
	f.Float64Var(&captionDuration, "duration", 0, "voiceover length in seconds, probed when 0")
	f.StringVar(&captionTimings, "timings", "", "comma-separated word start times")
	captionsCmd.AddCommand(captionsGenerateCmd)

	durationCmd.AddCommand(durationSetCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
