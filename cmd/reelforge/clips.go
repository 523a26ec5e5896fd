package main

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/timeline"
	"github.com/keagan/reelforge/pkg/util"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Timeline inspection commands",
}

var laneWidth int

var timelineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the tracks and clips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			tl := p.Timeline()
			fmt.Printf("%s  %s  %s / %s\n", tl.Format(), tl.ProjectID(),
				util.FormatClock(tl.CurrentTime()), util.FormatClock(tl.Duration()))
			fmt.Print(renderLanes(tl, laneWidth))
			return nil
		})
	},
}

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Clip editing commands",
}

var (
	addTrack string
	addStart string
	addEnd   string
	addText  string
	addLabel string
	addKind  string
	addSrc   string
)

var clipAddCmd = &cobra.Command{
	Use:       "add <video|overlay|audio|sfx|effect>",
	Short:     "Add a clip at --start",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"video", "overlay", "audio", "sfx", "effect"},
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := util.ParseTimestamp(addStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			tl := p.Timeline()
			tl.SetCurrentTime(start)

			var c *clips.Clip
			switch args[0] {
			case "overlay":
				c = tl.AddTextOverlay(addText)
			case "effect":
				c = tl.AddTransition(addKind)
			case "audio":
				c = tl.AddAudioClip(addSrc)
			case "sfx":
				kind := addKind
				if kind == "" {
					kind = "whoosh"
				}
				c = tl.QuickAddSFX(kind)
			case "video":
				if addTrack == "" {
					addTrack = "video1"
				}
				c = tl.AddClip(&clips.Clip{
					Type:       clips.TypeVideo,
					Track:      addTrack,
					Start:      start,
					End:        min(start+5, tl.Duration()),
					Label:      addLabel,
					MediaProps: clips.MediaProps{VideoSrc: addSrc, NeedsVideo: addSrc == ""},
				})
			default:
				return fmt.Errorf("unknown clip type %q", args[0])
			}

			if addEnd != "" {
				end, err := util.ParseTimestamp(addEnd)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				tl.ResizeClipEdge(c.ID, timeline.EdgeRight, end)
			}
			if addLabel != "" && c.Label != addLabel {
				tl.UpdateClip(c.ID, func(c *clips.Clip) { c.Label = addLabel })
			}
			if addTrack != "" && c.Track != addTrack {
				tl.UpdateClip(c.ID, func(c *clips.Clip) { c.Track = addTrack })
			}
			if addSrc != "" && c.Type == clips.TypeVideo {
				if err := p.BindVideo(cmd.Context(), c.ID, addSrc); err != nil {
					log.Warn().Err(err).Msg("video added without a poster frame")
				}
			}
			log.Info().Int("clip", c.ID).Str("type", string(c.Type)).Msg("clip added")
			return nil
		})
	},
}

var clipListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			fmt.Println(renderTable(
				[]string{"ID", "Type", "Track", "Start", "End", "Name"},
				clipRows(p.Timeline().Clips()),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		})
	},
}

var clipMoveCmd = &cobra.Command{
	Use:   "move <id> <start>",
	Short: "Move a clip, keeping its duration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, at, err := idAndTime(args[0], args[1])
		if err != nil {
			return err
		}
		return editClip(cmd, id, func(tl *timeline.Timeline) { tl.MoveClip(id, at) })
	},
}

var clipResizeCmd = &cobra.Command{
	Use:       "resize <id> <left|right> <time>",
	Short:     "Move one edge of a clip",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{"left", "right"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, at, err := idAndTime(args[0], args[2])
		if err != nil {
			return err
		}
		var edge timeline.Edge
		switch args[1] {
		case "left":
			edge = timeline.EdgeLeft
		case "right":
			edge = timeline.EdgeRight
		default:
			return fmt.Errorf("edge must be left or right, got %q", args[1])
		}
		return editClip(cmd, id, func(tl *timeline.Timeline) { tl.ResizeClipEdge(id, edge, at) })
	},
}

var clipSplitCmd = &cobra.Command{
	Use:   "split <id> <at>",
	Short: "Split a clip in two",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, at, err := idAndTime(args[0], args[1])
		if err != nil {
			return err
		}
		return editClip(cmd, id, func(tl *timeline.Timeline) {
			if c := tl.SplitClip(id, at); c != nil {
				log.Info().Int("clip", c.ID).Msg("split off")
			}
		})
	},
}

var clipDupCmd = &cobra.Command{
	Use:   "dup <id>",
	Short: "Duplicate a clip right after itself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid clip id %q", args[0])
		}
		return editClip(cmd, id, func(tl *timeline.Timeline) {
			if c := tl.DuplicateClip(id); c != nil {
				log.Info().Int("clip", c.ID).Msg("duplicated")
			}
		})
	},
}

var clipDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid clip id %q", args[0])
		}
		return editClip(cmd, id, func(tl *timeline.Timeline) { tl.DeleteClip(id) })
	},
}

var clipBindCmd = &cobra.Command{
	Use:   "bind <id> <file>",
	Short: "Attach a media file to a video or audio clip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid clip id %q", args[0])
		}
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			c := p.Timeline().Clip(id)
			if c == nil {
				return fmt.Errorf("no clip %d", id)
			}
			switch c.Type {
			case clips.TypeVideo:
				return p.BindVideo(cmd.Context(), id, args[1])
			case clips.TypeAudio:
				return p.BindAudio(cmd.Context(), id, args[1])
			}
			return fmt.Errorf("clip %d is %s; only video and audio clips take media", id, c.Type)
		})
	},
}

func idAndTime(idArg, timeArg string) (int, float64, error) {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clip id %q", idArg)
	}
	at, err := util.ParseTimestamp(timeArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", timeArg, err)
	}
	return id, at, nil
}

// editClip runs edit when the clip exists.
func editClip(cmd *cobra.Command, id int, edit func(tl *timeline.Timeline)) error {
	return withSession(cmd, func(p *pipeline.Pipeline) error {
		tl := p.Timeline()
		if tl.Clip(id) == nil {
			return fmt.Errorf("no clip %d", id)
		}
		edit(tl)
		return nil
	})
}

func init() {
	timelineShowCmd.Flags().IntVar(&laneWidth, "width", 80, "columns per lane")
	timelineCmd.AddCommand(timelineShowCmd)

	clipAddCmd.Flags().StringVar(&addTrack, "track", "", "target track id")
	clipAddCmd.Flags().StringVar(&addStart, "start", "0", "start time (seconds or M:SS)")
	clipAddCmd.Flags().StringVar(&addEnd, "end", "", "end time")
	clipAddCmd.Flags().StringVar(&addText, "text", "", "overlay text")
	clipAddCmd.Flags().StringVar(&addLabel, "label", "", "clip label")
	clipAddCmd.Flags().StringVar(&addKind, "kind", "", "transition or sound effect kind")
	clipAddCmd.Flags().StringVar(&addSrc, "src", "", "media file")

	clipCmd.AddCommand(clipAddCmd, clipListCmd, clipMoveCmd, clipResizeCmd, clipSplitCmd, clipDupCmd, clipDeleteCmd, clipBindCmd)
}
