package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/reelforge/internal/pipeline"
	"github.com/keagan/reelforge/internal/timeline"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track management commands",
}

var trackAddCmd = &cobra.Command{
	Use:       "add <video|overlay|audio|effects|caption>",
	Short:     "Append a track",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"video", "overlay", "audio", "effects", "caption"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			tr := p.Timeline().AddTrack(timeline.TrackType(args[0]))
			if tr == nil {
				return fmt.Errorf("unknown track type %q", args[0])
			}
			log.Info().Str("track", tr.ID).Str("name", tr.Name).Msg("track added")
			return nil
		})
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks in lane order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			tl := p.Timeline()
			counts := map[string]int{}
			for _, c := range tl.Clips() {
				counts[c.Track]++
			}
			var rows [][]string
			for _, tr := range tl.Tracks() {
				rows = append(rows, []string{
					tr.ID, tr.Name, string(tr.Type),
					fmt.Sprint(tr.Order), fmt.Sprint(counts[tr.ID]),
				})
			}
			fmt.Println(renderTable(
				[]string{"ID", "Name", "Type", "Order", "Clips"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		})
	},
}

func reorderCmd(use string, dir timeline.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *pipeline.Pipeline) error {
				tl := p.Timeline()
				if tl.Track(args[0]) == nil {
					return fmt.Errorf("no track %q", args[0])
				}
				tl.ReorderTrack(args[0], dir)
				return nil
			})
		},
	}
}

var reassignTo string

var trackDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(p *pipeline.Pipeline) error {
			tl := p.Timeline()
			if tl.Track(args[0]) == nil {
				return fmt.Errorf("no track %q", args[0])
			}
			tl.DeleteTrack(args[0], reassignTo)
			return nil
		})
	},
}

func init() {
	trackDeleteCmd.Flags().StringVar(&reassignTo, "to", "", "track that receives the deleted track's clips")

	trackCmd.AddCommand(
		trackAddCmd,
		trackListCmd,
		reorderCmd("up", timeline.Up, "Move a track one lane up"),
		reorderCmd("down", timeline.Down, "Move a track one lane down"),
		trackDeleteCmd,
	)
}
