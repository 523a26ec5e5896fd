package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/keagan/reelforge/internal/clips"
	"github.com/keagan/reelforge/internal/timeline"
	"github.com/keagan/reelforge/pkg/util"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func clipRows(cs []*clips.Clip) [][]string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{
			fmt.Sprint(c.ID),
			string(c.Type),
			c.Track,
			util.FormatSeconds(c.Start),
			util.FormatSeconds(c.End),
			clipName(c),
		})
	}
	return rows
}

func clipName(c *clips.Clip) string {
	switch {
	case c.Label != "":
		return c.Label
	case c.Text != "":
		return c.Text
	case c.TransitionType != "":
		return c.TransitionType
	}
	return ""
}

var (
	laneNameStyle = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("#9CA3AF"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4757")).Bold(true)
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	clipStyles    = map[clips.Type]lipgloss.Style{
		clips.TypeVideo:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C5CE7")),
		clips.TypeOverlay: lipgloss.NewStyle().Foreground(lipgloss.Color("#00A6CE")),
		clips.TypeAudio:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00B894")),
		clips.TypeEffect:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FD79A8")),
		clips.TypeCaption: lipgloss.NewStyle().Foreground(lipgloss.Color("#FDCB6E")),
	}
)

// renderLanes draws each track as a row of cells, one cell per
// duration/width seconds, with the playhead column marked.
func renderLanes(tl *timeline.Timeline, width int) string {
	if width < 10 {
		width = 10
	}
	step := tl.Duration() / float64(width)
	head := int(math.Min(float64(width-1), tl.CurrentTime()/step))

	var b strings.Builder
	b.WriteString(laneNameStyle.Render(""))
	b.WriteString(rulerStyle.Render(fmt.Sprintf("%-*s%s", width-len(util.FormatClock(tl.Duration())), "0:00", util.FormatClock(tl.Duration()))))
	b.WriteByte('\n')

	for _, tr := range tl.Tracks() {
		name := tr.Name
		if len(name) > 11 {
			name = name[:11]
		}
		b.WriteString(laneNameStyle.Render(name))
		for i := range width {
			mid := (float64(i) + 0.5) * step
			var hit *clips.Clip
			for _, c := range tl.Clips() {
				if c.Track == tr.ID && c.Contains(mid) {
					hit = c
				}
			}
			switch {
			case i == head:
				b.WriteString(playheadStyle.Render("│"))
			case hit != nil:
				b.WriteString(clipStyles[hit.Type].Render("█"))
			default:
				b.WriteString(emptyStyle.Render("·"))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
