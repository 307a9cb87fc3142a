// Package report renders index summaries as terminal tables and overlap
// density charts as interactive HTML.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
	"github.com/Sumatoshi-tech/spantree/pkg/spantree"
)

// ErrEmptyIndex is returned when there is nothing to report on.
var ErrEmptyIndex = errors.New("index holds no timespans")

// GroupSummary aggregates one owner group's timeline.
type GroupSummary struct {
	Group    spantree.GroupID
	Spans    int
	Coverage offset.Offset
	Lowest   offset.Offset
	EndTime  offset.Offset
	Overlap  int
}

// Summary aggregates a whole index.
type Summary struct {
	Groups     []GroupSummary
	Spans      int
	Offsets    int
	EndTime    offset.Offset
	MaxOverlap int
}

// Summarize computes per-group and total statistics for the index.
func Summarize(ix *spantree.Index) (*Summary, error) {
	if ix.Len() == 0 {
		return nil, ErrEmptyIndex
	}

	summary := &Summary{Spans: ix.Len()}

	if end, ok := ix.EndTime(); ok {
		summary.EndTime = end
	}

	for range ix.Verticalities(false) {
		summary.Offsets++
	}

	if deg, ok := ix.MaximumOverlap(); ok {
		summary.MaxOverlap = deg
	}

	parts := ix.PartitionByGroup()

	for _, group := range ix.Groups() {
		part := parts[group]
		row := GroupSummary{Group: group, Spans: part.Len()}

		for ts := range part.All() {
			row.Coverage = row.Coverage.Add(ts.Duration())
		}

		if low, ok := part.LowestPosition(); ok {
			row.Lowest = low
		}

		if end, ok := part.EndTime(); ok {
			row.EndTime = end
		}

		if deg, ok := part.MaximumOverlap(); ok {
			row.Overlap = deg
		}

		summary.Groups = append(summary.Groups, row)
	}

	return summary, nil
}

// WriteTable renders the summary as a terminal table with a colored
// heading. maxRows caps the group rows; the totals row is always shown.
func (s *Summary) WriteTable(w io.Writer, title string, maxRows int) {
	if title != "" {
		color.New(color.FgCyan, color.Bold).Fprintf(w, "%s\n", title)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Group", "Spans", "Coverage", "From", "To", "Max Overlap"})

	rows := s.Groups
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	for _, row := range rows {
		tw.AppendRow(table.Row{
			string(row.Group),
			humanize.Comma(int64(row.Spans)),
			row.Coverage.String(),
			row.Lowest.String(),
			row.EndTime.String(),
			row.Overlap,
		})
	}

	if trimmed := len(s.Groups) - len(rows); trimmed > 0 {
		tw.AppendRow(table.Row{fmt.Sprintf("(%d more groups)", trimmed), "", "", "", "", ""})
	}

	tw.AppendFooter(table.Row{
		"total",
		humanize.Comma(int64(s.Spans)),
		"",
		"",
		s.EndTime.String(),
		s.MaxOverlap,
	})

	tw.Render()
}
