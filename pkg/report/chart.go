package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Sumatoshi-tech/spantree/pkg/spantree"
)

// ChartOptions configures the overlap density chart.
type ChartOptions struct {
	Title string
	Theme string // "dark" or "light"
}

// WriteOverlapChart renders an interactive HTML line chart of the overlap
// degree (sounding timespans) at every distinct offset.
func WriteOverlapChart(w io.Writer, ix *spantree.Index, chartOpts ChartOptions) error {
	if ix.Len() == 0 {
		return ErrEmptyIndex
	}

	var (
		labels []string
		points []opts.LineData
	)

	for v := range ix.Verticalities(false) {
		labels = append(labels, v.Offset.String())
		points = append(points, opts.LineData{Value: len(v.StartAndOverlap())})
	}

	theme := types.ThemeChalk
	if chartOpts.Theme == "light" {
		theme = types.ThemeWesteros
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    chartOpts.Title,
			Subtitle: "Sounding timespans per distinct offset",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "offset"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "overlap degree"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}, opts.DataZoom{Type: "inside"}),
	)

	line.SetXAxis(labels)
	line.AddSeries("overlap", points)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
