package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/pkg/report"
)

const plotFilePerm = 0o644

// ErrNoPlotOutput is returned when the --output flag is not set.
var ErrNoPlotOutput = errors.New("output file is required (use --output)")

// NewPlotCommand creates the plot subcommand.
func NewPlotCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plot <corpus.yaml|corpus.json>",
		Short: "Render an overlap density chart as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoPlotOutput
			}

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			doc, ix, err := loadIndex(args[0])
			if err != nil {
				return err
			}

			title := doc.Title
			if title == "" {
				title = cfg.Plot.Title
			}

			file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, plotFilePerm)
			if err != nil {
				return fmt.Errorf("create plot file: %w", err)
			}

			defer file.Close()

			renderErr := report.WriteOverlapChart(file, ix, report.ChartOptions{
				Title: title,
				Theme: cfg.Plot.Theme,
			})
			if renderErr != nil {
				return renderErr
			}

			logger.Info("plot written", "path", output, "offsets", countOffsets(ix))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file")

	return cmd
}
