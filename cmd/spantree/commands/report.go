package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/pkg/observability"
	"github.com/Sumatoshi-tech/spantree/pkg/report"
	"github.com/Sumatoshi-tech/spantree/pkg/spantree"
)

// NewReportCommand creates the report subcommand.
func NewReportCommand() *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "report <corpus.yaml|corpus.json>",
		Short: "Summarize a corpus per owner group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			metrics := observability.NewIndexMetrics()

			doc, ix, err := loadIndex(args[0], spantree.WithRecorder(metrics))
			if err != nil {
				return err
			}

			logger.Info("corpus loaded", "path", args[0], "spans", ix.Len(), "groups", len(ix.Groups()))

			summary, err := report.Summarize(ix)
			if err != nil {
				return err
			}

			title := doc.Title
			if title == "" {
				title = args[0]
			}

			summary.WriteTable(cmd.OutOrStdout(), title, cfg.Report.MaxRows)

			if showMetrics {
				writeMetrics(cmd.OutOrStdout(), metrics)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print index operation counters")

	return cmd
}
