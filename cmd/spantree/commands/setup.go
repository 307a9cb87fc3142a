// Package commands implements the spantree CLI subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/pkg/config"
	"github.com/Sumatoshi-tech/spantree/pkg/corpus"
	"github.com/Sumatoshi-tech/spantree/pkg/observability"
	"github.com/Sumatoshi-tech/spantree/pkg/spantree"
)

const serviceName = "spantree"

// setup loads configuration honoring the root --config flag and builds
// the structured logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(os.Stderr, observability.LoggerOptions{
		Level:   parseLevel(cfg.Logging.Level),
		JSON:    cfg.Logging.Format == "json",
		Service: serviceName,
	})

	return cfg, logger, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// countOffsets walks the index once to count distinct start offsets.
func countOffsets(ix *spantree.Index) int {
	n := 0
	for range ix.Verticalities(false) {
		n++
	}

	return n
}

// writeMetrics prints the gathered operation counters, one per line.
func writeMetrics(w io.Writer, metrics *observability.IndexMetrics) {
	families, err := metrics.Gatherer().Gather()
	if err != nil {
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fmt.Fprintf(w, "%s %g\n", family.GetName(), metric.GetCounter().GetValue())
		}
	}
}

// loadIndex reads a corpus file and builds the index over it.
func loadIndex(path string, opts ...spantree.IndexOption) (*corpus.Document, *spantree.Index, error) {
	doc, err := corpus.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus %s: %w", path, err)
	}

	ix, err := doc.Build(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build index from %s: %w", path, err)
	}

	return doc, ix, nil
}
