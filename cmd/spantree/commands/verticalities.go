package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// NewVerticalitiesCommand creates the verticalities subcommand.
func NewVerticalitiesCommand() *cobra.Command {
	var (
		at      string
		window  int
		padEnd  bool
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "verticalities <corpus.yaml|corpus.json>",
		Short: "Walk the corpus moment by moment",
		Long: `Walk the corpus one distinct offset at a time, printing the active
values at each moment. With --window the walk slides a fixed-width
window instead; with --at it answers for a single offset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			_, ix, err := loadIndex(args[0])
			if err != nil {
				return err
			}

			logger.Debug("corpus loaded", "path", args[0], "spans", ix.Len())

			out := cmd.OutOrStdout()

			if at != "" {
				pos, parseErr := offset.Parse(at)
				if parseErr != nil {
					return fmt.Errorf("parse --at: %w", parseErr)
				}

				fmt.Fprintln(out, ix.VerticalityAt(pos))

				return nil
			}

			if !cmd.Flags().Changed("window") {
				window = cfg.Window.Size
			}

			if !cmd.Flags().Changed("pad-end") {
				padEnd = cfg.Window.PadEnd
			}

			if window <= 1 {
				for v := range ix.Verticalities(reverse) {
					fmt.Fprintln(out, v)
				}

				return nil
			}

			windows, err := ix.VerticalitiesNwise(window, reverse, padEnd)
			if err != nil {
				return err
			}

			for seq := range windows {
				fmt.Fprintf(out, "[%s]\n", strings.Join(seq.Offsets(), " "))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "single offset to inspect (e.g. 3/2)")
	cmd.Flags().IntVarP(&window, "window", "n", 1, "sliding window width")
	cmd.Flags().BoolVar(&padEnd, "pad-end", false, "pad the tail with empty verticalities")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "walk from the end backward")

	return cmd
}
