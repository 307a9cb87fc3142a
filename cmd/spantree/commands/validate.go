package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/pkg/corpus"
)

// ErrCorpusInvalid is returned when the corpus fails validation.
var ErrCorpusInvalid = errors.New("corpus is invalid")

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	var nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <corpus.json|corpus.yaml>",
		Short: "Check a corpus against the schema",
		Long: `Check that a corpus file parses, matches the corpus schema (JSON
input), and builds into a well-formed index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			out := cmd.OutOrStdout()

			doc, err := corpus.LoadFile(args[0])
			if err != nil {
				color.New(color.FgRed).Fprintf(out, "corpus invalid (%s)\n", args[0])
				fmt.Fprintf(out, "  %v\n", err)

				return ErrCorpusInvalid
			}

			ix, err := doc.Build()
			if err != nil {
				color.New(color.FgRed).Fprintf(out, "corpus invalid (%s)\n", args[0])
				fmt.Fprintf(out, "  %v\n", err)

				return ErrCorpusInvalid
			}

			color.New(color.FgGreen).Fprintf(out, "corpus valid (%s)\n", args[0])
			fmt.Fprintf(out, "  groups: %d, spans: %d, offsets: %d\n",
				len(ix.Groups()), ix.Len(), countOffsets(ix))

			return nil
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}
