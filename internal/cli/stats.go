package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/ui/pretty"
)

func newStatsCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats PATH...",
		Short: "Count nodes, tokens and trivia by kind",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, changedFlags(cmd, nil))
			if err != nil {
				return err
			}

			docs, err := a.parseArgs(args)
			if err != nil {
				return err
			}

			var total pretty.Stats
			for _, doc := range docs {
				total.Merge(collectStats(doc.Root, len(doc.Content)))
			}

			_, _ = io.WriteString(a.out, a.styles.FormatKindTable(total, a.width))
			_, _ = io.WriteString(a.out, "\n"+a.styles.FormatSummaryOneLine(total))
			return nil
		},
	}
}
