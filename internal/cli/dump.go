package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/red"
	"github.com/yaklabco/gosyntax/pkg/store"
)

type dumpFlags struct {
	format string
	trivia bool
}

func newDumpCommand(root *rootFlags) *cobra.Command {
	flags := &dumpFlags{}

	cmd := &cobra.Command{
		Use:   "dump STORE",
		Short: "Print a tree saved with parse --out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, changedFlags(cmd, map[string]string{"format": flags.format}))
			if err != nil {
				return err
			}

			tree, err := store.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			opts := pretty.TreeOptions{ShowTrivia: flags.trivia, Width: a.width}
			return writeTree(a.out, a.styles, red.Root(tree), a.cfg.Format, opts)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "tree", "output format: tree, yaml")
	cmd.Flags().BoolVar(&flags.trivia, "trivia", false, "include trivia in the output")

	return cmd
}
