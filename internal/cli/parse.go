package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/configloader"
	"github.com/yaklabco/gosyntax/internal/logging"
	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/store"
)

type parseFlags struct {
	out    string
	format string
	flavor string
	level  string
	trivia bool
	quiet  bool
}

func newParseCommand(root *rootFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse PATH...",
		Short: "Parse Markdown files and print their syntax trees",
		Long: `Parse one or more Markdown files and print each syntax tree.

Files are parsed concurrently; output follows argument order.

Examples:
  gosyntax parse README.md
  gosyntax parse --format yaml --trivia README.md
  gosyntax parse --out README.gst --quiet README.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, root, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write the tree to a compressed store (single file only)")
	cmd.Flags().StringVar(&flags.format, "format", "tree", "output format: tree, yaml")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.level, "level", "default", "store compression: fastest, default, better, best")
	cmd.Flags().BoolVar(&flags.trivia, "trivia", false, "include trivia in the output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print trees")

	return cmd
}

func runParse(cmd *cobra.Command, root *rootFlags, flags *parseFlags, args []string) error {
	a, err := newApp(cmd, root, changedFlags(cmd, map[string]string{
		"flavor": flags.flavor,
		"format": flags.format,
		"level":  flags.level,
	}))
	if err != nil {
		return err
	}

	paths, err := expandPaths(a.ctx, args)
	if err != nil {
		return err
	}
	if flags.out != "" && len(paths) != 1 {
		return fmt.Errorf("%w: --out needs exactly one input file, got %d", ErrInvalidUsage, len(paths))
	}

	docs, err := a.parseFiles(paths)
	if err != nil {
		return err
	}

	opts := pretty.TreeOptions{ShowTrivia: flags.trivia, Width: a.width}
	for i, doc := range docs {
		if flags.quiet {
			continue
		}
		if len(docs) > 1 {
			if i > 0 {
				_, _ = io.WriteString(a.out, "\n")
			}
			_, _ = io.WriteString(a.out, a.styles.FormatFileHeader(doc.Path, 0)+"\n")
		}
		if err := writeTree(a.out, a.styles, doc.Red(), a.cfg.Format, opts); err != nil {
			return err
		}
	}

	if flags.out != "" {
		if err := store.SaveFile(a.ctx, flags.out, docs[0].Root, store.WithLevel(a.cfg.Store.Level)); err != nil {
			return fmt.Errorf("save %s: %w", flags.out, err)
		}
		logging.FromContext(a.ctx).Info("saved tree",
			logging.FieldPath, docs[0].Path,
			logging.FieldOutput, flags.out,
			logging.FieldLevel, a.cfg.Store.Level,
		)
	}
	return nil
}

// changedFlags maps the set flags among names onto loader overrides.
func changedFlags(cmd *cobra.Command, values map[string]string) configloader.CLIFlags {
	var out configloader.CLIFlags
	for name, value := range values {
		if !cmd.Flags().Changed(name) {
			continue
		}
		switch name {
		case "flavor":
			out.Flavor = value
		case "format":
			out.Format = value
		case "level":
			out.StoreLevel = value
		}
	}
	return out
}
