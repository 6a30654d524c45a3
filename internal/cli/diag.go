package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/logging"
	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/green"
)

type diagFlags struct {
	strict    bool
	noContext bool
	json      bool
}

func newDiagCommand(root *rootFlags) *cobra.Command {
	flags := &diagFlags{}

	cmd := &cobra.Command{
		Use:   "diag PATH...",
		Short: "List the diagnostics found while parsing",
		Long: `Parse Markdown files and list their diagnostics with line and column.

The command fails when an error diagnostic is found, or any diagnostic
with --strict.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiag(cmd, root, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on any diagnostic")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context")
	cmd.Flags().BoolVar(&flags.json, "json", false, "write diagnostics as JSON")

	return cmd
}

func runDiag(cmd *cobra.Command, root *rootFlags, flags *diagFlags, args []string) error {
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
		stats := collectStats(doc.Root, len(doc.Content))
		total.Merge(stats)

		if flags.json || stats.Diagnostics == 0 {
			continue
		}
		_, _ = io.WriteString(a.out, a.styles.FormatFileHeader(doc.Path, stats.Diagnostics)+"\n")
		for d := range green.Diagnostics(doc.Root) {
			pos := doc.Position(d.Position)
			_, _ = io.WriteString(a.out, a.styles.FormatDiagnostic(doc.Path, pos, d.Diagnostic))
			if !flags.noContext {
				_, _ = io.WriteString(a.out, a.styles.FormatSourceContext(string(doc.Lines.Content(pos.Line)), pos.Column))
			}
		}
	}
	if flags.json {
		if err := writeDiagJSON(a.out, buildDiagReport(docs)); err != nil {
			return err
		}
	} else {
		_, _ = io.WriteString(a.out, a.styles.FormatSummaryOneLine(total))
	}

	logging.FromContext(a.ctx).Debug("diagnostics listed",
		logging.FieldFiles, total.Files,
		logging.FieldDiagnostics, total.Diagnostics,
	)

	if total.BySeverity[green.SeverityError] > 0 || (flags.strict && total.Diagnostics > 0) {
		return ErrDiagnosticsFound
	}
	return nil
}
