package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/logging"
	"github.com/yaklabco/gosyntax/pkg/mdsyntax"
	"github.com/yaklabco/gosyntax/pkg/text"
)

func newFindCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "find FILE OFFSET",
		Short: "Show the token at a byte offset or LINE:COL and its ancestors",
		Long: `Show the token covering a position together with its enclosing nodes.

The position is a zero-based byte offset or a one-based LINE:COL pair.

Examples:
  gosyntax find README.md 120
  gosyntax find README.md 4:7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, changedFlags(cmd, nil))
			if err != nil {
				return err
			}

			docs, err := a.parseFiles(args[:1])
			if err != nil {
				return err
			}
			doc := docs[0]

			offset, err := resolveOffset(doc, args[1])
			if err != nil {
				return err
			}
			logging.FromContext(a.ctx).Debug("finding token", logging.FieldOffset, offset)

			return a.printToken(doc, offset)
		},
	}
}

// resolveOffset parses a byte offset or LINE:COL position.
func resolveOffset(doc *mdsyntax.Document, arg string) (int, error) {
	if line, col, ok := strings.Cut(arg, ":"); ok {
		l, lerr := strconv.Atoi(line)
		c, cerr := strconv.Atoi(col)
		if lerr != nil || cerr != nil {
			return 0, fmt.Errorf("%w: position %q is not LINE:COL", ErrInvalidUsage, arg)
		}
		offset, found := doc.Lines.Offset(text.Position{Line: l, Column: c})
		if !found {
			return 0, fmt.Errorf("%w: position %s is outside %s", ErrInvalidUsage, arg, doc.Path)
		}
		return offset, nil
	}

	offset, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: offset %q is not a number", ErrInvalidUsage, arg)
	}
	return offset, nil
}

func (a *app) printToken(doc *mdsyntax.Document, offset int) error {
	tok := doc.Red().FindToken(offset)
	if tok == nil {
		return fmt.Errorf("%w: offset %d is outside %s (%d bytes)", ErrInvalidUsage, offset, doc.Path, len(doc.Content))
	}

	pos := doc.Position(tok.Span().Start)
	fmt.Fprintf(a.out, "%s %s %s %s\n",
		a.styles.Location.Render(pos.String()),
		a.styles.Kind.Render(tok.Kind().String()),
		a.styles.Span.Render(tok.Span().String()),
		a.styles.TokenText.Render(strconv.Quote(tok.Text())),
	)

	depth := 1
	for ancestor := range tok.Ancestors() {
		_, _ = io.WriteString(a.out, strings.Repeat("  ", depth))
		fmt.Fprintf(a.out, "%s %s\n",
			a.styles.Kind.Render(ancestor.Kind().String()),
			a.styles.Span.Render(ancestor.FullSpan().String()),
		)
		depth++
	}
	return nil
}
