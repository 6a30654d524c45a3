package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/text"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
func (s *Styles) FormatDiagnostic(path string, pos text.Position, diag green.Diagnostic) string {
	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), pos.Line, pos.Column)

	return fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.Code.Render("("+diag.Code+")"),
	)
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev green.Severity) string {
	return s.severityStyle(sev).Render(string(sev))
}

func (s *Styles) severityStyle(sev green.Severity) lipgloss.Style {
	switch sev {
	case green.SeverityError:
		return s.Error
	case green.SeverityWarning:
		return s.Warning
	case green.SeverityInfo:
		return s.Info
	default:
		return s.Message
	}
}

// FormatSourceContext formats the source line with a caret marker under
// column, a 1-based byte column. Tabs are kept as they are and repeated in
// the caret's padding so both lines expand alike.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(indent + caretPadding(line, column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// caretPadding blanks out the first n bytes of line, one space per
// character except tabs.
func caretPadding(line string, n int) string {
	if n > len(line) {
		n = len(line)
	}
	var b strings.Builder
	for _, r := range line[:n] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
