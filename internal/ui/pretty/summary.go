package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gosyntax/pkg/green"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

// Stats aggregates counts over one or more parsed trees.
type Stats struct {
	Files       int
	Bytes       int
	Nodes       int
	Tokens      int
	Trivia      int
	Diagnostics int
	BySeverity  map[green.Severity]int
	Kinds       map[green.Kind]int
}

// Merge adds other into s.
func (s *Stats) Merge(other Stats) {
	s.Files += other.Files
	s.Bytes += other.Bytes
	s.Nodes += other.Nodes
	s.Tokens += other.Tokens
	s.Trivia += other.Trivia
	s.Diagnostics += other.Diagnostics
	for sev, n := range other.BySeverity {
		if s.BySeverity == nil {
			s.BySeverity = make(map[green.Severity]int)
		}
		s.BySeverity[sev] += n
	}
	for kind, n := range other.Kinds {
		if s.Kinds == nil {
			s.Kinds = make(map[green.Kind]int)
		}
		s.Kinds[kind] += n
	}
}

// FormatSummaryOneLine formats stats as a single line.
// Example: "3 files, 1204 bytes, 2 diagnostics (1 warning, 1 info)".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	fileWord := wordFiles
	if stats.Files == 1 {
		fileWord = wordFile
	}
	parts := []string{
		fmt.Sprintf("%d %s", stats.Files, fileWord),
		fmt.Sprintf("%d bytes", stats.Bytes),
	}

	if stats.Diagnostics == 0 {
		parts = append(parts, s.Success.Render("no diagnostics"))
		return strings.Join(parts, ", ") + "\n"
	}

	var severityParts []string
	for _, sev := range []struct {
		severity green.Severity
		label    string
		style    lipgloss.Style
	}{
		{green.SeverityError, "error", s.Error},
		{green.SeverityWarning, "warning", s.Warning},
		{green.SeverityInfo, "info", s.Info},
	} {
		if n := stats.BySeverity[sev.severity]; n > 0 {
			severityParts = append(severityParts, sev.style.Render(fmt.Sprintf("%d %s", n, sev.label)))
		}
	}

	diagWord := "diagnostics"
	if stats.Diagnostics == 1 {
		diagWord = "diagnostic"
	}
	parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.Diagnostics, diagWord, strings.Join(severityParts, ", ")))
	return strings.Join(parts, ", ") + "\n"
}

type kindRow struct {
	name  string
	count int
}

// FormatKindTable renders per-kind counts, most frequent first, fitted to
// width columns.
func (s *Styles) FormatKindTable(stats Stats, width int) string {
	rows := make([]kindRow, 0, len(stats.Kinds))
	nameWidth := len("Kind")
	countWidth := len("Count")
	for kind, n := range stats.Kinds {
		row := kindRow{name: kind.String(), count: n}
		rows = append(rows, row)
		nameWidth = max(nameWidth, len(row.name))
		countWidth = max(countWidth, len(strconv.Itoa(n)))
	}
	slices.SortFunc(rows, func(a, b kindRow) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	if width > 0 {
		nameWidth = min(nameWidth, max(width-countWidth-3, len("Kind")))
	}

	var b strings.Builder
	b.WriteString(s.TableHeader.Render(fmt.Sprintf("%-*s  %*s", nameWidth, "Kind", countWidth, "Count")))
	b.WriteByte('\n')
	b.WriteString(s.TableBorder.Render(strings.Repeat("-", nameWidth+2+countWidth)))
	b.WriteByte('\n')
	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %*d\n", nameWidth, truncateString(row.name, nameWidth), countWidth, row.count)
	}
	return b.String()
}

func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return str[:maxLen]
	}
	return str[:maxLen-len(ellipsis)] + ellipsis
}
