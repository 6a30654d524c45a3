package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/mdsyntax"
)

// diagReportVersion is bumped when the JSON layout changes incompatibly.
const diagReportVersion = "1"

type diagReport struct {
	Version string           `json:"version"`
	Files   []diagFileReport `json:"files"`
	Summary diagSummary      `json:"summary"`
}

type diagFileReport struct {
	Path        string           `json:"path"`
	Diagnostics []diagJSONRecord `json:"diagnostics"`
}

type diagJSONRecord struct {
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Offset      int    `json:"offset"`
	Width       int    `json:"width"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

type diagSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
}

func buildDiagReport(docs []*mdsyntax.Document) *diagReport {
	report := &diagReport{
		Version: diagReportVersion,
		Files:   make([]diagFileReport, 0, len(docs)),
		Summary: diagSummary{BySeverity: make(map[string]int)},
	}

	for _, doc := range docs {
		file := diagFileReport{Path: doc.Path, Diagnostics: make([]diagJSONRecord, 0)}
		for d := range green.Diagnostics(doc.Root) {
			start := doc.Position(d.Position)
			end := doc.Position(d.Position + max(d.Width, 0))
			file.Diagnostics = append(file.Diagnostics, diagJSONRecord{
				Code:        d.Code,
				Severity:    string(d.Severity),
				Message:     d.Message,
				Offset:      d.Position,
				Width:       d.Width,
				StartLine:   start.Line,
				StartColumn: start.Column,
				EndLine:     end.Line,
				EndColumn:   end.Column,
			})
			report.Summary.BySeverity[string(d.Severity)]++
		}

		report.Summary.FilesChecked++
		if n := len(file.Diagnostics); n > 0 {
			report.Summary.FilesWithIssues++
			report.Summary.TotalIssues += n
		}
		report.Files = append(report.Files, file)
	}
	return report
}

// writeDiagJSON writes report as indented JSON.
func writeDiagJSON(w io.Writer, report *diagReport) (err error) {
	bw := bufio.NewWriter(w)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(bw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
