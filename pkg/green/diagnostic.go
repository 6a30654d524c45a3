package green

import (
	"fmt"
	"sync/atomic"
)

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a message attached to a node during parsing.
type Diagnostic struct {
	// Code identifies the diagnostic (e.g., "trailing-whitespace").
	Code string

	// Severity indicates the importance of the diagnostic.
	Severity Severity

	// Message is the human-readable description.
	Message string

	// Offset is relative to the full start of the owning node,
	// leading trivia included.
	Offset int

	// Width is the length of the flagged range in bytes.
	Width int
}

// String formats the diagnostic for logs and test failures.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

// Annotation is an opaque marker attached to a node. Annotations survive
// with-style edits of other nodes and are matched by ID.
type Annotation struct {
	ID   uint64
	Kind string
	Data string
}

//nolint:gochecknoglobals // Monotonic ID source for annotations.
var nextAnnotationID atomic.Uint64

// NewAnnotation creates an annotation with a process-unique ID.
func NewAnnotation(kind, data string) Annotation {
	return Annotation{
		ID:   nextAnnotationID.Add(1),
		Kind: kind,
		Data: data,
	}
}

// extra holds out-of-line node data. Most nodes carry none.
type extra struct {
	diagnostics []Diagnostic
	annotations []Annotation
}

func (e *extra) empty() bool {
	return e == nil || (len(e.diagnostics) == 0 && len(e.annotations) == 0)
}

func newExtra(diags []Diagnostic, annots []Annotation) *extra {
	e := &extra{diagnostics: diags, annotations: annots}
	if e.empty() {
		return nil
	}
	return e
}
