package cli

import (
	"errors"

	"github.com/yaklabco/gosyntax/internal/configloader"
	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/store"
)

// Exit codes for gosyntax.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitDiagnostics indicates diag found error diagnostics (or any, with --strict).
	ExitDiagnostics = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a malformed store or tree file.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

// ErrDiagnosticsFound is returned by diag when the exit status should be nonzero.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// ErrInvalidUsage wraps argument errors detected after flag parsing.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var verr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDiagnosticsFound):
		return ExitDiagnostics
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, store.ErrBadHeader), errors.Is(err, green.ErrCorrupt):
		return ExitDataError
	case errors.As(err, &verr):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}
