package compilation

import (
	"fmt"
	"strings"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/pkg/errors"
)

var (
	// ErrNoOutput indicates the compiler output had no contracts key at all.
	ErrNoOutput = errors.New("error compiling for unknown reasons")

	// ErrAllSourcesFailed indicates the compiler saw a non-empty source list but compiled no contracts.
	ErrAllSourcesFailed = errors.New("sources were provided to the compiler but no contracts were compiled")

	// ErrNoSources indicates there was nothing to dispatch, e.g. because every source unit failed to read.
	ErrNoSources = errors.New("no readable sources to compile")
)

// DiagnosticError is returned in FailFast mode for the first fatal diagnostic the compiler emitted.
type DiagnosticError struct {
	Diagnostic types.Diagnostic
}

func (e *DiagnosticError) Error() string {
	return "Solidity errors: " + e.Diagnostic.String()
}

// DiagnosticsError is returned in ReturnAll mode and carries every diagnostic the compiler emitted, in emission order.
type DiagnosticsError struct {
	Diagnostics []types.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	messages := make([]string, len(e.Diagnostics))
	for i, diagnostic := range e.Diagnostics {
		messages[i] = diagnostic.String()
	}
	return fmt.Sprintf("compiler emitted %d diagnostic(s):\n%s", len(e.Diagnostics), strings.Join(messages, "\n"))
}

// HasFatal returns true if any of the diagnostics is an error.
func (e *DiagnosticsError) HasFatal() bool {
	for _, diagnostic := range e.Diagnostics {
		if diagnostic.IsFatal() {
			return true
		}
	}
	return false
}
