package compilation

import (
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
)

// DiagnosticMode selects how compiler diagnostics affect a pipeline run.
type DiagnosticMode int

const (
	// FailFast logs warnings and aborts on the first fatal diagnostic.
	FailFast DiagnosticMode = iota
	// ReturnAll aborts on any diagnostic and hands back the whole list, for editors that render every problem at once.
	ReturnAll
)

// String returns the mode name.
func (m DiagnosticMode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case ReturnAll:
		return "return-all"
	default:
		return "unknown"
	}
}

// classifyDiagnostics applies the diagnostic mode to the diagnostics of one compiler run, in emission order.
func classifyDiagnostics(diagnostics []types.Diagnostic, mode DiagnosticMode, logger *logging.Logger) error {
	if mode == ReturnAll {
		if len(diagnostics) == 0 {
			return nil
		}
		return &DiagnosticsError{Diagnostics: diagnostics}
	}

	for _, diagnostic := range diagnostics {
		if diagnostic.IsWarning() {
			logger.Warn(colors.Yellow, diagnostic.String())
			continue
		}
		if diagnostic.IsFatal() {
			return &DiagnosticError{Diagnostic: diagnostic}
		}
	}
	return nil
}
