package types

const (
	// DiagnosticTypeWarning is the diagnostic type solc uses for warnings.
	DiagnosticTypeWarning = "Warning"
	// DiagnosticTypeError is the generic fatal diagnostic type.
	DiagnosticTypeError = "Error"
	// DiagnosticSeverityError is the severity solc attaches to every fatal diagnostic, whatever its type
	// (ParserError, TypeError, DeclarationError, ...).
	DiagnosticSeverityError = "error"
)

// Diagnostic is a single message emitted by the compiler.
type Diagnostic struct {
	// Type is the diagnostic kind, e.g. "Warning", "Error", "TypeError".
	Type string `json:"type"`

	// Severity is "error", "warning" or "info".
	Severity string `json:"severity"`

	// Component is the compiler component that emitted the diagnostic, usually "general".
	Component string `json:"component,omitempty"`

	// Message is the bare message without source context.
	Message string `json:"message,omitempty"`

	// FormattedMessage is the message with source location and code excerpt, ready to print.
	FormattedMessage string `json:"formattedMessage"`

	// SourceLocation points at the offending source range, if the compiler provided one.
	SourceLocation *SourceLocation `json:"sourceLocation,omitempty"`
}

// SourceLocation is a byte range inside a compilation unit.
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// IsWarning returns true if the diagnostic is a warning.
func (d Diagnostic) IsWarning() bool {
	return d.Type == DiagnosticTypeWarning
}

// IsFatal returns true if the diagnostic is an error, either by its type or by its severity.
func (d Diagnostic) IsFatal() bool {
	return d.Type == DiagnosticTypeError || d.Severity == DiagnosticSeverityError
}

// String returns the formatted message, falling back to the bare message.
func (d Diagnostic) String() string {
	if d.FormattedMessage != "" {
		return d.FormattedMessage
	}
	return d.Message
}
