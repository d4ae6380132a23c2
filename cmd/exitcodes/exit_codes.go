package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ExitCodeHandledError indicates an error occurred that was already reported to the user, so main should not
	// print it again.
	ExitCodeHandledError = 2

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 3-5 are often used for common use cases, so we avoid them.

	// ExitCodeCompilationFailed indicates the compiler rejected the sources with at least one fatal diagnostic.
	ExitCodeCompilationFailed = 8
)
