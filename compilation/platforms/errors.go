package platforms

import "fmt"

// LoadError indicates the compiler could not be initialized. The binding stays unloaded, so the next call retries.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load compiler: %v", e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// InvocationError indicates the compiler call failed before producing usable output.
type InvocationError struct {
	Cause error

	// Output is whatever the compiler wrote before failing, if anything.
	Output string
}

func (e *InvocationError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("error while executing compiler: %v\n\nCommand Output:\n%s", e.Cause, e.Output)
	}
	return fmt.Sprintf("error while executing compiler: %v", e.Cause)
}

func (e *InvocationError) Unwrap() error {
	return e.Cause
}
