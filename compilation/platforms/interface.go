package platforms

import "github.com/Masterminds/semver"

// Backend describes the opaque external compiler a Binding drives. Implementations must tolerate concurrent Invoke
// calls once loaded.
type Backend interface {
	// Load prepares the compiler for use and reports its version. providerURL is the storage provider's base URL, or
	// the empty string if none is configured, and is only used if the compiler must fetch its own binary.
	Load(providerURL string) (*semver.Version, error)

	// Invoke passes a standard JSON input to the compiler and returns its standard JSON output.
	Invoke(input []byte) ([]byte, error)
}
