package logging

// These constants are used to identify the various services that may do some logging
const (
	// COMPILATION_SERVICE is the constant used to identify the compilation package
	COMPILATION_SERVICE = "compilation"
	// SOLC_SERVICE is the constant used to identify the compiler binding
	SOLC_SERVICE = "solc"
	// SOURCES_SERVICE is the constant used to identify the source assembler
	SOURCES_SERVICE = "sources"
	// STORE_SERVICE is the constant used to identify the artifact store
	STORE_SERVICE = "store"
	// API_SERVICE is the constant used to identify the HTTP adapter
	API_SERVICE = "api"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)
