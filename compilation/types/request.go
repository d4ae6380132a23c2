package types

// LanguageSolidity is the standard JSON language identifier for Solidity sources.
const LanguageSolidity = "Solidity"

// CompilationRequest is the standard JSON input handed to the compiler for a single pipeline run.
type CompilationRequest struct {
	// Language is the source language, always LanguageSolidity for requests built by this module.
	Language string `json:"language"`

	// Sources maps each compilation unit name to its content. Keys are unique and stay stable for the whole run.
	Sources map[string]SourceContent `json:"sources"`

	// Settings describes optimizer and output selection settings.
	Settings CompilerSettings `json:"settings"`
}

// SourceContent holds the in-memory content of one compilation unit.
type SourceContent struct {
	Content string `json:"content"`
}

// CompilerSettings describes the settings block of a CompilationRequest.
type CompilerSettings struct {
	Optimizer       OptimizerSettings `json:"optimizer"`
	OutputSelection OutputSelection   `json:"outputSelection"`
}

// OptimizerSettings toggles the optimizer and sets its expected number of runs.
type OptimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// OutputSelection maps file name -> contract name -> requested outputs. The empty contract name selects file-level
// outputs such as the AST, "*" selects every file or contract.
type OutputSelection map[string]map[string][]string

// DefaultOutputSelection returns the exhaustive output selection requested for every compilation unit.
func DefaultOutputSelection() OutputSelection {
	return OutputSelection{
		"*": {
			// legacyAST is still consumed by debuggers
			"": {"ast", "legacyAST"},
			"*": {
				"abi",
				"devdoc",
				"evm.bytecode",
				"evm.deployedBytecode",
				"evm.gasEstimates",
				"evm.legacyAssembly",
				"evm.methodIdentifiers",
				"metadata",
				"userdoc",
			},
		},
	}
}
