package types

import "encoding/json"

// RawCompilerOutput is the standard JSON output of the compiler, decoded only as deep as the pipeline needs it.
type RawCompilerOutput struct {
	// Contracts maps unit name -> contract name -> artifact. A nil map means the compiler omitted the key entirely,
	// which is distinct from an empty map.
	Contracts map[string]map[string]RawArtifact `json:"contracts,omitempty"`

	// Errors lists every diagnostic in emission order.
	Errors []Diagnostic `json:"errors,omitempty"`

	// SourceList lists the units the compiler saw. Only present on some compiler versions.
	SourceList []string `json:"sourceList,omitempty"`

	// Sources maps unit name to file-level output (id and ASTs).
	Sources map[string]RawSource `json:"sources,omitempty"`
}

// RawSource is the file-level output for one compilation unit.
type RawSource struct {
	ID        int             `json:"id"`
	AST       json.RawMessage `json:"ast,omitempty"`
	LegacyAST json.RawMessage `json:"legacyAST,omitempty"`
}

// RawArtifact is the nested compiler record of a single contract.
type RawArtifact struct {
	Abi      json.RawMessage `json:"abi,omitempty"`
	Devdoc   json.RawMessage `json:"devdoc,omitempty"`
	Userdoc  json.RawMessage `json:"userdoc,omitempty"`
	Metadata string          `json:"metadata,omitempty"`
	Evm      RawEvm          `json:"evm"`
}

// RawEvm groups the EVM-related outputs of a contract.
type RawEvm struct {
	Bytecode          RawBytecode       `json:"bytecode"`
	DeployedBytecode  RawBytecode       `json:"deployedBytecode"`
	GasEstimates      *GasEstimates     `json:"gasEstimates,omitempty"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers,omitempty"`
	LegacyAssembly    json.RawMessage   `json:"legacyAssembly,omitempty"`
}

// RawBytecode is a hex-encoded bytecode object along with the positions of unlinked library references.
type RawBytecode struct {
	Object         string         `json:"object"`
	LinkReferences LinkReferences `json:"linkReferences,omitempty"`
	SourceMap      string         `json:"sourceMap,omitempty"`
}

// HasContracts returns true if the output contains at least one compiled contract.
func (o *RawCompilerOutput) HasContracts() bool {
	for _, contracts := range o.Contracts {
		if len(contracts) > 0 {
			return true
		}
	}
	return false
}
