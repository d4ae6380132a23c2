package types

import (
	"encoding/json"
	"strings"

	"github.com/crytic/medusa-geth/common"
)

// CompiledArtifact is the flattened, application-facing record of one compiled contract.
type CompiledArtifact struct {
	// Name is the contract name.
	Name string `json:"name"`

	// Code is the hex-encoded deployment bytecode exactly as reported by the compiler. It may contain unlinked
	// library placeholders.
	Code string `json:"code"`

	// LinkReferences describes where library addresses must be linked into Code.
	LinkReferences LinkReferences `json:"linkReferences,omitempty"`

	// RuntimeBytecode is the hex-encoded deployed bytecode exactly as reported by the compiler.
	RuntimeBytecode string `json:"runtimeBytecode"`

	// RealRuntimeBytecode is RuntimeBytecode without its trailing MetadataSuffixLength characters.
	RealRuntimeBytecode string `json:"realRuntimeBytecode"`

	// MetadataHash is the first MetadataHashLength characters of the trailing metadata suffix.
	MetadataHash string `json:"metadataHash"`

	GasEstimates   *GasEstimates     `json:"gasEstimates,omitempty"`
	FunctionHashes map[string]string `json:"functionHashes"`
	AbiDefinition  json.RawMessage   `json:"abiDefinition"`
	Userdoc        json.RawMessage   `json:"userdoc,omitempty"`

	// SourceFilename is the compiler-reported unit path in the platform path convention.
	SourceFilename string `json:"sourceFilename"`

	// OriginalFilename is the caller's path for the unit this contract came from. It is empty when the unit does not
	// map back to a caller file, e.g. for injected library code.
	OriginalFilename string `json:"originalFilename,omitempty"`
}

// SplitRuntimeBytecode splits runtime bytecode into the code that precedes the trailing metadata suffix and the
// metadata hash at the start of that suffix. Concatenating code with the last MetadataSuffixLength characters of
// runtime always gives runtime back.
//
// Bytecode shorter than the suffix degenerates instead of failing: code is empty and hash is whatever prefix of
// runtime fits in MetadataHashLength characters.
func SplitRuntimeBytecode(runtime string) (code string, hash string) {
	if len(runtime) < MetadataSuffixLength {
		if len(runtime) < MetadataHashLength {
			return "", runtime
		}
		return "", runtime[:MetadataHashLength]
	}
	split := len(runtime) - MetadataSuffixLength
	return runtime[:split], runtime[split : split+MetadataHashLength]
}

// MetadataSuffix returns the trailing MetadataSuffixLength characters of the runtime bytecode, or all of it when it is
// shorter.
func (a *CompiledArtifact) MetadataSuffix() string {
	if len(a.RuntimeBytecode) < MetadataSuffixLength {
		return a.RuntimeBytecode
	}
	return a.RuntimeBytecode[len(a.RuntimeBytecode)-MetadataSuffixLength:]
}

// IsLinked returns true if neither bytecode contains library placeholders.
func (a *CompiledArtifact) IsLinked() bool {
	return !strings.Contains(a.Code, "__") && !strings.Contains(a.RuntimeBytecode, "__")
}

// IsAbstract returns true if the compiler produced no deployment bytecode, as it does for interfaces and abstract
// contracts.
func (a *CompiledArtifact) IsAbstract() bool {
	return strings.TrimPrefix(a.Code, "0x") == ""
}

// RuntimeBytes decodes the runtime bytecode. Unlinked bytecode cannot be decoded and yields nil.
func (a *CompiledArtifact) RuntimeBytes() []byte {
	if !a.IsLinked() {
		return nil
	}
	return common.FromHex(a.RuntimeBytecode)
}

// Metadata extracts the CBOR contract metadata embedded in the runtime bytecode, or nil if there is none.
func (a *CompiledArtifact) Metadata() *ContractMetadata {
	runtime := a.RuntimeBytes()
	if len(runtime) == 0 {
		return nil
	}
	return ExtractContractMetadata(runtime)
}
