package compilation

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// emptyABI is the ABI given to contracts the compiler reported none for.
var emptyABI = json.RawMessage("[]")

// ExtractArtifacts flattens raw compiler output into one CompiledArtifact per contract, keyed by contract name. Units
// and contracts are visited in sorted order, so if two units declare a contract with the same name the unit that sorts
// last wins. originalPaths may be nil.
func ExtractArtifacts(output *types.RawCompilerOutput, originalPaths *types.OriginalPaths) (map[string]*types.CompiledArtifact, error) {
	if output == nil || output.Contracts == nil {
		return nil, errors.WithStack(ErrNoOutput)
	}
	if len(output.Contracts) == 0 && len(output.SourceList) > 0 {
		return nil, errors.WithStack(ErrAllSourcesFailed)
	}

	artifacts := make(map[string]*types.CompiledArtifact)
	unitNames := maps.Keys(output.Contracts)
	slices.Sort(unitNames)
	for _, unitName := range unitNames {
		contracts := output.Contracts[unitName]
		contractNames := maps.Keys(contracts)
		slices.Sort(contractNames)
		for _, contractName := range contractNames {
			raw := contracts[contractName]
			artifacts[contractName] = newCompiledArtifact(unitName, contractName, &raw, originalPaths)
		}
	}
	return artifacts, nil
}

// newCompiledArtifact builds the flattened record for one contract.
func newCompiledArtifact(unitName string, contractName string, raw *types.RawArtifact, originalPaths *types.OriginalPaths) *types.CompiledArtifact {
	runtime := raw.Evm.DeployedBytecode.Object
	realRuntime, metadataHash := types.SplitRuntimeBytecode(runtime)

	abiDefinition := raw.Abi
	if len(abiDefinition) == 0 || bytes.Equal(abiDefinition, []byte("null")) {
		abiDefinition = emptyABI
	}

	functionHashes := raw.Evm.MethodIdentifiers
	if functionHashes == nil {
		functionHashes = make(map[string]string)
	}

	artifact := &types.CompiledArtifact{
		Name:                contractName,
		Code:                raw.Evm.Bytecode.Object,
		LinkReferences:      raw.Evm.Bytecode.LinkReferences,
		RuntimeBytecode:     runtime,
		RealRuntimeBytecode: realRuntime,
		MetadataHash:        metadataHash,
		GasEstimates:        raw.Evm.GasEstimates,
		FunctionHashes:      functionHashes,
		AbiDefinition:       abiDefinition,
		Userdoc:             raw.Userdoc,
		SourceFilename:      filepath.FromSlash(filepath.Clean(unitName)),
	}
	artifact.OriginalFilename, _ = originalPaths.Resolve(artifact.SourceFilename)
	return artifact
}
