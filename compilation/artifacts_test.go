package compilation

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractArtifactsReconcilesFilenames checks original filename resolution against caller paths.
func TestExtractArtifactsReconcilesFilenames(t *testing.T) {
	output := &types.RawCompilerOutput{
		Contracts: map[string]map[string]types.RawArtifact{
			"contracts/A.sol": {"A": {}},
			"Assert.sol":      {"Assert": {}},
		},
	}
	originalPaths := types.NewOriginalPaths()
	originalPaths.Add("contracts/A.sol", "/home/u/proj/contracts/A.sol")

	artifacts, err := ExtractArtifacts(output, originalPaths)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, filepath.FromSlash("contracts/A.sol"), artifacts["A"].SourceFilename)
	assert.Equal(t, "/home/u/proj/contracts/A.sol", artifacts["A"].OriginalFilename)

	// Injected code has no original file
	assert.Equal(t, "Assert.sol", artifacts["Assert"].SourceFilename)
	assert.Empty(t, artifacts["Assert"].OriginalFilename)
}

// TestExtractArtifactsPassesFieldsThrough checks that compiler fields are carried over unchanged.
func TestExtractArtifactsPassesFieldsThrough(t *testing.T) {
	runtime := "60806040" + strings.Repeat("cd", 32) + "0033"
	abi := json.RawMessage(`[{"type":"function","name":"set","inputs":[{"name":"x","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}]`)
	userdoc := json.RawMessage(`{"methods":{"set(uint256)":{"notice":"Sets x"}}}`)
	linkReferences := types.LinkReferences{"Math.sol": {"Math": {{Start: 10, Length: 20}}}}
	gasEstimates := &types.GasEstimates{External: map[string]string{"set(uint256)": "22520"}}

	output := &types.RawCompilerOutput{
		Contracts: map[string]map[string]types.RawArtifact{
			"Store.sol": {
				"Store": {
					Abi:     abi,
					Userdoc: userdoc,
					Evm: types.RawEvm{
						Bytecode:          types.RawBytecode{Object: "6080__$abc$__", LinkReferences: linkReferences},
						DeployedBytecode:  types.RawBytecode{Object: runtime},
						GasEstimates:      gasEstimates,
						MethodIdentifiers: map[string]string{"set(uint256)": "60fe47b1"},
					},
				},
			},
		},
	}

	artifacts, err := ExtractArtifacts(output, nil)
	require.NoError(t, err)
	artifact := artifacts["Store"]
	require.NotNil(t, artifact)

	assert.Equal(t, "6080__$abc$__", artifact.Code)
	assert.Equal(t, linkReferences, artifact.LinkReferences)
	assert.Equal(t, runtime, artifact.RuntimeBytecode)
	assert.Equal(t, "60806040", artifact.RealRuntimeBytecode)
	assert.Equal(t, strings.Repeat("cd", 32), artifact.MetadataHash)
	assert.Same(t, gasEstimates, artifact.GasEstimates)
	assert.Equal(t, map[string]string{"set(uint256)": "60fe47b1"}, artifact.FunctionHashes)
	assert.JSONEq(t, string(abi), string(artifact.AbiDefinition))
	assert.JSONEq(t, string(userdoc), string(artifact.Userdoc))
}

// TestExtractArtifactsShortRuntime verifies short runtime bytecode degenerates instead of failing.
func TestExtractArtifactsShortRuntime(t *testing.T) {
	output := &types.RawCompilerOutput{
		Contracts: map[string]map[string]types.RawArtifact{
			"I.sol": {"I": {Abi: json.RawMessage("null")}},
			"S.sol": {"S": {Evm: types.RawEvm{DeployedBytecode: types.RawBytecode{Object: "6080"}}}},
		},
	}

	artifacts, err := ExtractArtifacts(output, nil)
	require.NoError(t, err)

	// Interfaces have no bytecode at all
	assert.Empty(t, artifacts["I"].RealRuntimeBytecode)
	assert.Empty(t, artifacts["I"].MetadataHash)
	assert.True(t, artifacts["I"].IsAbstract())
	assert.JSONEq(t, "[]", string(artifacts["I"].AbiDefinition))

	assert.Empty(t, artifacts["S"].RealRuntimeBytecode)
	assert.Equal(t, "6080", artifacts["S"].MetadataHash)
}

// TestExtractArtifactsDuplicateNames verifies the unit sorting last wins for clashing contract names.
func TestExtractArtifactsDuplicateNames(t *testing.T) {
	output := &types.RawCompilerOutput{
		Contracts: map[string]map[string]types.RawArtifact{
			"b/Token.sol": {"Token": {}},
			"a/Token.sol": {"Token": {}},
		},
	}

	for i := 0; i < 10; i++ {
		artifacts, err := ExtractArtifacts(output, nil)
		require.NoError(t, err)
		require.Len(t, artifacts, 1)
		assert.Equal(t, filepath.FromSlash("b/Token.sol"), artifacts["Token"].SourceFilename)
	}
}

// TestExtractArtifactsErrors covers the no output and all sources failed conditions.
func TestExtractArtifactsErrors(t *testing.T) {
	_, err := ExtractArtifacts(nil, nil)
	assert.ErrorIs(t, err, ErrNoOutput)

	_, err = ExtractArtifacts(&types.RawCompilerOutput{SourceList: []string{"A.sol"}}, nil)
	assert.ErrorIs(t, err, ErrNoOutput)

	_, err = ExtractArtifacts(&types.RawCompilerOutput{Contracts: map[string]map[string]types.RawArtifact{}, SourceList: []string{"A.sol"}}, nil)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)

	// Without a source list an empty contracts map is simply an empty build
	artifacts, err := ExtractArtifacts(&types.RawCompilerOutput{Contracts: map[string]map[string]types.RawArtifact{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}
