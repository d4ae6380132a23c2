package abiutils

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/crypto"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// ParseABI parses a JSON ABI definition as emitted by the compiler. An empty definition parses to an empty ABI.
func ParseABI(definition json.RawMessage) (*abi.ABI, error) {
	if len(definition) == 0 {
		definition = json.RawMessage("[]")
	}
	contractAbi, err := abi.JSON(bytes.NewReader(definition))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse contract ABI")
	}
	return &contractAbi, nil
}

// ComputeSelector returns the hex-encoded 4 byte selector for a canonical function signature such as
// "transfer(address,uint256)".
func ComputeSelector(signature string) string {
	return hex.EncodeToString(crypto.Keccak256([]byte(signature))[:4])
}

// VerifyFunctionHashes cross-checks an artifact's function hashes against the selectors derived from its ABI. Returns
// a sorted description of every mismatch: signatures missing from either side, or hashes that differ.
func VerifyFunctionHashes(artifact *types.CompiledArtifact) ([]string, error) {
	contractAbi, err := ParseABI(artifact.AbiDefinition)
	if err != nil {
		return nil, err
	}

	var mismatches []string
	expected := make(map[string]string, len(contractAbi.Methods))
	for _, method := range contractAbi.Methods {
		selector := hex.EncodeToString(method.ID)
		expected[method.Sig] = selector

		reported, ok := artifact.FunctionHashes[method.Sig]
		switch {
		case !ok:
			mismatches = append(mismatches, fmt.Sprintf("%s: missing from function hashes", method.Sig))
		case reported != selector:
			mismatches = append(mismatches, fmt.Sprintf("%s: reported %s, expected %s", method.Sig, reported, selector))
		}
	}

	signatures := maps.Keys(artifact.FunctionHashes)
	slices.Sort(signatures)
	for _, signature := range signatures {
		if _, ok := expected[signature]; !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: not in ABI", signature))
		}
	}

	slices.Sort(mismatches)
	return mismatches, nil
}

// MethodSignatures returns the sorted canonical signatures of every method in an artifact's ABI.
func MethodSignatures(artifact *types.CompiledArtifact) ([]string, error) {
	contractAbi, err := ParseABI(artifact.AbiDefinition)
	if err != nil {
		return nil, err
	}

	signatures := make([]string, 0, len(contractAbi.Methods))
	for _, method := range contractAbi.Methods {
		signatures = append(signatures, method.Sig)
	}
	slices.Sort(signatures)
	return signatures, nil
}
