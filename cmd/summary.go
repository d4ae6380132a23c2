package cmd

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/crytic/solcpipe/compilation/abiutils"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
)

// writeArtifactSummary renders one table row per artifact, sorted by contract name.
func writeArtifactSummary(w io.Writer, artifacts map[string]*types.CompiledArtifact) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Contract", "Source", "Runtime bytes", "Creation gas", "Compiler"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	names := maps.Keys(artifacts)
	slices.Sort(names)
	for _, name := range names {
		artifact := artifacts[name]

		source := artifact.OriginalFilename
		if source == "" {
			source = artifact.SourceFilename
		}

		gas := "unknown"
		if total, ok := artifact.GasEstimates.CreationTotal(); ok {
			gas = total.String()
		}

		compiler := "unknown"
		if metadata := artifact.Metadata(); metadata != nil {
			if v := metadata.CompilerVersion(); v != "" {
				compiler = v
			}
		}

		table.Append([]string{name, source, strconv.Itoa(len(strings.TrimPrefix(artifact.RuntimeBytecode, "0x"))/2), gas, compiler})
	}
	table.Render()
}

// artifactWarnings lists the problems found in the artifacts that do not stop a build: unlinked libraries and
// function hashes which do not match the ABI.
func artifactWarnings(artifacts map[string]*types.CompiledArtifact) []string {
	var warnings []string
	names := maps.Keys(artifacts)
	slices.Sort(names)
	for _, name := range names {
		artifact := artifacts[name]

		for _, placeholder := range artifact.UnresolvedPlaceholders() {
			warnings = append(warnings, name+": unlinked library placeholder "+placeholder)
		}

		mismatches, err := abiutils.VerifyFunctionHashes(artifact)
		if err != nil {
			warnings = append(warnings, name+": "+err.Error())
			continue
		}
		for _, mismatch := range mismatches {
			warnings = append(warnings, name+": "+mismatch)
		}
	}
	return warnings
}
