package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompilationFlagsOverrideConfig verifies only flags that were set change the project config.
func TestCompilationFlagsOverrideConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addCompilationFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--contracts-dir", "src/,lib/", "--optimize-runs", "1000", "--solc", "/opt/solc"}))

	projectConfig := configs.GetDefaultProjectConfig()
	require.NoError(t, updateProjectConfigWithCompilationFlags(cmd, projectConfig))

	assert.Equal(t, []string{"src/", "lib/"}, projectConfig.Compilation.ContractDirectories)
	assert.Equal(t, 1000, projectConfig.Compilation.OptimizeRuns)
	assert.Equal(t, "/opt/solc", projectConfig.Compilation.Solc.Path)
	assert.True(t, projectConfig.Compilation.Optimize)
	assert.Empty(t, projectConfig.Compilation.Solc.VersionConstraint)
}

// TestCompileFlagsOverrideOutputs verifies the output flags of the compile command.
func TestCompileFlagsOverrideOutputs(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("build-dir", "", "")
	require.NoError(t, cmd.ParseFlags([]string{"--build-dir", "out"}))

	projectConfig := configs.GetDefaultProjectConfig()
	require.NoError(t, updateProjectConfigWithCompileFlags(cmd, projectConfig))
	assert.Equal(t, "out", projectConfig.Output.BuildDirectory)
	assert.Equal(t, configs.GetDefaultProjectConfig().Output.ArtifactStore, projectConfig.Output.ArtifactStore)
}

// TestWriteBuildDirectory verifies one JSON file is written per artifact.
func TestWriteBuildDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	artifacts := map[string]*types.CompiledArtifact{
		"A": {Name: "A", Code: "6080", AbiDefinition: json.RawMessage("[]")},
		"B": {Name: "B", Code: "6040", AbiDefinition: json.RawMessage("[]")},
	}
	require.NoError(t, writeBuildDirectory(dir, artifacts))

	data, err := os.ReadFile(filepath.Join(dir, "B.json"))
	require.NoError(t, err)
	var artifact types.CompiledArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "6040", artifact.Code)
	assert.FileExists(t, filepath.Join(dir, "A.json"))
}

// TestArtifactSummaryAndWarnings verifies the summary lists every contract and that mismatched hashes are flagged.
func TestArtifactSummaryAndWarnings(t *testing.T) {
	abiDefinition := json.RawMessage(`[{"type":"function","name":"get","inputs":[],"outputs":[{"type":"uint256"}],"stateMutability":"view"}]`)
	artifacts := map[string]*types.CompiledArtifact{
		"Good": {
			Name:            "Good",
			RuntimeBytecode: "60806040",
			AbiDefinition:   abiDefinition,
			FunctionHashes:  map[string]string{"get()": "6d4ce63c"},
			SourceFilename:  "Good.sol",
		},
		"Bad": {
			Name:             "Bad",
			AbiDefinition:    abiDefinition,
			FunctionHashes:   map[string]string{"get()": "00000000"},
			OriginalFilename: "/proj/contracts/Bad.sol",
		},
	}

	var out bytes.Buffer
	writeArtifactSummary(&out, artifacts)
	assert.Contains(t, out.String(), "Good.sol")
	assert.Contains(t, out.String(), "/proj/contracts/Bad.sol")

	warnings := artifactWarnings(artifacts)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Bad: get()")
}

// TestCountFatal verifies only error severities are fatal.
func TestCountFatal(t *testing.T) {
	diagnostics := []types.Diagnostic{
		{Severity: "warning", Type: "Warning"},
		{Severity: "error", Type: "TypeError"},
		{Severity: "info", Type: "Info"},
	}
	assert.Equal(t, 1, countFatal(diagnostics))
	assert.Zero(t, countFatal(nil))
}

// TestReportDiagnostics verifies fatal diagnostics are logged as errors and the rest as warnings.
func TestReportDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	cmdLogger.AddWriter(&buf, logging.STRUCTURED)
	defer cmdLogger.RemoveWriter(&buf)

	reportDiagnostics([]types.Diagnostic{
		{Severity: "warning", Type: "Warning", FormattedMessage: "Warning: unused variable"},
		{Severity: "error", Type: "TypeError", Message: "undeclared identifier"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"warn"`)
	assert.Contains(t, lines[0], "Warning: unused variable")
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], "undeclared identifier")
}
