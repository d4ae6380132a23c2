package platforms

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSolcScript prints a version banner for --version and otherwise echoes stdin back, standing in for solc.
const fakeSolcScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "solc, the solidity compiler commandline interface"
  echo "Version: 0.8.19+commit.7dd6d404.Linux.g++"
  exit 0
fi
cat
`

// writeFakeSolc writes fakeSolcScript into a temporary directory and returns its path.
func writeFakeSolc(t *testing.T) string {
	if utils.IsWindowsEnvironment() {
		t.Skip("shell script compiler stand-in requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "solc")
	require.NoError(t, os.WriteFile(path, []byte(fakeSolcScript), 0755))
	return path
}

// TestParseSolcVersion checks version extraction from a typical banner.
func TestParseSolcVersion(t *testing.T) {
	version, err := ParseSolcVersion("solc, the solidity compiler commandline interface\nVersion: 0.8.25+commit.b61c2a91.Linux.g++\n")
	require.NoError(t, err)
	assert.Equal(t, "0.8.25", version.String())

	_, err = ParseSolcVersion("solc, no version here")
	assert.Error(t, err)
}

// TestExecutableBackendLoadAndInvoke drives a stand-in executable through Load and Invoke.
func TestExecutableBackendLoadAndInvoke(t *testing.T) {
	path := writeFakeSolc(t)
	backend := NewExecutableBackend(configs.SolcConfig{Path: path, VersionConstraint: ">= 0.8.0"}, nil)

	version, err := backend.Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.8.19", version.String())
	assert.Equal(t, path, backend.Path())

	output, err := backend.Invoke([]byte(`{"language":"Solidity"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"Solidity"}`, string(output))
}

// TestExecutableBackendVersionConstraint verifies an unsatisfied constraint fails the load.
func TestExecutableBackendVersionConstraint(t *testing.T) {
	path := writeFakeSolc(t)
	backend := NewExecutableBackend(configs.SolcConfig{Path: path, VersionConstraint: "< 0.8.0"}, nil)

	_, err := backend.Load("")
	assert.Error(t, err)
	assert.Empty(t, backend.Path())
}

// TestExecutableBackendMissingPath verifies a bad configured path fails the load.
func TestExecutableBackendMissingPath(t *testing.T) {
	backend := NewExecutableBackend(configs.SolcConfig{Path: filepath.Join(t.TempDir(), "missing")}, nil)
	_, err := backend.Load("")
	assert.Error(t, err)

	_, err = backend.Invoke([]byte("{}"))
	assert.Error(t, err)
}

// TestExecutableBackendCommandArgs checks how configuration maps onto solc arguments.
func TestExecutableBackendCommandArgs(t *testing.T) {
	backend := NewExecutableBackend(configs.SolcConfig{
		BasePath:     ".",
		IncludePaths: []string{"node_modules", "lib"},
		Args:         []string{"--via-ir"},
	}, nil)
	assert.Equal(t,
		[]string{"--standard-json", "--base-path", ".", "--include-path", "node_modules", "--include-path", "lib", "--via-ir"},
		backend.commandArgs(),
	)

	// Include paths are meaningless without a base path
	backend = NewExecutableBackend(configs.SolcConfig{IncludePaths: []string{"lib"}}, nil)
	assert.Equal(t, []string{"--standard-json"}, backend.commandArgs())
}

// TestDownloadExecutable verifies a binary is fetched into the cache and made executable.
func TestDownloadExecutable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+binaryName() {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(fakeSolcScript))
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "cache", binaryName())
	require.NoError(t, downloadExecutable(server.URL+"/"+binaryName(), target))
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, fakeSolcScript, string(b))

	assert.Error(t, downloadExecutable(server.URL+"/missing", filepath.Join(t.TempDir(), "other")))
}
