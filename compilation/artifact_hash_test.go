package compilation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeArtifactHash_Empty(t *testing.T) {
	t.Parallel()

	hash := ComputeArtifactHash(nil)
	assert.NotEmpty(t, hash, "hash should not be empty even for nil artifacts")
	assert.Equal(t, hash, ComputeArtifactHash(map[string]*types.CompiledArtifact{}), "hash should be the same for nil and empty maps")
}

func TestComputeArtifactHash_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ComputeArtifactHash(createTestArtifacts("6080")), ComputeArtifactHash(createTestArtifacts("6080")))
}

func TestComputeArtifactHash_DifferentBytecode(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, ComputeArtifactHash(createTestArtifacts("6080")), ComputeArtifactHash(createTestArtifacts("6081")))
}

func TestComputeArtifactHash_DifferentABI(t *testing.T) {
	t.Parallel()

	artifacts := createTestArtifacts("6080")
	before := ComputeArtifactHash(artifacts)
	artifacts["Alpha"].AbiDefinition = json.RawMessage(`[{"type":"fallback"}]`)
	assert.NotEqual(t, before, ComputeArtifactHash(artifacts))
}

func TestLoadArtifactHashCache_NonExistent(t *testing.T) {
	t.Parallel()

	assert.Nil(t, LoadArtifactHashCache("/nonexistent/path"), "should return nil for non-existent cache")
}

func TestSaveAndLoadArtifactHashCache(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	originalCache := &ArtifactHashCache{
		Hash:      "abc123def456",
		Timestamp: time.Now().Truncate(time.Second),
	}
	require.NoError(t, SaveArtifactHashCache(filepath.Join(tempDir, "nested", "dir"), originalCache))

	loadedCache := LoadArtifactHashCache(filepath.Join(tempDir, "nested", "dir"))
	require.NotNil(t, loadedCache)
	assert.Equal(t, originalCache.Hash, loadedCache.Hash)
	assert.WithinDuration(t, originalCache.Timestamp, loadedCache.Timestamp, time.Second)
}

func TestLoadArtifactHashCache_InvalidJSON(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ArtifactHashCacheFileName), []byte("invalid json"), 0644))
	assert.Nil(t, LoadArtifactHashCache(tempDir))
}

func TestNotifyArtifactHashStatus(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	logger := logging.NewLogger(zerolog.Disabled, false)

	assert.False(t, NotifyArtifactHashStatus(nil, tempDir, logger), "empty builds never count as changed")
	assert.True(t, NotifyArtifactHashStatus(createTestArtifacts("6080"), tempDir, logger))
	assert.False(t, NotifyArtifactHashStatus(createTestArtifacts("6080"), tempDir, logger))
	assert.True(t, NotifyArtifactHashStatus(createTestArtifacts("6081"), tempDir, logger))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration time.Duration
		expected string
	}{
		{30 * time.Second, "30 seconds"},
		{1 * time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{1 * time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
		{24 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

func createTestArtifacts(code string) map[string]*types.CompiledArtifact {
	return map[string]*types.CompiledArtifact{
		"Alpha": {Name: "Alpha", Code: code, RuntimeBytecode: "6080", AbiDefinition: json.RawMessage("[]")},
		"Beta":  {Name: "Beta", Code: "6040", RuntimeBytecode: "6040", AbiDefinition: json.RawMessage("[]")},
	}
}
