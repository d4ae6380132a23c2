package compilation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/crytic/medusa-geth/crypto"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// ArtifactHashCacheFileName is the name of the file used to store the artifact hash.
const ArtifactHashCacheFileName = ".solcpipe-artifact-hash"

// ArtifactHashCache stores the hash of a set of compiled artifacts along with metadata.
type ArtifactHashCache struct {
	// Hash is the keccak256 hash of the artifacts.
	Hash string `json:"hash"`
	// Timestamp is when the hash was computed.
	Timestamp time.Time `json:"timestamp"`
}

// ComputeArtifactHash computes a keccak256 hash over the name, ABI and bytecode of every artifact. Contracts are
// hashed in name order so the result does not depend on map iteration.
func ComputeArtifactHash(artifacts map[string]*types.CompiledArtifact) string {
	var data [][]byte
	names := maps.Keys(artifacts)
	slices.Sort(names)
	for _, name := range names {
		artifact := artifacts[name]
		data = append(data, []byte(name), artifact.AbiDefinition, []byte(artifact.Code), []byte(artifact.RuntimeBytecode))
	}
	return crypto.Keccak256Hash(data...).Hex()
}

// LoadArtifactHashCache loads the artifact hash cache from the specified directory.
// Returns nil if the cache file does not exist or cannot be parsed.
func LoadArtifactHashCache(directory string) *ArtifactHashCache {
	data, err := os.ReadFile(filepath.Join(directory, ArtifactHashCacheFileName))
	if err != nil {
		return nil
	}

	var cache ArtifactHashCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil
	}
	return &cache
}

// SaveArtifactHashCache saves the artifact hash cache to the specified directory, creating it if needed.
func SaveArtifactHashCache(directory string, cache *ArtifactHashCache) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache")
	}

	if err := os.WriteFile(filepath.Join(directory, ArtifactHashCacheFileName), data, 0644); err != nil {
		return errors.Wrap(err, "failed to write cache file")
	}
	return nil
}

// NotifyArtifactHashStatus compares the hash of the artifacts against the one cached in cacheDirectory, logs whether
// the build changed and updates the cache. Returns true if the artifacts differ from the cached ones.
func NotifyArtifactHashStatus(artifacts map[string]*types.CompiledArtifact, cacheDirectory string, logger *logging.Logger) bool {
	if len(artifacts) == 0 {
		return false
	}

	currentHash := ComputeArtifactHash(artifacts)
	cachedHash := LoadArtifactHashCache(cacheDirectory)

	changed := cachedHash == nil || cachedHash.Hash != currentHash
	if changed {
		logger.Info(
			colors.Bold, "artifacts: ", colors.Reset,
			"compiled a ", colors.GreenBold, "new", colors.Reset, " set of artifacts",
		)
	} else {
		logger.Info(
			colors.Bold, "artifacts: ", colors.Reset,
			"artifacts are ", colors.YellowBold, "unchanged", colors.Reset,
			" since the previous build (", formatDuration(time.Since(cachedHash.Timestamp)), " ago)",
		)
	}

	newCache := &ArtifactHashCache{
		Hash:      currentHash,
		Timestamp: time.Now(),
	}
	if err := SaveArtifactHashCache(cacheDirectory, newCache); err != nil {
		logger.Warn("Failed to save artifact hash cache", err)
	}
	return changed
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
