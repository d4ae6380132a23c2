package configs

import (
	"encoding/json"
	"os"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the full configuration of a solcpipe project.
type ProjectConfig struct {
	// Compilation describes the configuration used to build compiler requests.
	Compilation CompilationConfig `json:"compilation"`

	// Storage describes the storage provider configuration. Only the upload provider URL is consumed, as the location
	// the compiler binary may be fetched from.
	Storage StorageConfig `json:"storage"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging"`

	// Output describes where compiled artifacts are written by the CLI.
	Output OutputConfig `json:"output"`
}

// CompilationConfig describes the configuration options used to compile Solidity sources. The pipeline treats it as
// read-only input.
type CompilationConfig struct {
	// ContractDirectories lists the source roots stripped from file paths to obtain directory-independent unit names.
	// Roots are tried in order and the first match wins.
	ContractDirectories []string `json:"contractDirectories"`

	// Optimize enables the compiler optimizer, unless the run is a coverage run.
	Optimize bool `json:"optimize"`

	// OptimizeRuns is the optimizer's expected number of contract runs.
	OptimizeRuns int `json:"optimizeRuns"`

	// Solc describes how the compiler executable is found and invoked.
	Solc SolcConfig `json:"solc"`
}

// SolcConfig describes how to locate and invoke the solc executable.
type SolcConfig struct {
	// Path is an explicit path to the solc executable. If empty, solc is looked up on PATH.
	Path string `json:"path,omitempty"`

	// VersionConstraint is an optional semver constraint (e.g. ">= 0.8.0, < 0.9.0") the loaded compiler must satisfy.
	VersionConstraint string `json:"versionConstraint,omitempty"`

	// BinaryURL is the full URL of a solc binary to download when no executable is found. If empty and a storage
	// provider URL is configured, the binary is fetched from the provider instead.
	BinaryURL string `json:"binaryUrl,omitempty"`

	// CacheDirectory is where downloaded compiler binaries are stored.
	CacheDirectory string `json:"cacheDirectory,omitempty"`

	// BasePath is passed to solc as --base-path for import resolution.
	BasePath string `json:"basePath,omitempty"`

	// IncludePaths are passed to solc as --include-path, each resolved relative to BasePath by the compiler.
	IncludePaths []string `json:"includePaths,omitempty"`

	// Args are additional command line arguments passed to solc.
	Args []string `json:"args,omitempty"`
}

// StorageConfig describes the decentralized storage configuration of a project.
type StorageConfig struct {
	Upload UploadConfig `json:"upload"`
}

// UploadConfig describes the upload provider of a StorageConfig.
type UploadConfig struct {
	// GetURL is the base URL content is fetched from.
	GetURL string `json:"getUrl,omitempty"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory where log files will be written. If the string is empty, then no log
	// files are kept
	LogDirectory string `json:"logDirectory"`

	// NoColor disables colored console output.
	NoColor bool `json:"noColor"`
}

// OutputConfig describes where compiled artifacts are written.
type OutputConfig struct {
	// ArtifactStore is the path of the artifact database. If empty, artifacts are not stored.
	ArtifactStore string `json:"artifactStore"`

	// BuildDirectory is a directory where one JSON file per artifact is written. If empty, no files are written.
	BuildDirectory string `json:"buildDirectory"`
}

// GetDefaultProjectConfig obtains a default configuration for a project.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Compilation: CompilationConfig{
			ContractDirectories: []string{"contracts/"},
			Optimize:            true,
			OptimizeRuns:        200,
			Solc: SolcConfig{
				CacheDirectory: ".solcpipe/bin",
				Args:           []string{},
			},
		},
		Logging: LoggingConfig{
			Level: zerolog.InfoLevel,
		},
		Output: OutputConfig{
			ArtifactStore:  ".solcpipe/artifacts.db",
			BuildDirectory: "",
		},
	}
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields absent from the
// file keep their default values.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse project config '%s'", path)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	if len(p.Compilation.ContractDirectories) == 0 {
		return errors.Errorf("at least one contract directory must be configured")
	}
	for _, directory := range p.Compilation.ContractDirectories {
		if directory == "" {
			return errors.Errorf("contract directories cannot be empty strings")
		}
	}

	if p.Compilation.Optimize && p.Compilation.OptimizeRuns <= 0 {
		return errors.Errorf("optimizer runs must be a positive number when the optimizer is enabled")
	}

	if len(p.Compilation.Solc.IncludePaths) > 0 && p.Compilation.Solc.BasePath == "" {
		return errors.Errorf("solc include paths require a base path")
	}

	if p.Compilation.Solc.VersionConstraint != "" {
		if _, err := semver.NewConstraint(p.Compilation.Solc.VersionConstraint); err != nil {
			return errors.Wrapf(err, "invalid solc version constraint '%s'", p.Compilation.Solc.VersionConstraint)
		}
	}
	return nil
}
