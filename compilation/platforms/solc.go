package platforms

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/utils"
	"github.com/pkg/errors"
)

// solcVersionExp extracts the semantic version from `solc --version` output.
var solcVersionExp = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ExecutableBackend is a Backend which drives a solc executable in standard JSON mode.
type ExecutableBackend struct {
	config configs.SolcConfig
	logger *logging.Logger

	// path is the resolved executable, set by Load.
	path string
}

// NewExecutableBackend creates a backend from the provided solc configuration.
func NewExecutableBackend(config configs.SolcConfig, logger *logging.Logger) *ExecutableBackend {
	if logger == nil {
		logger = logging.GlobalLogger
	}
	return &ExecutableBackend{
		config: config,
		logger: logger.NewSubLogger("module", logging.SOLC_SERVICE),
	}
}

// Path returns the resolved solc executable, or the empty string before Load succeeds.
func (s *ExecutableBackend) Path() string {
	return s.path
}

// Load resolves the solc executable, fetching it from the provider if it cannot be found locally, and checks its
// version against the configured constraint.
func (s *ExecutableBackend) Load(providerURL string) (*semver.Version, error) {
	path, err := s.resolveExecutable(providerURL)
	if err != nil {
		return nil, err
	}

	version, err := GetSolcVersion(path)
	if err != nil {
		return nil, err
	}

	if s.config.VersionConstraint != "" {
		constraint, err := semver.NewConstraint(s.config.VersionConstraint)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid solc version constraint '%s'", s.config.VersionConstraint)
		}
		if !constraint.Check(version) {
			return nil, errors.Errorf("solc %s at '%s' does not satisfy version constraint '%s'", version, path, s.config.VersionConstraint)
		}
	}

	s.path = path
	return version, nil
}

// Invoke runs solc in standard JSON mode with input on stdin and returns stdout. solc exits successfully even when
// the sources have errors; those are reported inside the output.
func (s *ExecutableBackend) Invoke(input []byte) ([]byte, error) {
	if s.path == "" {
		return nil, errors.New("solc executable has not been resolved")
	}

	cmd := exec.Command(s.path, s.commandArgs()...)
	cmd.Stdin = bytes.NewReader(input)
	cmdStdout, _, cmdCombined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, &InvocationError{Cause: errors.WithStack(err), Output: string(cmdCombined)}
	}
	return cmdStdout, nil
}

// commandArgs builds the solc argument list from the configuration.
func (s *ExecutableBackend) commandArgs() []string {
	args := []string{"--standard-json"}
	if s.config.BasePath != "" {
		args = append(args, "--base-path", s.config.BasePath)
		for _, includePath := range s.config.IncludePaths {
			args = append(args, "--include-path", includePath)
		}
	}
	return append(args, s.config.Args...)
}

// resolveExecutable finds solc at the configured path, on PATH, or in the cache directory, in that order. If none of
// those exist and a download URL can be determined, the binary is downloaded into the cache directory.
func (s *ExecutableBackend) resolveExecutable(providerURL string) (string, error) {
	if s.config.Path != "" {
		if _, err := os.Stat(s.config.Path); err != nil {
			return "", errors.Wrapf(err, "configured solc path '%s' is not usable", s.config.Path)
		}
		return s.config.Path, nil
	}

	if path, err := exec.LookPath("solc"); err == nil {
		return path, nil
	}

	cachedPath := s.cachedExecutablePath()
	if cachedPath != "" {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	downloadURL := s.config.BinaryURL
	if downloadURL == "" && providerURL != "" {
		downloadURL = strings.TrimSuffix(providerURL, "/") + "/" + binaryName()
	}
	if downloadURL == "" || cachedPath == "" {
		return "", errors.New("solc could not be found on PATH and no download location is configured")
	}

	s.logger.Info("Downloading solc from ", downloadURL)
	if err := downloadExecutable(downloadURL, cachedPath); err != nil {
		return "", err
	}
	return cachedPath, nil
}

// cachedExecutablePath returns where a downloaded solc is kept, or the empty string if no cache directory is set.
func (s *ExecutableBackend) cachedExecutablePath() string {
	if s.config.CacheDirectory == "" {
		return ""
	}
	return filepath.Join(s.config.CacheDirectory, binaryName())
}

// binaryName returns the platform-specific name of a solc release binary.
func binaryName() string {
	switch {
	case utils.IsWindowsEnvironment():
		return "solc-windows.exe"
	case utils.IsMacOSEnvironment():
		return "solc-macos"
	default:
		return fmt.Sprintf("solc-%s", runtime.GOOS)
	}
}

// downloadExecutable fetches url into targetPath and marks it executable.
func downloadExecutable(url string, targetPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "could not download solc from '%s'", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("could not download solc from '%s': %s", url, resp.Status)
	}

	// Download next to the target and move it into place once complete. A failed download never leaves a truncated
	// executable at targetPath.
	partialPath := targetPath + ".partial"
	file, err := utils.CreateFile(filepath.Dir(partialPath), filepath.Base(partialPath))
	if err != nil {
		return err
	}
	_, err = io.Copy(file, resp.Body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(partialPath, 0755)
	}
	if err != nil {
		_ = os.Remove(partialPath)
		return errors.WithStack(err)
	}

	return errors.WithStack(utils.MoveFile(partialPath, targetPath))
}

// GetSolcVersion runs `solc --version` on the given executable and parses the reported version.
func GetSolcVersion(path string) (*semver.Version, error) {
	// Run solc --version to obtain our compiler version.
	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		return nil, errors.Errorf("error while executing solc:\nOUTPUT:\n%s\nERROR: %s\n", string(out), err.Error())
	}

	return ParseSolcVersion(string(out))
}

// ParseSolcVersion parses the compiler version out of `solc --version` output.
func ParseSolcVersion(output string) (*semver.Version, error) {
	versionStr := solcVersionExp.FindString(output)
	if versionStr == "" {
		return nil, errors.New("could not parse solc version using 'solc --version'")
	}

	// Parse our semver string and return it
	version, err := semver.NewVersion(versionStr)
	return version, errors.WithStack(err)
}
