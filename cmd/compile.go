package cmd

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/crytic/solcpipe/artifactstore"
	"github.com/crytic/solcpipe/cmd/exitcodes"
	"github.com/crytic/solcpipe/compilation"
	"github.com/crytic/solcpipe/compilation/sources"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/crytic/solcpipe/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// compileCmd represents the command provider for compile
var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compiles the project's contracts",
	Long: `Compiles the project's contracts into artifacts. With no file arguments, every .sol file under the
configured contract directories is compiled.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          cmdRunCompile,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the compile command
	err := addCompileFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the compile command", err)
	}

	// Add the compile command and its associated flags to the root command
	rootCmd.AddCommand(compileCmd)
}

// cmdRunCompile runs the compile CLI command
func cmdRunCompile(cmd *cobra.Command, args []string) error {
	projectConfig, closeLogs, err := loadCommandConfig(cmd, updateProjectConfigWithCompileFlags)
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return err
	}
	defer closeLogs()

	isCoverage, err := cmd.Flags().GetBool("coverage")
	if err != nil {
		cmdLogger.Error("Failed to run the compile command", err)
		return err
	}

	// Collect the units to compile
	var units []sources.SourceUnit
	if len(args) > 0 {
		for _, arg := range args {
			units = append(units, sources.NewFileUnit(arg))
		}
	} else {
		units, err = sources.DiscoverUnits(projectConfig.Compilation.ContractDirectories)
		if err != nil {
			cmdLogger.Error("Failed to run the compile command", err)
			return err
		}
	}
	if len(units) == 0 {
		cmdLogger.Warn("No Solidity sources found in ", projectConfig.Compilation.ContractDirectories)
		return nil
	}

	// Capture the run ID so the stored artifacts can be traced back to the run's logs
	pipeline := newPipeline(projectConfig)
	var runID string
	pipeline.Events.Compiled.Subscribe(func(event compilation.CompiledEvent) error {
		runID = event.RunID
		return nil
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmdLogger.Info("Compiling ", len(units), " source unit(s)")
	artifacts, err := pipeline.CompileUnits(ctx, units, compilation.Options{IsCoverage: isCoverage})
	if err != nil {
		cmdLogger.Error("Failed to compile the project", err)
		var diagnosticErr *compilation.DiagnosticError
		if errors.As(err, &diagnosticErr) {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeCompilationFailed)
		}
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	writeArtifactSummary(os.Stdout, artifacts)
	for _, warning := range artifactWarnings(artifacts) {
		cmdLogger.Warn(colors.Yellow, warning)
	}

	if err = storeArtifacts(runID, artifacts, projectConfig.Output.ArtifactStore); err != nil {
		cmdLogger.Error("Failed to store the artifacts", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	if dir := projectConfig.Output.BuildDirectory; dir != "" {
		if err = writeBuildDirectory(dir, artifacts); err != nil {
			cmdLogger.Error("Failed to write the build directory", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		compilation.NotifyArtifactHashStatus(artifacts, dir, cmdLogger)
	}
	return nil
}

// storeArtifacts records a run's artifacts in the store at path. An empty path disables the store.
func storeArtifacts(runID string, artifacts map[string]*types.CompiledArtifact, path string) error {
	if path == "" {
		return nil
	}
	store, err := artifactstore.Open(path, cmdLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.PutRun(runID, artifacts)
	if err != nil {
		return err
	}
	cmdLogger.Info("Stored ", len(record.Contracts), " artifact(s) for run ", colors.Bold, record.RunID, colors.Reset)
	return nil
}

// writeBuildDirectory writes every artifact to <dir>/<name>.json.
func writeBuildDirectory(dir string, artifacts map[string]*types.CompiledArtifact) error {
	if err := utils.MakeDirectory(dir); err != nil {
		return err
	}
	for name, artifact := range artifacts {
		data, err := json.MarshalIndent(artifact, "", "\t")
		if err != nil {
			return errors.WithStack(err)
		}
		if err = os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
