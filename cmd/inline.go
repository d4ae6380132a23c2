package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/crytic/solcpipe/cmd/exitcodes"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// inlineCmd represents the command provider for inline
var inlineCmd = &cobra.Command{
	Use:   "inline <file>",
	Short: "Compiles a single file the way an editor would",
	Long: `Compiles a single Solidity file on its own and reports every diagnostic the compiler emitted, together with
whatever contracts compiled.`,
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunInline,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the inline command
	err := addInlineFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the inline command", err)
	}

	// Add the inline command and its associated flags to the root command
	rootCmd.AddCommand(inlineCmd)
}

// cmdRunInline runs the inline CLI command
func cmdRunInline(cmd *cobra.Command, args []string) error {
	projectConfig, closeLogs, err := loadCommandConfig(cmd, nil)
	if err != nil {
		cmdLogger.Error("Failed to run the inline command", err)
		return err
	}
	defer closeLogs()

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		cmdLogger.Error("Failed to run the inline command", err)
		return err
	}

	code, err := os.ReadFile(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the inline command", err)
		return err
	}

	result := newPipeline(projectConfig).CompileInline(filepath.Base(args[0]), string(code))
	if result.Err != nil {
		cmdLogger.Error("Failed to compile ", args[0], result.Err)
		return exitcodes.NewErrorWithExitCode(result.Err, exitcodes.ExitCodeHandledError)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "\t")
		if err = encoder.Encode(result); err != nil {
			return err
		}
	} else {
		reportDiagnostics(result.Diagnostics)
		if len(result.Artifacts) > 0 {
			writeArtifactSummary(os.Stdout, result.Artifacts)
		}
	}

	if fatal := countFatal(result.Diagnostics); fatal > 0 {
		return exitcodes.NewErrorWithExitCode(errors.Errorf("%d fatal diagnostic(s)", fatal), exitcodes.ExitCodeCompilationFailed)
	}
	return nil
}

// reportDiagnostics logs each diagnostic at a level matching its severity.
func reportDiagnostics(diagnostics []types.Diagnostic) {
	for _, diagnostic := range diagnostics {
		if diagnostic.IsFatal() {
			cmdLogger.Error(colors.Red, diagnostic.String())
		} else {
			cmdLogger.Warn(colors.Yellow, diagnostic.String())
		}
	}
}

// countFatal returns how many diagnostics are fatal.
func countFatal(diagnostics []types.Diagnostic) int {
	fatal := 0
	for _, diagnostic := range diagnostics {
		if diagnostic.IsFatal() {
			fatal++
		}
	}
	return fatal
}
