package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crytic/solcpipe/artifactstore"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/spf13/cobra"
)

// artifactsCmd represents the command provider for artifacts
var artifactsCmd = &cobra.Command{
	Use:   "artifacts [contract]",
	Short: "Inspects the artifact store",
	Long: `Lists the contracts in the artifact store along with the last run, or prints the stored artifact of a
single contract.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          cmdRunArtifacts,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the artifacts command
	err := addArtifactsFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the artifacts command", err)
	}

	// Add the artifacts command and its associated flags to the root command
	rootCmd.AddCommand(artifactsCmd)
}

// cmdRunArtifacts runs the artifacts CLI command
func cmdRunArtifacts(cmd *cobra.Command, args []string) error {
	projectConfig, err := readProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
		return err
	}
	if err = updateProjectConfigWithArtifactsFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
		return err
	}
	closeLogs, err := setupLogging(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
		return err
	}
	defer closeLogs()

	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
		return err
	}

	store, err := artifactstore.Open(projectConfig.Output.ArtifactStore, cmdLogger)
	if err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		err = showStoredArtifact(store, args[0], verify)
	} else {
		err = listStoredArtifacts(store)
	}
	if err != nil {
		cmdLogger.Error("Failed to run the artifacts command", err)
	}
	return err
}

// listStoredArtifacts prints the last run and every stored contract name.
func listStoredArtifacts(store *artifactstore.Store) error {
	last, err := store.LastRun()
	if err != nil {
		return err
	}
	cmdLogger.Info("Last run ", colors.Bold, last.RunID, colors.Reset, " at ", last.Timestamp.Local().Format("2006-01-02 15:04:05"),
		" produced ", len(last.Contracts), " contract(s)")

	names, err := store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// showStoredArtifact prints the stored artifact for name as JSON, optionally checking its function hashes.
func showStoredArtifact(store *artifactstore.Store, name string, verify bool) error {
	stored, err := store.Get(name)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "\t")
	if err = encoder.Encode(stored); err != nil {
		return err
	}

	if verify {
		warnings := artifactWarnings(map[string]*types.CompiledArtifact{name: stored.Artifact})
		for _, warning := range warnings {
			cmdLogger.Warn(colors.Yellow, warning)
		}
		if len(warnings) == 0 {
			cmdLogger.Info(colors.Green, name, " is consistent with its ABI")
		}
	}
	return nil
}
