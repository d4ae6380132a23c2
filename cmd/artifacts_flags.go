package cmd

import (
	"github.com/crytic/solcpipe/configs"
	"github.com/spf13/cobra"
)

// addArtifactsFlags adds the various flags for the artifacts command
func addArtifactsFlags() error {
	// Config file
	artifactsCmd.Flags().String("config", "", "path to config file")

	// Store path
	artifactsCmd.Flags().String("store", "",
		"path of the artifact store (unless a config file is provided, default is \".solcpipe/artifacts.db\")")

	// Verification
	artifactsCmd.Flags().Bool("verify", false, "check the stored function hashes against the stored ABI")

	return nil
}

// updateProjectConfigWithArtifactsFlags will update the given projectConfig with any CLI arguments that were provided
// to the artifacts command
func updateProjectConfigWithArtifactsFlags(cmd *cobra.Command, projectConfig *configs.ProjectConfig) error {
	var err error

	// Update the artifact store path
	if cmd.Flags().Changed("store") {
		projectConfig.Output.ArtifactStore, err = cmd.Flags().GetString("store")
		if err != nil {
			return err
		}
	}
	return nil
}
