package cmd

import (
	"github.com/crytic/solcpipe/configs"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Contract directories
	initCmd.Flags().StringSlice("contracts-dir", []string{}, "directories holding the project's sources")

	// Solc executable
	initCmd.Flags().String("solc", "", "path to the solc executable")

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *configs.ProjectConfig) error {
	var err error

	// Update contract directories
	if cmd.Flags().Changed("contracts-dir") {
		projectConfig.Compilation.ContractDirectories, err = cmd.Flags().GetStringSlice("contracts-dir")
		if err != nil {
			return err
		}
	}

	// Update the solc path
	if cmd.Flags().Changed("solc") {
		projectConfig.Compilation.Solc.Path, err = cmd.Flags().GetString("solc")
		if err != nil {
			return err
		}
	}
	return nil
}
