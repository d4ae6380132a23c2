package cmd

import (
	"github.com/crytic/solcpipe/configs"
	"github.com/spf13/cobra"
)

// addCompileFlags adds the various flags for the compile command
func addCompileFlags() error {
	addCompilationFlags(compileCmd)

	// Coverage
	compileCmd.Flags().Bool("coverage", false, "prepare sources for coverage instrumentation and disable the optimizer")

	// Outputs
	compileCmd.Flags().String("store", "",
		"path of the artifact store (unless a config file is provided, default is \".solcpipe/artifacts.db\")")
	compileCmd.Flags().String("build-dir", "", "directory to write one JSON file per compiled contract to")

	return nil
}

// updateProjectConfigWithCompileFlags will update the given projectConfig with any CLI arguments that were provided
// to the compile command
func updateProjectConfigWithCompileFlags(cmd *cobra.Command, projectConfig *configs.ProjectConfig) error {
	var err error

	// Update the artifact store path
	if cmd.Flags().Changed("store") {
		projectConfig.Output.ArtifactStore, err = cmd.Flags().GetString("store")
		if err != nil {
			return err
		}
	}

	// Update the build directory
	if cmd.Flags().Changed("build-dir") {
		projectConfig.Output.BuildDirectory, err = cmd.Flags().GetString("build-dir")
		if err != nil {
			return err
		}
	}
	return nil
}
