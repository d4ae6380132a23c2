package cmd

import (
	"github.com/crytic/solcpipe/configs"
	"github.com/spf13/cobra"
)

// addCompilationFlags adds the flags shared by every command that drives the compiler.
func addCompilationFlags(cmd *cobra.Command) {
	// Config file
	cmd.Flags().String("config", "", "path to config file")

	// Contract directories
	cmd.Flags().StringSlice("contracts-dir", []string{},
		"directories holding the project's sources (unless a config file is provided, default is \"contracts/\")")

	// Optimizer
	cmd.Flags().Bool("optimize", false, "enable the solc optimizer (unless a config file is provided, default is true)")
	cmd.Flags().Int("optimize-runs", 0, "number of optimizer runs (unless a config file is provided, default is 200)")

	// Solc executable
	cmd.Flags().String("solc", "", "path to the solc executable")
	cmd.Flags().String("solc-version", "", "semantic version constraint the solc executable must satisfy")

	// Logging
	cmd.Flags().Bool("no-color", false, "disables colored terminal output")
}

// updateProjectConfigWithCompilationFlags will update the given projectConfig with any compilation flags that were
// provided to cmd.
func updateProjectConfigWithCompilationFlags(cmd *cobra.Command, projectConfig *configs.ProjectConfig) error {
	var err error

	// Update contract directories
	if cmd.Flags().Changed("contracts-dir") {
		projectConfig.Compilation.ContractDirectories, err = cmd.Flags().GetStringSlice("contracts-dir")
		if err != nil {
			return err
		}
	}

	// Update optimizer settings
	if cmd.Flags().Changed("optimize") {
		projectConfig.Compilation.Optimize, err = cmd.Flags().GetBool("optimize")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("optimize-runs") {
		projectConfig.Compilation.OptimizeRuns, err = cmd.Flags().GetInt("optimize-runs")
		if err != nil {
			return err
		}
	}

	// Update solc settings
	if cmd.Flags().Changed("solc") {
		projectConfig.Compilation.Solc.Path, err = cmd.Flags().GetString("solc")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("solc-version") {
		projectConfig.Compilation.Solc.VersionConstraint, err = cmd.Flags().GetString("solc-version")
		if err != nil {
			return err
		}
	}

	// Update logging
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}

// loadCommandConfig reads the project config for cmd, applies the shared compilation flags plus any command specific
// update, validates the result and sets up logging. The returned function must be called once the command is done.
func loadCommandConfig(cmd *cobra.Command, update func(*cobra.Command, *configs.ProjectConfig) error) (*configs.ProjectConfig, func(), error) {
	projectConfig, err := readProjectConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err = updateProjectConfigWithCompilationFlags(cmd, projectConfig); err != nil {
		return nil, nil, err
	}
	if update != nil {
		if err = update(cmd, projectConfig); err != nil {
			return nil, nil, err
		}
	}
	if err = projectConfig.Validate(); err != nil {
		return nil, nil, err
	}

	closeLogs, err := setupLogging(projectConfig)
	if err != nil {
		return nil, nil, err
	}
	return projectConfig, closeLogs, nil
}
