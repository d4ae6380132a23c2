package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crytic/solcpipe/compilation"
	"github.com/crytic/solcpipe/compilation/platforms"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/crytic/solcpipe/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdValidFlagsOnly returns the flags of cmd that have not been used yet, for dynamic completion of commands which
// take no positional arguments.
func cmdValidFlagsOnly(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// readProjectConfig loads the project configuration for a command. There are three possibilities: the --config flag
// names a file, a default config file exists in the working directory, or neither and the default configuration is
// used. The working directory is changed to the directory of any config file read, so relative paths in it resolve
// against the project.
func readProjectConfig(cmd *cobra.Command) (*configs.ProjectConfig, error) {
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	if _, err = os.Stat(configPath); err != nil {
		if configFlagUsed {
			return nil, err
		}
		cmdLogger.Warn("Unable to find the config file at ", configPath, ", will use the default project configuration")
		return configs.GetDefaultProjectConfig(), nil
	}

	cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
	projectConfig, err := configs.ReadProjectConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}

	if err = os.Chdir(filepath.Dir(configPath)); err != nil {
		return nil, err
	}
	return projectConfig, nil
}

// setupLogging rebuilds the global logger and the cmd logger from the logging section of the project config. The
// returned function closes any log file that was opened.
func setupLogging(projectConfig *configs.ProjectConfig) (func(), error) {
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}

	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level, true)
	cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

	if projectConfig.Logging.LogDirectory == "" {
		return func() {}, nil
	}

	fileName := fmt.Sprintf("solcpipe-%d.log", time.Now().Unix())
	file, err := utils.CreateFile(projectConfig.Logging.LogDirectory, fileName)
	if err != nil {
		return nil, err
	}
	logging.GlobalLogger.AddWriter(file, logging.STRUCTURED)
	return func() {
		logging.GlobalLogger.RemoveWriter(file)
		_ = file.Close()
	}, nil
}

// newPipeline wires a solc executable backend, a binding over it and a pipeline over the binding.
func newPipeline(projectConfig *configs.ProjectConfig) *compilation.Pipeline {
	backend := platforms.NewExecutableBackend(projectConfig.Compilation.Solc, logging.GlobalLogger)
	binding := platforms.NewBinding(backend, &projectConfig.Storage, logging.GlobalLogger)
	binding.Invocations.Subscribe(func(event platforms.CompilerInvokedEvent) error {
		if event.Err != nil {
			cmdLogger.Debug("solc invocation over ", len(event.Request.Sources), " source(s) failed")
		} else {
			cmdLogger.Debug("solc ", binding.Version(), " compiled ", len(event.Request.Sources), " source(s)")
		}
		return nil
	})
	return compilation.NewPipeline(binding, projectConfig.Compilation, logging.GlobalLogger)
}
