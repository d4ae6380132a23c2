package cmd

import (
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by the cmd package. It is replaced once a command has read its project configuration.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:     "solcpipe",
	Short:   "A Solidity compilation pipeline",
	Long:    "solcpipe drives solc over a project's contracts and turns its output into flat contract artifacts",
	Version: version.GetInfo().Short(),
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
