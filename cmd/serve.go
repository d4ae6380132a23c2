package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/crytic/solcpipe/api"
	"github.com/crytic/solcpipe/api/routes"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/spf13/cobra"
)

// serveCmd represents the command provider for serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves inline compilation over HTTP",
	Long: `Starts an HTTP server which compiles single sources posted to ` + routes.CompileRoute + `, or sent as
messages over a websocket session on ` + routes.WebsocketCompileRoute,
	Args:              cobra.NoArgs,
	ValidArgsFunction: cmdValidFlagsOnly,
	RunE:              cmdRunServe,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the serve command
	err := addServeFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the serve command", err)
	}

	// Add the serve command and its associated flags to the root command
	rootCmd.AddCommand(serveCmd)
}

// cmdRunServe runs the serve CLI command
func cmdRunServe(cmd *cobra.Command, args []string) error {
	var serveConfig serveSettings
	projectConfig, closeLogs, err := loadCommandConfig(cmd, func(cmd *cobra.Command, _ *configs.ProjectConfig) error {
		var err error
		serveConfig, err = readServeFlags(cmd)
		return err
	})
	if err != nil {
		cmdLogger.Error("Failed to run the serve command", err)
		return err
	}
	defer closeLogs()

	handler := api.NewRouter(newPipeline(projectConfig), logging.GlobalLogger, serveConfig.corsOrigins)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := api.ServeConfig{
		Address:        serveConfig.address,
		MaxConnections: serveConfig.maxConnections,
		OnListen: func(addr string) {
			cmdLogger.Info("Serving inline compilation on ", colors.Bold, "http://", addr, routes.CompileRoute, colors.Reset)
		},
	}
	if err = api.Serve(ctx, config, handler, logging.GlobalLogger); err != nil {
		cmdLogger.Error("Failed to run the serve command", err)
		return err
	}
	cmdLogger.Info("Server stopped")
	return nil
}
