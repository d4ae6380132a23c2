package cmd

import (
	"github.com/spf13/cobra"
)

// serveSettings holds the serve command settings which are not part of the project configuration.
type serveSettings struct {
	address        string
	corsOrigins    []string
	maxConnections int
}

// addServeFlags adds the various flags for the serve command
func addServeFlags() error {
	addCompilationFlags(serveCmd)

	// Listen address
	serveCmd.Flags().String("addr", DefaultServeAddress, "address to listen on")

	// CORS
	serveCmd.Flags().StringSlice("cors", []string{}, "origins allowed to call the API from a browser")

	// Connection limit
	serveCmd.Flags().Int("max-connections", 16, "maximum number of connections served at once (0 for no limit)")

	return nil
}

// readServeFlags reads the serve command settings from its flags
func readServeFlags(cmd *cobra.Command) (serveSettings, error) {
	var settings serveSettings
	var err error

	settings.address, err = cmd.Flags().GetString("addr")
	if err != nil {
		return settings, err
	}
	settings.corsOrigins, err = cmd.Flags().GetStringSlice("cors")
	if err != nil {
		return settings, err
	}
	settings.maxConnections, err = cmd.Flags().GetInt("max-connections")
	if err != nil {
		return settings, err
	}
	return settings, nil
}
