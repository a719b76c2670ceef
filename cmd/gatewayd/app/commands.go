// Package app wires the gateway daemon's cobra commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/toolhive-gateway/pkg/logger"
)

// Version is the gateway's semantic version, set at build time via
// -ldflags "-X .../app.Version=...".
var Version = "dev"

// NewRootCmd creates the gateway daemon's root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "gatewayd",
		DisableAutoGenTag: true,
		Short:             "gatewayd aggregates and routes MCP capabilities across backend servers",
		Long: `gatewayd is the MCP capability-aggregation gateway. It maintains a searchable
registry of tools, prompts, and resources sourced from internal servers and
connected external MCP servers, classifies and groups them into skills, and
exposes both a JSON-RPC/MCP surface and an HTTP API for discovery and
invocation.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				logger.Errorf("error displaying help: %v", err)
			}
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Initialize()
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Accepted but has no effect; the log level stays at Info")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: environment and built-in defaults only)")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("error binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		logger.Errorf("error binding config flag: %v", err)
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SilenceUsage = true

	return rootCmd
}
