package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/config"
)

var appCfg config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "inspection-map",
	Short: "Map restaurant inspection scores",
	Long:  `Scrapes the King County food-safety inspection results, summarizes each restaurant's inspection scores, and writes a GeoJSON map.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.GetAppConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		appCfg = c

		if err := config.InitLogger(appCfg.LogLevel, appCfg.LogFormat); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
