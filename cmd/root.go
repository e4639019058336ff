package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/chainops-backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "chainops",
	Short:         "🏗️ ChainOps deployment tracker",
	Long:          "ChainOps tracks deployment runs and answers chat commands about them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if it exists (optional for Docker runtime)
		if err := godotenv.Load(".env"); err != nil {
			logger.Infof("No .env file found, using environment variables: %s", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newCommandsCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
