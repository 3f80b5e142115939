package main // Entry point package

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront/internal/config"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API: accounts, products and categories over MySQL with a Redis cache.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		config.LoadDotEnv()
		setupLogging(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, consumeCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
