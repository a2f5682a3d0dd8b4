package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/daffadev/pamer-backend/config"
)

var rootCmd = &cobra.Command{
	Use:   "pamer",
	Short: "Pamer - portfolio site backend",
	Long: `Pamer serves the portfolio gallery API and the admin dashboard that manages projects,
categories and their preview images. Run without a subcommand to start the server.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadConfig reads the configuration and sets up the global logger from it.
func loadConfig(ctx context.Context) (map[string]string, error) {
	c, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	setupLogger(c)
	return c, nil
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "ENVIRONMENT", "production") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
