// Command api runs the task API and its maintenance commands.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskmanager/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "taskd",
	Short:        "Personal task tracking API",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// newLogger installs the process-wide zap logger and returns a flush func.
func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)

	return logger, func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}
}
