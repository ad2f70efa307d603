package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbadapter "taskmanager/internal/adapter/db"
	"taskmanager/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version]",
	Short:     "Run MySQL schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		cfg := config.LoadConfig()
		logger, sync := newLogger(cfg)
		defer sync()

		db, err := dbadapter.ConnectDB(cfg)
		if err != nil {
			logger.Error("failed to connect to mysql", zap.Error(err))
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close mysql connection", zap.Error(err))
			}
		}()

		return dbadapter.Migrate(cmd.Context(), db, command)
	},
}
