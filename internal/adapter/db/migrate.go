package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// zapGooseLogger routes goose output through the global zap logger.
type zapGooseLogger struct{}

func (zapGooseLogger) Printf(format string, v ...interface{}) {
	zap.L().Info(fmt.Sprintf(format, v...), zap.String("component", "migrations"))
}

func (zapGooseLogger) Fatalf(format string, v ...interface{}) {
	zap.L().Fatal(fmt.Sprintf(format, v...), zap.String("component", "migrations"))
}

// Migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, command string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(zapGooseLogger{})
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
