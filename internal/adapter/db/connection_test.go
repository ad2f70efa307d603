package db

import (
	"database/sql"
	"io/fs"
	"testing"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	conf := &config.Config{
		DbUser:     "user",
		DbPassword: "secret",
		DbHost:     "localhost",
		DbPort:     "3307",
		DbName:     "tasks",
	}

	require.Equal(t, "user:secret@tcp(localhost:3307)/tasks?parseTime=true", DSN(conf))

	conf.DbParams = "parseTime=true&loc=UTC"
	require.Equal(t, "user:secret@tcp(localhost:3307)/tasks?parseTime=true&loc=UTC", DSN(conf))
}

func TestTaskRowMapping(t *testing.T) {
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	description := "2 litres"

	row := mapDomainTaskToTaskRow(domain.Task{
		ID:          "0190b2a4-5c3e-7d45-9a1b-2f3c4d5e6f70",
		OwnerID:     "user-1",
		Title:       "Buy milk",
		Description: &description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	require.Equal(t, sql.NullString{String: "2 litres", Valid: true}, row.Description)

	task := mapTaskRowToDomainTask(row)
	require.Equal(t, "Buy milk", task.Title)
	require.Equal(t, "2 litres", *task.Description)
	require.Equal(t, createdAt, task.CreatedAt)

	row.Description = sql.NullString{}
	require.Nil(t, mapTaskRowToDomainTask(row).Description)
}

// description accepts up to 65535 characters, which exceeds TEXT in bytes
// for multibyte input.
func TestMigrations_DescriptionFitsMultibyteText(t *testing.T) {
	body, err := fs.ReadFile(migrations, migrationsDir+"/00001_create_tasks_table.sql")
	require.NoError(t, err)

	require.Contains(t, string(body), "description MEDIUMTEXT")
	require.NotContains(t, string(body), "description TEXT")
}
