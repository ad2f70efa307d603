package db

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"taskmanager/internal/config"
)

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", DSN(conf))
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func DSN(conf *config.Config) string {
	params := conf.DbParams
	if params == "" {
		params = "parseTime=true"
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)
}
