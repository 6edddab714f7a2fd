//go:build integration

package testutil

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/Gunvolt24/wb_tickets/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"
)

// ApplyMigrationsGoose применяет встроенные миграции через глобальный API goose (отдельное соединение по DSN).
func ApplyMigrationsGoose(dsn string) error {
	goose.SetLogger(log.New(os.Stdout, "", 0))
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
