package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateSQLite applies every pending up migration found in dir to an
// open SQLite handle.  It is used for DB_AUTO_MIGRATE and by tests that
// run against an in-memory database.  MySQL schemas are managed with
// cmd/migrator.
//
// The handle stays open afterwards: only the migration source is
// closed, since closing the migrate instance would close db as well.
func MigrateSQLite(db *sql.DB, dir string) error {
	const op = "database.MigrateSQLite"

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	src, err := (&file.File{}).Open("file://" + dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("file", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
