package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

const (
	migrationUp   = "up"
	migrationDown = "down"
)

func mustMigrateUp(m *migrate.Migrate) {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}
	fmt.Println("migrations applied successfully")
}

func mustMigrateDown(m *migrate.Migrate) {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to revert")
			return
		}
		panic(err)
	}
	fmt.Println("migrations reverted successfully")
}

// The mysql target defaults to the DB_* variables used by the server.
func main() {
	_ = godotenv.Load()

	var storagePath, migrationsPath, migrationsTable, migrationType, db string
	flag.StringVar(&migrationType, "migration-type", migrationUp, "migration type (up or down)")
	flag.StringVar(&db, "db", "mysql", "database (mysql or sqlite3)")
	flag.StringVar(&storagePath, "storage-path", "", "sqlite3 file, or user:pass@tcp(host:port)/name for mysql")
	flag.StringVar(&migrationsPath, "migrations-path", "", "path to migrations (default migrations/<db>)")
	flag.StringVar(&migrationsTable, "migrations-table", "schema_migrations", "name of migrations table")
	flag.Parse()

	if migrationsPath == "" {
		migrationsPath = "migrations/" + db
	}
	if storagePath == "" {
		storagePath = defaultStoragePath(db)
	}
	if storagePath == "" {
		panic("storage-path is required")
	}

	dbURL, err := dbUrl(db, storagePath, migrationsTable)
	if err != nil {
		panic(err)
	}

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		panic(err)
	}
	defer m.Close()

	if migrationType == migrationDown {
		mustMigrateDown(m)
		return
	}
	mustMigrateUp(m)
}

func defaultStoragePath(db string) string {
	switch db {
	case "sqlite3":
		return os.Getenv("DB_PATH")
	case "mysql":
		if os.Getenv("DB_HOST") == "" {
			return ""
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
			os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))
	}
	return ""
}

func dbUrl(db, storagePath, migrationsTable string) (string, error) {
	switch db {
	case "sqlite3":
		return fmt.Sprintf("sqlite3://%s?x-migrations-table=%s", storagePath, migrationsTable), nil
	case "mysql":
		return fmt.Sprintf("mysql://%s?multiStatements=true&parseTime=true&x-migrations-table=%s", storagePath, migrationsTable), nil
	}
	return "", fmt.Errorf("unsupported db %q", db)
}
