// Package repository implements persistence over database/sql.  Every
// query uses `?` placeholders so the same SQL runs on MySQL and SQLite.
//
// Not-found errors are entity specific but wrap apperr.ErrNotFound, so
// handlers can map them to 404 without knowing the entity.  Unique key
// violations are reported as apperr.ErrConflict.
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/iliyamo/stagedoor/internal/apperr"
)

var (
	ErrVenueNotFound    = fmt.Errorf("venue %w", apperr.ErrNotFound)
	ErrArtistNotFound   = fmt.Errorf("artist %w", apperr.ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", apperr.ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", apperr.ErrNotFound)
	ErrDrinkNotFound    = fmt.Errorf("drink %w", apperr.ErrNotFound)
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
	mysqlCheckViolated  = 3819
)

// constraintKind classifies a constraint violation reported by either
// driver.  It returns the empty string for every other error.
func constraintKind(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return "unique"
		case mysqlNoReferenced:
			return "foreign key"
		case mysqlCheckViolated:
			return "check"
		}
		return ""
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return "unique"
		case sqlite3.ErrConstraintForeignKey:
			return "foreign key"
		case sqlite3.ErrConstraintCheck:
			return "check"
		}
	}
	return ""
}

// writeErr classifies a failed INSERT or UPDATE.  Duplicates become
// conflicts; dangling references and check failures are caller errors.
func writeErr(what string, err error) error {
	switch constraintKind(err) {
	case "unique":
		return fmt.Errorf("%s already exists: %w", what, apperr.ErrConflict)
	case "foreign key":
		return fmt.Errorf("%s references a missing record: %w", what, apperr.ErrInvalidArgument)
	case "check":
		return fmt.Errorf("%s violates a check constraint: %w", what, apperr.ErrInvalidArgument)
	}
	return err
}

// nullIfEmpty stores optional unique columns such as phone as NULL so
// that several rows may leave them blank.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	return string(b), err
}

func decodeGenres(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	return out, nil
}

// affected maps a zero-row UPDATE or DELETE to notFound.
func affected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
