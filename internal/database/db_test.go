package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stagedoor/internal/config"
)

func TestOpenSQLite_ForeignKeysOn(t *testing.T) {
	db, err := Open(config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	var on int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpenSQLite_LowerFoldsUnicode(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var lower string
	require.NoError(t, db.QueryRow("SELECT LOWER('ÉCOLE Ünd ÀBC')").Scan(&lower))
	assert.Equal(t, "école ünd àbc", lower)

	var null *string
	require.NoError(t, db.QueryRow("SELECT LOWER(NULL)").Scan(&null))
	assert.Nil(t, null)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestMigrateSQLite_CreatesSchemaAndIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	const dir = "../../migrations/sqlite3"
	require.NoError(t, MigrateSQLite(db, dir))
	require.NoError(t, MigrateSQLite(db, dir))

	for _, table := range []string{"venues", "artists", "shows", "categories", "questions", "drinks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
