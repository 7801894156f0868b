package db

import (
	"context"
	"strings"
	"testing"

	"expense_tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "categories", "expenses", "sessions", "activity_events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenSQLite_Reopen_NoChange(t *testing.T) {
	path := t.TempDir() + "/expenses.db"

	first, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err, "second open must tolerate an up-to-date schema")
	require.NoError(t, second.Close())
}

func TestOpenSQLite_UnusablePath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported db driver "postgres"`)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DBConfig{
		Host:     "db.internal",
		Port:     3307,
		Name:     "ExpenseTracker",
		User:     "app",
		Password: "p@ss",
	})

	assert.True(t, strings.HasPrefix(dsn, "app:p@ss@tcp(db.internal:3307)/ExpenseTracker?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "multiStatements=true")
}
