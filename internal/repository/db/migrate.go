package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// MigrateSQLite runs the sqlite migrations on an already open pool.
// The migrate instance is not closed: that would close db too, and for ":memory:"
// a second pool would see an empty database.
func MigrateSQLite(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}
	m, src, err := newMigrate(sqliteDriverName, driver)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	return up(m)
}

// MigrateMySQL runs the mysql migrations on a dedicated connection that is closed afterwards,
// so the serving pool never has a connection pinned by the migrator.
func MigrateMySQL(dsn string) error {
	migrateDB, err := sql.Open(mysqlDriverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	driver, err := migratemysql.WithInstance(migrateDB, &migratemysql.Config{})
	if err != nil {
		_ = migrateDB.Close()
		return fmt.Errorf("create mysql migration driver: %w", err)
	}
	m, _, err := newMigrate(mysqlDriverName, driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer func() { _, _ = m.Close() }()
	return up(m)
}

func newMigrate(dialect string, driver database.Driver) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return nil, nil, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, src, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
