package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"expense_tracker/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName = "sqlite"
	mysqlDriverName  = "mysql"

	pingTimeout = 5 * time.Second
)

// Open returns a pooled, migrated connection to the configured store.
// It reports an error instead of panicking when the store is unreachable.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverMySQL:
		return OpenMySQL(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// OpenSQLite opens/creates a SQLite DB file (or ":memory:") and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers; also keeps ":memory:" on one connection
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := MigrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMySQL connects to MySQL with pool limits from config and applies migrations.
func OpenMySQL(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	dsn := MySQLDSN(cfg)
	db, err := sql.Open(mysqlDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql %s/%s: %w", cfg.Host, cfg.Name, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql %s: %w", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), err)
	}

	if err := MigrateMySQL(dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// MySQLDSN renders the driver DSN. ClientFoundRows makes UPDATE report matched rows,
// so an update that changes nothing is not mistaken for a missing expense.
func MySQLDSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	mc.MultiStatements = true // migration files hold several statements
	return mc.FormatDSN()
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}
