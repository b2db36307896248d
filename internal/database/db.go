package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"crud_api/internal/config"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's bind syntax. Queries
// are written once with ? and rebound for PostgreSQL ($1, $2, ...).
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			b.WriteByte(ch)
		case ch == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// DB is the application handle shared by every repository.
type DB struct {
	*sql.DB
	Dialect Dialect

	closers []func()
}

func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	err := db.DB.Close()
	for _, closeFn := range db.closers {
		closeFn()
	}
	log.Println("Database connection closed")
	return err
}

// Open connects to the backend selected by cfg.DBDriver. Migrations are not
// applied here; call RunMigrations afterwards.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("Connected to SQLite database at %s", cfg.SQLitePath)
		return &DB{DB: sqlDB, Dialect: DialectSQLite}, nil

	case config.DriverPostgres:
		if cfg.DBAdminUser != "" {
			if err := EnsureDatabaseExists(ctx, cfg.PostgresAdminDSN(), cfg.DBDatabase); err != nil {
				return nil, err
			}
		}
		log.Printf("Connecting to database: %s", cfg.RedactedPostgresDSN())
		return ConnectPostgres(ctx, cfg.PostgresDSN())

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
