package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"crud_api/internal/database"
)

// Timestamps are stored as RFC 3339 text on both backends.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// base carries the handle and dialect every repository needs. q is either
// the pool or a transaction.
type base struct {
	q       database.Querier
	dialect database.Dialect
}

func (b base) rebind(query string) string {
	return b.dialect.Rebind(query)
}

func (b base) withTx(tx *sql.Tx) base {
	return base{q: tx, dialect: b.dialect}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
