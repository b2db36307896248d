package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite untouched", DialectSQLite, "SELECT * FROM todos WHERE id = ?", "SELECT * FROM todos WHERE id = ?"},
		{"postgres numbered", DialectPostgres, "UPDATE todos SET title = ?, completed = ? WHERE id = ?", "UPDATE todos SET title = $1, completed = $2 WHERE id = $3"},
		{"literal kept", DialectPostgres, "SELECT '?' AS q, id FROM todos WHERE id = ?", "SELECT '?' AS q, id FROM todos WHERE id = $1"},
		{"no placeholders", DialectPostgres, "DELETE FROM todos", "DELETE FROM todos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Fatalf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db := &DB{DB: sqlDB, Dialect: DialectSQLite}
	t.Cleanup(func() { _ = db.Close() })
	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, table := range []string{"todos", "car_owners", "cars"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestConstraintClassification(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	insertOwner := `INSERT INTO car_owners (name, age, email, created_at) VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, insertOwner, "Ana", 30, "ana@example.com", "2024-01-01T00:00:00Z"); err != nil {
		t.Fatalf("insert owner: %v", err)
	}

	_, err := db.ExecContext(ctx, insertOwner, "Ana 2", 31, "ana@example.com", "2024-01-01T00:00:00Z")
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO cars (brand, model, year, color, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"Fiat", "Uno", 1999, "red", 999, "2024-01-01T00:00:00Z")
	if !IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}

	if IsUniqueViolation(nil) || IsForeignKeyViolation(nil) {
		t.Fatal("nil error classified as violation")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO todos (title, completed, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			"lost", false, "t", "t"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM todos`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0 after rollback", count)
	}
}

func TestWithTxCommits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO todos (title, completed, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			"kept", true, "t", "t")
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	var completed bool
	if err := db.QueryRow(`SELECT completed FROM todos WHERE title = ?`, "kept").Scan(&completed); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !completed {
		t.Fatal("completed = false, want true")
	}
}
