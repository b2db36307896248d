package database

import (
	"context"
	"fmt"
	"log"
)

// RunMigrations applies the schema for db's dialect. Every statement is
// idempotent so it is safe to run on each start.
func RunMigrations(ctx context.Context, db *DB) error {
	var migrations []string
	switch db.Dialect {
	case DialectSQLite:
		migrations = []string{
			createTodosTableSQLite,
			createCarOwnersTableSQLite,
			createCarsTableSQLite,
			createCarsOwnerIndex,
			createTodosCompletedIndex,
		}
	case DialectPostgres:
		migrations = []string{
			createTodosTablePostgres,
			createCarOwnersTablePostgres,
			createCarsTablePostgres,
			createCarsOwnerIndex,
			createTodosCompletedIndex,
		}
	default:
		return fmt.Errorf("no migrations for dialect %q", db.Dialect)
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

// SQLite has no BOOLEAN type: completed is stored as INTEGER 0/1.
const createTodosTableSQLite = `
CREATE TABLE IF NOT EXISTS todos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT,
  completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

const createCarOwnersTableSQLite = `
CREATE TABLE IF NOT EXISTS car_owners (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  age INTEGER NOT NULL,
  email TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL
)`

const createCarsTableSQLite = `
CREATE TABLE IF NOT EXISTS cars (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  color TEXT NOT NULL,
  owner_id INTEGER NOT NULL REFERENCES car_owners(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL
)`

const createTodosTablePostgres = `
CREATE TABLE IF NOT EXISTS todos (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  completed BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

const createCarOwnersTablePostgres = `
CREATE TABLE IF NOT EXISTS car_owners (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  age INTEGER NOT NULL,
  email TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL
)`

const createCarsTablePostgres = `
CREATE TABLE IF NOT EXISTS cars (
  id BIGSERIAL PRIMARY KEY,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  color TEXT NOT NULL,
  owner_id BIGINT NOT NULL REFERENCES car_owners(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL
)`

const createCarsOwnerIndex = `CREATE INDEX IF NOT EXISTS idx_cars_owner_id ON cars(owner_id)`

const createTodosCompletedIndex = `CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed)`
