package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// EnsureDatabaseExists connects to the maintenance database through adminDSN
// and creates database when it is missing.
func EnsureDatabaseExists(ctx context.Context, adminDSN, database string) error {
	if database == "" {
		return fmt.Errorf("database name is required")
	}

	log.Printf("Checking if database '%s' exists...", database)

	config, err := pgxpool.ParseConfig(adminDSN)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := pool.QueryRow(ctx, query, database).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		log.Printf("Database '%s' already exists", database)
		return nil
	}

	log.Printf("Database '%s' does not exist. Creating it...", database)

	// CREATE DATABASE cannot run inside a transaction block.
	quotedDBName := pgx.Identifier{database}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", quotedDBName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	log.Printf("Database '%s' created successfully", database)
	return nil
}

// ConnectPostgres opens a pgx pool for dsn and exposes it as database/sql so
// the repositories run the same code on both backends.
func ConnectPostgres(ctx context.Context, dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection pool established successfully")
	return &DB{
		DB:      stdlib.OpenDBFromPool(pool),
		Dialect: DialectPostgres,
		closers: []func(){pool.Close},
	}, nil
}
