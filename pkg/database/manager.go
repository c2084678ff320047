package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// DatabaseManager handles all database operations
type DatabaseManager struct {
	db            *sql.DB
	dsn           string
	healthChecker *HealthChecker
}

// NewDatabaseManager opens the Postgres connection and starts health checking.
// Persistence is a core guarantee: callers treat a failure here as fatal at
// boot.
func NewDatabaseManager(dsn string) (*DatabaseManager, error) {
	db, err := connectDatabase(dsn)
	if err != nil {
		return nil, err
	}

	dm := &DatabaseManager{
		db:            db,
		dsn:           dsn,
		healthChecker: NewHealthChecker(db, dsn, 30*time.Second),
	}
	dm.healthChecker.Start()

	return dm, nil
}

// GetDB returns the underlying database connection
func (dm *DatabaseManager) GetDB() *sql.DB {
	return dm.db
}

// Close closes the database connection and stops health checking
func (dm *DatabaseManager) Close() error {
	if dm.healthChecker != nil {
		dm.healthChecker.Stop()
	}
	if dm.db != nil {
		return dm.db.Close()
	}
	return nil
}

// QueryWithHealthCheck executes a query with connection health verification
func (dm *DatabaseManager) QueryWithHealthCheck(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return dm.db.QueryContext(ctx, query, args...)
}

// QueryRowWithHealthCheck executes a query that returns a single row with health check
func (dm *DatabaseManager) QueryRowWithHealthCheck(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		// Return a row that will fail on scan
		return dm.db.QueryRowContext(context.Background(), "SELECT NULL WHERE FALSE")
	}
	return dm.db.QueryRowContext(ctx, query, args...)
}

// ExecWithHealthCheck executes a statement with connection health verification
func (dm *DatabaseManager) ExecWithHealthCheck(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return dm.db.ExecContext(ctx, query, args...)
}

// IsConnectionHealthy returns the current health status
func (dm *DatabaseManager) IsConnectionHealthy() bool {
	return dm.healthChecker.IsHealthy()
}

// Init initializes the database with migrations
func (dm *DatabaseManager) Init() error {
	log.Println("Running database migrations...")

	runner, err := NewMigrationsRunner(dm.db)
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	if err := runner.Run(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✓ Database initialization completed successfully")
	return nil
}

func connectDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
