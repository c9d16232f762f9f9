package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/aria/reminders/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	checkTimeout   = 5 * time.Second
)

// schemaRelations are the tables and views the reminder store queries.
var schemaRelations = []string{"aria_reminders", "aria_reminder_summary"}

// ErrSchemaMissing is returned when the reminder migrations have not run.
var ErrSchemaMissing = errors.New("reminder schema not migrated")

// DB is the Postgres handle behind the reminder store
type DB struct {
	DB     *sqlx.DB
	config config.DatabaseConfig
}

// SchemaStatus describes the migrated reminder schema.
type SchemaStatus struct {
	Version         uint  `json:"version"`
	Dirty           bool  `json:"dirty"`
	ActiveReminders int64 `json:"active_reminders"`
	TotalReminders  int64 `json:"total_reminders"`
}

// New opens the reminder store connection pool and verifies it with a ping
func New(cfg config.DatabaseConfig) (*DB, error) {
	conn, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db := &DB{DB: conn, config: cfg}
	if err := db.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the pool
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// Ping checks the connection only.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// HealthCheck pings the database and verifies that every reminder
// relation exists.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, name := range schemaRelations {
		var exists bool
		if err := db.DB.GetContext(ctx, &exists, `SELECT to_regclass($1) IS NOT NULL`, name); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: missing %s", ErrSchemaMissing, name)
		}
	}
	return nil
}

// SchemaStatus reports the migration version and reminder row counts.
// A database that was never migrated reports version 0.
func (db *DB) SchemaStatus(ctx context.Context) (*SchemaStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var status SchemaStatus

	row := db.DB.QueryRowxContext(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`)
	if err := row.Scan(&status.Version, &status.Dirty); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read migration version: %w", err)
	}

	err := db.DB.QueryRowxContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE NOT completed), COUNT(*)
		FROM aria_reminders`).Scan(&status.ActiveReminders, &status.TotalReminders)
	if err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}

	return &status, nil
}

// PoolStats returns connection pool statistics
func (db *DB) PoolStats() map[string]interface{} {
	stats := db.DB.Stats()

	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
