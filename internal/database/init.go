package database

import (
	"context"
	"fmt"

	"github.com/yourusername/creditdesk/internal/config"
)

// Initialize creates a database connection pool and verifies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// Verify the core schema is present
	var tableName string
	err = db.pool.QueryRow(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'companies'").Scan(&tableName)
	if err != nil {
		closeErr := db.Close(ctx)
		if closeErr != nil {
			return nil, fmt.Errorf("schema check failed and close failed: close=%v, check=%w", closeErr, err)
		}
		return nil, fmt.Errorf("core schema not found, run database migrations first: %w", err)
	}

	// Verify migrations are applied by checking schema_migrations table
	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		return db, nil
	}

	if migrationCount == 0 {
		fmt.Println("Warning: No migrations have been applied. Please run database migrations.")
	}

	return db, nil
}
