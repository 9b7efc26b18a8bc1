package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	// DefaultApplicationName shows up in pg_stat_activity
	DefaultApplicationName = "atelier"

	DefaultConnectAttempts = 5
	DefaultConnectBackoff  = time.Second
)

// Migration Constants
const (
	// MigrationDriver is the database/sql driver goose runs migrations through
	MigrationDriver = "postgres"

	// DefaultMigrationsDir is where goose looks for versioned SQL files
	DefaultMigrationsDir = "migrations"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToOpenMigrationDB = "failed to open migration connection"
	ErrMsgFailedToSetDialect      = "failed to set migration dialect"
	ErrMsgFailedToApplyMigrations = "failed to apply migrations"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationsApplied               = "Database migrations applied"
	LogMsgDatabaseNotReady                = "Database not ready, retrying"
)
