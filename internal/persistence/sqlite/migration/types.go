package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration is one numbered schema file, e.g. 001_initial_schema.sql.
type Migration struct {
	Version     string
	Description string
	SQL         string
	FilePath    string
	// Checksum is the hex SHA-256 of SQL, recorded when applied to detect later edits.
	Checksum string
}

// FileScanner reads and validates the schema files at the root of an fs.FS.
type FileScanner interface {
	ScanMigrations(fsys fs.FS) ([]Migration, error)
	ValidateFileName(filename string) error
}

// Executor applies migrations and reads back the schema_migrations ledger.
type Executor interface {
	// ExecuteMigration runs every statement and records the version in one transaction.
	ExecuteMigration(ctx context.Context, migration Migration) error
	InitializeVersionTable(ctx context.Context) error
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}

// MigrationStatus summarises the ledger against the available schema files.
type MigrationStatus struct {
	CurrentVersion    string
	PendingCount      int
	AppliedMigrations []AppliedMigration
	PendingMigrations []Migration
}

// AppliedMigration is one row of schema_migrations.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}
