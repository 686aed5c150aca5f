package migration

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewConnectionManager(InMemoryTestSQLiteConfig()).GetConnection()
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteExecutor_ExecuteMigration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	executor := NewSQLiteExecutor(db)

	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Fatalf("InitializeVersionTable failed: %v", err)
	}
	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Fatalf("InitializeVersionTable is not idempotent: %v", err)
	}

	migration := Migration{
		Version:  "001",
		FilePath: "001_initial.sql",
		SQL:      "CREATE TABLE users (id TEXT PRIMARY KEY);\nINSERT INTO users (id) VALUES ('u1');",
		Checksum: "abc",
	}
	if err := executor.ExecuteMigration(ctx, migration); err != nil {
		t.Fatalf("ExecuteMigration failed: %v", err)
	}

	applied, err := executor.IsVersionApplied(ctx, "001")
	if err != nil || !applied {
		t.Fatalf("expected version 001 to be applied, got %v (%v)", applied, err)
	}

	versions, err := executor.GetAppliedVersions(ctx)
	if err != nil {
		t.Fatalf("GetAppliedVersions failed: %v", err)
	}
	if len(versions) != 1 || versions[0].Checksum != "abc" || versions[0].AppliedAt.IsZero() {
		t.Fatalf("unexpected applied versions: %#v", versions)
	}
}

func TestSQLiteExecutor_RollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	executor := NewSQLiteExecutor(db)
	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Fatalf("InitializeVersionTable failed: %v", err)
	}

	err := executor.ExecuteMigration(ctx, Migration{
		Version: "001",
		SQL:     "CREATE TABLE partial (id TEXT PRIMARY KEY);\nINSERT INTO missing_table VALUES (1);",
	})
	var stepErr *StepError
	if !errors.As(err, &stepErr) || !stepErr.IsDatabase() {
		t.Fatalf("expected database StepError, got %v", err)
	}
	if !strings.Contains(stepErr.Query, "missing_table") {
		t.Errorf("expected failing statement in error, got %q", stepErr.Query)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'partial'").Scan(&count); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if count != 0 {
		t.Errorf("expected partial table to be rolled back")
	}
	if applied, _ := executor.IsVersionApplied(ctx, "001"); applied {
		t.Errorf("failed migration must not be recorded")
	}
}

func TestSQLiteExecutor_RejectsEmptyMigration(t *testing.T) {
	executor := NewSQLiteExecutor(openTestDB(t))
	err := executor.ExecuteMigration(context.Background(), Migration{Version: "001", SQL: "-- only a comment"})
	if !errors.Is(err, ErrInvalidMigrationFile) {
		t.Fatalf("expected ErrInvalidMigrationFile, got %v", err)
	}
}
