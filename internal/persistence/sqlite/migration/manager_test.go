package migration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func schemaFS() fstest.MapFS {
	return fstest.MapFS{
		"001_initial_schema.sql": {Data: []byte("-- Description: users\nCREATE TABLE users (id TEXT PRIMARY KEY, name TEXT NOT NULL);")},
		"002_add_alerts.sql":     {Data: []byte("CREATE TABLE risk_alerts (id TEXT PRIMARY KEY, employee_id TEXT NOT NULL REFERENCES users(id));")},
	}
}

func TestMigrationManager_RunMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), schemaFS(), quietLogger)

	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	status, err := manager.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	if status.CurrentVersion != "002" || status.PendingCount != 0 || len(status.AppliedMigrations) != 2 {
		t.Fatalf("unexpected status: %#v", status)
	}

	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO users (id, name) VALUES ('u1', 'Sarah')"); err != nil {
		t.Fatalf("schema not usable: %v", err)
	}
}

func TestMigrationManager_AppliesOnlyNewVersions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	files := schemaFS()
	initial := fstest.MapFS{"001_initial_schema.sql": files["001_initial_schema.sql"]}

	if err := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), initial, quietLogger).RunMigrations(ctx); err != nil {
		t.Fatalf("initial RunMigrations failed: %v", err)
	}

	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), files, quietLogger)
	pending, err := manager.GetPendingMigrations(ctx)
	if err != nil {
		t.Fatalf("GetPendingMigrations failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Version != "002" {
		t.Fatalf("expected only 002 to be pending, got %#v", pending)
	}
	if err := manager.RunMigrations(ctx); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
}

func TestMigrationManager_DetectsDrift(t *testing.T) {
	ctx := context.Background()

	t.Run("gap in sequence", func(t *testing.T) {
		files := fstest.MapFS{
			"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id TEXT);")},
			"003_later.sql":          {Data: []byte("CREATE TABLE c (id TEXT);")},
		}
		manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(openTestDB(t)), files, quietLogger)
		if err := manager.RunMigrations(ctx); !errors.Is(err, ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("edited migration", func(t *testing.T) {
		db := openTestDB(t)
		original := fstest.MapFS{"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id TEXT);")}}
		if err := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), original, quietLogger).RunMigrations(ctx); err != nil {
			t.Fatalf("RunMigrations failed: %v", err)
		}

		edited := fstest.MapFS{"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id TEXT, extra TEXT);")}}
		err := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), edited, quietLogger).RunMigrations(ctx)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("expected ErrChecksumMismatch, got %v", err)
		}
	})

	t.Run("failing statement", func(t *testing.T) {
		files := fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE a (id TEXT REFERENCES);")}}
		manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(openTestDB(t)), files, quietLogger)
		err := manager.RunMigrations(ctx)
		if !errors.Is(err, ErrMigrationFailed) {
			t.Fatalf("expected ErrMigrationFailed, got %v", err)
		}
		var stepErr *StepError
		if !errors.As(err, &stepErr) || stepErr.Version != "001" {
			t.Fatalf("expected StepError for 001, got %v", err)
		}
	})
}
