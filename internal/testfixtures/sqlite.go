package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/workplace-insights/internal/persistence/sqlite"
	"github.com/example/workplace-insights/internal/persistence/sqlite/migration"
)

// SQLiteHarness owns a migrated temporary SQLite database.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	cleanup func()
}

// Close releases the database. It is also registered with tb.Cleanup.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a temp-file database under tb.TempDir and applies
// the embedded migrations.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "insights.db")
	storage, err := sqlite.Open(migration.TempFileTestSQLiteConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := storage.Migrate(context.Background(), logger); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}

// Store exposes the harness repositories as a single Store.
func (h *SQLiteHarness) Store() Store {
	return storeView{
		DepartmentRepository: h.Storage.Departments,
		UserRepository:       h.Storage.Users,
		MessageRepository:    h.Storage.Messages,
		AlertRepository:      h.Storage.Alerts,
		CalendarRepository:   h.Storage.Calendar,
		MetricsRepository:    h.Storage.Metrics,
		FileRepository:       h.Storage.Files,
	}
}

// Load writes dataset into the harness database, failing tb on error.
func (h *SQLiteHarness) Load(tb testing.TB, dataset *Dataset) {
	tb.Helper()
	if err := dataset.Load(context.Background(), h.Store()); err != nil {
		tb.Fatalf("failed to load dataset: %v", err)
	}
}

type storeView struct {
	*sqlite.DepartmentRepository
	*sqlite.UserRepository
	*sqlite.MessageRepository
	*sqlite.AlertRepository
	*sqlite.CalendarRepository
	*sqlite.MetricsRepository
	*sqlite.FileRepository
}
