package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/example/workplace-insights/internal/persistence"
	"github.com/example/workplace-insights/internal/persistence/sqlite/migration"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

var (
	_ persistence.UserRepository       = (*UserRepository)(nil)
	_ persistence.DepartmentRepository = (*DepartmentRepository)(nil)
	_ persistence.SessionRepository    = (*SessionRepository)(nil)
	_ persistence.MessageRepository    = (*MessageRepository)(nil)
	_ persistence.AlertRepository      = (*AlertRepository)(nil)
	_ persistence.CalendarRepository   = (*CalendarRepository)(nil)
	_ persistence.MetricsRepository    = (*MetricsRepository)(nil)
	_ persistence.FileRepository       = (*FileRepository)(nil)
)

// Storage bundles the SQLite repositories that share one connection pool.
type Storage struct {
	pool *ConnectionPool

	Users       *UserRepository
	Departments *DepartmentRepository
	Sessions    *SessionRepository
	Messages    *MessageRepository
	Alerts      *AlertRepository
	Calendar    *CalendarRepository
	Metrics     *MetricsRepository
	Files       *FileRepository
}

// Open connects to the database described by config. Call Migrate before use.
func Open(config migration.SQLiteConfig) (*Storage, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:        pool,
		Users:       NewUserRepository(pool),
		Departments: NewDepartmentRepository(pool),
		Sessions:    NewSessionRepository(pool),
		Messages:    NewMessageRepository(pool),
		Alerts:      NewAlertRepository(pool),
		Calendar:    NewCalendarRepository(pool),
		Metrics:     NewMetricsRepository(pool),
		Files:       NewFileRepository(pool),
	}, nil
}

// SchemaFS returns the embedded migration files.
func SchemaFS() fs.FS {
	sub, err := fs.Sub(schemaFiles, "schema")
	if err != nil {
		panic(fmt.Sprintf("sqlite: embedded schema missing: %v", err))
	}
	return sub
}

// Migrate applies pending embedded migrations.
func (s *Storage) Migrate(ctx context.Context, logger *slog.Logger) error {
	manager := migration.NewMigrationManager(
		migration.NewFileScanner(),
		migration.NewSQLiteExecutor(s.pool.DB()),
		SchemaFS(),
		logger,
	)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
