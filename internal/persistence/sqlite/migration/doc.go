// Package migration applies versioned SQL schema changes to a SQLite database.
//
// Migrations are read from an fs.FS, usually an embedded directory, and must be
// named {version}_{description}.sql (for example "001_initial_schema.sql").
// Applied versions are tracked in the schema_migrations table, so running the
// manager repeatedly is safe.
//
// Example usage:
//
//	executor := migration.NewSQLiteExecutor(db)
//	manager := migration.NewMigrationManager(migration.NewFileScanner(), executor, schemaFS, logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
