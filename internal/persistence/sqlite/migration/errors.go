package migration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMigrationFailed      = errors.New("migration execution failed")
	ErrInvalidMigrationFile = errors.New("invalid migration file format")
	ErrInvalidVersion       = errors.New("invalid migration version")
	ErrDuplicateVersion     = errors.New("duplicate migration version")

	// ErrVersionConflict means the database holds versions the schema files do not know about.
	ErrVersionConflict = errors.New("migration version conflict")

	// ErrChecksumMismatch means an applied migration file was edited afterwards.
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
)

// StepError reports which step of which migration failed. Source names the
// schema file for scanning errors; Query holds the statement for database errors.
type StepError struct {
	Version string
	Source  string
	Query   string
	Step    string
	Err     error
}

func (e *StepError) Error() string {
	var b strings.Builder
	b.WriteString("migration")
	if e.Version != "" {
		b.WriteString(" " + e.Version)
	}
	if e.Source != "" {
		b.WriteString(" (" + e.Source + ")")
	}
	fmt.Fprintf(&b, ": %s: %v", e.Step, e.Err)
	return b.String()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsDatabase reports whether the failure came from executing SQL rather than reading files.
func (e *StepError) IsDatabase() bool {
	return e.Source == ""
}

func fileError(version, source, step string, err error) *StepError {
	return &StepError{Version: version, Source: source, Step: step, Err: err}
}

func dbError(version, query, step string, err error) *StepError {
	return &StepError{Version: version, Query: query, Step: step, Err: err}
}
