package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/workplace-insights/internal/persistence"
)

const userColumns = `id, name, email, password_hash, COALESCE(department, ''), is_admin, join_date, created_at, updated_at`

// UserRepository stores employee accounts. Emails are kept lower-cased.
type UserRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateUser inserts user. Join and update dates default to the creation time.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" || strings.TrimSpace(user.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	normalizedEmail := normalizeEmail(user.Email)
	if normalizedEmail == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	if user.JoinDate.IsZero() {
		user.JoinDate = user.CreatedAt
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, department, is_admin, join_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		strings.TrimSpace(user.Name),
		normalizedEmail,
		user.PasswordHash,
		nullableString(strings.TrimSpace(user.Department)),
		user.IsAdmin,
		formatTime(user.JoinDate),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetUser loads a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}
	return user, nil
}

// GetUserByEmail loads a user by case-insensitive email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	normalizedEmail := normalizeEmail(email)
	if normalizedEmail == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizedEmail)
	user, err := scanUser(row)
	if err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}
	return user, nil
}

// ListUsers returns users ordered by name then ID
func (r *UserRepository) ListUsers(ctx context.Context, filter persistence.UserFilter) ([]persistence.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if filter.ExcludeAdmins {
		query += ` WHERE is_admin = 0`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	users, err := scanAll(rows, scanUser)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return users, nil
}

// CountUsers returns the number of stored users
func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.helper.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var joinDate, createdAt, updatedAt string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Department,
		&user.IsAdmin, &joinDate, &createdAt, &updatedAt); err != nil {
		return persistence.User{}, err
	}

	var d timeDecoder
	user.JoinDate = d.at("join_date", joinDate)
	user.CreatedAt = d.at("created_at", createdAt)
	user.UpdatedAt = d.at("updated_at", updatedAt)
	return user, d.err
}

// normalizeEmail normalizes email addresses for consistent storage and lookup
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DepartmentRepository implements persistence.DepartmentRepository using SQLite
type DepartmentRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewDepartmentRepository creates a new SQLite department repository
func NewDepartmentRepository(pool *ConnectionPool) *DepartmentRepository {
	return &DepartmentRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateDepartment inserts a department
func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department persistence.Department) error {
	name := strings.TrimSpace(department.Name)
	if department.ID == "" || name == "" {
		return persistence.ErrConstraintViolation
	}

	if _, err := r.helper.Exec(ctx, `INSERT INTO departments (id, name) VALUES (?, ?)`, department.ID, name); err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// ListDepartments returns departments ordered by name
func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]persistence.Department, error) {
	rows, err := r.helper.Query(ctx, `SELECT id, name FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	departments, err := scanAll(rows, func(row rowScanner) (persistence.Department, error) {
		var department persistence.Department
		err := row.Scan(&department.ID, &department.Name)
		return department, err
	})
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", r.mapper.MapError(err))
	}
	return departments, nil
}
