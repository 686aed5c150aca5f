package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/workplace-insights/internal/persistence"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	if err := storage.Departments.CreateDepartment(ctx, persistence.Department{ID: "d1", Name: "Marketing"}); err != nil {
		t.Fatalf("CreateDepartment failed: %v", err)
	}

	user := persistence.User{
		ID:           "u1",
		Name:         "Sarah Johnson",
		Email:        "  Sarah.Johnson@Company.com ",
		PasswordHash: "hash",
		Department:   "Marketing",
		JoinDate:     baseTime.AddDate(-2, 0, 0),
	}
	if err := storage.Users.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	fetched, err := storage.Users.GetUserByEmail(ctx, "SARAH.JOHNSON@company.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if fetched.ID != "u1" || fetched.Email != "sarah.johnson@company.com" || fetched.Department != "Marketing" {
		t.Fatalf("unexpected user: %#v", fetched)
	}
	if !fetched.JoinDate.Equal(user.JoinDate) {
		t.Errorf("expected join date %v, got %v", user.JoinDate, fetched.JoinDate)
	}
	if fetched.CreatedAt.IsZero() || !fetched.UpdatedAt.Equal(fetched.CreatedAt) {
		t.Errorf("expected creation timestamps to be set, got %v / %v", fetched.CreatedAt, fetched.UpdatedAt)
	}

	if _, err := storage.Users.GetUser(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Constraints(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	mustCreateUser(t, storage, "sarah", "Sarah Johnson", false)

	duplicate := persistence.User{ID: "other", Name: "Other", Email: "sarah@company.com", PasswordHash: "hash"}
	if err := storage.Users.CreateUser(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for email reuse, got %v", err)
	}

	unknownDepartment := persistence.User{ID: "x", Name: "X", Email: "x@company.com", PasswordHash: "hash", Department: "Nowhere"}
	if err := storage.Users.CreateUser(ctx, unknownDepartment); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}

	if err := storage.Users.CreateUser(ctx, persistence.User{ID: "y", Name: "Y", Email: "y@company.com"}); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation without hash, got %v", err)
	}
}

func TestUserRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	mustCreateUser(t, storage, "admin", "Admin User", true)
	mustCreateUser(t, storage, "sarah", "Sarah Johnson", false)
	mustCreateUser(t, storage, "emily", "Emily Rodriguez", false)

	all, err := storage.Users.ListUsers(ctx, persistence.UserFilter{})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Admin User" || all[1].Name != "Emily Rodriguez" {
		t.Fatalf("expected users ordered by name, got %#v", all)
	}

	employees, err := storage.Users.ListUsers(ctx, persistence.UserFilter{ExcludeAdmins: true})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 non-admin users, got %d", len(employees))
	}

	count, err := storage.Users.CountUsers(ctx)
	if err != nil || count != 3 {
		t.Fatalf("expected 3 users, got %d (%v)", count, err)
	}

	departments, err := storage.Departments.ListDepartments(ctx)
	if err != nil || len(departments) != 0 {
		t.Fatalf("expected no departments, got %#v (%v)", departments, err)
	}
}
