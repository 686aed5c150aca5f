package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/workplace-insights/internal/persistence"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	mustCreateUser(t, storage, "sarah", "Sarah Johnson", false)

	session := persistence.Session{
		ID:          "s1",
		UserID:      "sarah",
		Token:       " token-1 ",
		Fingerprint: "agent",
		ExpiresAt:   baseTime.Add(8 * time.Hour),
		CreatedAt:   baseTime,
	}
	created, err := storage.Sessions.CreateSession(ctx, session)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.Token != "token-1" || !created.UpdatedAt.Equal(baseTime) {
		t.Fatalf("unexpected normalised session: %#v", created)
	}

	fetched, err := storage.Sessions.GetSession(ctx, "token-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if fetched.UserID != "sarah" || !fetched.ExpiresAt.Equal(session.ExpiresAt) || fetched.RevokedAt != nil {
		t.Fatalf("unexpected session: %#v", fetched)
	}

	revokedAt := baseTime.Add(time.Hour)
	revoked, err := storage.Sessions.RevokeSession(ctx, "token-1", revokedAt)
	if err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
		t.Fatalf("expected revoked_at %v, got %v", revokedAt, revoked.RevokedAt)
	}

	again, err := storage.Sessions.RevokeSession(ctx, "token-1", revokedAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("second RevokeSession failed: %v", err)
	}
	if !again.RevokedAt.Equal(revokedAt) || !again.UpdatedAt.Equal(revokedAt.Add(time.Hour)) {
		t.Fatalf("expected first revocation time to stick, got %#v", again)
	}

	if _, err := storage.Sessions.RevokeSession(ctx, "unknown", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := storage.Sessions.CreateSession(ctx, persistence.Session{ID: "s2", UserID: "sarah", Token: "token-1", ExpiresAt: baseTime}); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for token reuse, got %v", err)
	}
	if _, err := storage.Sessions.CreateSession(ctx, persistence.Session{ID: "s3", UserID: "ghost", Token: "token-3", ExpiresAt: baseTime}); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestSessionRepository_DeleteExpiredSessions(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	mustCreateUser(t, storage, "sarah", "Sarah Johnson", false)

	for i, expires := range []time.Time{baseTime.Add(-time.Minute), baseTime, baseTime.Add(time.Minute)} {
		_, err := storage.Sessions.CreateSession(ctx, persistence.Session{
			ID:        string(rune('a' + i)),
			UserID:    "sarah",
			Token:     "token-" + string(rune('a'+i)),
			ExpiresAt: expires,
		})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	if err := storage.Sessions.DeleteExpiredSessions(ctx, baseTime); err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}

	for _, token := range []string{"token-a", "token-b"} {
		if _, err := storage.Sessions.GetSession(ctx, token); !errors.Is(err, persistence.ErrNotFound) {
			t.Errorf("expected %s to be deleted, got %v", token, err)
		}
	}
	if _, err := storage.Sessions.GetSession(ctx, "token-c"); err != nil {
		t.Errorf("expected token-c to survive, got %v", err)
	}
}
