package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

func plainVerifier(hashed, password string) error {
	if hashed != password {
		return ErrInvalidCredentials
	}
	return nil
}

func sequence(values ...string) func() string {
	return func() string {
		if len(values) == 0 {
			return ""
		}
		next := values[0]
		values = values[1:]
		return next
	}
}

// accountStore holds dashboard accounts keyed by email.
type accountStore struct {
	accounts  map[string]UserCredentials
	err       error
	lastEmail string
}

func newAccountStore(creds ...UserCredentials) *accountStore {
	s := &accountStore{accounts: make(map[string]UserCredentials)}
	for _, c := range creds {
		s.accounts[c.User.Email] = c
	}
	return s
}

func (s *accountStore) GetUserCredentialsByEmail(_ context.Context, email string) (UserCredentials, error) {
	s.lastEmail = email
	if s.err != nil {
		return UserCredentials{}, s.err
	}
	creds, ok := s.accounts[email]
	if !ok {
		return UserCredentials{}, ErrNotFound
	}
	return creds, nil
}

func (s *accountStore) GetUser(_ context.Context, id string) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	for _, c := range s.accounts {
		if c.User.ID == id {
			return c.User, nil
		}
	}
	return User{}, ErrNotFound
}

// sessionStore keeps sessions by token.
type sessionStore struct {
	byToken map[string]Session

	createErr, getErr, revokeErr, pruneErr error

	pruned []time.Time
}

func newSessionStore(sessions ...Session) *sessionStore {
	s := &sessionStore{byToken: make(map[string]Session)}
	for _, session := range sessions {
		s.byToken[session.Token] = session
	}
	return s
}

func (s *sessionStore) CreateSession(_ context.Context, session Session) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.byToken[session.Token] = session
	return session, nil
}

func (s *sessionStore) GetSession(_ context.Context, token string) (Session, error) {
	if s.getErr != nil {
		return Session{}, s.getErr
	}
	session, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionStore) RevokeSession(_ context.Context, token string, revokedAt time.Time) (Session, error) {
	if s.revokeErr != nil {
		return Session{}, s.revokeErr
	}
	session, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	session.UpdatedAt = revokedAt
	s.byToken[token] = session
	return session, nil
}

func (s *sessionStore) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	if s.pruneErr != nil {
		return s.pruneErr
	}
	s.pruned = append(s.pruned, reference)
	for token, session := range s.byToken {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.byToken, token)
		}
	}
	return nil
}

var sarahAccount = UserCredentials{
	User:         User{ID: "u-sarah", Name: "Sarah Johnson", Email: "sarah.johnson@company.com"},
	PasswordHash: "password123",
}

var adminAccount = UserCredentials{
	User:         User{ID: "u-admin", Name: "Admin User", Email: "admin@company.com", IsAdmin: true},
	PasswordHash: "admin123",
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		t.Parallel()

		accounts := newAccountStore(sarahAccount)
		sessions := newSessionStore(Session{ID: "old", Token: "stale", ExpiresAt: authNow.Add(-time.Minute)})
		svc := NewAuthService(accounts, sessions, plainVerifier, sequence("session-id", "session-token"), func() time.Time { return authNow }, time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:       " Sarah.Johnson@company.com ",
			Password:    "password123",
			Fingerprint: " Mozilla/5.0 ",
		})
		require.NoError(t, err)

		assert.Equal(t, "sarah.johnson@company.com", accounts.lastEmail)
		assert.Equal(t, "u-sarah", result.User.ID)
		assert.Equal(t, "session-id", result.Session.ID)
		assert.Equal(t, "session-token", result.Session.Token)
		assert.Equal(t, "Mozilla/5.0", result.Session.Fingerprint)
		assert.Equal(t, authNow.Add(time.Hour), result.Session.ExpiresAt)
		assert.Equal(t, []time.Time{authNow}, sessions.pruned)
		assert.NotContains(t, sessions.byToken, "stale")
		assert.Contains(t, sessions.byToken, "session-token")
	})

	t.Run("falls back to the session id when only one token is produced", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newAccountStore(sarahAccount), newSessionStore(), plainVerifier, sequence("only"), time.Now, 0)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: sarahAccount.User.Email, Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "only", result.Session.Token)
		assert.WithinDuration(t, result.Session.CreatedAt.Add(DefaultSessionTTL), result.Session.ExpiresAt, 0)
	})

	t.Run("verifies argon2id hashes by default", func(t *testing.T) {
		t.Parallel()

		hash, err := CreatePasswordHash("password123", fastArgon2Params)
		require.NoError(t, err)
		account := sarahAccount
		account.PasswordHash = hash
		svc := NewAuthService(newAccountStore(account), newSessionStore(), nil, sequence("a", "b", "c", "d"), time.Now, time.Hour)

		_, err = svc.Authenticate(context.Background(), AuthenticateParams{Email: account.User.Email, Password: "password123"})
		require.NoError(t, err)
		_, err = svc.Authenticate(context.Background(), AuthenticateParams{Email: account.User.Email, Password: "password124"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects bad credentials without revealing which part failed", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newAccountStore(sarahAccount), newSessionStore(), plainVerifier, sequence("x", "y"), time.Now, time.Hour)

		for _, params := range []AuthenticateParams{
			{Email: sarahAccount.User.Email, Password: "wrong"},
			{Email: sarahAccount.User.Email},
			{Password: "password123"},
			{Email: "ghost@company.com", Password: "password123"},
		} {
			_, err := svc.Authenticate(context.Background(), params)
			assert.ErrorIs(t, err, ErrInvalidCredentials, "%+v", params)
		}
	})

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		lookupFailed := errors.New("lookup failed")
		accounts := newAccountStore(sarahAccount)
		accounts.err = lookupFailed
		svc := NewAuthService(accounts, newSessionStore(), plainVerifier, sequence("a", "b"), time.Now, time.Hour)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: sarahAccount.User.Email, Password: "password123"})
		assert.ErrorIs(t, err, lookupFailed)

		pruneFailed := errors.New("prune failed")
		sessions := newSessionStore()
		sessions.pruneErr = pruneFailed
		svc = NewAuthService(newAccountStore(sarahAccount), sessions, plainVerifier, sequence("a", "b"), time.Now, time.Hour)
		_, err = svc.Authenticate(context.Background(), AuthenticateParams{Email: sarahAccount.User.Email, Password: "password123"})
		assert.ErrorIs(t, err, pruneFailed)

		createFailed := errors.New("insert failed")
		sessions = newSessionStore()
		sessions.createErr = createFailed
		svc = NewAuthService(newAccountStore(sarahAccount), sessions, plainVerifier, sequence("a", "b"), time.Now, time.Hour)
		_, err = svc.Authenticate(context.Background(), AuthenticateParams{Email: sarahAccount.User.Email, Password: "password123"})
		assert.ErrorIs(t, err, createFailed)
	})

	t.Run("fails when no token can be generated", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newAccountStore(sarahAccount), newSessionStore(), plainVerifier, nil, time.Now, time.Hour)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: sarahAccount.User.Email, Password: "password123"})
		require.Error(t, err)
		assert.Equal(t, "unexpected", ErrorKind(err))
	})

	t.Run("requires its stores", func(t *testing.T) {
		t.Parallel()

		var nilService *AuthService
		_, err := nilService.Authenticate(context.Background(), AuthenticateParams{})
		assert.Error(t, err)

		_, err = NewAuthService(nil, newSessionStore(), nil, nil, nil, 0).Authenticate(context.Background(), AuthenticateParams{})
		assert.Error(t, err)
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	active := Session{ID: "s1", UserID: "u-sarah", Token: "token", ExpiresAt: authNow.Add(time.Hour)}

	t.Run("marks the session revoked", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionStore(active)
		svc := NewAuthService(nil, sessions, nil, nil, func() time.Time { return authNow }, time.Hour)

		require.NoError(t, svc.RevokeSession(context.Background(), " token "))
		require.NotNil(t, sessions.byToken["token"].RevokedAt)
		assert.Equal(t, authNow, *sessions.byToken["token"].RevokedAt)
	})

	t.Run("maps blank and unknown tokens to invalid credentials", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(nil, newSessionStore(active), nil, nil, time.Now, time.Hour)
		assert.ErrorIs(t, svc.RevokeSession(context.Background(), "  "), ErrInvalidCredentials)
		assert.ErrorIs(t, svc.RevokeSession(context.Background(), "missing"), ErrInvalidCredentials)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		failure := errors.New("update failed")
		sessions := newSessionStore(active)
		sessions.revokeErr = failure
		svc := NewAuthService(nil, sessions, nil, nil, time.Now, time.Hour)
		assert.ErrorIs(t, svc.RevokeSession(context.Background(), "token"), failure)
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	revokedAt := authNow.Add(-time.Minute)
	sessions := []Session{
		{ID: "s-admin", UserID: "u-admin", Token: "admin-token", ExpiresAt: authNow.Add(time.Hour)},
		{ID: "s-sarah", UserID: "u-sarah", Token: "sarah-token", ExpiresAt: authNow.Add(time.Hour)},
		{ID: "s-expired", UserID: "u-sarah", Token: "expired-token", ExpiresAt: authNow},
		{ID: "s-revoked", UserID: "u-sarah", Token: "revoked-token", ExpiresAt: authNow.Add(time.Hour), RevokedAt: &revokedAt},
		{ID: "s-orphan", UserID: "u-gone", Token: "orphan-token", ExpiresAt: authNow.Add(time.Hour)},
	}

	cases := []struct {
		name    string
		token   string
		want    Principal
		wantErr error
	}{
		{name: "admin session", token: " admin-token ", want: Principal{UserID: "u-admin", IsAdmin: true}},
		{name: "employee session", token: "sarah-token", want: Principal{UserID: "u-sarah"}},
		{name: "expired at the boundary", token: "expired-token", wantErr: ErrSessionExpired},
		{name: "revoked", token: "revoked-token", wantErr: ErrSessionRevoked},
		{name: "blank", token: "  ", wantErr: ErrInvalidCredentials},
		{name: "forged", token: "forged", wantErr: ErrInvalidCredentials},
		{name: "user deleted", token: "orphan-token", wantErr: ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := NewAuthService(newAccountStore(sarahAccount, adminAccount), newSessionStore(sessions...), nil, nil, func() time.Time { return authNow }, time.Hour)
			principal, err := svc.ValidateSession(context.Background(), tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, principal)
		})
	}

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		failure := errors.New("select failed")
		store := newSessionStore(sessions...)
		store.getErr = failure
		svc := NewAuthService(newAccountStore(sarahAccount), store, nil, nil, func() time.Time { return authNow }, time.Hour)
		_, err := svc.ValidateSession(context.Background(), "sarah-token")
		assert.ErrorIs(t, err, failure)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(newAccountStore(sarahAccount), newSessionStore(), nil, nil, time.Now, time.Hour)

	user, err := svc.CurrentUser(context.Background(), Principal{UserID: "u-sarah"})
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", user.Name)

	_, err = svc.CurrentUser(context.Background(), Principal{UserID: "u-gone"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.CurrentUser(context.Background(), Principal{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
