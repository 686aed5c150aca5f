package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/workplace-insights/internal/logging"
)

// DefaultSessionTTL is the lifetime of a dashboard session when none is configured.
const DefaultSessionTTL = 8 * time.Hour

// CredentialStore looks up dashboard accounts.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// SessionRepository persists issued sessions keyed by token.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService signs dashboard users in and out and resolves session tokens
// into principals for the API gate.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	verifyPassword PasswordVerifier
	newToken       func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService that logs through slog.Default.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, verify, tokenGenerator, now, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService. A nil verify checks
// argon2id and bcrypt hashes; tokenGenerator is called twice per login, once
// for the session ID and once for the bearer token.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions SessionRepository, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		verifyPassword: verify,
		newToken:       tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         logging.OrDefault(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

func (s *AuthService) ready() error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil || s.sessions == nil {
		return fmt.Errorf("credential store or session repository not configured")
	}
	return nil
}

// Authenticate checks an email and password pair and issues a session.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if err = s.ready(); err != nil {
		return
	}

	email := normalizeEmail(params.Email)
	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "authentication failed", err)
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "user_id", result.User.ID, "session_id", result.Session.ID)
	}()

	var user User
	if user, err = s.checkPassword(ctx, email, params.Password); err != nil {
		return
	}

	var session Session
	if session, err = s.issueSession(ctx, user, params.Fingerprint); err != nil {
		return
	}

	result = AuthenticateResult{User: user, Session: session}
	return
}

func (s *AuthService) checkPassword(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	creds, err := s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		return User{}, credentialError(err)
	}
	if err := s.verifyPassword(creds.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return creds.User, nil
}

func (s *AuthService) issueSession(ctx context.Context, user User, fingerprint string) (Session, error) {
	id, token := s.newToken(), s.newToken()
	if token == "" {
		token = id
	}
	if token == "" {
		return Session{}, fmt.Errorf("token generator returned an empty token")
	}

	now := s.now()
	if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return Session{}, fmt.Errorf("prune expired sessions: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, Session{
		ID:          id,
		UserID:      user.ID,
		Token:       token,
		Fingerprint: strings.TrimSpace(fingerprint),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// RevokeSession ends the session behind token. Unknown tokens yield ErrInvalidCredentials.
func (s *AuthService) RevokeSession(ctx context.Context, token string) (err error) {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "RevokeSession")
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "session revocation failed", err)
			return
		}
		logger.InfoContext(ctx, "session revoked")
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredentials
	}
	if _, err = s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		return credentialError(err)
	}
	return nil
}

// ValidateSession resolves token into the principal of an active session.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if err = s.ready(); err != nil {
		return
	}

	token = strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", token != "")
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "session validation failed", err)
			return
		}
		logger.DebugContext(ctx, "session validated", "principal_id", principal.UserID)
	}()

	var session Session
	if session, err = s.activeSession(ctx, token); err != nil {
		return
	}

	var user User
	if user, err = s.userFor(ctx, session.UserID); err != nil {
		return
	}
	principal = Principal{UserID: user.ID, IsAdmin: user.IsAdmin}
	return
}

func (s *AuthService) activeSession(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return Session{}, credentialError(err)
	}

	switch {
	case session.RevokedAt != nil && !session.RevokedAt.IsZero():
		return Session{}, ErrSessionRevoked
	case !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(s.now()):
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// CurrentUser returns the account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal Principal) (User, error) {
	if s == nil || s.credentials == nil {
		return User{}, fmt.Errorf("credential store not configured")
	}
	return s.userFor(ctx, principal.UserID)
}

func (s *AuthService) userFor(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, ErrInvalidCredentials
	}
	user, err := s.credentials.GetUser(ctx, userID)
	if err != nil {
		return User{}, credentialError(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// credentialError hides which part of a credential lookup missed.
func credentialError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}
