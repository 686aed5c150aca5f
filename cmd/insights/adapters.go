package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/persistence"
	"github.com/example/workplace-insights/internal/persistence/sqlite"
)

// newRepositories exposes the SQLite storage through the application read interfaces.
func newRepositories(storage *sqlite.Storage) application.Repositories {
	return application.Repositories{
		Users:       &userReaderAdapter{repo: storage.Users},
		Departments: &departmentReaderAdapter{repo: storage.Departments},
		Messages:    &messageReaderAdapter{repo: storage.Messages},
		Alerts:      &alertStoreAdapter{repo: storage.Alerts},
		Calendar:    &calendarReaderAdapter{repo: storage.Calendar},
		Metrics:     &metricsReaderAdapter{repo: storage.Metrics},
		Files:       &fileReaderAdapter{repo: storage.Files},
	}
}

// mapError translates persistence sentinels into their application equivalents.
func mapError(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return application.ErrNotFound
	}
	return err
}

func convertAll[From, To any](items []From, convert func(From) To) []To {
	out := make([]To, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

type userReaderAdapter struct {
	repo persistence.UserRepository
}

func (a *userReaderAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userReaderAdapter) ListUsers(ctx context.Context, query application.UserQuery) ([]application.User, error) {
	stored, err := a.repo.ListUsers(ctx, persistence.UserFilter(query))
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, toApplicationUser), nil
}

type departmentReaderAdapter struct {
	repo persistence.DepartmentRepository
}

func (a *departmentReaderAdapter) ListDepartments(ctx context.Context) ([]application.Department, error) {
	stored, err := a.repo.ListDepartments(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(d persistence.Department) application.Department { return application.Department(d) }), nil
}

type messageReaderAdapter struct {
	repo persistence.MessageRepository
}

func (a *messageReaderAdapter) ListMessages(ctx context.Context, query application.MessageQuery) ([]application.Message, error) {
	stored, err := a.repo.ListMessages(ctx, persistence.MessageFilter(query))
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, toApplicationMessage), nil
}

type alertStoreAdapter struct {
	repo persistence.AlertRepository
}

func (a *alertStoreAdapter) GetAlert(ctx context.Context, id string) (application.RiskAlert, error) {
	stored, err := a.repo.GetAlert(ctx, id)
	if err != nil {
		return application.RiskAlert{}, mapError(err)
	}
	return toApplicationAlert(stored), nil
}

func (a *alertStoreAdapter) ListAlerts(ctx context.Context, query application.AlertQuery) ([]application.RiskAlert, error) {
	stored, err := a.repo.ListAlerts(ctx, persistence.AlertFilter{
		EmployeeID:     query.EmployeeID,
		Type:           string(query.Type),
		UnresolvedOnly: query.UnresolvedOnly,
		Descending:     query.Descending,
		Limit:          query.Limit,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, toApplicationAlert), nil
}

func (a *alertStoreAdapter) ListFlaggedMessages(ctx context.Context, alertID string) ([]application.Message, error) {
	stored, err := a.repo.ListAlertMessages(ctx, alertID)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, toApplicationMessage), nil
}

func (a *alertStoreAdapter) ResolveAlert(ctx context.Context, id string, resolvedAt time.Time) (application.RiskAlert, error) {
	stored, err := a.repo.ResolveAlert(ctx, id, resolvedAt)
	if err != nil {
		return application.RiskAlert{}, mapError(err)
	}
	return toApplicationAlert(stored), nil
}

type calendarReaderAdapter struct {
	repo persistence.CalendarRepository
}

func (a *calendarReaderAdapter) ListCalendarItems(ctx context.Context, query application.CalendarQuery) ([]application.CalendarItem, error) {
	stored, err := a.repo.ListCalendarItems(ctx, persistence.CalendarFilter(query))
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(c persistence.CalendarItem) application.CalendarItem { return application.CalendarItem(c) }), nil
}

type metricsReaderAdapter struct {
	repo persistence.MetricsRepository
}

func (a *metricsReaderAdapter) ListPerformance(ctx context.Context) ([]application.PerformanceData, error) {
	stored, err := a.repo.ListPerformance(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(p persistence.PerformanceData) application.PerformanceData { return application.PerformanceData(p) }), nil
}

func (a *metricsReaderAdapter) ListRetention(ctx context.Context) ([]application.RetentionData, error) {
	stored, err := a.repo.ListRetention(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(r persistence.RetentionData) application.RetentionData { return application.RetentionData(r) }), nil
}

func (a *metricsReaderAdapter) GetRetention(ctx context.Context, userID string) (application.RetentionData, error) {
	stored, err := a.repo.GetRetention(ctx, userID)
	if err != nil {
		return application.RetentionData{}, mapError(err)
	}
	return application.RetentionData(stored), nil
}

func (a *metricsReaderAdapter) LatestGlynacScores(ctx context.Context, limit int) ([]application.GlynacScore, error) {
	stored, err := a.repo.LatestGlynacScores(ctx, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(s persistence.GlynacScore) application.GlynacScore { return application.GlynacScore(s) }), nil
}

type fileReaderAdapter struct {
	repo persistence.FileRepository
}

func (a *fileReaderAdapter) ListFiles(ctx context.Context, query application.FileQuery) ([]application.File, error) {
	stored, err := a.repo.ListFiles(ctx, query.Limit)
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(f persistence.File) application.File { return application.File(f) }), nil
}

func (a *fileReaderAdapter) ListFileActivities(ctx context.Context, query application.FileActivityQuery) ([]application.FileActivity, error) {
	stored, err := a.repo.ListFileActivities(ctx, persistence.FileActivityFilter(query))
	if err != nil {
		return nil, mapError(err)
	}
	return convertAll(stored, func(f persistence.FileActivity) application.FileActivity { return application.FileActivity(f) }), nil
}

func (a *fileReaderAdapter) GetFile(ctx context.Context, id string) (application.File, error) {
	stored, err := a.repo.GetFile(ctx, id)
	if err != nil {
		return application.File{}, mapError(err)
	}
	return application.File(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, persistence.Session(session))
	if err != nil {
		return application.Session{}, mapError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapError(a.repo.DeleteExpiredSessions(ctx, reference))
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapError(err)
	}
	return toApplicationUser(stored), nil
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Department: model.Department,
		IsAdmin:    model.IsAdmin,
		JoinDate:   model.JoinDate,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toApplicationMessage(model persistence.Message) application.Message {
	return application.Message(model)
}

func toApplicationAlert(model persistence.RiskAlert) application.RiskAlert {
	return application.RiskAlert{
		ID:          model.ID,
		EmployeeID:  model.EmployeeID,
		Type:        application.AlertType(model.Type),
		Severity:    application.Severity(model.Severity),
		Title:       model.Title,
		Description: model.Description,
		IsResolved:  model.IsResolved,
		ResolvedAt:  model.ResolvedAt,
		Timestamp:   model.Timestamp,
	}
}
