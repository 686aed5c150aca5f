package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/workplace-insights/internal/application"
)

// ServiceFactory builds application services over shared repositories with a
// deterministic clock and identifiers.
type ServiceFactory struct {
	Repos       application.Repositories
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory reading from repos.
func NewServiceFactory(repos application.Repositories, opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Repos:       repos,
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(),
		Location:    time.UTC,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator()
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	return factory
}

func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLocation sets the zone used for calendar-day and month bucketing.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

func (f *ServiceFactory) Dashboard() *application.DashboardService {
	return application.NewDashboardServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

func (f *ServiceFactory) Employees() *application.EmployeeService {
	return application.NewEmployeeServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

func (f *ServiceFactory) Alerts() *application.AlertService {
	return application.NewAlertServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

func (f *ServiceFactory) Performance() *application.PerformanceService {
	return application.NewPerformanceServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

func (f *ServiceFactory) Retention() *application.RetentionService {
	return application.NewRetentionServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

func (f *ServiceFactory) Risks() *application.RiskService {
	return application.NewRiskServiceWithLogger(f.Repos, f.Clock.NowFunc(), f.Location, f.Logger)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
// Zero values fall back to the factory clock, a "token" ID sequence and an 8h TTL.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	SessionTTL     time.Duration
}

func (f *ServiceFactory) Auth(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.IDGenerator.NextFunc("token")
	}
	return application.NewAuthServiceWithLogger(
		deps.Credentials,
		deps.Sessions,
		deps.PasswordVerify,
		token,
		f.Clock.NowFunc(),
		deps.SessionTTL,
		f.Logger,
	)
}
