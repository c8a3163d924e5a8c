package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/propdash/internal/application"
	"github.com/example/propdash/internal/fixtures"
	"github.com/example/propdash/internal/persistence"
)

// ServiceFactory builds session managers over the demo dataset with
// deterministic ids and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Dataset     *application.Dataset
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("session")
	}
	if factory.Dataset == nil {
		dataset := fixtures.Dataset()
		factory.Dataset = &dataset
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

func WithDataset(dataset application.Dataset) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Dataset = &dataset
	}
}

// SessionManagerDeps overrides parts of a factory-built session manager.
// Nil fields fall back to the factory defaults. LoginLatency is used as is,
// so tests run without the production delay unless they ask for one.
type SessionManagerDeps struct {
	Storage        application.ClientStorage
	Resolver       application.BundleResolver
	VerifyPassword application.PasswordVerifier
	LoginLatency   time.Duration
	Logger         *slog.Logger
}

// NewSessionManager builds a manager over the factory dataset. When no storage
// is supplied a fresh Storage stub is used.
func (f *ServiceFactory) NewSessionManager(deps SessionManagerDeps) *application.SessionManager {
	storage := deps.Storage
	if storage == nil {
		storage = NewStorage()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = application.NewDataResolver(*f.Dataset)
	}
	return application.NewSessionManager(application.SessionManagerDeps{
		Users:          f.Dataset,
		Resolver:       resolver,
		Storage:        storage,
		VerifyPassword: deps.VerifyPassword,
		LoginLatency:   deps.LoginLatency,
		IDGenerator:    f.IDGenerator.NextFunc(),
		Now:            f.Clock.NowFunc(),
		Logger:         deps.Logger,
	})
}

// SessionFactory returns a registry factory that namespaces store per client.
func (f *ServiceFactory) SessionFactory(store persistence.Store) application.SessionFactory {
	return func(clientID string) *application.SessionManager {
		return f.NewSessionManager(SessionManagerDeps{Storage: persistence.Namespace(store, clientID)})
	}
}
