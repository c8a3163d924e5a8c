package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/propdash/internal/application"
	"github.com/example/propdash/internal/config"
	"github.com/example/propdash/internal/fixtures"
	httptransport "github.com/example/propdash/internal/http"
	"github.com/example/propdash/internal/logging"
	"github.com/example/propdash/internal/persistence"
	"github.com/example/propdash/internal/persistence/memory"
	"github.com/example/propdash/internal/persistence/postgres"
	"github.com/example/propdash/internal/persistence/sqlite"
	"github.com/example/propdash/internal/telemetry"
)

const serviceName = "propdash"

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logger = logging.New(os.Stdout, level)
	}
	slog.SetDefault(logger)

	shutdownTracing := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		Logger:      logger,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to shutdown tracing", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	handler, err := buildHandler(cfg, store, logger)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(handler, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("propdash API listening", "addr", server.Addr, "storage", cfg.StorageDriver, "strict_passwords", cfg.StrictPasswords)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (persistence.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresURL)
	case config.DriverSQLite, "":
		return sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func buildHandler(cfg config.Config, store persistence.Store, logger *slog.Logger) (http.Handler, error) {
	dataset := fixtures.Dataset()
	resolver := application.NewDataResolver(dataset, application.WithDemoFallback(cfg.DemoFallback))

	var verify application.PasswordVerifier = application.AcceptAnyPassword
	if cfg.StrictPasswords {
		hashes, err := fixtures.DemoCredentials(application.DefaultArgon2idParams)
		if err != nil {
			return nil, fmt.Errorf("hash demo credentials: %w", err)
		}
		verify = application.NewHashedPasswordVerifier(hashes)
	}

	registry, err := application.NewSessionRegistry(func(clientID string) *application.SessionManager {
		return application.NewSessionManager(application.SessionManagerDeps{
			Users:          &dataset,
			Resolver:       resolver,
			Storage:        persistence.Namespace(store, clientID),
			VerifyPassword: verify,
			LoginLatency:   cfg.LoginLatency,
			IDGenerator:    uuid.NewString,
			Now:            time.Now,
			Logger:         logger,
		})
	}, cfg.MaxClients, logger)
	if err != nil {
		return nil, err
	}

	var health httptransport.HealthCheck
	if p, ok := store.(pinger); ok {
		health = p.Ping
	}

	return httptransport.NewRouter(httptransport.RouterConfig{
		Sessions: httptransport.NewSessionHandler(registry, &dataset, logger),
		Health:   health,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.ClientIdentity(false),
		},
	}), nil
}
