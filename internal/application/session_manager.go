package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client storage keys holding the persisted session snapshot.
const (
	CurrentUserKey = "currentUser"
	UserDataKey    = "userData"
)

// DefaultLoginLatency is the artificial delay applied before a login resolves.
const DefaultLoginLatency = time.Second

const tracerName = "github.com/example/propdash/internal/application"

// UserDirectory looks up demo accounts.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// BundleResolver produces the role-shaped bundle for a user.
type BundleResolver interface {
	GetDataForUser(userID string, role Role) DataBundle
}

// ClientStorage is a string-valued key-value store scoped to one client.
// A missing key is reported with ok=false rather than an error.
type ClientStorage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// SessionManagerDeps wires a SessionManager.
type SessionManagerDeps struct {
	Users          UserDirectory
	Resolver       BundleResolver
	Storage        ClientStorage
	VerifyPassword PasswordVerifier
	LoginLatency   time.Duration
	IDGenerator    func() string
	Now            func() time.Time
	Logger         *slog.Logger
	Tracer         trace.Tracer
}

// SessionManager owns the identity state of a single client. It is the only
// component that mutates that state; every mutation is written through to
// client storage before it becomes visible in memory.
type SessionManager struct {
	users          UserDirectory
	resolver       BundleResolver
	storage        ClientStorage
	verifyPassword PasswordVerifier
	latency        time.Duration
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
	tracer         trace.Tracer

	mu       sync.RWMutex
	session  *Session
	inFlight atomic.Int32
}

// NewSessionManager constructs an unauthenticated SessionManager. Call Restore
// once to hydrate a previously persisted session.
func NewSessionManager(deps SessionManagerDeps) *SessionManager {
	verify := deps.VerifyPassword
	if verify == nil {
		verify = AcceptAnyPassword
	}
	idGenerator := deps.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	latency := deps.LoginLatency
	if latency < 0 {
		latency = 0
	}
	return &SessionManager{
		users:          deps.Users,
		resolver:       deps.Resolver,
		storage:        deps.Storage,
		verifyPassword: verify,
		latency:        latency,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(deps.Logger),
		tracer:         tracer,
	}
}

func (m *SessionManager) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, m.logger, "SessionManager", operation, attrs...)
}

// Login authenticates by email after the configured latency. It returns false
// with a nil error when the email is unknown or the password is rejected; the
// current session is left untouched in that case.
func (m *SessionManager) Login(ctx context.Context, email, password string) (ok bool, err error) {
	if m == nil {
		return false, fmt.Errorf("SessionManager is nil")
	}
	if m.users == nil {
		return false, fmt.Errorf("user directory not configured")
	}

	normalized := strings.TrimSpace(strings.ToLower(email))
	ctx, span := m.tracer.Start(ctx, "SessionManager.Login", trace.WithAttributes(attribute.String("user.email", normalized)))
	defer span.End()

	logger := m.loggerWith(ctx, "Login", "email", normalized)
	defer func() {
		span.SetAttributes(attribute.Bool("auth.success", ok))
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
		case !ok:
			logger.WarnContext(ctx, "login rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		default:
			logger.InfoContext(ctx, "login succeeded")
		}
	}()

	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	if err = m.wait(ctx); err != nil {
		return false, err
	}

	var user User
	user, err = m.users.FindUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user by email: %w", err)
	}

	if verr := m.verifyPassword(user, password); verr != nil {
		if !errors.Is(verr, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "password verification error", "error", verr)
		}
		return false, nil
	}

	if err = m.establish(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// SwitchUser replaces the session with the user identified by userID without
// any password check. It reports false when no such user exists.
func (m *SessionManager) SwitchUser(ctx context.Context, userID string) (ok bool, err error) {
	if m == nil {
		return false, fmt.Errorf("SessionManager is nil")
	}
	if m.users == nil {
		return false, fmt.Errorf("user directory not configured")
	}

	id := strings.TrimSpace(userID)
	ctx, span := m.tracer.Start(ctx, "SessionManager.SwitchUser", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	logger := m.loggerWith(ctx, "SwitchUser", "user_id", id)
	defer func() {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "switch user failed", "error", err, "error_kind", ErrorKind(err))
		case !ok:
			logger.WarnContext(ctx, "switch user target not found", "error_kind", ErrorKind(ErrNotFound))
		default:
			logger.InfoContext(ctx, "switched user")
		}
	}()

	var user User
	user, err = m.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	if err = m.establish(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears the session from memory and storage. The in-memory session is
// always cleared; storage removal failures are returned joined.
func (m *SessionManager) Logout(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("SessionManager is nil")
	}

	ctx, span := m.tracer.Start(ctx, "SessionManager.Logout")
	defer span.End()

	m.mu.Lock()
	previous := m.session
	m.session = nil
	err := m.clearStorage(ctx)
	m.mu.Unlock()

	logger := m.loggerWith(ctx, "Logout")
	if previous != nil {
		logger = logger.With("user_id", previous.User.ID, "session_id", previous.ID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to clear session storage", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "logged out")
	return nil
}

// Restore hydrates the session from client storage. Corrupted snapshots are
// removed and leave the manager unauthenticated without returning an error;
// only storage read failures are returned.
func (m *SessionManager) Restore(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("SessionManager is nil")
	}
	if m.storage == nil {
		return nil
	}

	ctx, span := m.tracer.Start(ctx, "SessionManager.Restore")
	defer span.End()
	logger := m.loggerWith(ctx, "Restore")

	m.mu.Lock()
	defer m.mu.Unlock()

	rawUser, ok, err := m.storage.GetItem(ctx, CurrentUserKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to read session snapshot", "error", err, "error_kind", ErrorKind(err))
		return fmt.Errorf("read %s: %w", CurrentUserKey, err)
	}
	if !ok {
		if rerr := m.storage.RemoveItem(ctx, UserDataKey); rerr != nil {
			logger.WarnContext(ctx, "failed to remove orphaned bundle snapshot", "error", rerr)
		}
		logger.DebugContext(ctx, "no persisted session")
		return nil
	}

	user, err := DecodeUser([]byte(rawUser))
	if err != nil {
		m.discardLocked(ctx, logger, err)
		return nil
	}

	var bundle DataBundle
	rawData, ok, err := m.storage.GetItem(ctx, UserDataKey)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read bundle snapshot", "error", err, "error_kind", ErrorKind(err))
		return fmt.Errorf("read %s: %w", UserDataKey, err)
	}
	if ok {
		bundle, err = DecodeBundle([]byte(rawData))
		if err != nil {
			m.discardLocked(ctx, logger, err)
			return nil
		}
		if bundle != nil && bundle.Role() != user.Role {
			m.discardLocked(ctx, logger, fmt.Errorf("%w: bundle role %s for user role %s", ErrCorruptSnapshot, bundle.Role(), user.Role))
			return nil
		}
		if bundle != nil && bundle.OwnerID() != user.ID {
			m.discardLocked(ctx, logger, fmt.Errorf("%w: bundle of user %q for user %q", ErrCorruptSnapshot, bundle.OwnerID(), user.ID))
			return nil
		}
	}
	if bundle == nil && m.resolver != nil {
		bundle = m.resolver.GetDataForUser(user.ID, user.Role)
		if err := m.writeBundle(ctx, bundle); err != nil {
			logger.WarnContext(ctx, "failed to persist re-resolved bundle", "error", err)
		}
	}

	m.session = &Session{
		ID:        m.idGenerator(),
		User:      user,
		Data:      bundle,
		StartedAt: m.now(),
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	logger.InfoContext(ctx, "session restored", "user_id", user.ID, "role", string(user.Role))
	return nil
}

// Current returns a copy of the active session, if any. The bundle is deep
// copied so callers cannot change what the manager holds.
func (m *SessionManager) Current() (Session, bool) {
	if m == nil {
		return Session{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, false
	}
	session := *m.session
	session.User = cloneUser(session.User)
	session.Data = cloneBundle(session.Data)
	return session, true
}

// User returns the authenticated user or nil.
func (m *SessionManager) User() *User {
	session, ok := m.Current()
	if !ok {
		return nil
	}
	user := session.User
	return &user
}

// Data returns the bundle of the authenticated user or nil.
func (m *SessionManager) Data() DataBundle {
	session, ok := m.Current()
	if !ok {
		return nil
	}
	return session.Data
}

// Loading reports whether a login is waiting on its latency or lookup.
func (m *SessionManager) Loading() bool {
	if m == nil {
		return false
	}
	return m.inFlight.Load() > 0
}

func (m *SessionManager) establish(ctx context.Context, user User) error {
	var bundle DataBundle
	if m.resolver != nil {
		bundle = m.resolver.GetDataForUser(user.ID, user.Role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persistLocked(ctx, user, bundle); err != nil {
		// Put back whatever the in-memory session still holds.
		var rerr error
		if m.session != nil {
			rerr = m.persistLocked(ctx, m.session.User, m.session.Data)
		} else {
			rerr = m.clearStorage(ctx)
		}
		if rerr != nil {
			err = errors.Join(err, fmt.Errorf("roll back session snapshot: %w", rerr))
		}
		return err
	}

	m.session = &Session{
		ID:        m.idGenerator(),
		User:      user,
		Data:      bundle,
		StartedAt: m.now(),
	}
	return nil
}

func (m *SessionManager) persistLocked(ctx context.Context, user User, bundle DataBundle) error {
	if m.storage == nil {
		return nil
	}
	userJSON, err := EncodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.storage.SetItem(ctx, CurrentUserKey, string(userJSON)); err != nil {
		return fmt.Errorf("persist %s: %w", CurrentUserKey, err)
	}
	return m.writeBundle(ctx, bundle)
}

func (m *SessionManager) writeBundle(ctx context.Context, bundle DataBundle) error {
	if m.storage == nil {
		return nil
	}
	if bundle == nil {
		if err := m.storage.RemoveItem(ctx, UserDataKey); err != nil {
			return fmt.Errorf("remove %s: %w", UserDataKey, err)
		}
		return nil
	}
	data, err := EncodeBundle(bundle)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := m.storage.SetItem(ctx, UserDataKey, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", UserDataKey, err)
	}
	return nil
}

func (m *SessionManager) discardLocked(ctx context.Context, logger *slog.Logger, cause error) {
	logger.WarnContext(ctx, "discarding corrupted session snapshot", "error", cause, "error_kind", ErrorKind(cause))
	m.session = nil
	if err := m.clearStorage(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to remove corrupted session snapshot", "error", err)
	}
}

func (m *SessionManager) clearStorage(ctx context.Context) error {
	if m.storage == nil {
		return nil
	}
	var errs []error
	for _, key := range []string{CurrentUserKey, UserDataKey} {
		if err := m.storage.RemoveItem(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (m *SessionManager) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
