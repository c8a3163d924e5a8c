package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidClientID is returned when a registry lookup receives an empty client id.
var ErrInvalidClientID = errors.New("application: invalid client id")

// DefaultMaxClients bounds how many client session managers stay resident.
const DefaultMaxClients = 1024

// SessionFactory builds the session manager of one client.
type SessionFactory func(clientID string) *SessionManager

type clientEntry struct {
	manager *SessionManager
	once    sync.Once
	err     error
}

// SessionRegistry owns one SessionManager per client. Managers are restored
// from storage on first use; least recently used managers are dropped when the
// registry is full and restored again from storage when their client returns.
type SessionRegistry struct {
	factory SessionFactory
	logger  *slog.Logger

	mu      sync.Mutex
	clients *lru.Cache[string, *clientEntry]
}

// NewSessionRegistry constructs a registry holding at most maxClients managers.
func NewSessionRegistry(factory SessionFactory, maxClients int, logger *slog.Logger) (*SessionRegistry, error) {
	if factory == nil {
		return nil, fmt.Errorf("session factory not configured")
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	base := defaultLogger(logger)
	clients, err := lru.NewWithEvict[string, *clientEntry](maxClients, func(clientID string, _ *clientEntry) {
		base.Debug("evicted idle client session", "service", "SessionRegistry", "client_id", clientID)
	})
	if err != nil {
		return nil, fmt.Errorf("create client cache: %w", err)
	}
	return &SessionRegistry{factory: factory, logger: base, clients: clients}, nil
}

// Client returns the session manager for clientID, creating and restoring it on first use.
// A request still holding a manager that was evicted may briefly run beside
// the rebuilt one; both write through the same storage and the last write wins.
func (r *SessionRegistry) Client(ctx context.Context, clientID string) (*SessionManager, error) {
	if r == nil {
		return nil, fmt.Errorf("SessionRegistry is nil")
	}
	id := strings.TrimSpace(clientID)
	if id == "" {
		return nil, ErrInvalidClientID
	}

	r.mu.Lock()
	entry, ok := r.clients.Get(id)
	if !ok {
		entry = &clientEntry{manager: r.factory(id)}
		r.clients.Add(id, entry)
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.err = entry.manager.Restore(ctx)
	})
	if entry.err != nil {
		r.mu.Lock()
		if current, ok := r.clients.Peek(id); ok && current == entry {
			r.clients.Remove(id)
		}
		r.mu.Unlock()
		serviceLogger(ctx, r.logger, "SessionRegistry", "Client", "client_id", id).
			ErrorContext(ctx, "failed to restore client session", "error", entry.err, "error_kind", ErrorKind(entry.err))
		return nil, entry.err
	}
	return entry.manager, nil
}

// Len reports how many client managers are resident.
func (r *SessionRegistry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients.Len()
}
