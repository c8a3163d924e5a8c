package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/propdash/internal/persistence"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "nested", "propdash.db")
	store, err := Open(context.Background(), DefaultConfig(dsn))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, dsn
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, ok, err := store.Get(ctx, "client-1", "currentUser"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "client-1", "currentUser", `{"id":"1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "client-1", "currentUser", `{"id":"2"}`); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "client-1", "currentUser")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != `{"id":"2"}` {
		t.Fatalf("unexpected value %q", value)
	}

	if _, ok, _ := store.Get(ctx, "client-2", "currentUser"); ok {
		t.Fatal("namespaces must not share keys")
	}

	if err := store.Delete(ctx, "client-1", "currentUser"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "client-1", "currentUser"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "client-1", "currentUser"); ok {
		t.Fatal("expected key to be removed")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, dsn := newTestStore(t)

	if err := store.Set(ctx, "client-1", "userData", "null"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(ctx, DefaultConfig(dsn))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "client-1", "userData")
	if err != nil || !ok || value != "null" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}

	var applied int
	if err := reopened.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != len(migrations) {
		t.Fatalf("expected %d migrations recorded once, got %d", len(migrations), applied)
	}
}

func TestStoreInMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, InMemoryConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "ns", "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, ok, _ := store.Get(ctx, "ns", "k"); !ok || value != "v" {
		t.Fatalf("unexpected value %q ok=%v", value, ok)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestStoreRejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Set(ctx, "", "k", "v"); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, _, err := store.Get(ctx, "ns", ""); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := store.Delete(ctx, "", ""); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty dsn", mutate: func(c *Config) { c.DSN = " " }, wantErr: true},
		{name: "bad journal", mutate: func(c *Config) { c.JournalMode = "FAST" }, wantErr: true},
		{name: "bad synchronous", mutate: func(c *Config) { c.Synchronous = "SOMETIMES" }, wantErr: true},
		{name: "negative busy timeout", mutate: func(c *Config) { c.BusyTimeout = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig("data/propdash.db")
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	cfg := RetryConfig{MaxRetries: 2, InitialDelay: 0, MaxDelay: 0, BackoffFactor: 1}

	t.Run("retries busy errors", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), cfg, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Fatalf("expected success after 3 calls, got calls=%d err=%v", calls, err)
		}
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := withRetry(context.Background(), cfg, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) || calls != 1 {
			t.Fatalf("expected single failing call, got calls=%d err=%v", calls, err)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		err := withRetry(context.Background(), cfg, func() error {
			return errors.New("database is locked")
		})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
	})
}
