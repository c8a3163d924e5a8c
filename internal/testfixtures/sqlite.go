package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/propdash/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated store in a temporary directory. The store is
// closed when the test finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "propdash.db")
	store, err := sqlite.Open(context.Background(), sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
