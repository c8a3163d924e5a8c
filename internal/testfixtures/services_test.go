package testfixtures

import (
	"context"
	"testing"

	"github.com/example/propdash/internal/application"
	"github.com/example/propdash/internal/fixtures"
)

func TestServiceFactoryNewSessionManager(t *testing.T) {
	factory := NewServiceFactory()
	storage := NewStorage()

	manager := factory.NewSessionManager(SessionManagerDeps{Storage: storage})
	ok, err := manager.SwitchUser(context.Background(), fixtures.ManagerSarahID)
	if err != nil || !ok {
		t.Fatalf("SwitchUser failed: ok=%v err=%v", ok, err)
	}

	session, _ := manager.Current()
	if session.ID != "session-1" {
		t.Fatalf("expected generated id session-1, got %q", session.ID)
	}
	if !session.StartedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected start %v, got %v", factory.Clock.Now(), session.StartedAt)
	}
	if _, ok := storage.Value(application.CurrentUserKey); !ok {
		t.Fatal("expected current user persisted")
	}
}

func TestNewSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(t)
	if err := store.Set(context.Background(), "client", "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}
