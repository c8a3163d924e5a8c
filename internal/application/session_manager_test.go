package application_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/propdash/internal/application"
	"github.com/example/propdash/internal/fixtures"
	"github.com/example/propdash/internal/testfixtures"
)

func TestSessionManager_Login(t *testing.T) {
	t.Parallel()

	t.Run("establishes a manager session", func(t *testing.T) {
		t.Parallel()

		storage := testfixtures.NewStorage()
		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})

		ok, err := manager.Login(context.Background(), " Sarah@PropertyManagement.com ", "anything")
		if err != nil || !ok {
			t.Fatalf("Login failed: ok=%v err=%v", ok, err)
		}

		user := manager.User()
		if user == nil || user.ID != fixtures.ManagerSarahID || user.Role != application.RolePropertyManager {
			t.Fatalf("unexpected user %#v", user)
		}
		bundle, isManager := manager.Data().(*application.ManagerBundle)
		if !isManager || len(bundle.Properties) != 5 {
			t.Fatalf("expected manager bundle with 5 properties, got %#v", manager.Data())
		}
		if manager.Loading() {
			t.Fatal("expected loading to be false after login")
		}

		rawUser, ok := storage.Value(application.CurrentUserKey)
		if !ok {
			t.Fatal("expected currentUser persisted")
		}
		persisted, err := application.DecodeUser([]byte(rawUser))
		if err != nil || !reflect.DeepEqual(persisted, *user) {
			t.Fatalf("persisted user differs: %#v err=%v", persisted, err)
		}
		rawData, ok := storage.Value(application.UserDataKey)
		if !ok {
			t.Fatal("expected userData persisted")
		}
		data, err := application.DecodeBundle([]byte(rawData))
		if err != nil || !reflect.DeepEqual(data, manager.Data()) {
			t.Fatalf("persisted bundle differs: err=%v", err)
		}
	})

	t.Run("unknown email leaves the session unchanged", func(t *testing.T) {
		t.Parallel()

		storage := testfixtures.NewStorage()
		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
		ctx := context.Background()

		if ok, err := manager.Login(ctx, "nobody@example.com", "x"); err != nil || ok {
			t.Fatalf("expected rejected login, got ok=%v err=%v", ok, err)
		}
		if manager.User() != nil || manager.Data() != nil {
			t.Fatal("expected no session")
		}
		if storage.Writes() != 0 {
			t.Fatalf("expected no storage writes, got %d", storage.Writes())
		}

		if ok, _ := manager.Login(ctx, fixtures.TenantMichaelEmail, "x"); !ok {
			t.Fatal("expected tenant login")
		}
		before, _ := manager.Current()
		writes := storage.Writes()

		if ok, err := manager.Login(ctx, "nobody@example.com", "x"); err != nil || ok {
			t.Fatalf("expected rejected login, got ok=%v err=%v", ok, err)
		}
		after, _ := manager.Current()
		if !reflect.DeepEqual(before, after) || storage.Writes() != writes {
			t.Fatal("failed login must not touch the existing session")
		}
	})

	t.Run("strict passwords", func(t *testing.T) {
		t.Parallel()

		hashes, err := fixtures.DemoCredentials(application.Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
		if err != nil {
			t.Fatalf("DemoCredentials failed: %v", err)
		}
		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{
			VerifyPassword: application.NewHashedPasswordVerifier(hashes),
		})
		ctx := context.Background()

		if ok, err := manager.Login(ctx, fixtures.ProviderABCEmail, "wrong"); err != nil || ok {
			t.Fatalf("expected wrong password rejected, got ok=%v err=%v", ok, err)
		}
		if ok, err := manager.Login(ctx, fixtures.ProviderABCEmail, fixtures.DemoPassword); err != nil || !ok {
			t.Fatalf("expected demo password accepted, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("cancellation during latency", func(t *testing.T) {
		t.Parallel()

		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{LoginLatency: time.Hour})
		ctx, cancel := context.WithCancel(context.Background())

		type result struct {
			ok  bool
			err error
		}
		done := make(chan result, 1)
		go func() {
			ok, err := manager.Login(ctx, fixtures.ManagerSarahEmail, "x")
			done <- result{ok, err}
		}()

		deadline := time.Now().Add(5 * time.Second)
		for !manager.Loading() {
			if time.Now().After(deadline) {
				t.Fatal("login never reported loading")
			}
			time.Sleep(time.Millisecond)
		}
		cancel()

		select {
		case res := <-done:
			if res.ok || !errors.Is(res.err, context.Canceled) {
				t.Fatalf("expected cancellation, got ok=%v err=%v", res.ok, res.err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("login did not observe cancellation")
		}
		if manager.Loading() || manager.User() != nil {
			t.Fatal("cancelled login must not leave state behind")
		}
	})

	t.Run("waits for the configured latency", func(t *testing.T) {
		t.Parallel()

		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{LoginLatency: 20 * time.Millisecond})
		start := time.Now()
		if ok, err := manager.Login(context.Background(), fixtures.ManagerSarahEmail, "x"); err != nil || !ok {
			t.Fatalf("Login failed: ok=%v err=%v", ok, err)
		}
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Fatalf("expected login to wait, took %v", elapsed)
		}
	})
}

func TestSessionManager_SwitchUser(t *testing.T) {
	t.Parallel()

	storage := testfixtures.NewStorage()
	manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
	ctx := context.Background()

	if ok, err := manager.Login(ctx, fixtures.ManagerSarahEmail, "x"); err != nil || !ok {
		t.Fatalf("Login failed: ok=%v err=%v", ok, err)
	}

	ok, err := manager.SwitchUser(ctx, fixtures.ProviderABCID)
	if err != nil || !ok {
		t.Fatalf("SwitchUser failed: ok=%v err=%v", ok, err)
	}
	if user := manager.User(); user.Name != "ABC Plumbing Services" {
		t.Fatalf("unexpected user %q", user.Name)
	}
	bundle, isProvider := manager.Data().(*application.ProviderBundle)
	if !isProvider {
		t.Fatalf("expected provider bundle, got %T", manager.Data())
	}
	if got := requestIDs(bundle.WorkOrders); !reflect.DeepEqual(got, []string{"sr-1", "sr-2", "sr-4"}) {
		t.Fatalf("unexpected work orders %v", got)
	}

	rawUser, _ := storage.Value(application.CurrentUserKey)
	if persisted, _ := application.DecodeUser([]byte(rawUser)); persisted.ID != fixtures.ProviderABCID {
		t.Fatalf("expected provider persisted, got %q", persisted.ID)
	}

	if ok, err := manager.SwitchUser(ctx, "999"); err != nil || ok {
		t.Fatalf("expected unknown id rejected, got ok=%v err=%v", ok, err)
	}
	if manager.User().ID != fixtures.ProviderABCID {
		t.Fatal("unknown id must not change the session")
	}
}

func TestSessionManager_StorageFailure(t *testing.T) {
	t.Parallel()

	storage := testfixtures.NewStorage()
	manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
	ctx := context.Background()

	if ok, _ := manager.Login(ctx, fixtures.ManagerSarahEmail, "x"); !ok {
		t.Fatal("expected login")
	}

	boom := errors.New("quota exceeded")
	storage.FailSet(application.UserDataKey, boom)

	ok, err := manager.SwitchUser(ctx, fixtures.TenantEmilyID)
	if ok || !errors.Is(err, boom) {
		t.Fatalf("expected storage failure, got ok=%v err=%v", ok, err)
	}
	if manager.User().ID != fixtures.ManagerSarahID {
		t.Fatalf("session changed despite failed write: %q", manager.User().ID)
	}
	if _, isManager := manager.Data().(*application.ManagerBundle); !isManager {
		t.Fatalf("bundle changed despite failed write: %T", manager.Data())
	}
	rawUser, _ := storage.Value(application.CurrentUserKey)
	if persisted, _ := application.DecodeUser([]byte(rawUser)); persisted.ID != fixtures.ManagerSarahID {
		t.Fatalf("expected previous user restored in storage, got %q", persisted.ID)
	}
}

func TestSessionManager_Logout(t *testing.T) {
	t.Parallel()

	storage := testfixtures.NewStorage()
	manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
	ctx := context.Background()

	if err := manager.Logout(ctx); err != nil {
		t.Fatalf("Logout without session failed: %v", err)
	}

	if ok, _ := manager.Login(ctx, fixtures.TenantMichaelEmail, "x"); !ok {
		t.Fatal("expected login")
	}
	for i := 0; i < 2; i++ {
		if err := manager.Logout(ctx); err != nil {
			t.Fatalf("Logout %d failed: %v", i, err)
		}
	}
	if manager.User() != nil || manager.Data() != nil {
		t.Fatal("expected cleared session")
	}
	for _, key := range []string{application.CurrentUserKey, application.UserDataKey} {
		if _, ok := storage.Value(key); ok {
			t.Fatalf("expected %s removed", key)
		}
	}

	if ok, _ := manager.Login(ctx, fixtures.TenantMichaelEmail, "x"); !ok {
		t.Fatal("expected login")
	}
	boom := errors.New("storage offline")
	storage.FailRemove(application.UserDataKey, boom)
	if err := manager.Logout(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if manager.User() != nil {
		t.Fatal("logout must clear memory even when storage fails")
	}
}

func TestSessionManager_Restore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trips the persisted session", func(t *testing.T) {
		t.Parallel()

		factory := testfixtures.NewServiceFactory()
		storage := testfixtures.NewStorage()
		first := factory.NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
		if ok, _ := first.Login(ctx, fixtures.TenantMichaelEmail, "x"); !ok {
			t.Fatal("expected login")
		}

		second := factory.NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
		if err := second.Restore(ctx); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if !reflect.DeepEqual(second.User(), first.User()) {
			t.Fatalf("restored user differs: %#v", second.User())
		}
		if !reflect.DeepEqual(second.Data(), first.Data()) {
			t.Fatalf("restored bundle differs: %#v", second.Data())
		}
	})

	t.Run("nothing persisted", func(t *testing.T) {
		t.Parallel()

		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{})
		if err := manager.Restore(ctx); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if manager.User() != nil {
			t.Fatal("expected no user")
		}
	})

	corrupt := []struct {
		name     string
		user     string
		userData string
	}{
		{name: "garbage user", user: "{not json", userData: "null"},
		{name: "unknown role", user: `{"id":"1","role":"janitor"}`, userData: "null"},
		{name: "garbage bundle", user: `{"id":"2","role":"tenant"}`, userData: "[1,2"},
		{name: "bundle for another role", user: `{"id":"2","role":"tenant"}`, userData: `{"role":"property_manager","manager":{}}`},
		{name: "bundle for another tenant", user: `{"id":"2","role":"tenant"}`, userData: `{"role":"tenant","tenant":{"tenant":{"id":"4","role":"tenant"},"serviceRequests":[{"id":"sr-3"}]}}`},
		{name: "bundle for another provider", user: `{"id":"3","role":"service_provider"}`, userData: `{"role":"service_provider","provider":{"provider":{"id":"5","role":"service_provider"}}}`},
		{name: "bundle without owner", user: `{"id":"2","role":"tenant"}`, userData: `{"role":"tenant","tenant":{}}`},
	}
	for _, tt := range corrupt {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			storage := testfixtures.NewStorage()
			storage.Put(application.CurrentUserKey, tt.user)
			storage.Put(application.UserDataKey, tt.userData)
			manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})

			if err := manager.Restore(ctx); err != nil {
				t.Fatalf("corrupt snapshot must not fail Restore: %v", err)
			}
			if manager.User() != nil || manager.Data() != nil {
				t.Fatal("expected unauthenticated manager")
			}
			for _, key := range []string{application.CurrentUserKey, application.UserDataKey} {
				if _, ok := storage.Value(key); ok {
					t.Fatalf("expected %s removed", key)
				}
			}
		})
	}

	t.Run("missing bundle is resolved again", func(t *testing.T) {
		t.Parallel()

		storage := testfixtures.NewStorage()
		user, _ := (&application.Dataset{Users: fixtures.Users()}).GetUser(ctx, fixtures.ProviderEliteID)
		raw, _ := application.EncodeUser(user)
		storage.Put(application.CurrentUserKey, string(raw))
		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})

		if err := manager.Restore(ctx); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		bundle, ok := manager.Data().(*application.ProviderBundle)
		if !ok || !reflect.DeepEqual(requestIDs(bundle.WorkOrders), []string{"sr-3", "sr-6"}) {
			t.Fatalf("expected re-resolved provider bundle, got %#v", manager.Data())
		}
		if _, ok := storage.Value(application.UserDataKey); !ok {
			t.Fatal("expected re-resolved bundle persisted")
		}
	})

	t.Run("storage read failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk error")
		storage := testfixtures.NewStorage()
		storage.FailGet(application.CurrentUserKey, boom)
		manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})

		if err := manager.Restore(ctx); !errors.Is(err, boom) {
			t.Fatalf("expected read error, got %v", err)
		}
	})
}

func TestSessionManager_CurrentReturnsIndependentCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{})
	if ok, err := manager.SwitchUser(ctx, fixtures.TenantMichaelID); err != nil || !ok {
		t.Fatalf("SwitchUser failed: ok=%v err=%v", ok, err)
	}

	session, ok := manager.Current()
	if !ok {
		t.Fatal("expected active session")
	}
	bundle := session.Data.(*application.TenantBundle)
	bundle.ServiceRequests[0].Title = "changed"
	bundle.Property.Name = "changed"
	session.User.Name = "changed"

	held := manager.Data().(*application.TenantBundle)
	if held.ServiceRequests[0].Title == "changed" || held.Property.Name == "changed" {
		t.Fatal("mutating the returned bundle changed the session")
	}
	if manager.User().Name == "changed" {
		t.Fatal("mutating the returned user changed the session")
	}
}

func TestSessionManager_ConcurrentSwitchesStayConsistent(t *testing.T) {
	t.Parallel()

	storage := testfixtures.NewStorage()
	manager := testfixtures.NewServiceFactory().NewSessionManager(testfixtures.SessionManagerDeps{Storage: storage})
	ctx := context.Background()

	ids := []string{fixtures.ManagerSarahID, fixtures.TenantMichaelID, fixtures.ProviderABCID, fixtures.TenantEmilyID}
	done := make(chan struct{})
	for _, id := range ids {
		go func(id string) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 10; i++ {
				_, _ = manager.SwitchUser(ctx, id)
			}
		}(id)
	}
	for range ids {
		<-done
	}

	current := manager.User()
	rawUser, _ := storage.Value(application.CurrentUserKey)
	persisted, err := application.DecodeUser([]byte(rawUser))
	if err != nil || persisted.ID != current.ID {
		t.Fatalf("memory %q and storage %q disagree (err=%v)", current.ID, persisted.ID, err)
	}
	if manager.Data().Role() != current.Role {
		t.Fatalf("bundle role %s does not match user role %s", manager.Data().Role(), current.Role)
	}
}
