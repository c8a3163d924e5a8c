package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/propdash/internal/config"
	httptransport "github.com/example/propdash/internal/http"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	memoryStore, err := openStore(ctx, config.Config{StorageDriver: config.DriverMemory})
	if err != nil {
		t.Fatalf("memory store failed: %v", err)
	}
	_ = memoryStore.Close()

	sqliteStore, err := openStore(ctx, config.Config{StorageDriver: config.DriverSQLite, SQLiteDSN: filepath.Join(t.TempDir(), "propdash.db")})
	if err != nil {
		t.Fatalf("sqlite store failed: %v", err)
	}
	_ = sqliteStore.Close()

	if _, err := openStore(ctx, config.Config{StorageDriver: "redis"}); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestBuildHandlerServesLoginAcrossRequests(t *testing.T) {
	ctx := context.Background()
	store, err := openStore(ctx, config.Config{StorageDriver: config.DriverSQLite, SQLiteDSN: filepath.Join(t.TempDir(), "propdash.db")})
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer store.Close()

	cfg := config.Config{StorageDriver: config.DriverSQLite, MaxClients: 4}
	handler, err := buildHandler(cfg, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildHandler failed: %v", err)
	}

	login := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"michael.chen@email.com","password":"x"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, login)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var clientCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == httptransport.ClientCookieName {
			clientCookie = cookie
		}
	}
	if clientCookie == nil {
		t.Fatal("expected client cookie")
	}

	session := httptest.NewRequest(http.MethodGet, "/session", nil)
	session.AddCookie(clientCookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, session)
	if !strings.Contains(rec.Body.String(), `"role":"tenant"`) {
		t.Fatalf("expected tenant session, got %s", rec.Body.String())
	}

	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("expected healthy store, got %d", health.Code)
	}
}
