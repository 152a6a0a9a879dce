package session

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
}

func TestStoreSetPersistsPair(t *testing.T) {
	store := newTestStore(t)

	user := models.UserProfile{Name: "Asha", Email: "a@b.c", Role: models.RoleUser, GreenScore: 42}
	if err := store.Set("tok-1", user); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated = false after Set")
	}
	if store.Token() != "tok-1" {
		t.Errorf("Token = %q", store.Token())
	}

	// A fresh store over the same file sees the persisted session.
	reloaded := NewStore(store.path, zap.NewNop())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load error = %v", err)
	}
	got, ok := reloaded.User()
	if !ok || got.Name != "Asha" || got.GreenScore != 42 {
		t.Errorf("reloaded user = %+v, ok=%v", got, ok)
	}
}

func TestStoreClearRemovesBothFields(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set("tok", models.UserProfile{Name: "X"}); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	store.Clear()

	if store.IsAuthenticated() {
		t.Error("IsAuthenticated = true after Clear")
	}
	if _, ok := store.User(); ok {
		t.Error("User still present after Clear")
	}
	if _, err := os.Stat(store.path); !os.IsNotExist(err) {
		t.Error("session file still on disk after Clear")
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	if err := store.Load(); err != nil {
		t.Errorf("Load on missing file = %v, want nil", err)
	}
	if store.IsAuthenticated() {
		t.Error("missing file produced an authenticated store")
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := store.Load(); err != nil {
		t.Errorf("Load on corrupt file = %v, want nil (discard)", err)
	}
	if store.IsAuthenticated() {
		t.Error("corrupt file produced an authenticated store")
	}
}

func TestTokenExpiryOpaqueToken(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set("not-a-jwt", models.UserProfile{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.TokenExpiry(); ok {
		t.Error("TokenExpiry reported an expiry for an opaque token")
	}
}
