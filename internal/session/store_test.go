package session

import (
	"database/sql"
	"testing"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSQLiteStore(t *testing.T) {
	sess := models.Session{
		Token: "tok-123",
		User:  &models.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com"},
	}

	t.Run("Set And Get", func(t *testing.T) {
		store, err := NewSQLiteStore(newTestDB(t))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if store.Get().Authenticated() {
			t.Error("fresh store should be anonymous")
		}

		if err := store.Set(sess); err != nil {
			t.Fatalf("failed to set session: %v", err)
		}

		got := store.Get()
		if got.Token != "tok-123" {
			t.Errorf("expected token tok-123, got %s", got.Token)
		}
		if got.User == nil || got.User.ID != "u1" {
			t.Errorf("expected user u1, got %+v", got.User)
		}
	})

	t.Run("Set Rejects Invalid Pairing", func(t *testing.T) {
		store, err := NewSQLiteStore(newTestDB(t))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.Set(models.Session{Token: "orphan"}); err == nil {
			t.Error("expected error for token without user")
		}
		if store.Get().Authenticated() {
			t.Error("failed set must not change state")
		}
	})

	t.Run("Persists Across Instances", func(t *testing.T) {
		db := newTestDB(t)

		first, err := NewSQLiteStore(db)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := first.Set(sess); err != nil {
			t.Fatalf("failed to set session: %v", err)
		}

		second, err := NewSQLiteStore(db)
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}

		got := second.Get()
		if got.Token != sess.Token {
			t.Errorf("expected persisted token, got %q", got.Token)
		}
		if got.User == nil || got.User.Email != "ada@example.com" {
			t.Errorf("expected persisted profile, got %+v", got.User)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := newTestDB(t)

		store, err := NewSQLiteStore(db)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := store.Set(sess); err != nil {
			t.Fatalf("failed to set session: %v", err)
		}

		if err := store.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if store.Get().Authenticated() {
			t.Error("expected anonymous state after clear")
		}

		// Idempotent.
		if err := store.Clear(); err != nil {
			t.Errorf("second clear should succeed: %v", err)
		}

		reloaded, err := NewSQLiteStore(db)
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}
		if reloaded.Get().Authenticated() {
			t.Error("cleared session must not survive reload")
		}
	})

	t.Run("Invalid Stored Session Is Wiped", func(t *testing.T) {
		db := newTestDB(t)

		// A token with no stored profile violates the pairing invariant.
		if _, err := db.Exec(
			"INSERT INTO credentials (key, value) VALUES ('token', 'stale-tok')"); err != nil {
			t.Fatalf("failed to seed credentials: %v", err)
		}

		store, err := NewSQLiteStore(db)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if store.Get().Authenticated() {
			t.Error("invalid stored session should be discarded")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
			t.Fatalf("failed to count credentials: %v", err)
		}
		if count != 0 {
			t.Errorf("expected credentials wiped, found %d rows", count)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if store.Get().Authenticated() {
		t.Error("fresh store should be anonymous")
	}

	sess := models.Session{Token: "tok", User: &models.Profile{ID: "u1", Name: "Ada"}}
	if err := store.Set(sess); err != nil {
		t.Fatalf("failed to set session: %v", err)
	}
	if store.Get().Token != "tok" {
		t.Error("expected stored token")
	}

	if err := store.Set(models.Session{User: &models.Profile{ID: "u2"}}); err == nil {
		t.Error("expected error for user without token")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if store.Get().Authenticated() {
		t.Error("expected anonymous state after clear")
	}
}
