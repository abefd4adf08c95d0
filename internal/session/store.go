package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

// Store persists the session across process restarts. Get never blocks and
// never fails; Set and Clear report persistence errors.
type Store interface {
	Get() models.Session
	Set(models.Session) error
	Clear() error
}

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps the session in the credentials table and mirrors it in
// memory so reads stay pure and non-blocking.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.RWMutex
	current models.Session
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore loads any persisted session from db. A stored session that
// fails to decode, or that violates the token/user pairing invariant, is
// treated as invalid and wiped rather than surfaced.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	sess, err := s.load()
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		if err := s.Clear(); err != nil {
			return nil, fmt.Errorf("failed to discard invalid stored session: %w", err)
		}
		return s, nil
	}

	s.current = sess
	return s, nil
}

func (s *SQLiteStore) load() (models.Session, error) {
	var sess models.Session

	token, err := s.value(keyToken)
	if err != nil {
		return models.Session{}, err
	}
	sess.Token = token

	raw, err := s.value(keyUser)
	if err != nil {
		return models.Session{}, err
	}
	if raw != "" {
		var user models.Profile
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			// Undecodable profile invalidates the whole session.
			return models.Session{Token: sess.Token}, nil
		}
		sess.User = &user
	}

	return sess, nil
}

func (s *SQLiteStore) value(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential %q: %w", key, err)
	}
	return v, nil
}

// Get returns the current session. Safe to call at any time.
func (s *SQLiteStore) Get() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists sess and replaces the in-memory copy atomically.
func (s *SQLiteStore) Set(sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: token and user must be stored together", shared.ErrInvalidArgument)
	}

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := "INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) " +
		"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP"
	if _, err := tx.Exec(upsert, keyToken, sess.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if _, err := tx.Exec(upsert, keyUser, string(userJSON)); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Clear wipes the persisted and in-memory session. Idempotent.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE key IN (?, ?)", keyToken, keyUser); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	s.mu.Lock()
	s.current = models.Session{}
	s.mu.Unlock()
	return nil
}

// MemoryStore is a Store with no persistence, used in tests and as a fallback
// when the credential database cannot be opened.
type MemoryStore struct {
	mu      sync.RWMutex
	current models.Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *MemoryStore) Set(sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: token and user must be stored together", shared.ErrInvalidArgument)
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.current = models.Session{}
	s.mu.Unlock()
	return nil
}
