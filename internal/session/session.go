// Package session provides Valkey-backed HTTP session management for the
// admin console. Sessions are identified by a secure cookie and stored as
// JSON in Valkey with automatic TTL expiry. Without a Valkey client the
// store falls back to an in-process map, used in demo mode and tests.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ct_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload. It contains the authenticated user's
// identity and 2FA completion status.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store manages session lifecycle.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool

	mu    sync.Mutex
	local map[string]localEntry
}

type localEntry struct {
	payload []byte
	expires time.Time
}

// NewStore creates a session store backed by the given Valkey client.
// A nil client selects the in-process fallback. secure marks the cookie
// Secure, required behind TLS in production.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
		local:  make(map[string]localEntry),
	}
}

// Create generates a new session, stores it, and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.set(ctx, id, payload); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request cookie.
// Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, ok, err := s.get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return nil, nil // Session expired or doesn't exist
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data without changing the session ID or
// cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.set(ctx, cookie.Value, payload); err != nil {
		return fmt.Errorf("session update: %w", err)
	}

	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	s.delete(ctx, cookie.Value)

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return nil
}

func (s *Store) set(ctx context.Context, id string, payload []byte) error {
	if s.client != nil {
		return s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[id] = localEntry{payload: payload, expires: time.Now().Add(s.ttl)}
	return nil
}

func (s *Store) get(ctx context.Context, id string) ([]byte, bool, error) {
	if s.client != nil {
		payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
		if err == redis.Nil {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return payload, true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.local[id]
	if !ok || time.Now().After(entry.expires) {
		delete(s.local, id)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (s *Store) delete(ctx context.Context, id string) {
	if s.client != nil {
		s.client.Del(ctx, keyPrefix+id)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, id)
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
