// Package session provides read/write access to persisted per-browser
// session state: the authenticated user, the opaque auth token, and the
// active tenant selection. State lives in an external key-value backend;
// every navigation re-reads it fresh, since the upstream error interceptor
// may clear auth keys between navigations.
package session

import (
	"context"
	"fmt"

	"github.com/taita-blog/admin-gateway/models"
)

// Persisted key names. These match the keys the admin front-end historically
// kept in browser local storage.
const (
	KeyAuthUser   = "authUser"   // JSON-encoded user
	KeyAuthToken  = "authToken"  // opaque bearer token
	KeyActiveBlog = "activeBlog" // active tenant UUID
)

// Backend is the persisted key-value contract. Implementations must treat a
// missing key as ("", nil), not as an error.
type Backend interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	// Clear removes all keys of the session.
	Clear(ctx context.Context, sessionID string) error
}

// Session exposes typed accessors over one browser session's backend slice.
// Values are read synchronously from the backend; no network calls.
type Session struct {
	id      string
	backend Backend
}

// New binds a session ID to a backend.
func New(id string, backend Backend) *Session {
	return &Session{id: id, backend: backend}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// CurrentUser returns the persisted user, or nil when absent. Corrupt JSON
// under the authUser key also reads as nil (callers fail closed to login).
func (s *Session) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := s.backend.Get(ctx, s.id, KeyAuthUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KeyAuthUser, err)
	}
	return models.UnmarshalUser(raw), nil
}

// Token returns the persisted auth token, empty when absent.
func (s *Session) Token(ctx context.Context) (string, error) {
	tok, err := s.backend.Get(ctx, s.id, KeyAuthToken)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", KeyAuthToken, err)
	}
	return tok, nil
}

// ActiveTenant returns the persisted tenant UUID, empty when none selected.
func (s *Session) ActiveTenant(ctx context.Context) (string, error) {
	id, err := s.backend.Get(ctx, s.id, KeyActiveBlog)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", KeyActiveBlog, err)
	}
	return id, nil
}

// SetUser persists the authenticated user.
func (s *Session) SetUser(ctx context.Context, u *models.User) error {
	raw, err := models.MarshalUser(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.backend.Set(ctx, s.id, KeyAuthUser, raw)
}

// SetToken persists the opaque auth token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	return s.backend.Set(ctx, s.id, KeyAuthToken, token)
}

// SetActiveTenant persists the active tenant selection. Writes are
// last-write-wins; there are no transactional guarantees across keys.
func (s *Session) SetActiveTenant(ctx context.Context, tenantID string) error {
	return s.backend.Set(ctx, s.id, KeyActiveBlog, tenantID)
}

// ClearAuth removes the auth keys only, leaving the tenant selection. This
// is the side effect of the upstream 401/403 interceptor.
func (s *Session) ClearAuth(ctx context.Context) error {
	return s.backend.Delete(ctx, s.id, KeyAuthToken, KeyAuthUser)
}

// Clear removes all session state (logout).
func (s *Session) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx, s.id)
}
