// Package session holds the authenticated identity for the running client.
// The backend issues and verifies tokens; the client only decodes the
// claims to know who is signed in and which role drives the UI. Signature
// verification is deliberately not attempted here, every API call is
// re-authenticated server-side anyway.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
)

var (
	// ErrTokenExpired indicates a token whose exp claim has passed.
	ErrTokenExpired = errors.New("session token expired")

	// ErrMalformedToken indicates a token that could not be decoded.
	ErrMalformedToken = errors.New("malformed session token")

	// ErrNoSession indicates no user is signed in.
	ErrNoSession = errors.New("no active session")
)

// Claims is the identity payload the backend encodes into access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenStore persists the session token between runs.
type TokenStore interface {
	SaveToken(token string) error
	Token() (string, bool, error)
	ClearToken() error
}

// Manager tracks the signed-in user. It implements api.TokenSource and is
// safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	token  string
	user   domain.User
	active bool

	store  TokenStore
	logger *zap.Logger

	now func() time.Time
}

// NewManager creates a manager backed by the given token store.
func NewManager(store TokenStore, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Restore loads a previously saved token, if any. An expired or unreadable
// stored token is dropped silently; the user simply has to sign in again.
func (m *Manager) Restore() error {
	token, ok, err := m.store.Token()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil
	}
	if err := m.SetToken(token); err != nil {
		m.logger.Info("Dropping stale stored session", zap.Error(err))
		return m.store.ClearToken()
	}
	return nil
}

// SetToken decodes the token, validates the identity it carries, and makes
// it the active session, persisting it for the next run.
func (m *Manager) SetToken(token string) error {
	user, err := decodeIdentity(token, m.now())
	if err != nil {
		return err
	}

	if err := m.store.SaveToken(token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.active = true
	m.mu.Unlock()

	m.logger.Debug("Session established",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return nil
}

// Token implements api.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.active
}

// Identity returns the signed-in user.
func (m *Manager) Identity() (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.active {
		return domain.User{}, ErrNoSession
	}
	return m.user, nil
}

// Clear ends the session and removes the persisted token.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.user = domain.User{}
	m.active = false
	m.mu.Unlock()

	if err := m.store.ClearToken(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// decodeIdentity extracts and validates the identity claims of a token.
func decodeIdentity(token string, now time.Time) (domain.User, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return domain.User{}, ErrTokenExpired
	}
	if claims.UserID == "" {
		return domain.User{}, fmt.Errorf("%w: missing user_id claim", ErrMalformedToken)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return domain.User{
		ID:       claims.UserID,
		TenantID: claims.TenantID,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     role,
	}, nil
}
