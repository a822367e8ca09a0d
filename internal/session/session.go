// Package session tracks who the client is acting as. The backend issues a
// JWT on login; the token plus a user snapshot is persisted locally so the
// identity survives restarts. The client never verifies the signature (it has
// no key material), it only inspects claims for expiry and role hints.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

// Manager owns the current identity. Anonymous is represented by a nil user.
type Manager struct {
	db      *database.Database
	log     *logger.Logger
	current *models.User
}

// NewManager loads the persisted identity, discarding it when the stored
// token has already expired.
func NewManager(db *database.Database, log *logger.Logger) (*Manager, error) {
	m := &Manager{db: db, log: log}

	user, err := db.LoadIdentity()
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if user != nil && TokenExpired(user.Token) {
		log.Info("Stored session expired, switching to anonymous", map[string]interface{}{
			"username": user.Username,
		})
		if err := db.ClearIdentity(); err != nil {
			return nil, fmt.Errorf("failed to discard expired session: %w", err)
		}
		user = nil
	}
	m.current = user
	return m, nil
}

// Current returns the active user, or nil for an anonymous session.
func (m *Manager) Current() *models.User {
	return m.current
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	return m.current != nil
}

// Token returns the bearer token for the active session, or "" when
// anonymous.
func (m *Manager) Token() string {
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Login persists the given user as the active identity, replacing any
// previous one. The role claim embedded in the token wins over the role the
// login response reported, since the backend authorizes from the token.
func (m *Manager) Login(user models.User) error {
	if role, ok := RoleFromToken(user.Token); ok {
		user.Role = role
	}
	if err := m.db.SaveIdentity(&user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.current = &user

	m.log.Info("Logged in", map[string]interface{}{
		"username": user.Username,
		"role":     string(user.Role),
	})
	return nil
}

// Logout clears the active identity. Logging out while anonymous is a no-op.
func (m *Manager) Logout() error {
	if m.current == nil {
		return nil
	}
	if err := m.db.ClearIdentity(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.log.Info("Logged out", map[string]interface{}{
		"username": m.current.Username,
	})
	m.current = nil
	return nil
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Malformed tokens count as expired; tokens without an exp claim do not.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// RoleFromToken extracts the role claim from a token without verifying it.
func RoleFromToken(token string) (models.Role, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}
	raw, ok := claims["role"].(string)
	if !ok || raw == "" {
		return "", false
	}
	switch role := models.Role(strings.ToUpper(raw)); role {
	case models.RoleUser, models.RoleModerator, models.RoleAdmin:
		return role, true
	default:
		return "", false
	}
}
