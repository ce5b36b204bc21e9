// Package auth validates credentials against the users table and manages the
// single session slot. Passwords are compared through CredentialVerifier;
// the default plaintext scheme is a documented security gap kept for parity
// with the original system.
package auth

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"calendario-store/internal/blob"
	"calendario-store/internal/domain"
	"calendario-store/internal/engine"
	"calendario-store/internal/metrics"
)

// defaultAdmins are created once, when the users table is empty.
var defaultAdmins = []struct {
	Username string
	Password string
}{
	{"Dai", "Dai123$4"},
	{"Cledi", "Cledi1753"},
}

// Service is the auth session layer.
type Service struct {
	engine   *engine.Engine
	blob     *blob.Store
	verifier CredentialVerifier
}

// NewService creates the auth service and bootstraps the default admin
// accounts if the users table is empty. The check makes bootstrap idempotent
// across restarts.
func NewService(e *engine.Engine, store *blob.Store, verifier CredentialVerifier) (*Service, error) {
	if verifier == nil {
		verifier = PlaintextVerifier{}
	}
	s := &Service{engine: e, blob: store, verifier: verifier}
	if err := s.bootstrap(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap users: %w", err)
	}
	return s, nil
}

func (s *Service) bootstrap() error {
	row, err := s.engine.QueryRow("SELECT COUNT(*) FROM users")
	if err != nil {
		return err
	}
	var count int64
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, admin := range defaultAdmins {
		stored, err := s.verifier.Hash(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", admin.Username, err)
		}
		_, err = s.engine.Exec(
			"INSERT INTO users (username, password, isAdmin) VALUES (?, ?, ?)",
			admin.Username, stored, 1)
		if err != nil {
			return fmt.Errorf("failed to create admin %s: %w", admin.Username, err)
		}
		slog.Info("Admin user created", "username", admin.Username)
	}
	return nil
}

// Login validates credentials and, on success, overwrites the session slot.
// Bad credentials are not an error: the result carries Success == false and a
// human-readable message, and any existing session is left untouched.
func (s *Service) Login(username, password string) domain.AuthResult {
	row, err := s.engine.QueryRow(
		"SELECT id, username, password, isAdmin FROM users WHERE username = ?", username)
	if err != nil {
		slog.Error("Login query failed", "error", err)
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return domain.AuthResult{Success: false, Error: "login failed"}
	}

	var (
		id             int64
		storedUsername string
		storedPassword string
		isAdmin        int
	)
	err = row.Scan(&id, &storedUsername, &storedPassword, &isAdmin)
	if err == sql.ErrNoRows || (err == nil && !s.verifier.Verify(storedPassword, password)) {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return domain.AuthResult{Success: false, Error: "invalid username or password"}
	}
	if err != nil {
		slog.Error("Login scan failed", "error", err)
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return domain.AuthResult{Success: false, Error: "login failed"}
	}

	role := domain.RoleViewer
	if isAdmin == 1 {
		role = domain.RoleAdmin
	}
	user := domain.User{
		ID:       strconv.FormatInt(id, 10),
		Username: storedUsername,
		Role:     role,
	}

	session := domain.Session{
		User:      user,
		Token:     generateToken(),
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		slog.Error("Failed to serialize session", "error", err)
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return domain.AuthResult{Success: false, Error: "login failed"}
	}
	if err := s.blob.SetBytes(blob.SessionKey, data); err != nil {
		slog.Error("Failed to store session", "error", err)
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return domain.AuthResult{Success: false, Error: "login failed"}
	}

	metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return domain.AuthResult{Success: true, User: &user, Token: session.Token}
}

// Logout clears the session slot. Logging out with no session is a no-op.
func (s *Service) Logout() error {
	return s.blob.Delete(blob.SessionKey)
}

// CurrentUser returns the authenticated user, or nil when the session slot is
// absent or holds something unreadable.
func (s *Service) CurrentUser() *domain.User {
	data, err := s.blob.GetBytes(blob.SessionKey)
	if err != nil {
		return nil
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	if session.User.Username == "" {
		return nil
	}
	return &session.User
}

// IsAuthenticated reports whether a session exists.
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// IsAdmin reports whether the current session belongs to an admin.
func (s *Service) IsAdmin() bool {
	user := s.CurrentUser()
	return user != nil && user.Role == domain.RoleAdmin
}

// generateToken produces an opaque session token. It only needs to be
// unguessable enough to not collide, not cryptographically strong.
func generateToken() string {
	return fmt.Sprintf("token_%s_%d", uuid.NewString(), time.Now().UnixMilli())
}
