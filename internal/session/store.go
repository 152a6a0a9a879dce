package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/models"
)

// Session is the one persisted client-side entity: the bearer token plus the
// cached profile of the authenticated actor.
type Session struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// Store holds at most one session, mirrored to a JSON file so it survives
// restarts. Create-on-login, read-on-every-request, destroy-on-logout-or-401.
type Store struct {
	mu      sync.RWMutex
	path    string
	logger  *zap.Logger
	current *Session
}

// NewStore builds a store backed by the given file path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads a previously persisted session. A missing file is not an error;
// a corrupt file is logged and discarded rather than crashing startup.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("discarding corrupt session file", zap.Error(err))
		return nil
	}
	if sess.Token == "" {
		return nil
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return nil
}

// Set persists a new session. Token and user are written together; on a
// persistence failure nothing changes, so there is never partial state.
func (s *Store) Set(token string, user models.UserProfile) error {
	sess := &Session{Token: token, User: user}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write-then-rename keeps the on-disk copy whole even if we die mid-write.
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Clear drops token and user together. There is no window where one half of
// the pair is gone and the other is not.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove session file", zap.Error(err))
	}
}

// Token returns the current bearer token, empty when logged out. Implements
// market.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// User returns the cached profile when a session exists.
func (s *Store) User() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.UserProfile{}, false
	}
	return s.current.User, true
}

// IsAuthenticated is a token-presence check only. Token freshness is the
// backend's job, enforced through 401 responses.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// TokenExpiry peeks at the token's exp claim without verifying the signature.
// Display only; absence of a parseable claim reports false.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
