package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
	"github.com/covernet/covernet/pkg/config"
	"github.com/covernet/covernet/pkg/logging"
)

// reissueGrace is the window before expiry inside which an existing token is
// handed out unchanged instead of being rotated. Keeps concurrent requests
// from thrashing the stored token.
const reissueGrace = 60 * time.Second

// Service issues, validates and revokes bearer tokens and checks passwords.
type Service struct {
	users       *db.UserRepository
	ttl         time.Duration
	adminEmails map[string]bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new auth service
func NewService(users *db.UserRepository, cfg *config.AuthConfig) *Service {
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[email] = true
	}
	return &Service{
		users:       users,
		ttl:         cfg.TokenTTL,
		adminEmails: admins,
		logger:      logging.WithComponent("auth"),
		now:         time.Now,
	}
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsAdminEmail reports whether the email belongs to the configured admin set
func (s *Service) IsAdminEmail(email string) bool {
	return s.adminEmails[email]
}

// Authenticate resolves basic-auth credentials to a user, or nil
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// IssueToken returns the user's bearer token, rotating it only when the
// current one is absent or expires within the grace window. The new token and
// expiration are persisted before returning.
func (s *Service) IssueToken(ctx context.Context, user *models.User) (string, time.Time, error) {
	now := s.now().UTC()
	if token, expiration, ok := liveToken(user, now); ok {
		return token, expiration, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expiration := now.Add(s.ttl)

	user.Token = sql.NullString{String: token, Valid: true}
	user.TokenExpiration = sql.NullTime{Time: expiration, Valid: true}
	if err := s.users.Update(ctx, user); err != nil {
		return "", time.Time{}, err
	}

	s.logger.Debug("token issued", zap.Int64("user_id", user.ID))
	return token, expiration, nil
}

// CheckToken resolves a bearer token to its user. Expired or unknown tokens
// resolve to nil, which callers treat as anonymous.
func (s *Service) CheckToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.TokenValidAfter(s.now().UTC()) {
		return nil, nil
	}
	return user, nil
}

// RevokeToken expires the user's token one second in the past. The token
// value itself is kept for auditability.
func (s *Service) RevokeToken(ctx context.Context, user *models.User) error {
	user.TokenExpiration = sql.NullTime{Time: s.now().UTC().Add(-time.Second), Valid: true}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Debug("token revoked", zap.Int64("user_id", user.ID))
	return nil
}

// liveToken returns the user's current token when it remains valid past the
// reissue grace window.
func liveToken(user *models.User, now time.Time) (string, time.Time, bool) {
	if !user.Token.Valid || !user.TokenExpiration.Valid {
		return "", time.Time{}, false
	}
	if !user.TokenExpiration.Time.After(now.Add(reissueGrace)) {
		return "", time.Time{}, false
	}
	return user.Token.String, user.TokenExpiration.Time, true
}

// generateToken produces a 24-byte random token, base64-encoded
func generateToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
