package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/model"
)

// LegacyAuthService is the earlier per-problem password scheme: editing or
// deleting a problem requires presenting either that problem's password or
// the single global admin password. It is only active in password auth
// mode and is never combined with the OAuth adapter.
type LegacyAuthService struct {
	cfg *config.Config
}

// NewLegacyAuthService creates a new LegacyAuthService.
func NewLegacyAuthService(cfg *config.Config) *LegacyAuthService {
	return &LegacyAuthService{cfg: cfg}
}

// Enabled reports whether the legacy password scheme is active.
func (s *LegacyAuthService) Enabled() bool {
	return s.cfg.AuthMode == config.AuthModePassword
}

// HashPassword hashes a per-problem password for storage.
func (s *LegacyAuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Authorize checks a presented password against the problem's own
// password and the global admin password.
func (s *LegacyAuthService) Authorize(p *model.Problem, password string) error {
	if p.PasswordHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil {
		return nil
	}
	if s.cfg.AdminPasswordHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil {
		return nil
	}
	return ErrWrongPassword
}
