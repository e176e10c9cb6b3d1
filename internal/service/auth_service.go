package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/model"
)

// Common auth errors.
var (
	ErrLoginFailed   = errors.New("login failed")
	ErrWrongPassword = errors.New("wrong password")
)

// Claims extends JWT standard claims with the session's identity. The JTI
// doubles as the session id for the page state store.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Identity returns the identity embedded in the claims.
func (c *Claims) Identity() model.Identity {
	return model.Identity{Name: c.Name, Email: c.Email, Picture: c.Picture}
}

// AuthService mints and validates the internal session tokens issued
// after a successful login, whichever auth adapter performed it.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// GenerateToken creates a session JWT for an authenticated identity.
// There is no refresh: expiry forces a fresh login.
func (s *AuthService) GenerateToken(identity model.Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Name:    identity.Name,
		Email:   identity.Email,
		Picture: identity.Picture,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a session JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// IsAdmin reports whether the identity belongs to the admin set.
func (s *AuthService) IsAdmin(identity model.Identity) bool {
	return s.cfg.IsAdmin(identity.Email)
}
