package service

import (
	"testing"
	"time"

	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/model"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTExpiry:   time.Hour,
		AdminEmails: []string{"admin@example.com"},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(newAuthTestConfig())
	identity := model.Identity{Name: "Kim", Email: "kim@example.com", Picture: "https://example.com/p.png"}

	token, err := svc.GenerateToken(identity)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if got := claims.Identity(); got != identity {
		t.Errorf("identity = %+v, want %+v", got, identity)
	}
	if claims.ID == "" {
		t.Error("claims missing JTI, the session state key depends on it")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(newAuthTestConfig())
	token, err := svc.GenerateToken(model.Identity{Name: "Kim", Email: "kim@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := newAuthTestConfig()
	other.JWTSecret = "different-secret"
	if _, err := NewAuthService(other).ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret validated")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := newAuthTestConfig()
	cfg.JWTExpiry = -time.Minute
	svc := NewAuthService(cfg)

	token, err := svc.GenerateToken(model.Identity{Name: "Kim", Email: "kim@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestIsAdminIsCaseInsensitive(t *testing.T) {
	svc := NewAuthService(newAuthTestConfig())

	if !svc.IsAdmin(model.Identity{Email: "Admin@Example.com"}) {
		t.Error("admin email must match case-insensitively")
	}
	if svc.IsAdmin(model.Identity{Email: "user@example.com"}) {
		t.Error("non-admin reported as admin")
	}
}
