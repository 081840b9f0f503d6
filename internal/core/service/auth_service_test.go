package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Seed", Email: email, Phone: "0700000000", Role: role}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "jane@adaste.co", "pass123", domain.RoleOfficer)
	svc := NewAuthService(repo, "secret", time.Hour, "", discardLogger)

	token, user, err := svc.Login(context.Background(), "Jane@Adaste.co", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != seeded.ID {
		t.Fatalf("expected user %s, got %s", seeded.ID, user.ID)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		t.Fatalf("token failed to verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["id"] != "O1" {
		t.Errorf("expected id claim O1, got %v", claims["id"])
	}
	if claims["role"] != "officer" {
		t.Errorf("expected role claim officer, got %v", claims["role"])
	}
	if claims["email"] != "jane@adaste.co" {
		t.Errorf("expected email claim, got %v", claims["email"])
	}
	exp, _ := claims.GetExpirationTime()
	if exp == nil || time.Until(exp.Time) > time.Hour+time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "jane@adaste.co", "pass123", domain.RoleOfficer)
	seedUser(t, repo, "walkin@adaste.co", "", domain.RoleClient)
	svc := NewAuthService(repo, "secret", time.Hour, "", discardLogger)

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "jane@adaste.co", "nope"},
		{"unknown email", "ghost@adaste.co", "pass123"},
		{"passwordless account", "walkin@adaste.co", "anything"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, "", discardLogger)

	_, _, err := svc.Login(context.Background(), "", "pass")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("disk on fire")
	svc := NewAuthService(repo, "secret", time.Hour, "", discardLogger)

	_, _, err := svc.Login(context.Background(), "jane@adaste.co", "pass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected storage error to surface, got %v", err)
	}
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, "letmein", discardLogger)
	in := ports.BootstrapAdminInput{Name: "Root", Email: "root@adaste.co", Password: "s3cret", Key: "letmein"}

	admin, err := svc.BootstrapAdmin(context.Background(), in)
	if err != nil {
		t.Fatalf("BootstrapAdmin returned error: %v", err)
	}
	if admin.ID != "A1" || admin.Role != domain.RoleAdmin {
		t.Fatalf("unexpected admin %+v", admin)
	}

	_, _, err = svc.Login(context.Background(), "root@adaste.co", "s3cret")
	if err != nil {
		t.Fatalf("admin cannot log in: %v", err)
	}

	in.Email = "second@adaste.co"
	if _, err := svc.BootstrapAdmin(context.Background(), in); !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
}

func TestAuthService_BootstrapAdmin_BadKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		supplied   string
	}{
		{"wrong key", "letmein", "guess"},
		{"bootstrap disabled", "", "anything"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubUserRepo()
			svc := NewAuthService(repo, "secret", time.Hour, tc.configured, discardLogger)
			_, err := svc.BootstrapAdmin(context.Background(), ports.BootstrapAdminInput{
				Name: "Root", Email: "root@adaste.co", Password: "x", Key: tc.supplied,
			})
			if !errors.Is(err, domain.ErrInvalidBootstrapKey) {
				t.Fatalf("expected ErrInvalidBootstrapKey, got %v", err)
			}
			if len(repo.users) != 0 {
				t.Fatalf("no user should be created")
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "jane@adaste.co", "old", domain.RoleOfficer)
	svc := NewAuthService(repo, "secret", time.Hour, "", discardLogger)

	if err := svc.ChangePassword(context.Background(), u.ID, "wrong", "new"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "old", "new"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "jane@adaste.co", "new"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "jane@adaste.co", "old"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestAuthService_Me_NotFound(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, "", discardLogger)

	if _, err := svc.Me(context.Background(), "C9"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
