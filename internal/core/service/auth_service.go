package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/pkg/metrics"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

// AuthService implements login, admin bootstrap and password changes.
type AuthService struct {
	repo         ports.UserRepository
	jwtSecret    string
	tokenTTL     time.Duration
	bootstrapKey string
	logger       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, bootstrapKey string, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:         repo,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		bootstrapKey: bootstrapKey,
		logger:       logger,
	}
}

// Login verifies credentials and issues a signed token. Unknown emails, accounts
// without a password and wrong passwords all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

// BootstrapAdmin creates the first admin. The shared key is checked before the
// existing-admin rule so a wrong key never reveals whether an admin exists.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in ports.BootstrapAdminInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" || in.Key == "" {
		return nil, fmt.Errorf("%w: name, email, password and key are required", domain.ErrValidation)
	}
	if s.bootstrapKey == "" || subtle.ConstantTimeCompare([]byte(in.Key), []byte(s.bootstrapKey)) != 1 {
		return nil, domain.ErrInvalidBootstrapKey
	}

	admins, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, domain.ErrAdminExists
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(domain.RoleAdmin)).Inc()
	s.logger.Warn().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin bootstrapped")
	return admin, nil
}

// ChangePassword replaces the caller's password. A wrong current password is an
// authentication failure, not a validation one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: oldPassword and newPassword are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"role":  string(user.Role),
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
