package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/pkg/metrics"
)

// DefaultPasswords holds the passwords issued to staff-created accounts that
// arrive without one. Holders are expected to change them after first login.
type DefaultPasswords struct {
	Officer string
	Client  string
}

type UserService struct {
	repo     ports.UserRepository
	defaults DefaultPasswords
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, defaults DefaultPasswords, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, defaults: defaults, logger: logger}
}

// RegisterClient creates a passwordless client from the public registration form.
func (s *UserService) RegisterClient(ctx context.Context, in ports.RegisterClientInput) (*domain.User, error) {
	if blank(in.Name) || blank(in.Phone) || blank(in.Email) {
		return nil, fmt.Errorf("%w: all fields required", domain.ErrValidation)
	}

	user := newUser(in.Name, in.Email, in.Phone, domain.RoleClient)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(domain.RoleClient)).Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("client registered")
	return user, nil
}

// CreateOfficer always issues the default officer password.
func (s *UserService) CreateOfficer(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if blank(in.Name) || blank(in.Email) {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	return s.create(ctx, in, domain.RoleOfficer, s.defaults.Officer)
}

func (s *UserService) CreateInvestor(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if blank(in.Name) || blank(in.Email) || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	return s.create(ctx, in, domain.RoleInvestor, in.Password)
}

// CreateClient falls back to the default client password when none is given.
func (s *UserService) CreateClient(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if blank(in.Name) || blank(in.Email) || blank(in.Phone) {
		return nil, fmt.Errorf("%w: name, email and phone are required", domain.ErrValidation)
	}
	password := in.Password
	if password == "" {
		password = s.defaults.Client
	}
	return s.create(ctx, in, domain.RoleClient, password)
}

func (s *UserService) ListClients(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleClient)
}

func (s *UserService) ListOfficers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleOfficer)
}

func (s *UserService) create(ctx context.Context, in ports.CreateUserInput, role domain.Role, password string) (*domain.User, error) {
	user := newUser(in.Name, in.Email, in.Phone, role)

	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if role == domain.RoleInvestor && in.InitialInvestment > 0 {
		user.Investments = []domain.Investment{{Amount: in.InitialInvestment, CreatedAt: user.CreatedAt}}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user created")
	return user, nil
}

func newUser(name, email, phone string, role domain.Role) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Name:      strings.TrimSpace(name),
		Email:     domain.NormalizeEmail(email),
		Phone:     strings.TrimSpace(phone),
		Role:      role,
		CreatedAt: now,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
