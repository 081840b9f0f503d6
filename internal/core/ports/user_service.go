package ports

import (
	"context"

	"github.com/adaste/loan-system/internal/core/domain"
)

// RegisterClientInput is the public self-registration payload.
type RegisterClientInput struct {
	Name  string
	Phone string
	Email string
}

// CreateUserInput carries an account created by staff on behalf of someone.
// Password may be empty; the service then applies the role's default.
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	// InitialInvestment is recorded for investors when positive.
	InitialInvestment float64
}

// UserService defines account management use cases.
type UserService interface {
	RegisterClient(ctx context.Context, input RegisterClientInput) (*domain.User, error)
	CreateOfficer(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateInvestor(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateClient(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListClients(ctx context.Context) ([]*domain.User, error)
	ListOfficers(ctx context.Context) ([]*domain.User, error)
}
