package ports

import (
	"context"

	"github.com/adaste/loan-system/internal/core/domain"
)

// UserRepository defines persistence operations for every kind of account.
type UserRepository interface {
	// Create assigns the next identifier for the user's role and inserts the
	// record. It returns domain.ErrUserExists when the email is already taken and
	// domain.ErrAdminExists when an admin is inserted while one already exists.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByRole returns users of the role in insertion order.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// AdjustLoanBalance adds delta to the user's outstanding loan balance.
	AdjustLoanBalance(ctx context.Context, id string, delta float64) error
}
