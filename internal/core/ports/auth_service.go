package ports

import (
	"context"

	"github.com/adaste/loan-system/internal/core/domain"
)

// BootstrapAdminInput carries the one-time admin creation request.
type BootstrapAdminInput struct {
	Name     string
	Email    string
	Password string
	Key      string
}

// AuthService covers credentials: login, password changes and the first admin.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	BootstrapAdmin(ctx context.Context, input BootstrapAdminInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Me(ctx context.Context, userID string) (*domain.User, error)
}
