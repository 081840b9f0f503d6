// Package memory provides process-local repositories. Data is lost on exit;
// it backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adaste/loan-system/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Investments = append([]domain.Investment(nil), u.Investments...)
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	count := 0
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
		if u.Role == user.Role {
			count++
		}
	}
	if user.Role == domain.RoleAdmin && count > 0 {
		return domain.ErrAdminExists
	}

	user.ID = domain.NextID(user.Role.IDPrefix(), count)
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) CountByRole(_ context.Context, role domain.Role) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *UserRepository) AdjustLoanBalance(_ context.Context, id string, delta float64) error {
	return r.mutate(id, func(u *domain.User) { u.LoanBalance += delta })
}

func (r *UserRepository) mutate(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			fn(u)
			now := time.Now().UTC()
			u.UpdatedAt = &now
			return nil
		}
	}
	return domain.ErrUserNotFound
}
