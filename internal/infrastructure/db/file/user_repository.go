package file

import (
	"context"
	"time"

	"github.com/adaste/loan-system/internal/core/domain"
)

const usersFile = "users.json"

// userRecord is the on-disk user. Unlike domain.User it serialises the
// password hash.
type userRecord struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	PasswordHash string              `json:"passwordHash,omitempty"`
	Role         domain.Role         `json:"role"`
	LoanBalance  float64             `json:"loanBalance,omitempty"`
	Investments  []domain.Investment `json:"investments,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		LoanBalance:  u.LoanBalance,
		Investments:  u.Investments,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		LoanBalance:  r.LoanBalance,
		Investments:  append([]domain.Investment(nil), r.Investments...),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type UserRepository struct {
	users *table[userRecord]
}

// NewUserRepository opens dir/users.json, creating it as an empty array when
// missing.
func NewUserRepository(dir string) (*UserRepository, error) {
	t, err := newTable[userRecord](dir, usersFile)
	if err != nil {
		return nil, err
	}
	return &UserRepository{users: t}, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)

	return r.users.update(func(rows []userRecord) ([]userRecord, error) {
		count := 0
		for _, row := range rows {
			if domain.NormalizeEmail(row.Email) == user.Email {
				return nil, domain.ErrUserExists
			}
			if row.Role == user.Role {
				count++
			}
		}
		if user.Role == domain.RoleAdmin && count > 0 {
			return nil, domain.ErrAdminExists
		}

		user.ID = domain.NextID(user.Role.IDPrefix(), count)
		return append(rows, toRecord(user)), nil
	})
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(row userRecord) bool { return row.ID == id })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(row userRecord) bool { return domain.NormalizeEmail(row.Email) == email })
}

func (r *UserRepository) find(match func(userRecord) bool) (*domain.User, error) {
	var found *domain.User
	err := r.users.read(func(rows []userRecord) error {
		for _, row := range rows {
			if match(row) {
				found = row.toDomain()
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return found, err
}

func (r *UserRepository) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	out := []*domain.User{}
	err := r.users.read(func(rows []userRecord) error {
		for _, row := range rows {
			if row.Role == role {
				out = append(out, row.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) CountByRole(_ context.Context, role domain.Role) (int, error) {
	n := 0
	err := r.users.read(func(rows []userRecord) error {
		for _, row := range rows {
			if row.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(row *userRecord) { row.PasswordHash = hash })
}

func (r *UserRepository) AdjustLoanBalance(_ context.Context, id string, delta float64) error {
	return r.mutate(id, func(row *userRecord) { row.LoanBalance += delta })
}

func (r *UserRepository) mutate(id string, fn func(*userRecord)) error {
	return r.users.update(func(rows []userRecord) ([]userRecord, error) {
		for i := range rows {
			if rows[i].ID == id {
				fn(&rows[i])
				now := time.Now().UTC()
				rows[i].UpdatedAt = &now
				return rows, nil
			}
		}
		return nil, domain.ErrUserNotFound
	})
}
