package domain

import (
	"strings"
	"time"
)

// Investment is a single amount committed by an investor.
type Investment struct {
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// User models every account in the system. Clients, officers, investors and the
// admin share one record shape; role-specific fields stay empty for other roles.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	LoanBalance  float64      `json:"loanBalance,omitempty"`
	Investments  []Investment `json:"investments,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}

// HasPassword reports whether the account can log in.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Identity is the caller extracted from a verified token.
type Identity struct {
	ID    string
	Role  Role
	Email string
	Name  string
}

// NormalizeEmail returns the comparison form of an email address. Emails are
// unique across all users regardless of case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
