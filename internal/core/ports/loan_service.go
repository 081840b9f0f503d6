package ports

import (
	"context"

	"github.com/adaste/loan-system/internal/core/domain"
)

// ApplyLoanInput is a loan application. ClientID comes from the caller's token
// when authenticated, otherwise from the request body.
type ApplyLoanInput struct {
	ClientID string
	Amount   float64
	Term     string
	Purpose  string
}

// LoanService defines loan use cases.
type LoanService interface {
	Apply(ctx context.Context, input ApplyLoanInput) (*domain.Loan, error)
	Approve(ctx context.Context, id string) (*domain.Loan, error)
	Reject(ctx context.Context, id string) (*domain.Loan, error)
	UpdateStatus(ctx context.Context, id string, status domain.LoanStatus) (*domain.Loan, error)
	// ListFor returns the loans visible to the caller: a client's own loans, no
	// loans for investors, every loan for staff.
	ListFor(ctx context.Context, caller domain.Identity) ([]*domain.Loan, error)
	ListAll(ctx context.Context) ([]*domain.Loan, error)
}
