package ports

import (
	"context"
	"time"

	"github.com/adaste/loan-system/internal/core/domain"
)

// LoanRepository defines persistence operations for loans.
type LoanRepository interface {
	// Create assigns the next loan identifier and inserts the record.
	Create(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	// List returns loans matching filter in insertion order.
	List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)
	// UpdateStatus atomically moves the loan from one status to another and
	// returns the updated record. It fails with domain.ErrStatusConflict when the
	// stored status is not from, and domain.ErrLoanNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id string, from, to domain.LoanStatus, at time.Time) (*domain.Loan, error)
}
