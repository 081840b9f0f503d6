package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adaste/loan-system/internal/core/domain"
)

type LoanRepository struct {
	mu    sync.RWMutex
	loans []*domain.Loan
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{}
}

func cloneLoan(l *domain.Loan) *domain.Loan {
	c := *l
	if l.UpdatedAt != nil {
		t := *l.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func (r *LoanRepository) Create(_ context.Context, l *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.ID = domain.NextID(domain.LoanIDPrefix, len(r.loans))
	r.loans = append(r.loans, cloneLoan(l))
	return nil
}

func (r *LoanRepository) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.loans {
		if l.ID == id {
			return cloneLoan(l), nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (r *LoanRepository) List(_ context.Context, f domain.LoanFilter) ([]*domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Loan{}
	for _, l := range r.loans {
		if f.Matches(l) {
			out = append(out, cloneLoan(l))
		}
	}
	return out, nil
}

func (r *LoanRepository) UpdateStatus(_ context.Context, id string, from, to domain.LoanStatus, at time.Time) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.loans {
		if l.ID != id {
			continue
		}
		if l.Status != from {
			return nil, domain.ErrStatusConflict
		}
		l.Status = to
		l.UpdatedAt = &at
		return cloneLoan(l), nil
	}
	return nil, domain.ErrLoanNotFound
}
