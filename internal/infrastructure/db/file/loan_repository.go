package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adaste/loan-system/internal/core/domain"
)

const loansFile = "loans.json"

// loanRecord is the on-disk loan. Older files store term as a number and
// amount as a numeric string, so both decode leniently.
type loanRecord struct {
	ID        string            `json:"id"`
	ClientID  string            `json:"clientId"`
	Amount    numeric           `json:"amount"`
	Term      text              `json:"term,omitempty"`
	Purpose   string            `json:"purpose,omitempty"`
	Status    domain.LoanStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

func toLoanRecord(l *domain.Loan) loanRecord {
	return loanRecord{
		ID:        l.ID,
		ClientID:  l.ClientID,
		Amount:    numeric(l.Amount),
		Term:      text(l.Term),
		Purpose:   l.Purpose,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// toDomain also puts the status in canonical form. Hand-edited files may carry
// "Approved" or "rejected".
func (r loanRecord) toDomain() *domain.Loan {
	status := r.Status
	if parsed, err := domain.ParseLoanStatus(string(r.Status)); err == nil {
		status = parsed
	}
	return &domain.Loan{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Amount:    float64(r.Amount),
		Term:      string(r.Term),
		Purpose:   r.Purpose,
		Status:    status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// text decodes a JSON string or number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("term: expected string or number, got %s", b)
	}
	*t = text(n.String())
	return nil
}

// numeric decodes a JSON number or numeric string.
type numeric float64

func (n *numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount: %q is not numeric", s)
		}
		*n = numeric(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*n = numeric(v)
	return nil
}

type LoanRepository struct {
	loans *table[loanRecord]
}

// NewLoanRepository opens dir/loans.json, creating it as an empty array when
// missing.
func NewLoanRepository(dir string) (*LoanRepository, error) {
	t, err := newTable[loanRecord](dir, loansFile)
	if err != nil {
		return nil, err
	}
	return &LoanRepository{loans: t}, nil
}

func (r *LoanRepository) Create(_ context.Context, l *domain.Loan) error {
	return r.loans.update(func(rows []loanRecord) ([]loanRecord, error) {
		l.ID = domain.NextID(domain.LoanIDPrefix, len(rows))
		return append(rows, toLoanRecord(l)), nil
	})
}

func (r *LoanRepository) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	var found *domain.Loan
	err := r.loans.read(func(rows []loanRecord) error {
		for _, row := range rows {
			if row.ID == id {
				found = row.toDomain()
				return nil
			}
		}
		return domain.ErrLoanNotFound
	})
	return found, err
}

func (r *LoanRepository) List(_ context.Context, f domain.LoanFilter) ([]*domain.Loan, error) {
	out := []*domain.Loan{}
	err := r.loans.read(func(rows []loanRecord) error {
		for _, row := range rows {
			if l := row.toDomain(); f.Matches(l) {
				out = append(out, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) UpdateStatus(_ context.Context, id string, from, to domain.LoanStatus, at time.Time) (*domain.Loan, error) {
	var updated *domain.Loan
	err := r.loans.update(func(rows []loanRecord) ([]loanRecord, error) {
		for i := range rows {
			if rows[i].ID != id {
				continue
			}
			if rows[i].toDomain().Status != from {
				return nil, domain.ErrStatusConflict
			}
			rows[i].Status = to
			rows[i].UpdatedAt = &at
			updated = rows[i].toDomain()
			return rows, nil
		}
		return nil, domain.ErrLoanNotFound
	})
	return updated, err
}
