package domain

import (
	"fmt"
	"strings"
	"time"
)

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanDeclined LoanStatus = "declined"
)

// validTransitions defines the allowed state machine transitions. Approved and
// declined are terminal.
var validTransitions = map[LoanStatus][]LoanStatus{
	LoanPending: {LoanApproved, LoanDeclined},
}

// ParseLoanStatus accepts any casing and treats "rejected" as "declined".
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return LoanPending, nil
	case "approved":
		return LoanApproved, nil
	case "declined", "rejected":
		return LoanDeclined, nil
	}
	return "", fmt.Errorf("%w: unknown loan status %q", ErrValidation, s)
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Loan is a client's application for credit.
type Loan struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"clientId"`
	Amount    float64    `json:"amount"`
	Term      string     `json:"term,omitempty"`
	Purpose   string     `json:"purpose,omitempty"`
	Status    LoanStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// LoanFilter narrows a loan listing. An empty ClientID matches every loan.
type LoanFilter struct {
	ClientID string
}

// Matches reports whether l passes the filter.
func (f LoanFilter) Matches(l *Loan) bool {
	return f.ClientID == "" || l.ClientID == f.ClientID
}
