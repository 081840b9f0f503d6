package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/pkg/metrics"
)

type LoanService struct {
	loans  ports.LoanRepository
	users  ports.UserRepository
	queue  ports.NotificationQueue
	logger zerolog.Logger
}

// NewLoanService returns a LoanService. queue may be nil, in which case no
// decision SMS is sent.
func NewLoanService(loans ports.LoanRepository, users ports.UserRepository, queue ports.NotificationQueue, logger zerolog.Logger) *LoanService {
	return &LoanService{loans: loans, users: users, queue: queue, logger: logger}
}

// Apply records a new pending loan. The client id is not checked against the
// user store: anonymous applications reference clients by id only.
func (s *LoanService) Apply(ctx context.Context, in ports.ApplyLoanInput) (*domain.Loan, error) {
	if strings.TrimSpace(in.ClientID) == "" || in.Amount == 0 {
		return nil, fmt.Errorf("%w: missing fields", domain.ErrValidation)
	}

	loan := &domain.Loan{
		ClientID:  strings.TrimSpace(in.ClientID),
		Amount:    in.Amount,
		Term:      in.Term,
		Purpose:   in.Purpose,
		Status:    domain.LoanPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	metrics.LoanApplicationsTotal.Inc()
	s.logger.Info().Str("loan_id", loan.ID).Str("client_id", loan.ClientID).Float64("amount", loan.Amount).Msg("loan application submitted")
	return loan, nil
}

func (s *LoanService) Approve(ctx context.Context, id string) (*domain.Loan, error) {
	return s.decide(ctx, id, domain.LoanApproved)
}

func (s *LoanService) Reject(ctx context.Context, id string) (*domain.Loan, error) {
	return s.decide(ctx, id, domain.LoanDeclined)
}

func (s *LoanService) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus) (*domain.Loan, error) {
	return s.decide(ctx, id, status)
}

// decide moves a loan to target. Re-applying the current status succeeds
// without side effects.
func (s *LoanService) decide(ctx context.Context, id string, target domain.LoanStatus) (*domain.Loan, error) {
	loan, err := s.loans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.Status == target {
		return loan, nil
	}
	if !loan.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: loan %s is %s", domain.ErrInvalidTransition, id, loan.Status)
	}

	updated, err := s.loans.UpdateStatus(ctx, id, loan.Status, target, time.Now().UTC())
	if errors.Is(err, domain.ErrStatusConflict) {
		// Another writer got there first; converge if it made the same decision.
		current, findErr := s.loans.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if current.Status == target {
			return current, nil
		}
		return nil, fmt.Errorf("%w: loan %s is %s", domain.ErrInvalidTransition, id, current.Status)
	}
	if err != nil {
		return nil, err
	}

	metrics.LoanDecisionsTotal.WithLabelValues(string(target)).Inc()
	s.logger.Info().Str("loan_id", id).Str("from", string(loan.Status)).Str("to", string(target)).Msg("loan status updated")
	s.afterDecision(ctx, updated)
	return updated, nil
}

// afterDecision applies the side effects of a transition. Failures are logged
// only; the status change itself has already been persisted.
func (s *LoanService) afterDecision(ctx context.Context, loan *domain.Loan) {
	client, err := s.users.FindByID(ctx, loan.ClientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("loan_id", loan.ID).Str("client_id", loan.ClientID).Msg("loan owner lookup failed")
		return
	}

	if loan.Status == domain.LoanApproved {
		if err := s.users.AdjustLoanBalance(ctx, client.ID, loan.Amount); err != nil {
			s.logger.Error().Err(err).Str("loan_id", loan.ID).Msg("failed to update loan balance")
		}
	}

	if s.queue != nil && client.Phone != "" {
		s.queue.Enqueue(domain.Notification{To: client.Phone, Message: decisionMessage(client.Name, loan)})
	}
}

func decisionMessage(name string, loan *domain.Loan) string {
	return fmt.Sprintf("Dear %s, your loan %s of KES %.2f has been %s.", name, loan.ID, loan.Amount, loan.Status)
}

func (s *LoanService) ListFor(ctx context.Context, caller domain.Identity) ([]*domain.Loan, error) {
	switch caller.Role {
	case domain.RoleClient:
		return s.list(ctx, domain.LoanFilter{ClientID: caller.ID})
	case domain.RoleInvestor:
		return []*domain.Loan{}, nil
	case domain.RoleAdmin, domain.RoleOfficer:
		return s.list(ctx, domain.LoanFilter{})
	}
	return nil, domain.ErrForbidden
}

func (s *LoanService) ListAll(ctx context.Context) ([]*domain.Loan, error) {
	return s.list(ctx, domain.LoanFilter{})
}

func (s *LoanService) list(ctx context.Context, f domain.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []*domain.Loan{}
	}
	return loans, nil
}
