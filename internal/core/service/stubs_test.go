package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users      []*domain.User
	findErr    error // if set, FindByEmail/FindByID return this error
	balanceErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == domain.NormalizeEmail(user.Email) {
			return domain.ErrUserExists
		}
		if user.Role == domain.RoleAdmin && u.Role == domain.RoleAdmin {
			return domain.ErrAdminExists
		}
	}
	n, _ := r.CountByRole(context.Background(), user.Role)
	user.ID = domain.NextID(user.Role.IDPrefix(), n)
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == domain.NormalizeEmail(email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) AdjustLoanBalance(_ context.Context, id string, delta float64) error {
	if r.balanceErr != nil {
		return r.balanceErr
	}
	for _, u := range r.users {
		if u.ID == id {
			u.LoanBalance += delta
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// In-memory stub loan repository
// ---------------------------------------------------------------------------

type stubLoanRepo struct {
	loans     []*domain.Loan
	createErr error
	// conflictOnce makes the next UpdateStatus fail with ErrStatusConflict after
	// applying raceTo, simulating a concurrent writer.
	conflictOnce bool
	raceTo       domain.LoanStatus
}

func newStubLoanRepo() *stubLoanRepo {
	return &stubLoanRepo{}
}

func (r *stubLoanRepo) Create(_ context.Context, l *domain.Loan) error {
	if r.createErr != nil {
		return r.createErr
	}
	l.ID = domain.NextID(domain.LoanIDPrefix, len(r.loans))
	clone := *l
	r.loans = append(r.loans, &clone)
	return nil
}

func (r *stubLoanRepo) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	for _, l := range r.loans {
		if l.ID == id {
			clone := *l
			return &clone, nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (r *stubLoanRepo) List(_ context.Context, f domain.LoanFilter) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, l := range r.loans {
		if f.Matches(l) {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubLoanRepo) UpdateStatus(_ context.Context, id string, from, to domain.LoanStatus, at time.Time) (*domain.Loan, error) {
	for _, l := range r.loans {
		if l.ID != id {
			continue
		}
		if r.conflictOnce {
			r.conflictOnce = false
			l.Status = r.raceTo
			return nil, domain.ErrStatusConflict
		}
		if l.Status != from {
			return nil, domain.ErrStatusConflict
		}
		l.Status = to
		l.UpdatedAt = &at
		clone := *l
		return &clone, nil
	}
	return nil, domain.ErrLoanNotFound
}

// ---------------------------------------------------------------------------
// Integration stubs
// ---------------------------------------------------------------------------

type recordingQueue struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (q *recordingQueue) Enqueue(n domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, n)
}

type stubGateway struct {
	resp *domain.STKPushResponse
	err  error
	got  []domain.STKPushRequest
}

func (g *stubGateway) STKPush(_ context.Context, req domain.STKPushRequest) (*domain.STKPushResponse, error) {
	g.got = append(g.got, req)
	return g.resp, g.err
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func (d *stubDedup) FirstSeen(_ context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

type stubSender struct {
	err  error
	sent []domain.Notification
}

func (s *stubSender) Send(_ context.Context, to, message string) error {
	s.sent = append(s.sent, domain.Notification{To: to, Message: message})
	return s.err
}
