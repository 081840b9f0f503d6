package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/api/middleware"
	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

// newContext builds an echo context with the validator registered and, when
// identity is non-nil, an authenticated caller.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, *identity)
	}
	return c, rec
}

type stubAuthService struct {
	loginFn     func(ctx context.Context, email, password string) (string, *domain.User, error)
	bootstrapFn func(ctx context.Context, in ports.BootstrapAdminInput) (*domain.User, error)
	changeFn    func(ctx context.Context, userID, oldPassword, newPassword string) error
	meFn        func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) BootstrapAdmin(ctx context.Context, in ports.BootstrapAdminInput) (*domain.User, error) {
	return s.bootstrapFn(ctx, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changeFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterClientInput) (*domain.User, error)
	createFn   func(ctx context.Context, role domain.Role, in ports.CreateUserInput) (*domain.User, error)
	listFn     func(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

func (s *stubUserService) RegisterClient(ctx context.Context, in ports.RegisterClientInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) CreateOfficer(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, domain.RoleOfficer, in)
}

func (s *stubUserService) CreateInvestor(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, domain.RoleInvestor, in)
}

func (s *stubUserService) CreateClient(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, domain.RoleClient, in)
}

func (s *stubUserService) ListClients(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx, domain.RoleClient)
}

func (s *stubUserService) ListOfficers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx, domain.RoleOfficer)
}

type stubLoanService struct {
	applyFn  func(ctx context.Context, in ports.ApplyLoanInput) (*domain.Loan, error)
	decideFn func(ctx context.Context, id string, status domain.LoanStatus) (*domain.Loan, error)
	listFn   func(ctx context.Context, caller domain.Identity) ([]*domain.Loan, error)
}

func (s *stubLoanService) Apply(ctx context.Context, in ports.ApplyLoanInput) (*domain.Loan, error) {
	return s.applyFn(ctx, in)
}

func (s *stubLoanService) Approve(ctx context.Context, id string) (*domain.Loan, error) {
	return s.decideFn(ctx, id, domain.LoanApproved)
}

func (s *stubLoanService) Reject(ctx context.Context, id string) (*domain.Loan, error) {
	return s.decideFn(ctx, id, domain.LoanDeclined)
}

func (s *stubLoanService) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus) (*domain.Loan, error) {
	return s.decideFn(ctx, id, status)
}

func (s *stubLoanService) ListFor(ctx context.Context, caller domain.Identity) ([]*domain.Loan, error) {
	return s.listFn(ctx, caller)
}

func (s *stubLoanService) ListAll(ctx context.Context) ([]*domain.Loan, error) {
	return s.listFn(ctx, domain.Identity{Role: domain.RoleAdmin})
}

type stubPaymentService struct {
	initiated []domain.STKPushRequest
	callbacks []domain.STKCallback
	resp      *domain.STKPushResponse
}

func (s *stubPaymentService) InitiatePayment(_ context.Context, req domain.STKPushRequest) *domain.STKPushResponse {
	s.initiated = append(s.initiated, req)
	return s.resp
}

func (s *stubPaymentService) HandleCallback(_ context.Context, cb domain.STKCallback) {
	s.callbacks = append(s.callbacks, cb)
}

type stubNotifier struct {
	sent []domain.Notification
}

func (s *stubNotifier) Notify(_ context.Context, n domain.Notification) {
	s.sent = append(s.sent, n)
}
