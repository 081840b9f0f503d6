package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/api/middleware"
	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

// LoanHandler handles HTTP requests for loan operations.
type LoanHandler struct {
	service ports.LoanService
}

func NewLoanHandler(service ports.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

type loanResponse struct {
	Message string       `json:"message"`
	Loan    *domain.Loan `json:"loan"`
}

// Apply submits a loan application. Authenticated clients apply for
// themselves; anonymous callers name the client with clientId.
//
// @Summary      Apply for a loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        body  body      applyLoanRequest  true  "Loan application"
// @Success      200   {object}  loanResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/loans/apply [post]
func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	clientID := req.ClientID
	if identity, ok := middleware.IdentityFrom(c); ok {
		if !identity.Role.Can(domain.CapApplyLoan) {
			return domain.ErrForbidden
		}
		clientID = identity.ID
	}

	loan, err := h.service.Apply(c.Request().Context(), ports.ApplyLoanInput{
		ClientID: clientID,
		Amount:   float64(req.Amount),
		Term:     string(req.Term),
		Purpose:  req.Purpose,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResponse{Message: "Loan application submitted.", Loan: loan})
}

// Approve moves a pending loan to approved.
//
// @Summary      Approve a loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Loan ID"
// @Success      200  {object}  loanResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/loans/approve/{id} [post]
func (h *LoanHandler) Approve(c echo.Context) error {
	loan, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResponse{Message: "Loan approved successfully.", Loan: loan})
}

// Reject moves a pending loan to declined.
//
// @Summary      Reject a loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Loan ID"
// @Success      200  {object}  loanResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/loans/reject/{id} [post]
func (h *LoanHandler) Reject(c echo.Context) error {
	loan, err := h.service.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResponse{Message: "Loan rejected successfully.", Loan: loan})
}

// Update sets a loan's status by name. "rejected" is accepted for declined.
//
// @Summary      Update loan status
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Loan ID"
// @Param        body  body      updateLoanRequest  true  "New status"
// @Success      200   {object}  loanResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/loans/update/{id} [put]
func (h *LoanHandler) Update(c echo.Context) error {
	var req updateLoanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	status, err := domain.ParseLoanStatus(req.Status)
	if err != nil {
		return err
	}

	loan, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResponse{Message: "Loan status updated successfully.", Loan: loan})
}

// List returns the loans visible to the caller.
//
// @Summary      List my loans
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Loan
// @Failure      401  {object}  map[string]string
// @Router       /api/loans [get]
func (h *LoanHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	loans, err := h.service.ListFor(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

// ListAll returns every loan.
//
// @Summary      List all loans
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Loan
// @Failure      403  {object}  map[string]string
// @Router       /api/loans/all [get]
func (h *LoanHandler) ListAll(c echo.Context) error {
	loans, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}
