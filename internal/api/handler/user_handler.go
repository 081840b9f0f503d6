package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

// UserHandler serves client registration and staff-managed accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type registerClientResponse struct {
	Message string       `json:"message"`
	Client  *domain.User `json:"client"`
}

// Register creates a client from the public registration form.
//
// @Summary      Register a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      registerClientRequest  true  "Client details"
// @Success      200   {object}  registerClientResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.RegisterClient(c.Request().Context(), ports.RegisterClientInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registerClientResponse{Message: "Client registered successfully", Client: client})
}

// CreateOfficer adds a loan officer with the default officer password.
//
// @Summary      Create an officer
// @Tags         officers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfficerRequest  true  "Officer details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/officers [post]
func (h *UserHandler) CreateOfficer(c echo.Context) error {
	var req createOfficerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	officer, err := h.service.CreateOfficer(c.Request().Context(), ports.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Message: "Officer created successfully", User: officer})
}

// ListOfficers returns every officer.
//
// @Summary      List officers
// @Tags         officers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/officers [get]
func (h *UserHandler) ListOfficers(c echo.Context) error {
	officers, err := h.service.ListOfficers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, officers)
}

// CreateInvestor adds an investor, optionally recording an initial investment.
//
// @Summary      Create an investor
// @Tags         investors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvestorRequest  true  "Investor details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/create-investor [post]
func (h *UserHandler) CreateInvestor(c echo.Context) error {
	var req createInvestorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	investor, err := h.service.CreateInvestor(c.Request().Context(), ports.CreateUserInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		InitialInvestment: float64(req.Amount),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Message: "Investor created successfully", User: investor})
}

// CreateClient lets staff open a client account with a password.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/officer/create-client [post]
func (h *UserHandler) CreateClient(c echo.Context) error {
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.CreateClient(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Message: "Client created successfully", User: client})
}

// ListClients returns every client.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/clients [get]
func (h *UserHandler) ListClients(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}
