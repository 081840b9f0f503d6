package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

// PaymentHandler exposes the M-PESA STK push and its callback.
type PaymentHandler struct {
	service ports.PaymentService
	log     zerolog.Logger
}

func NewPaymentHandler(service ports.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// stkCallbackEnvelope is the body the provider posts to the callback URL.
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback *domain.STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKPush prompts the payer's phone for a repayment. Provider failures are
// logged and the response body is null.
//
// @Summary      Initiate an STK push
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      stkPushRequest  true  "Payer phone and amount"
// @Success      202   {object}  domain.STKPushResponse
// @Failure      400   {object}  map[string]string
// @Router       /mpesa/stkpush [post]
func (h *PaymentHandler) STKPush(c echo.Context) error {
	var req stkPushRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp := h.service.InitiatePayment(c.Request().Context(), domain.STKPushRequest{
		Phone:     req.Phone,
		Amount:    float64(req.Amount),
		Reference: req.Reference,
	})
	return c.JSON(http.StatusAccepted, resp)
}

// Callback receives the payment result. It is always acknowledged.
//
// @Summary      M-PESA STK callback
// @Tags         payments
// @Accept       json
// @Produce      plain
// @Success      200  {string}  string  "Callback received"
// @Router       /mpesa/stk/callback [post]
func (h *PaymentHandler) Callback(c echo.Context) error {
	var env stkCallbackEnvelope
	if err := c.Bind(&env); err != nil {
		h.log.Warn().Err(err).Msg("unreadable mpesa callback")
		return c.String(http.StatusOK, "Callback received")
	}

	if env.Body.StkCallback == nil {
		h.log.Warn().Msg("mpesa callback without stkCallback body")
		return c.String(http.StatusOK, "Callback received")
	}

	h.service.HandleCallback(c.Request().Context(), *env.Body.StkCallback)
	return c.String(http.StatusOK, "Callback received")
}
