package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

type SMSHandler struct {
	service ports.NotificationService
}

func NewSMSHandler(service ports.NotificationService) *SMSHandler {
	return &SMSHandler{service: service}
}

// Test sends one SMS synchronously. Delivery errors are logged, not returned.
//
// @Summary      Send a test SMS
// @Tags         sms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      testSMSRequest  true  "Recipient and message"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /sms/test [post]
func (h *SMSHandler) Test(c echo.Context) error {
	var req testSMSRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.service.Notify(c.Request().Context(), domain.Notification{To: req.To, Message: req.Message})
	return c.JSON(http.StatusOK, messageResponse{Message: "SMS sent"})
}
