package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{fmt.Errorf("%w: missing fields", domain.ErrValidation), http.StatusBadRequest, "validation failed: missing fields"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrInvalidBootstrapKey, http.StatusForbidden, "invalid bootstrap key"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrLoanNotFound, http.StatusNotFound, "loan not found"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{domain.ErrAdminExists, http.StatusConflict, "admin already exists"},
		{fmt.Errorf("%w: loan L1 is approved", domain.ErrInvalidTransition), http.StatusConflict, "invalid status transition: loan L1 is approved"},
		{echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{errors.New("parse loans.json: unexpected end of JSON input"), http.StatusInternalServerError, "parse loans.json: unexpected end of JSON input"},
	}

	for _, tc := range tests {
		t.Run(tc.wantMsg, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body["error"])
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrLoanNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
