package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/core/domain"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		role       domain.Role
		capability domain.Capability
		want       int
	}{
		{domain.RoleAdmin, domain.CapCreateOfficers, http.StatusOK},
		{domain.RoleOfficer, domain.CapCreateOfficers, http.StatusForbidden},
		{domain.RoleOfficer, domain.CapDecideLoans, http.StatusOK},
		{domain.RoleClient, domain.CapDecideLoans, http.StatusForbidden},
		{domain.RoleInvestor, domain.CapViewAllLoans, http.StatusForbidden},
		{domain.RoleClient, domain.CapApplyLoan, http.StatusOK},
		{domain.RoleAdmin, domain.CapApplyLoan, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(string(tc.role)+"/"+string(tc.capability), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.Set(IdentityKey, domain.Identity{ID: "X1", Role: tc.role})

			err := Require(tc.capability)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)

			if tc.want == http.StatusOK {
				if err != nil || rec.Code != http.StatusOK {
					t.Fatalf("expected pass, got err=%v code=%d", err, rec.Code)
				}
				return
			}
			if statusOf(t, err) != tc.want {
				t.Fatalf("expected %d, got %v", tc.want, err)
			}
		})
	}
}

func TestRequire_WithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Require(domain.CapViewClients)(func(c echo.Context) error { return nil })(c)
	if statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
