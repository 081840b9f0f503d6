package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNextID(t *testing.T) {
	cases := []struct {
		prefix   string
		existing int
		want     string
	}{
		{"C", 0, "C1"},
		{"C", 2, "C3"},
		{"L", 9, "L10"},
		{"A", 0, "A1"},
	}
	for _, tc := range cases {
		if got := NextID(tc.prefix, tc.existing); got != tc.want {
			t.Errorf("NextID(%q, %d) = %q, want %q", tc.prefix, tc.existing, got, tc.want)
		}
	}
}

func TestParseLoanStatus(t *testing.T) {
	cases := map[string]LoanStatus{
		"Pending":   LoanPending,
		"pending":   LoanPending,
		"APPROVED":  LoanApproved,
		"Rejected":  LoanDeclined,
		"declined":  LoanDeclined,
		" approved": LoanApproved,
	}
	for in, want := range cases {
		got, err := ParseLoanStatus(in)
		if err != nil {
			t.Fatalf("ParseLoanStatus(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLoanStatus(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseLoanStatus("paid"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to LoanStatus
		want     bool
	}{
		{LoanPending, LoanApproved, true},
		{LoanPending, LoanDeclined, true},
		{LoanPending, LoanPending, false},
		{LoanApproved, LoanDeclined, false},
		{LoanDeclined, LoanApproved, false},
		{LoanApproved, LoanPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRole_Capabilities(t *testing.T) {
	if !RoleAdmin.Can(CapCreateOfficers) {
		t.Error("admin must create officers")
	}
	if RoleOfficer.Can(CapCreateOfficers) {
		t.Error("officer must not create officers")
	}
	if !RoleOfficer.Can(CapDecideLoans) {
		t.Error("officer must decide loans")
	}
	if RoleClient.Can(CapDecideLoans) {
		t.Error("client must not decide loans")
	}
	if !RoleClient.Can(CapApplyLoan) {
		t.Error("client must apply for loans")
	}
	if RoleInvestor.Can(CapViewAllLoans) {
		t.Error("investor must not view all loans")
	}
	if Role("Admin").Can(CapDecideLoans) {
		t.Error("unparsed role must not match any capability")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Admin")
	if err != nil || r != RoleAdmin {
		t.Fatalf("expected admin, got %q (%v)", r, err)
	}
	if _, err := ParseRole("guest"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if RoleInvestor.IDPrefix() != "I" || RoleClient.IDPrefix() != "C" {
		t.Fatal("unexpected id prefixes")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestSTKCallback_Succeeded(t *testing.T) {
	tests := map[string]bool{
		`{"CheckoutRequestID":"ws_1","ResultCode":0}`:                    true,
		`{"CheckoutRequestID":"ws_1","ResultCode":1032}`:                 false,
		`{"CheckoutRequestID":"ws_1","ResultDesc":"no code"}`:            false,
		`{"CheckoutRequestID":"ws_1","ResultCode":null,"ResultDesc":""}`: false,
	}
	for in, want := range tests {
		var cb STKCallback
		if err := json.Unmarshal([]byte(in), &cb); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got := cb.Succeeded(); got != want {
			t.Errorf("%s: Succeeded() = %v, want %v", in, got, want)
		}
	}
}

func TestUser_JSONOmitsMissingUpdatedAt(t *testing.T) {
	u := User{ID: "C1", Name: "Wanjiru", Role: RoleClient, PasswordHash: "hash", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "updatedAt") || strings.Contains(string(out), "0001-01-01") {
		t.Fatalf("zero updatedAt leaked into %s", out)
	}
	if strings.Contains(string(out), "hash") {
		t.Fatalf("password hash leaked into %s", out)
	}

	now := time.Now().UTC()
	u.UpdatedAt = &now
	out, _ = json.Marshal(u)
	if !strings.Contains(string(out), "updatedAt") {
		t.Fatalf("expected updatedAt in %s", out)
	}
}
