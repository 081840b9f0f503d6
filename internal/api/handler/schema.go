package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexString accepts a JSON string or number. Loan terms arrive as either
// "12" or 12 depending on the client.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number")
	}
	*f = flexString(n.String())
	return nil
}

// flexAmount accepts a JSON number or a numeric string.
type flexAmount float64

func (f *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount must be numeric")
		}
		*f = flexAmount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("amount must be numeric")
	}
	*f = flexAmount(v)
	return nil
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type bootstrapAdminRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Key      string `json:"key"      validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// --- Users ---

type registerClientRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required"`
}

type createOfficerRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone"`
}

type createInvestorRequest struct {
	Name     string     `json:"name"     validate:"required"`
	Email    string     `json:"email"    validate:"required"`
	Password string     `json:"password" validate:"required"`
	Phone    string     `json:"phone"`
	Amount   flexAmount `json:"amount"`
}

type createClientRequest struct {
	Name     string `json:"name"  validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password"`
}

// --- Loans ---

// applyLoanRequest carries clientId only for anonymous applications.
type applyLoanRequest struct {
	ClientID string     `json:"clientId"`
	Amount   flexAmount `json:"amount" validate:"required"`
	Term     flexString `json:"term"`
	Purpose  string     `json:"purpose"`
}

type updateLoanRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Integrations ---

type stkPushRequest struct {
	Phone     string     `json:"phone"  validate:"required"`
	Amount    flexAmount `json:"amount" validate:"required"`
	Reference string     `json:"reference"`
}

type testSMSRequest struct {
	To      string `json:"to"      validate:"required"`
	Message string `json:"message" validate:"required"`
}
