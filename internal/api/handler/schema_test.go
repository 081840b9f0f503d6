package handler

import (
	"encoding/json"
	"testing"
)

func TestFlexString(t *testing.T) {
	tests := map[string]string{
		`{"term":"12 months"}`: "12 months",
		`{"term":12}`:          "12",
		`{"term":6.5}`:         "6.5",
		`{"term":null}`:        "",
		`{}`:                   "",
	}
	for in, want := range tests {
		var req applyLoanRequest
		if err := json.Unmarshal([]byte(in), &req); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if string(req.Term) != want {
			t.Errorf("%s: got %q, want %q", in, req.Term, want)
		}
	}

	var req applyLoanRequest
	if err := json.Unmarshal([]byte(`{"term":[1]}`), &req); err == nil {
		t.Fatal("expected error for array term")
	}
}

func TestFlexAmount(t *testing.T) {
	tests := map[string]float64{
		`{"amount":5000}`:     5000,
		`{"amount":"1250.5"}`: 1250.5,
		`{"amount":""}`:       0,
		`{"amount":null}`:     0,
	}
	for in, want := range tests {
		var req applyLoanRequest
		if err := json.Unmarshal([]byte(in), &req); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if float64(req.Amount) != want {
			t.Errorf("%s: got %v, want %v", in, req.Amount, want)
		}
	}

	var req applyLoanRequest
	if err := json.Unmarshal([]byte(`{"amount":"lots"}`), &req); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
