package domain

import "strconv"

// LoanIDPrefix is the letter used for loan identifiers.
const LoanIDPrefix = "L"

// NextID returns prefix followed by existing+1. Identifiers are never reused
// only as long as records are never deleted.
func NextID(prefix string, existing int) string {
	return prefix + strconv.Itoa(existing+1)
}
