package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOfficer  Role = "officer"
	RoleInvestor Role = "investor"
	RoleClient   Role = "client"
)

// Capability names an action a route can be gated on.
type Capability string

const (
	CapViewOfficers    Capability = "officers:view"
	CapCreateOfficers  Capability = "officers:create"
	CapCreateInvestors Capability = "investors:create"
	CapCreateClients   Capability = "clients:create"
	CapViewClients     Capability = "clients:view"
	CapDecideLoans     Capability = "loans:decide"
	CapViewAllLoans    Capability = "loans:view_all"
	CapApplyLoan       Capability = "loans:apply"
	CapSendSMS         Capability = "sms:send"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapViewOfficers, CapCreateOfficers, CapCreateInvestors, CapCreateClients,
		CapViewClients, CapDecideLoans, CapViewAllLoans, CapSendSMS,
	},
	RoleOfficer: {
		CapViewOfficers, CapCreateClients, CapViewClients, CapDecideLoans, CapViewAllLoans,
	},
	RoleInvestor: {},
	RoleClient:   {CapApplyLoan},
}

var idPrefixes = map[Role]string{
	RoleAdmin:    "A",
	RoleOfficer:  "O",
	RoleInvestor: "I",
	RoleClient:   "C",
}

// ParseRole converts s to a Role. Matching is case-insensitive so that tokens
// issued as "Admin" and "admin" resolve to the same role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := idPrefixes[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := idPrefixes[r]
	return ok
}

// Can reports whether the role grants capability c.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// IDPrefix is the letter used for identifiers of users with this role.
func (r Role) IDPrefix() string {
	return idPrefixes[r]
}
