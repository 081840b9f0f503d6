package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidBootstrapKey = errors.New("invalid bootstrap key")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrAdminExists         = errors.New("admin already exists")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	// ErrStatusConflict is returned by a compare-and-swap status update when the
	// stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("loan status changed concurrently")
)
