package utils

import "errors"

// Common application errors used across the console.
var (
	ErrSessionExpired = errors.New("SESSION_EXPIRED")
)
