package session

import "errors"

var (
	ErrNoSession     = errors.New("session not found or expired")
	ErrEmailRequired = errors.New("email is required")
	ErrUnknownEmail  = errors.New("no account with this email")
	ErrUnknownRole   = errors.New("account has an unknown role")
)
