package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("not allowed to update this user")
	ErrInvalidName  = errors.New("name must be between 1 and 100 characters")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmailTaken   = errors.New("email already in use")
)
