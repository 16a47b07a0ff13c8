package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserRequired     = errors.New("patient profile needs a user id")
	ErrForbidden        = errors.New("not allowed to edit this patient profile")
	ErrPatientNoExhaust = errors.New("could not allocate a unique patient number")
	ErrInvalidPhone     = errors.New("invalid emergency phone number")
)
