package appointment

import "errors"

var (
	ErrNotFound               = errors.New("appointment not found")
	ErrMissingField           = errors.New("required field missing")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrSlotUnavailable        = errors.New("start time is not an offered slot")
	ErrSlotConflict           = errors.New("slot already booked")
	ErrAppointmentNoExhausted = errors.New("could not allocate an appointment number")
	ErrInvalidStatus          = errors.New("unknown appointment status")
	ErrInvalidTransition      = errors.New("status transition not allowed")
	ErrForbidden              = errors.New("not allowed to change appointment status")
)
