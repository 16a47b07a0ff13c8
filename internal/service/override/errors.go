package override

import "errors"

var (
	ErrNotFound         = errors.New("override not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrInvalidType      = errors.New("override type must be LEAVE or SHIFT_CHANGE")
	ErrInvalidDecision  = errors.New("decision must be APPROVED or DECLINED")
	ErrPastDate         = errors.New("override date is in the past")
	ErrInvalidWindow    = errors.New("shift change needs a start time before its end time")
	ErrAlreadyReviewed  = errors.New("override already reviewed")
	ErrOverrideConflict = errors.New("another approved override exists for this doctor and date")
	ErrForbidden        = errors.New("not allowed to review overrides")
)
