package scheduling

import "errors"

var (
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTimeRange    = errors.New("end_time must be after start_time")
	ErrInvalidWeekday      = errors.New("day_of_week must be between 0 and 6")
	ErrDuplicateWeekday    = errors.New("schedule has more than one entry for a weekday")
	ErrDoctorNotFound      = errors.New("doctor not found")
)
