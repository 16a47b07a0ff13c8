package codes

import "github.com/Alijeyrad/stgeorge_backend/config"

// Config holds settings for appointment number generation.
type Config struct {
	// AppointmentNoDigits is the number of digits after the "APP-" prefix.
	AppointmentNoDigits int
	// AppointmentNoRetries bounds how many candidates are drawn before giving up.
	AppointmentNoRetries int
}

func DefaultConfig() Config {
	return Config{
		AppointmentNoDigits:  5,
		AppointmentNoRetries: 8,
	}
}

func FromCentralConfig(c *config.Config) Config {
	out := DefaultConfig()
	if c.Booking.AppointmentNoDigits > 0 {
		out.AppointmentNoDigits = c.Booking.AppointmentNoDigits
	}
	if c.Booking.AppointmentNoRetries > 0 {
		out.AppointmentNoRetries = c.Booking.AppointmentNoRetries
	}
	return out
}
