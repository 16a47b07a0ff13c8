package constants

const (
	AppName = "stgeorge"

	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "STGEORGE"
	DotEnvFile   = ".env"
)

// Headers understood by the HTTP layer.
const (
	HeaderSessionID = "X-Session-Id"
	HeaderRequestID = "X-Request-Id"
)

// Event subjects published on NATS. Each is suffixed with an entity id.
const (
	SubjectAppointmentCreated = "stgeorge.appointment.created"
	SubjectAppointmentStatus  = "stgeorge.appointment.status"
	SubjectOverrideSubmitted  = "stgeorge.override.submitted"
	SubjectOverrideReviewed   = "stgeorge.override.reviewed"
)
