package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Alijeyrad/stgeorge_backend/domain"

// DomainMetrics are the business counters exported next to the HTTP ones.
// Instruments come from the global meter, so they are no-ops until
// InitTelemetry installs a real provider.
type DomainMetrics struct {
	SlotComputations metric.Int64Counter
	Bookings         metric.Int64Counter
	BookingConflicts metric.Int64Counter
	StatusChanges    metric.Int64Counter
	OverrideReviews  metric.Int64Counter
}

func NewDomainMetrics() *DomainMetrics {
	meter := otel.Meter(meterName)

	slots, _ := meter.Int64Counter(
		"scheduling_slot_computations_total",
		metric.WithDescription("Number of available-slot computations"),
	)
	bookings, _ := meter.Int64Counter(
		"appointments_booked_total",
		metric.WithDescription("Appointments successfully booked"),
	)
	conflicts, _ := meter.Int64Counter(
		"appointments_booking_conflicts_total",
		metric.WithDescription("Bookings rejected because the slot was taken or not offered"),
	)
	status, _ := meter.Int64Counter(
		"appointments_status_changes_total",
		metric.WithDescription("Appointment status transitions"),
	)
	reviews, _ := meter.Int64Counter(
		"schedule_override_reviews_total",
		metric.WithDescription("Override requests approved or declined"),
	)

	return &DomainMetrics{
		SlotComputations: slots,
		Bookings:         bookings,
		BookingConflicts: conflicts,
		StatusChanges:    status,
		OverrideReviews:  reviews,
	}
}
