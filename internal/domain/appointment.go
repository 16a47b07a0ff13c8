package domain

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return len(appointmentTransitions[s]) == 0
}

func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Occupies reports whether an appointment in this status holds its slot.
func (s AppointmentStatus) Occupies() bool {
	return s != AppointmentCancelled
}

const AppointmentTypeConsultation = "Consultation"

type Appointment struct {
	ID              string            `json:"id"`
	AppointmentNo   string            `json:"appointmentNo"`
	PatientID       string            `json:"patientId"`
	DoctorID        string            `json:"doctorId"`
	BranchID        string            `json:"branchId"`
	AppointmentDate string            `json:"appointmentDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	DateTime        string            `json:"dateTime"`
	Duration        int               `json:"duration"`
	Status          AppointmentStatus `json:"status"`
	Type            string            `json:"type"`
	Reason          string            `json:"reason"`
	Notes           string            `json:"notes,omitempty"`
	ReminderSent    bool              `json:"reminderSent"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

func (a Appointment) RecordID() string { return a.ID }

// SlotKey identifies the (doctor, date, start) triple a live appointment holds.
func (a Appointment) SlotKey() string {
	return a.DoctorID + "|" + a.AppointmentDate + "|" + a.StartTime
}

// AppointmentView is an appointment joined with its doctor and patient.
type AppointmentView struct {
	Appointment
	Doctor  *DoctorView  `json:"doctor,omitempty"`
	Patient *PatientView `json:"patient,omitempty"`
}
