package domain

type PatientProfile struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	PatientNo        string `json:"patientId"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	BloodGroup       string `json:"bloodGroup,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
	Allergies        string `json:"allergies,omitempty"`
	MedicalHistory   string `json:"medicalHistory,omitempty"`
}

func (p PatientProfile) RecordID() string { return p.ID }

// PatientView is a profile joined with its user account.
type PatientView struct {
	PatientProfile
	User *User `json:"user,omitempty"`
}
