package domain

// DefaultSlotDuration is used when a doctor profile carries no slot duration.
const DefaultSlotDuration = 30

type DoctorProfile struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification,omitempty"`
	ExperienceYears int     `json:"experience,omitempty"`
	ConsultationFee float64 `json:"consultationFee"`
	SlotDuration    int     `json:"slotDuration"`
	BranchID        string  `json:"branchId"`
	Bio             string  `json:"bio,omitempty"`
}

func (d DoctorProfile) RecordID() string { return d.ID }

// EffectiveSlotDuration falls back to DefaultSlotDuration for unset values.
func (d DoctorProfile) EffectiveSlotDuration() int {
	if d.SlotDuration <= 0 {
		return DefaultSlotDuration
	}
	return d.SlotDuration
}

// DoctorView is a doctor profile joined with its user account.
type DoctorView struct {
	DoctorProfile
	User *User `json:"user,omitempty"`
}
