package repository

import (
	"context"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
)

// Views joins profiles with their user accounts. It takes one snapshot of
// each collection so a request does all its joins against consistent data.
type Views struct {
	users    *Index[domain.User]
	doctors  *Index[domain.DoctorProfile]
	patients *Index[domain.PatientProfile]
}

func (r *Repositories) Views(ctx context.Context) (*Views, error) {
	users, err := r.Users.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := r.Doctors.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := r.Patients.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Views{users: users, doctors: doctors, patients: patients}, nil
}

func (v *Views) user(id string) *domain.User {
	if u, ok := v.users.Get(id); ok {
		return &u
	}
	return nil
}

func (v *Views) Doctor(id string) *domain.DoctorView {
	d, ok := v.doctors.Get(id)
	if !ok {
		return nil
	}
	return &domain.DoctorView{DoctorProfile: d, User: v.user(d.UserID)}
}

func (v *Views) Patient(id string) *domain.PatientView {
	p, ok := v.patients.Get(id)
	if !ok {
		return nil
	}
	return &domain.PatientView{PatientProfile: p, User: v.user(p.UserID)}
}

func (v *Views) Doctors() []domain.DoctorView {
	out := make([]domain.DoctorView, 0, v.doctors.Len())
	for _, d := range v.doctors.All() {
		out = append(out, domain.DoctorView{DoctorProfile: d, User: v.user(d.UserID)})
	}
	return out
}

func (v *Views) Patients() []domain.PatientView {
	out := make([]domain.PatientView, 0, v.patients.Len())
	for _, p := range v.patients.All() {
		out = append(out, domain.PatientView{PatientProfile: p, User: v.user(p.UserID)})
	}
	return out
}

// DoctorByUser returns the doctor profile owned by a user account.
func (v *Views) DoctorByUser(userID string) (domain.DoctorProfile, bool) {
	return v.doctors.First(KeyUserID, userID)
}

// PatientByUser returns the patient profile owned by a user account.
func (v *Views) PatientByUser(userID string) (domain.PatientProfile, bool) {
	return v.patients.First(KeyUserID, userID)
}

// Appointment joins an appointment with its doctor and patient. Missing
// references are left nil.
func (v *Views) Appointment(a domain.Appointment) domain.AppointmentView {
	return domain.AppointmentView{Appointment: a, Doctor: v.Doctor(a.DoctorID), Patient: v.Patient(a.PatientID)}
}
