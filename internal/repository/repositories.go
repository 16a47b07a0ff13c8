package repository

import (
	"strconv"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

// Repositories bundles one repository per collection over a shared store.
type Repositories struct {
	Users        *Repo[domain.User]
	Patients     *Repo[domain.PatientProfile]
	Doctors      *Repo[domain.DoctorProfile]
	Appointments *AppointmentRepo
	Schedules    *ScheduleRepo
	Overrides    *OverrideRepo
	Branches     *Repo[domain.Branch]
	Medicines    *Repo[domain.Medicine]
	Inventory    *Repo[domain.InventoryItem]
	Bills        *Repo[domain.Bill]
	Rooms        *Repo[domain.Room]
	LabTests     *Repo[domain.LabTestType]
}

func New(s *store.Store) *Repositories {
	return &Repositories{
		Users: NewRepo(s, store.Users, map[Key]func(domain.User) string{
			KeyEmail: func(u domain.User) string { return domain.NormalizeEmail(u.Email) },
		}),
		Patients: NewRepo(s, store.Patients, map[Key]func(domain.PatientProfile) string{
			KeyUserID: func(p domain.PatientProfile) string { return p.UserID },
		}),
		Doctors: NewRepo(s, store.Doctors, map[Key]func(domain.DoctorProfile) string{
			KeyUserID:   func(d domain.DoctorProfile) string { return d.UserID },
			KeyBranchID: func(d domain.DoctorProfile) string { return d.BranchID },
		}),
		Appointments: &AppointmentRepo{Repo: NewRepo(s, store.Appointments, map[Key]func(domain.Appointment) string{
			KeyDoctorID: func(a domain.Appointment) string { return a.DoctorID },
			KeyPatient:  func(a domain.Appointment) string { return a.PatientID },
			KeyDocDate:  func(a domain.Appointment) string { return a.DoctorID + "|" + a.AppointmentDate },
		})},
		Schedules: &ScheduleRepo{Repo: NewRepo(s, store.WeeklySchedules, map[Key]func(domain.WeeklyScheduleEntry) string{
			KeyDoctorID: func(e domain.WeeklyScheduleEntry) string { return e.DoctorID },
			KeySlotDay:  func(e domain.WeeklyScheduleEntry) string { return dayKey(e.DoctorID, e.DayOfWeek) },
		})},
		Overrides: &OverrideRepo{Repo: NewRepo(s, store.Overrides, map[Key]func(domain.ScheduleOverride) string{
			KeyDoctorID: func(o domain.ScheduleOverride) string { return o.DoctorID },
			KeyDocDate:  func(o domain.ScheduleOverride) string { return o.DoctorID + "|" + o.Date },
		})},
		Branches: NewRepo[domain.Branch](s, store.Branches, nil),
		Medicines: NewRepo[domain.Medicine](s, store.Medicines, nil),
		Inventory: NewRepo(s, store.Inventory, map[Key]func(domain.InventoryItem) string{
			KeyBranchID: func(i domain.InventoryItem) string { return i.BranchID },
			KeyMedicine: func(i domain.InventoryItem) string { return i.MedicineID },
		}),
		Bills: NewRepo(s, store.Bills, map[Key]func(domain.Bill) string{
			KeyPatient: func(b domain.Bill) string { return b.PatientID },
		}),
		Rooms: NewRepo(s, store.Rooms, map[Key]func(domain.Room) string{
			KeyBranchID: func(r domain.Room) string { return r.BranchID },
		}),
		LabTests: NewRepo[domain.LabTestType](s, store.LabTestTypes, nil),
	}
}

func dayKey(doctorID string, day int) string {
	return doctorID + "|" + strconv.Itoa(day)
}
