// Package seed loads the demo data set the portal ships with.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
)

// Demo writes the demo data set. When the users collection already holds
// records it does nothing unless force is set, in which case every seeded
// collection is replaced. now anchors the demo appointment dates.
func Demo(ctx context.Context, repos *repository.Repositories, now time.Time, force bool) (bool, error) {
	existing, err := repos.Users.All(ctx)
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	if len(existing) > 0 && !force {
		slog.Info("seed skipped, store already has users", "users", len(existing))
		return false, nil
	}

	d := build(now)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"branches", func() error { return repos.Branches.ReplaceAll(ctx, d.branches) }},
		{"users", func() error { return repos.Users.ReplaceAll(ctx, d.users) }},
		{"doctors", func() error { return repos.Doctors.ReplaceAll(ctx, d.doctors) }},
		{"patients", func() error { return repos.Patients.ReplaceAll(ctx, d.patients) }},
		{"weekly schedules", func() error { return repos.Schedules.ReplaceAll(ctx, d.schedules) }},
		{"overrides", func() error { return repos.Overrides.ReplaceAll(ctx, d.overrides) }},
		{"appointments", func() error { return repos.Appointments.ReplaceAll(ctx, d.appointments) }},
		{"medicines", func() error { return repos.Medicines.ReplaceAll(ctx, d.medicines) }},
		{"inventory", func() error { return repos.Inventory.ReplaceAll(ctx, d.inventory) }},
		{"bills", func() error { return repos.Bills.ReplaceAll(ctx, d.bills) }},
		{"rooms", func() error { return repos.Rooms.ReplaceAll(ctx, d.rooms) }},
		{"lab tests", func() error { return repos.LabTests.ReplaceAll(ctx, d.labTests) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return false, fmt.Errorf("seed %s: %w", s.name, err)
		}
	}

	slog.Info("demo data seeded", "users", len(d.users), "appointments", len(d.appointments))
	return true, nil
}

type dataset struct {
	branches     []domain.Branch
	users        []domain.User
	doctors      []domain.DoctorProfile
	patients     []domain.PatientProfile
	schedules    []domain.WeeklyScheduleEntry
	overrides    []domain.ScheduleOverride
	appointments []domain.Appointment
	medicines    []domain.Medicine
	inventory    []domain.InventoryItem
	bills        []domain.Bill
	rooms        []domain.Room
	labTests     []domain.LabTestType
}

func build(now time.Time) dataset {
	now = now.UTC()
	created := now.Format(time.RFC3339)
	day := func(offset int) string { return domain.FormatDate(now.AddDate(0, 0, offset)) }

	d := dataset{
		branches: []domain.Branch{
			{ID: "br_central", Name: "St. George Central", Address: "1 Harbour Road", Phone: "+1-555-0100", IsActive: true},
			{ID: "br_north", Name: "St. George North", Address: "48 Hill Street", Phone: "+1-555-0200", IsActive: true},
		},
		users: []domain.User{
			{ID: "usr_admin", Name: "Amelia Grant", Email: "admin@stgeorge.health", Role: domain.RoleAdmin, IsProfileComplete: true},
			{ID: "usr_staff", Name: "Samuel Ortiz", Email: "staff@stgeorge.health", Role: domain.RoleStaff, IsProfileComplete: true},
			{ID: "usr_doc_card", Name: "Dr. Helen Carter", Email: "h.carter@stgeorge.health", Role: domain.RoleDoctor, IsProfileComplete: true},
			{ID: "usr_doc_neuro", Name: "Dr. Rafael Moreno", Email: "r.moreno@stgeorge.health", Role: domain.RoleDoctor, IsProfileComplete: true},
			{ID: "usr_doc_peds", Name: "Dr. Aisha Bello", Email: "a.bello@stgeorge.health", Role: domain.RoleDoctor, IsProfileComplete: true},
			{ID: "usr_pat_john", Name: "John Miller", Email: "john@example.com", Phone: "+1-555-1001", Role: domain.RolePatient, IsProfileComplete: true},
			{ID: "usr_pat_mei", Name: "Mei Tanaka", Email: "mei@example.com", Phone: "+1-555-1002", Role: domain.RolePatient, IsProfileComplete: true},
			{ID: "usr_pat_new", Name: "Noah Evans", Email: "noah@example.com", Role: domain.RolePatient},
		},
		doctors: []domain.DoctorProfile{
			{ID: "doc_card", UserID: "usr_doc_card", Specialization: "Cardiology", Qualification: "MD, FACC", ExperienceYears: 14, ConsultationFee: 120, SlotDuration: 30, BranchID: "br_central"},
			{ID: "doc_neuro", UserID: "usr_doc_neuro", Specialization: "Neurology", Qualification: "MD, PhD", ExperienceYears: 9, ConsultationFee: 150, SlotDuration: 45, BranchID: "br_central"},
			{ID: "doc_peds", UserID: "usr_doc_peds", Specialization: "Pediatrics", Qualification: "MBBS, DCH", ExperienceYears: 6, ConsultationFee: 80, SlotDuration: 20, BranchID: "br_north"},
		},
		patients: []domain.PatientProfile{
			{ID: "pat_john", UserID: "usr_pat_john", PatientNo: "PAT-1042", DateOfBirth: "1981-04-17", Gender: "Male", BloodGroup: "O+", Address: "12 Elm Street", EmergencyContact: "Sara Miller", EmergencyPhone: "+1-555-1101", Allergies: "Penicillin"},
			{ID: "pat_mei", UserID: "usr_pat_mei", PatientNo: "PAT-2317", DateOfBirth: "1994-11-02", Gender: "Female", BloodGroup: "A-", Address: "7 Bay View"},
		},
		medicines: []domain.Medicine{
			{ID: "med_para", Name: "Paracetamol 500mg", GenericName: "Acetaminophen", Category: "Analgesic", Unit: "tablet", Price: 0.1},
			{ID: "med_amox", Name: "Amoxicillin 250mg", GenericName: "Amoxicillin", Category: "Antibiotic", Unit: "capsule", Price: 0.35},
			{ID: "med_ator", Name: "Atorvastatin 20mg", GenericName: "Atorvastatin", Category: "Statin", Unit: "tablet", Price: 0.5},
			{ID: "med_salb", Name: "Salbutamol Inhaler", GenericName: "Salbutamol", Category: "Bronchodilator", Unit: "inhaler", Price: 6.75},
		},
		inventory: []domain.InventoryItem{
			{ID: "inv_1", BranchID: "br_central", MedicineID: "med_para", Quantity: 240, ReorderLevel: 100, BatchNo: "PA-2291", ExpiryDate: day(400)},
			{ID: "inv_2", BranchID: "br_central", MedicineID: "med_ator", Quantity: 60, ReorderLevel: 80, BatchNo: "AT-1180", ExpiryDate: day(220)},
			{ID: "inv_3", BranchID: "br_north", MedicineID: "med_amox", Quantity: 140, ReorderLevel: 50, BatchNo: "AM-0773", ExpiryDate: day(150)},
			{ID: "inv_4", BranchID: "br_north", MedicineID: "med_salb", Quantity: 12, ReorderLevel: 15, BatchNo: "SA-0051", ExpiryDate: day(300)},
		},
		rooms: []domain.Room{
			{ID: "room_c101", BranchID: "br_central", RoomNo: "C-101", Type: "Consultation", Floor: 1, Capacity: 2, Status: "AVAILABLE"},
			{ID: "room_c204", BranchID: "br_central", RoomNo: "C-204", Type: "Ward", Floor: 2, Capacity: 6, Status: "OCCUPIED"},
			{ID: "room_n110", BranchID: "br_north", RoomNo: "N-110", Type: "Consultation", Floor: 1, Capacity: 2, Status: "AVAILABLE"},
		},
		labTests: []domain.LabTestType{
			{ID: "lab_cbc", Name: "Complete Blood Count", Category: "Hematology", Price: 25, TurnaroundHours: 6},
			{ID: "lab_lipid", Name: "Lipid Panel", Category: "Biochemistry", Price: 40, TurnaroundHours: 12},
			{ID: "lab_mri", Name: "MRI Brain", Category: "Radiology", Price: 450, TurnaroundHours: 48},
		},
	}

	hours := map[string][2]string{
		"doc_card":  {"09:00", "17:00"},
		"doc_neuro": {"10:00", "16:00"},
		"doc_peds":  {"08:00", "14:00"},
	}
	for _, doc := range d.doctors {
		h := hours[doc.ID]
		for dow := 0; dow < 7; dow++ {
			d.schedules = append(d.schedules, domain.WeeklyScheduleEntry{
				ID:        domain.WeeklyScheduleID(doc.ID, dow),
				DoctorID:  doc.ID,
				DayOfWeek: dow,
				StartTime: h[0],
				EndTime:   h[1],
				IsActive:  dow >= 1 && dow <= 5,
			})
		}
	}

	d.overrides = []domain.ScheduleOverride{
		{ID: "ov_demo_leave", DoctorID: "doc_neuro", Date: day(7), Type: domain.OverrideLeave, Reason: "Conference", Status: domain.OverrideApproved, CreatedAt: created, ReviewedBy: "usr_admin", ReviewedAt: created},
		{ID: "ov_demo_shift", DoctorID: "doc_card", Date: day(3), Type: domain.OverrideShiftChange, StartTime: "13:00", EndTime: "18:00", Reason: "Morning surgery", Status: domain.OverridePending, CreatedAt: created},
	}

	appt := func(id, no, patient, doctor, branch, date, start string, dur int, status domain.AppointmentStatus, reason string) domain.Appointment {
		end, _ := domain.AddClock(start, dur)
		return domain.Appointment{
			ID: id, AppointmentNo: no, PatientID: patient, DoctorID: doctor, BranchID: branch,
			AppointmentDate: date, StartTime: start, EndTime: end, DateTime: date + "T" + start + ":00",
			Duration: dur, Status: status, Type: domain.AppointmentTypeConsultation, Reason: reason, CreatedAt: created,
		}
	}
	d.appointments = []domain.Appointment{
		appt("app_demo_1", "APP-10421", "pat_john", "doc_card", "br_central", day(-14), "09:30", 30, domain.AppointmentCompleted, "Chest pain follow-up"),
		appt("app_demo_2", "APP-10422", "pat_john", "doc_card", "br_central", day(2), "10:00", 30, domain.AppointmentConfirmed, "Blood pressure review"),
		appt("app_demo_3", "APP-10423", "pat_mei", "doc_neuro", "br_central", day(1), "10:45", 45, domain.AppointmentPending, "Recurring migraines"),
		appt("app_demo_4", "APP-10424", "pat_mei", "doc_peds", "br_north", day(-3), "08:20", 20, domain.AppointmentCancelled, "Vaccination"),
	}

	d.bills = []domain.Bill{
		{ID: "bill_1", BillNo: "INV-5001", PatientID: "pat_john", AppointmentID: "app_demo_1", Amount: 145, Paid: 145, Status: domain.BillPaid, IssuedAt: day(-14)},
		{ID: "bill_2", BillNo: "INV-5002", PatientID: "pat_mei", Amount: 190, Paid: 50, Status: domain.BillPartial, IssuedAt: day(-3)},
	}
	return d
}
