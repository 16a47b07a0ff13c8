// Package dashboard computes the landing-page summary. Patients see their
// own appointment counts; everyone else sees hospital-wide figures.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/appointment"
)

const recentLimit = 5

// PatientStats is shown to PATIENT accounts.
type PatientStats struct {
	Upcoming    int `json:"upcoming"`
	TotalVisits int `json:"totalVisits"`
}

// StaffStats is shown to DOCTOR, STAFF and ADMIN accounts. Appointment
// counts follow the caller's scope, so doctors only count their own.
type StaffStats struct {
	TotalPatients     int `json:"totalPatients"`
	AppointmentsToday int `json:"appointmentsToday"`
	PendingApproval   int `json:"pendingApproval"`
	MedicineStock     int `json:"medicineStock"`
	LowStockItems     int `json:"lowStockItems"`
	PendingOverrides  int `json:"pendingOverrides"`
}

type Summary struct {
	Role         domain.Role              `json:"role"`
	Patient      *PatientStats            `json:"patientStats,omitempty"`
	Staff        *StaffStats              `json:"staffStats,omitempty"`
	Appointments []domain.AppointmentView `json:"appointments"`
}

type Service interface {
	Summary(ctx context.Context, actor domain.User) (*Summary, error)
}

type dashboardService struct {
	repos        *repository.Repositories
	appointments appointment.Service
	now          func() time.Time
}

func New(repos *repository.Repositories, appointments appointment.Service, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{repos: repos, appointments: appointments, now: now}
}

func (s *dashboardService) Summary(ctx context.Context, actor domain.User) (*Summary, error) {
	apps, err := s.appointments.ListForActor(ctx, actor, appointment.ListRequest{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := &Summary{Role: actor.Role, Appointments: recent(apps, recentLimit)}
	if actor.Role == domain.RolePatient {
		st := &PatientStats{}
		for _, a := range apps {
			switch a.Status {
			case domain.AppointmentPending, domain.AppointmentConfirmed:
				st.Upcoming++
			case domain.AppointmentCompleted:
				st.TotalVisits++
			}
		}
		out.Patient = st
		return out, nil
	}

	st := &StaffStats{}
	today := domain.FormatDate(s.now())
	for _, a := range apps {
		if a.AppointmentDate == today && a.Status.Occupies() {
			st.AppointmentsToday++
		}
		if a.Status == domain.AppointmentPending {
			st.PendingApproval++
		}
	}

	patients, err := s.repos.Patients.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	st.TotalPatients = len(patients)

	inv, err := s.repos.Inventory.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum inventory: %w", err)
	}
	for _, it := range inv {
		st.MedicineStock += it.Quantity
		if it.LowStock() {
			st.LowStockItems++
		}
	}

	overrides, err := s.repos.Overrides.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("count overrides: %w", err)
	}
	for _, o := range overrides {
		if o.Status == domain.OverridePending {
			st.PendingOverrides++
		}
	}

	out.Staff = st
	return out, nil
}

// recent keeps the last n appointments of a list sorted oldest first.
func recent(apps []domain.AppointmentView, n int) []domain.AppointmentView {
	if len(apps) <= n {
		return apps
	}
	return apps[len(apps)-n:]
}
