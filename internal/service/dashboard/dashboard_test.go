package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/appointment"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

var (
	pat   = domain.User{ID: "u_pat", Role: domain.RolePatient}
	staff = domain.User{ID: "u_staff", Role: domain.RoleStaff}
)

func setup(t *testing.T) Service {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(store.New(store.NewMemoryBackend()))
	require.NoError(t, repos.Users.ReplaceAll(ctx, []domain.User{pat, staff}))
	require.NoError(t, repos.Patients.ReplaceAll(ctx, []domain.PatientProfile{
		{ID: "p1", UserID: "u_pat"}, {ID: "p2", UserID: "u_other"},
	}))
	require.NoError(t, repos.Appointments.ReplaceAll(ctx, []domain.Appointment{
		{ID: "a1", PatientID: "p1", DoctorID: "d1", AppointmentDate: "2024-01-08", StartTime: "09:00", Status: domain.AppointmentPending},
		{ID: "a2", PatientID: "p1", DoctorID: "d1", AppointmentDate: "2024-01-08", StartTime: "10:00", Status: domain.AppointmentConfirmed},
		{ID: "a3", PatientID: "p1", DoctorID: "d1", AppointmentDate: "2024-01-01", StartTime: "09:00", Status: domain.AppointmentCompleted},
		{ID: "a4", PatientID: "p2", DoctorID: "d1", AppointmentDate: "2024-01-08", StartTime: "11:00", Status: domain.AppointmentCancelled},
		{ID: "a5", PatientID: "p2", DoctorID: "d1", AppointmentDate: "2024-01-09", StartTime: "09:00", Status: domain.AppointmentPending},
	}))
	require.NoError(t, repos.Inventory.ReplaceAll(ctx, []domain.InventoryItem{
		{ID: "i1", Quantity: 400, ReorderLevel: 50},
		{ID: "i2", Quantity: 52, ReorderLevel: 60},
	}))
	require.NoError(t, repos.Overrides.ReplaceAll(ctx, []domain.ScheduleOverride{
		{ID: "o1", Status: domain.OverridePending},
		{ID: "o2", Status: domain.OverrideApproved},
	}))

	now := func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) }
	return New(repos, appointment.New(appointment.Deps{Repos: repos, Now: now}), now)
}

func TestSummary_Patient(t *testing.T) {
	sum, err := setup(t).Summary(context.Background(), pat)
	require.NoError(t, err)

	require.NotNil(t, sum.Patient)
	assert.Nil(t, sum.Staff)
	assert.Equal(t, PatientStats{Upcoming: 2, TotalVisits: 1}, *sum.Patient)
	assert.Len(t, sum.Appointments, 3)
}

func TestSummary_Staff(t *testing.T) {
	sum, err := setup(t).Summary(context.Background(), staff)
	require.NoError(t, err)

	require.NotNil(t, sum.Staff)
	assert.Nil(t, sum.Patient)
	assert.Equal(t, StaffStats{
		TotalPatients:     2,
		AppointmentsToday: 2,
		PendingApproval:   2,
		MedicineStock:     452,
		LowStockItems:     1,
		PendingOverrides:  1,
	}, *sum.Staff)
	assert.Len(t, sum.Appointments, recentLimit)
}

func TestRecent(t *testing.T) {
	apps := make([]domain.AppointmentView, 7)
	for i := range apps {
		apps[i].ID = string(rune('a' + i))
	}
	got := recent(apps, 3)
	assert.Equal(t, []string{"e", "f", "g"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, recent(apps[:2], 3), 2)
}
