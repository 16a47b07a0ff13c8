package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

// 2024-01-08 is a Monday.
const monday = "2024-01-08"

func setup(t *testing.T) (*repository.Repositories, Service) {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(store.New(store.NewMemoryBackend()))

	_, err := repos.Doctors.Append(ctx, domain.DoctorProfile{ID: "d1", UserID: "u_d1", SlotDuration: 30})
	require.NoError(t, err)
	_, err = repos.Schedules.Append(ctx, domain.WeeklyScheduleEntry{
		ID: domain.WeeklyScheduleID("d1", 1), DoctorID: "d1", DayOfWeek: 1,
		StartTime: "09:00", EndTime: "12:00", IsActive: true,
	})
	require.NoError(t, err)

	return repos, New(repos, nil)
}

func TestComputeAvailableSlots_FullWindow(t *testing.T) {
	_, svc := setup(t)

	slots, err := svc.ComputeAvailableSlots(context.Background(), "d1", monday, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)
}

func TestComputeAvailableSlots_ExcludesBookedSlot(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()

	_, err := repos.Appointments.Append(ctx, domain.Appointment{
		ID: "a1", DoctorID: "d1", AppointmentDate: monday, StartTime: "10:00", Status: domain.AppointmentConfirmed,
	})
	require.NoError(t, err)
	_, err = repos.Appointments.Append(ctx, domain.Appointment{
		ID: "a2", DoctorID: "d1", AppointmentDate: monday, StartTime: "11:00", Status: domain.AppointmentCancelled,
	})
	require.NoError(t, err)

	slots, err := svc.ComputeAvailableSlots(ctx, "d1", monday, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, slots)
}

func TestComputeAvailableSlots_Overrides(t *testing.T) {
	tests := []struct {
		name     string
		override domain.ScheduleOverride
		minutes  int
		want     []string
	}{
		{
			name:     "approved leave",
			override: domain.ScheduleOverride{Type: domain.OverrideLeave, Status: domain.OverrideApproved},
			minutes:  30,
			want:     []string{},
		},
		{
			name: "approved shift change",
			override: domain.ScheduleOverride{
				Type: domain.OverrideShiftChange, Status: domain.OverrideApproved,
				StartTime: "13:00", EndTime: "15:00",
			},
			minutes: 60,
			want:    []string{"13:00", "14:00"},
		},
		{
			name:     "pending leave is ignored",
			override: domain.ScheduleOverride{Type: domain.OverrideLeave, Status: domain.OverridePending},
			minutes:  60,
			want:     []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "declined leave is ignored",
			override: domain.ScheduleOverride{Type: domain.OverrideLeave, Status: domain.OverrideDeclined},
			minutes:  60,
			want:     []string{"09:00", "10:00", "11:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, svc := setup(t)
			ctx := context.Background()

			ov := tt.override
			ov.ID, ov.DoctorID, ov.Date = "ov_1", "d1", monday
			_, err := repos.Overrides.Append(ctx, ov)
			require.NoError(t, err)

			slots, err := svc.ComputeAvailableSlots(ctx, "d1", monday, tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slots)
		})
	}
}

func TestComputeAvailableSlots_InactiveOrMissingDay(t *testing.T) {
	repos, svc := setup(t)
	ctx := context.Background()

	// Tuesday has no entry at all.
	slots, err := svc.ComputeAvailableSlots(ctx, "d1", "2024-01-09", 30)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	_, err = repos.Schedules.Update(ctx, domain.WeeklyScheduleID("d1", 1), func(e *domain.WeeklyScheduleEntry) {
		e.IsActive = false
	})
	require.NoError(t, err)

	// An approved shift change does not reopen an inactive weekday.
	_, err = repos.Overrides.Append(ctx, domain.ScheduleOverride{
		ID: "ov_1", DoctorID: "d1", Date: monday, Type: domain.OverrideShiftChange,
		StartTime: "13:00", EndTime: "15:00", Status: domain.OverrideApproved,
	})
	require.NoError(t, err)

	slots, err = svc.ComputeAvailableSlots(ctx, "d1", monday, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_InvalidInput(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	_, err := svc.ComputeAvailableSlots(ctx, "d1", monday, 0)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)

	_, err = svc.ComputeAvailableSlots(ctx, "d1", "08/01/2024", 30)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestComputeAvailableSlots_Idempotent(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	first, err := svc.ComputeAvailableSlots(ctx, "d1", monday, 45)
	require.NoError(t, err)
	second, err := svc.ComputeAvailableSlots(ctx, "d1", monday, 45)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// 11:15 ends exactly at 12:00 and is still offered.
	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, first)
}

func TestComputeDoctorSlots(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	slots, err := svc.ComputeDoctorSlots(ctx, "d1", monday)
	require.NoError(t, err)
	assert.Len(t, slots, 6)

	_, err = svc.ComputeDoctorSlots(ctx, "missing", monday)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestWeeklySchedule(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	week, err := svc.GetWeeklySchedule(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, week, 7)
	for day, e := range week {
		assert.Equal(t, day, e.DayOfWeek)
	}
	assert.True(t, week[1].IsActive)
	assert.False(t, week[3].IsActive)
	assert.Equal(t, "09:00", week[3].StartTime)
	assert.Equal(t, "17:00", week[3].EndTime)

	saved, err := svc.SaveWeeklySchedule(ctx, "d1", []DayScheduleInput{
		{DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00", IsActive: true},
		{DayOfWeek: 3, StartTime: "14:00", EndTime: "16:00", IsActive: true},
	})
	require.NoError(t, err)
	require.Len(t, saved, 7)
	assert.Equal(t, "08:00", saved[1].StartTime)
	assert.True(t, saved[3].IsActive)

	slots, err := svc.ComputeAvailableSlots(ctx, "d1", monday, 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00"}, slots)
}

func TestSaveWeeklySchedule_Rejects(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		doc  string
		days []DayScheduleInput
		want error
	}{
		{"unknown doctor", "nope", nil, ErrDoctorNotFound},
		{"bad weekday", "d1", []DayScheduleInput{{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}}, ErrInvalidWeekday},
		{"inverted window", "d1", []DayScheduleInput{{DayOfWeek: 2, StartTime: "12:00", EndTime: "10:00", IsActive: true}}, ErrInvalidTimeRange},
		{"bad clock", "d1", []DayScheduleInput{{DayOfWeek: 2, StartTime: "9:00", EndTime: "10:00", IsActive: true}}, domain.ErrInvalidClock},
		{"duplicate day", "d1", []DayScheduleInput{
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"},
			{DayOfWeek: 2, StartTime: "11:00", EndTime: "12:00"},
		}, ErrDuplicateWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveWeeklySchedule(ctx, tt.doc, tt.days)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSaveWeeklySchedule_InactiveDayWithoutHours(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	saved, err := svc.SaveWeeklySchedule(ctx, "d1", []DayScheduleInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsActive: true},
		{DayOfWeek: 2, IsActive: false},
		{DayOfWeek: 4, StartTime: "nope", EndTime: "15:30", IsActive: false},
	})
	require.NoError(t, err)
	require.Len(t, saved, 7)

	assert.False(t, saved[2].IsActive)
	assert.Equal(t, "09:00", saved[2].StartTime)
	assert.Equal(t, "17:00", saved[2].EndTime)

	assert.False(t, saved[4].IsActive)
	assert.Equal(t, "09:00", saved[4].StartTime)
	assert.Equal(t, "15:30", saved[4].EndTime)
}

func TestResolveSlots_DropsPartialTrailingSlot(t *testing.T) {
	entry := &domain.WeeklyScheduleEntry{StartTime: "09:00", EndTime: "12:10", IsActive: true}

	slots, err := ResolveSlots(DayInput{Entry: entry}, 45)
	require.NoError(t, err)
	// 11:15-12:00 fits; 12:00-12:45 would overrun 12:10.
	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, slots)
}

func TestResolveSlots_FirstApprovedOverrideWins(t *testing.T) {
	entry := &domain.WeeklyScheduleEntry{StartTime: "09:00", EndTime: "12:00", IsActive: true}
	in := DayInput{
		Entry: entry,
		Overrides: []domain.ScheduleOverride{
			{Type: domain.OverrideLeave, Status: domain.OverridePending},
			{Type: domain.OverrideShiftChange, Status: domain.OverrideApproved, StartTime: "10:00", EndTime: "11:00"},
			{Type: domain.OverrideLeave, Status: domain.OverrideApproved},
		},
	}

	slots, err := ResolveSlots(in, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30"}, slots)
}

func TestResolveSlots_EmptyWindow(t *testing.T) {
	for _, w := range [][2]string{{"10:00", "10:00"}, {"11:00", "10:00"}, {"10:00", "10:20"}} {
		slots, err := ResolveSlots(DayInput{Entry: &domain.WeeklyScheduleEntry{StartTime: w[0], EndTime: w[1], IsActive: true}}, 30)
		require.NoError(t, err)
		assert.Empty(t, slots, "window %s-%s", w[0], w[1])
	}
}
