package appointment

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

const monday = "2024-01-08"

type published struct {
	mu       sync.Mutex
	subjects []string
}

func (p *published) Publish(subject string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type fixture struct {
	repos  *repository.Repositories
	svc    Service
	events *published
	staff  domain.User
	admin  domain.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(store.New(store.NewMemoryBackend()))

	users := []domain.User{
		{ID: "u_pat", Name: "Pat", Role: domain.RolePatient},
		{ID: "u_pat2", Name: "Other", Role: domain.RolePatient},
		{ID: "u_doc", Name: "Dr Who", Role: domain.RoleDoctor},
		{ID: "u_staff", Name: "Desk", Role: domain.RoleStaff},
		{ID: "u_admin", Name: "Boss", Role: domain.RoleAdmin},
	}
	require.NoError(t, repos.Users.ReplaceAll(ctx, users))
	require.NoError(t, repos.Patients.ReplaceAll(ctx, []domain.PatientProfile{
		{ID: "p1", UserID: "u_pat", PatientNo: "PAT-1001"},
		{ID: "p2", UserID: "u_pat2", PatientNo: "PAT-1002"},
	}))
	require.NoError(t, repos.Doctors.ReplaceAll(ctx, []domain.DoctorProfile{
		{ID: "d1", UserID: "u_doc", BranchID: "b1", SlotDuration: 30},
	}))
	require.NoError(t, repos.Schedules.ReplaceAll(ctx, []domain.WeeklyScheduleEntry{
		{ID: domain.WeeklyScheduleID("d1", 1), DoctorID: "d1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsActive: true},
	}))

	e, err := authorize.NewEnforcer()
	require.NoError(t, err)
	authz, err := authorize.NewAuthorization(e, authorize.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, authorize.SeedDefaultPolicies(ctx, authz))
	for _, u := range users {
		role, _ := authorize.RoleFor(string(u.Role))
		require.NoError(t, authorize.AssignAccountRole(ctx, authz, u.ID, role))
	}

	ev := &published{}
	svc := New(Deps{
		Repos:  repos,
		Authz:  authz,
		Events: ev,
		Now:    func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) },
	})
	return &fixture{repos: repos, svc: svc, events: ev, staff: users[3], admin: users[4]}
}

func book(f *fixture, patient, start string) (*domain.Appointment, error) {
	return f.svc.Book(context.Background(), BookRequest{
		PatientID: patient, DoctorID: "d1", Date: monday, StartTime: start, Reason: "checkup",
	})
}

func TestBook(t *testing.T) {
	f := setup(t)

	a, err := book(f, "p1", "10:00")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^APP-\d{5}$`), a.AppointmentNo)
	assert.Equal(t, domain.AppointmentPending, a.Status)
	assert.Equal(t, "10:30", a.EndTime)
	assert.Equal(t, 30, a.Duration)
	assert.Equal(t, "b1", a.BranchID, "branch defaults to the doctor's")
	assert.Equal(t, "2024-01-08T10:00:00", a.DateTime)
	assert.Equal(t, "2024-01-01T08:00:00Z", a.CreatedAt)
	assert.Equal(t, domain.AppointmentTypeConsultation, a.Type)
	assert.Equal(t, []string{"stgeorge.appointment.created.d1"}, f.events.subjects)

	// The slot is gone from the resolver and cannot be booked again.
	_, err = book(f, "p2", "10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_Rejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  BookRequest
		want error
	}{
		{"missing start", BookRequest{PatientID: "p1", DoctorID: "d1", Date: monday}, ErrMissingField},
		{"bad date", BookRequest{PatientID: "p1", DoctorID: "d1", Date: "Monday", StartTime: "10:00"}, domain.ErrInvalidDate},
		{"unknown doctor", BookRequest{PatientID: "p1", DoctorID: "d9", Date: monday, StartTime: "10:00"}, ErrDoctorNotFound},
		{"unknown patient", BookRequest{PatientID: "p9", DoctorID: "d1", Date: monday, StartTime: "10:00"}, ErrPatientNotFound},
		{"off grid", BookRequest{PatientID: "p1", DoctorID: "d1", Date: monday, StartTime: "10:15"}, ErrSlotUnavailable},
		{"outside window", BookRequest{PatientID: "p1", DoctorID: "d1", Date: monday, StartTime: "12:00"}, ErrSlotUnavailable},
		{"inactive weekday", BookRequest{PatientID: "p1", DoctorID: "d1", Date: "2024-01-09", StartTime: "10:00"}, ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Book(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	f := setup(t)

	const racers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		other     []error
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := book(f, "p1", "11:00")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotConflict), errors.Is(err, ErrSlotUnavailable):
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Empty(t, other)

	occupied, err := f.repos.Appointments.OccupiedStarts(context.Background(), "d1", monday)
	require.NoError(t, err)
	assert.Len(t, occupied, 1)
}

func TestBook_CancelledSlotIsReusable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := book(f, "p1", "09:30")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.staff, a.ID, domain.AppointmentCancelled)
	require.NoError(t, err)

	b, err := book(f, "p2", "09:30")
	require.NoError(t, err)
	assert.NotEqual(t, a.AppointmentNo, b.AppointmentNo)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []domain.AppointmentStatus
		wantErr error
	}{
		{"confirm", []domain.AppointmentStatus{domain.AppointmentConfirmed}, nil},
		{"confirm then complete", []domain.AppointmentStatus{domain.AppointmentConfirmed, domain.AppointmentCompleted}, nil},
		{"cancel pending", []domain.AppointmentStatus{domain.AppointmentCancelled}, nil},
		{"cancel confirmed", []domain.AppointmentStatus{domain.AppointmentConfirmed, domain.AppointmentCancelled}, nil},
		{"complete pending", []domain.AppointmentStatus{domain.AppointmentCompleted}, ErrInvalidTransition},
		{"reopen completed", []domain.AppointmentStatus{domain.AppointmentConfirmed, domain.AppointmentCompleted, domain.AppointmentPending}, ErrInvalidTransition},
		{"uncancel", []domain.AppointmentStatus{domain.AppointmentCancelled, domain.AppointmentConfirmed}, ErrInvalidTransition},
		{"same state", []domain.AppointmentStatus{domain.AppointmentPending}, ErrInvalidTransition},
		{"unknown status", []domain.AppointmentStatus{"NO_SHOW"}, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()
			a, err := book(f, "p1", "09:00")
			require.NoError(t, err)

			var last error
			for _, st := range tt.path {
				_, last = f.svc.UpdateStatus(ctx, f.admin, a.ID, st)
				if last != nil {
					break
				}
			}
			if tt.wantErr == nil {
				require.NoError(t, last)
				got, err := f.repos.Appointments.FindByID(ctx, a.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], got.Status)
				assert.NotEmpty(t, got.UpdatedAt)
			} else {
				assert.ErrorIs(t, last, tt.wantErr)
			}
		})
	}
}

func TestUpdateStatus_Forbidden(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, err := book(f, "p1", "09:00")
	require.NoError(t, err)

	for _, actor := range []domain.User{
		{ID: "u_pat", Role: domain.RolePatient},
		{ID: "u_doc", Role: domain.RoleDoctor},
	} {
		_, err := f.svc.UpdateStatus(ctx, actor, a.ID, domain.AppointmentConfirmed)
		assert.ErrorIs(t, err, ErrForbidden, actor.Role)
	}

	_, err = f.svc.UpdateStatus(ctx, f.staff, "app_missing", domain.AppointmentConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UpdateStatus(ctx, f.staff, a.ID, domain.AppointmentConfirmed)
	require.NoError(t, err)
	assert.Contains(t, f.events.subjects, "stgeorge.appointment.status."+a.ID)
}

func TestListForActor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a1, err := book(f, "p1", "11:00")
	require.NoError(t, err)
	_, err = book(f, "p2", "09:00")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.staff, a1.ID, domain.AppointmentConfirmed)
	require.NoError(t, err)

	mine, err := f.svc.ListForActor(ctx, domain.User{ID: "u_pat", Role: domain.RolePatient}, ListRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a1.ID, mine[0].ID)
	require.NotNil(t, mine[0].Doctor)
	require.NotNil(t, mine[0].Doctor.User)
	assert.Equal(t, "Dr Who", mine[0].Doctor.User.Name)
	require.NotNil(t, mine[0].Patient)
	assert.Equal(t, "PAT-1001", mine[0].Patient.PatientNo)

	doc, err := f.svc.ListForActor(ctx, domain.User{ID: "u_doc", Role: domain.RoleDoctor}, ListRequest{})
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, "09:00", doc[0].StartTime, "sorted by date and start")

	confirmed := domain.AppointmentConfirmed
	all, err := f.svc.ListForActor(ctx, f.staff, ListRequest{Status: &confirmed})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a1.ID, all[0].ID)

	none, err := f.svc.ListForActor(ctx, domain.User{ID: "u_new", Role: domain.RolePatient}, ListRequest{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	v, err := f.svc.Get(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, v.Status)
	_, err = f.svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
