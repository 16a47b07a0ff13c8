package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/scheduling"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
	"github.com/Alijeyrad/stgeorge_backend/pkg/constants"
	"github.com/Alijeyrad/stgeorge_backend/pkg/events"
	"github.com/Alijeyrad/stgeorge_backend/pkg/observability"
	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
	"github.com/Alijeyrad/stgeorge_backend/pkg/util/codes"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	BranchID  string `json:"branchId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

type ListRequest struct {
	Status *domain.AppointmentStatus
}

type Deps struct {
	Repos   *repository.Repositories
	Slots   scheduling.Service
	Authz   authorize.IAuthorization
	Events  events.Publisher
	Metrics *observability.DomainMetrics
	Numbers codes.Config
	Now     func() time.Time
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Book creates a PENDING appointment if the start time is still free.
	Book(ctx context.Context, req BookRequest) (*domain.Appointment, error)
	// UpdateStatus moves an appointment along PENDING -> CONFIRMED -> COMPLETED,
	// or to CANCELLED from either non-terminal state.
	UpdateStatus(ctx context.Context, actor domain.User, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.AppointmentView, error)
	// ListForActor scopes the list by role: patients and doctors see their
	// own appointments, staff and admins see all.
	ListForActor(ctx context.Context, actor domain.User, req ListRequest) ([]domain.AppointmentView, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	repos   *repository.Repositories
	slots   scheduling.Service
	authz   authorize.IAuthorization
	events  events.Publisher
	metrics *observability.DomainMetrics
	numbers codes.Config
	now     func() time.Time
}

func New(d Deps) Service {
	s := &appointmentService{
		repos:   d.Repos,
		slots:   d.Slots,
		authz:   d.Authz,
		events:  d.Events,
		metrics: d.Metrics,
		numbers: d.Numbers,
		now:     d.Now,
	}
	if s.slots == nil {
		s.slots = scheduling.New(d.Repos, d.Metrics)
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.metrics == nil {
		s.metrics = observability.NewDomainMetrics()
	}
	if s.numbers.AppointmentNoDigits <= 0 {
		s.numbers = codes.DefaultConfig()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *appointmentService) logger(ctx context.Context) *slog.Logger {
	return slog.Default().With(reqctx.LogAttrs(ctx)...).With("component", "appointment")
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (*domain.Appointment, error) {
	if req.PatientID == "" || req.DoctorID == "" || req.Date == "" || req.StartTime == "" {
		return nil, ErrMissingField
	}
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, err
	}

	doc, err := s.repos.Doctors.FindByID(ctx, req.DoctorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if _, err := s.repos.Patients.FindByID(ctx, req.PatientID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}

	duration := doc.EffectiveSlotDuration()
	offered, err := s.slots.ComputeAvailableSlots(ctx, doc.ID, req.Date, duration)
	if err != nil {
		return nil, fmt.Errorf("compute slots: %w", err)
	}
	if !slices.Contains(offered, req.StartTime) {
		s.metrics.BookingConflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "unavailable")))
		return nil, ErrSlotUnavailable
	}

	end, err := domain.AddClock(req.StartTime, duration)
	if err != nil {
		return nil, err
	}

	branchID := req.BranchID
	if branchID == "" {
		branchID = doc.BranchID
	}

	now := s.now().UTC()
	appt := domain.Appointment{
		ID:              "app_" + uuid.Must(uuid.NewV7()).String(),
		PatientID:       req.PatientID,
		DoctorID:        doc.ID,
		BranchID:        branchID,
		AppointmentDate: req.Date,
		StartTime:       req.StartTime,
		EndTime:         end,
		DateTime:        req.Date + "T" + req.StartTime + ":00",
		Duration:        duration,
		Status:          domain.AppointmentPending,
		Type:            domain.AppointmentTypeConsultation,
		Reason:          strings.TrimSpace(req.Reason),
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now.Format(time.RFC3339),
	}

	// The resolver check above is advisory; InsertIfFree re-checks the slot
	// inside the store's atomic update.
	inserted, err := s.repos.Appointments.InsertIfFree(ctx, appt,
		codes.AppointmentNoGenerator(s.numbers.AppointmentNoDigits), s.numbers.AppointmentNoRetries)
	switch {
	case errors.Is(err, repository.ErrSlotTaken):
		s.metrics.BookingConflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "conflict")))
		return nil, ErrSlotConflict
	case errors.Is(err, repository.ErrNumberExhausted):
		return nil, ErrAppointmentNoExhausted
	case err != nil:
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.metrics.Bookings.Add(ctx, 1)
	events.Emit(s.events, constants.SubjectAppointmentCreated, inserted.DoctorID, inserted.ID)
	s.logger(ctx).Info("appointment booked",
		"appointment_id", inserted.ID,
		"appointment_no", inserted.AppointmentNo,
		"doctor_id", inserted.DoctorID,
		"date", inserted.AppointmentDate,
		"start", inserted.StartTime,
	)

	return &inserted, nil
}

func (s *appointmentService) authorizeStatusChange(ctx context.Context, actor domain.User) error {
	if s.authz == nil {
		if actor.Role.IsStaffLike() {
			return nil
		}
		return ErrForbidden
	}
	err := s.authz.MustEnforce(ctx, authorize.GroupSubject(actor.ID), authorize.DomainSys,
		authorize.ResourceAppointmentStatus, authorize.ActionUpdate)
	if errors.Is(err, authorize.ErrForbidden) {
		return ErrForbidden
	}
	return err
}

func (s *appointmentService) UpdateStatus(ctx context.Context, actor domain.User, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.authorizeStatusChange(ctx, actor); err != nil {
		return nil, err
	}

	var (
		updated domain.Appointment
		from    domain.AppointmentStatus
	)
	_, err := s.repos.Appointments.Mutate(ctx, func(ix *repository.Index[domain.Appointment]) ([]domain.Appointment, error) {
		all := ix.All()
		for i := range all {
			if all[i].ID != id {
				continue
			}
			from = all[i].Status
			if !from.CanTransition(status) {
				return nil, fmt.Errorf("%s -> %s: %w", from, status, ErrInvalidTransition)
			}
			all[i].Status = status
			all[i].UpdatedAt = s.now().UTC().Format(time.RFC3339)
			updated = all[i]
			return all, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(status)),
	))
	events.Emit(s.events, constants.SubjectAppointmentStatus, updated.ID, string(status))
	s.logger(ctx).Info("appointment status changed",
		"appointment_id", updated.ID, "from", from, "to", status, "by", actor.ID)

	return &updated, nil
}

func (s *appointmentService) Get(ctx context.Context, id string) (*domain.AppointmentView, error) {
	a, err := s.repos.Appointments.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	views, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	v := views.Appointment(a)
	return &v, nil
}

func (s *appointmentService) ListForActor(ctx context.Context, actor domain.User, req ListRequest) ([]domain.AppointmentView, error) {
	views, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}

	var appts []domain.Appointment
	switch actor.Role {
	case domain.RolePatient:
		p, ok := views.PatientByUser(actor.ID)
		if !ok {
			return []domain.AppointmentView{}, nil
		}
		appts, err = s.repos.Appointments.FindBy(ctx, repository.KeyPatient, p.ID)
	case domain.RoleDoctor:
		d, ok := views.DoctorByUser(actor.ID)
		if !ok {
			return []domain.AppointmentView{}, nil
		}
		appts, err = s.repos.Appointments.FindBy(ctx, repository.KeyDoctorID, d.ID)
	case domain.RoleStaff, domain.RoleAdmin:
		appts, err = s.repos.Appointments.All(ctx)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := make([]domain.AppointmentView, 0, len(appts))
	for _, a := range appts {
		if req.Status != nil && a.Status != *req.Status {
			continue
		}
		out = append(out, views.Appointment(a))
	}
	slices.SortStableFunc(out, func(a, b domain.AppointmentView) int {
		return strings.Compare(a.AppointmentDate+a.StartTime, b.AppointmentDate+b.StartTime)
	})
	return out, nil
}
