package override

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
	"github.com/Alijeyrad/stgeorge_backend/pkg/constants"
	"github.com/Alijeyrad/stgeorge_backend/pkg/events"
	"github.com/Alijeyrad/stgeorge_backend/pkg/observability"
	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SubmitRequest struct {
	Date      string              `json:"date"`
	Type      domain.OverrideType `json:"type"`
	StartTime string              `json:"startTime"`
	EndTime   string              `json:"endTime"`
	Reason    string              `json:"reason"`
}

type Deps struct {
	Repos   *repository.Repositories
	Authz   authorize.IAuthorization
	Events  events.Publisher
	Metrics *observability.DomainMetrics
	Now     func() time.Time
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Submit files a PENDING override for the doctor.
	Submit(ctx context.Context, doctorID string, req SubmitRequest) (*domain.ScheduleOverride, error)
	// Review approves or declines a PENDING override. Admin only.
	Review(ctx context.Context, admin domain.User, overrideID string, decision domain.OverrideStatus) (*domain.ScheduleOverride, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]domain.ScheduleOverride, error)
	ListPending(ctx context.Context) ([]domain.ScheduleOverride, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type overrideService struct {
	repos   *repository.Repositories
	authz   authorize.IAuthorization
	events  events.Publisher
	metrics *observability.DomainMetrics
	now     func() time.Time
}

func New(d Deps) Service {
	s := &overrideService{repos: d.Repos, authz: d.Authz, events: d.Events, metrics: d.Metrics, now: d.Now}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.metrics == nil {
		s.metrics = observability.NewDomainMetrics()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *overrideService) Submit(ctx context.Context, doctorID string, req SubmitRequest) (*domain.ScheduleOverride, error) {
	if _, err := s.repos.Doctors.FindByID(ctx, doctorID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	today, _ := domain.ParseDate(domain.FormatDate(s.now()))
	if date.Before(today) {
		return nil, ErrPastDate
	}

	ov := domain.ScheduleOverride{
		ID:        "ov_" + uuid.Must(uuid.NewV7()).String(),
		DoctorID:  doctorID,
		Date:      req.Date,
		Type:      req.Type,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    domain.OverridePending,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	switch req.Type {
	case domain.OverrideLeave:
	case domain.OverrideShiftChange:
		start, err := domain.ParseClock(req.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseClock(req.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, ErrInvalidWindow
		}
		ov.StartTime, ov.EndTime = req.StartTime, req.EndTime
	default:
		return nil, ErrInvalidType
	}

	if _, err := s.repos.Overrides.Append(ctx, ov); err != nil {
		return nil, fmt.Errorf("save override: %w", err)
	}

	events.Emit(s.events, constants.SubjectOverrideSubmitted, doctorID, ov.ID)
	slog.Info("override submitted", append(reqctx.LogAttrs(ctx),
		"override_id", ov.ID, "doctor_id", doctorID, "date", ov.Date, "type", ov.Type)...)

	return &ov, nil
}

func (s *overrideService) authorizeReview(ctx context.Context, admin domain.User) error {
	if s.authz == nil {
		if admin.Role == domain.RoleAdmin {
			return nil
		}
		return ErrForbidden
	}
	err := s.authz.MustEnforce(ctx, authorize.GroupSubject(admin.ID), authorize.DomainSys,
		authorize.ResourceOverride, authorize.ActionReview)
	if errors.Is(err, authorize.ErrForbidden) {
		return ErrForbidden
	}
	return err
}

func (s *overrideService) Review(ctx context.Context, admin domain.User, overrideID string, decision domain.OverrideStatus) (*domain.ScheduleOverride, error) {
	if decision != domain.OverrideApproved && decision != domain.OverrideDeclined {
		return nil, ErrInvalidDecision
	}
	if err := s.authorizeReview(ctx, admin); err != nil {
		return nil, err
	}

	var reviewed domain.ScheduleOverride
	_, err := s.repos.Overrides.Mutate(ctx, func(ix *repository.Index[domain.ScheduleOverride]) ([]domain.ScheduleOverride, error) {
		cur, ok := ix.Get(overrideID)
		if !ok {
			return nil, ErrNotFound
		}
		if !cur.Status.CanTransition(decision) {
			return nil, ErrAlreadyReviewed
		}
		if decision == domain.OverrideApproved {
			for _, other := range ix.Lookup(repository.KeyDocDate, cur.DoctorID+"|"+cur.Date) {
				if other.ID != cur.ID && other.Status == domain.OverrideApproved {
					return nil, fmt.Errorf("%s conflicts with %s: %w", cur.ID, other.ID, ErrOverrideConflict)
				}
			}
		}

		all := ix.All()
		for i := range all {
			if all[i].ID == overrideID {
				all[i].Status = decision
				all[i].ReviewedBy = admin.ID
				all[i].ReviewedAt = s.now().UTC().Format(time.RFC3339)
				reviewed = all[i]
				break
			}
		}
		return all, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OverrideReviews.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", string(decision))))
	events.Emit(s.events, constants.SubjectOverrideReviewed, reviewed.DoctorID, reviewed.ID)
	slog.Info("override reviewed", append(reqctx.LogAttrs(ctx),
		"override_id", reviewed.ID, "doctor_id", reviewed.DoctorID, "decision", decision)...)

	return &reviewed, nil
}

func (s *overrideService) ListForDoctor(ctx context.Context, doctorID string) ([]domain.ScheduleOverride, error) {
	out, err := s.repos.Overrides.FindBy(ctx, repository.KeyDoctorID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return out, nil
}

func (s *overrideService) ListPending(ctx context.Context) ([]domain.ScheduleOverride, error) {
	all, err := s.repos.Overrides.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	out := make([]domain.ScheduleOverride, 0, len(all))
	for _, o := range all {
		if o.Status == domain.OverridePending {
			out = append(out, o)
		}
	}
	return out, nil
}
