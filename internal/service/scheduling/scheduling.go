package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/pkg/observability"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type DayScheduleInput struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

const (
	defaultDayStart = "09:00"
	defaultDayEnd   = "17:00"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// ComputeAvailableSlots lists free "HH:MM" start times for a doctor on a date.
	ComputeAvailableSlots(ctx context.Context, doctorID, date string, slotMinutes int) ([]string, error)
	// ComputeDoctorSlots is ComputeAvailableSlots with the doctor's own slot duration.
	ComputeDoctorSlots(ctx context.Context, doctorID, date string) ([]string, error)

	GetWeeklySchedule(ctx context.Context, doctorID string) ([]domain.WeeklyScheduleEntry, error)
	SaveWeeklySchedule(ctx context.Context, doctorID string, days []DayScheduleInput) ([]domain.WeeklyScheduleEntry, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type schedulingService struct {
	repos   *repository.Repositories
	metrics *observability.DomainMetrics
	logger  *slog.Logger
}

func New(repos *repository.Repositories, metrics *observability.DomainMetrics) Service {
	if metrics == nil {
		metrics = observability.NewDomainMetrics()
	}
	return &schedulingService{repos: repos, metrics: metrics, logger: slog.Default().With("component", "scheduling")}
}

func (s *schedulingService) ComputeAvailableSlots(ctx context.Context, doctorID, date string, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	day, err := domain.Weekday(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	in := DayInput{}
	entry, ok, err := s.repos.Schedules.Entry(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("load weekly schedule: %w", err)
	}
	if ok {
		in.Entry = &entry
	}

	if in.Entry != nil && in.Entry.IsActive {
		if in.Overrides, err = s.repos.Overrides.ForDate(ctx, doctorID, date); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
		if in.Occupied, err = s.repos.Appointments.OccupiedStarts(ctx, doctorID, date); err != nil {
			return nil, fmt.Errorf("load appointments: %w", err)
		}
	}

	slots, err := ResolveSlots(in, slotMinutes)
	if err != nil {
		s.logger.Warn("invalid schedule window", "doctor_id", doctorID, "date", date, "error", err)
		return nil, fmt.Errorf("resolve slots: %w", err)
	}

	s.metrics.SlotComputations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", len(slots) == 0)))
	return slots, nil
}

func (s *schedulingService) ComputeDoctorSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	doc, err := s.repos.Doctors.FindByID(ctx, doctorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return s.ComputeAvailableSlots(ctx, doctorID, date, doc.EffectiveSlotDuration())
}

func (s *schedulingService) GetWeeklySchedule(ctx context.Context, doctorID string) ([]domain.WeeklyScheduleEntry, error) {
	stored, err := s.repos.Schedules.FindBy(ctx, repository.KeyDoctorID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list weekly schedule: %w", err)
	}

	byDay := make(map[int]domain.WeeklyScheduleEntry, len(stored))
	for _, e := range stored {
		if _, dup := byDay[e.DayOfWeek]; !dup {
			byDay[e.DayOfWeek] = e
		}
	}

	week := make([]domain.WeeklyScheduleEntry, 0, 7)
	for day := 0; day < 7; day++ {
		if e, ok := byDay[day]; ok {
			week = append(week, e)
			continue
		}
		week = append(week, domain.WeeklyScheduleEntry{
			ID:        domain.WeeklyScheduleID(doctorID, day),
			DoctorID:  doctorID,
			DayOfWeek: day,
			StartTime: defaultDayStart,
			EndTime:   defaultDayEnd,
			IsActive:  false,
		})
	}
	return week, nil
}

func (s *schedulingService) SaveWeeklySchedule(ctx context.Context, doctorID string, days []DayScheduleInput) ([]domain.WeeklyScheduleEntry, error) {
	if _, err := s.repos.Doctors.FindByID(ctx, doctorID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}

	entries := make([]domain.WeeklyScheduleEntry, 0, len(days))
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return nil, ErrInvalidWeekday
		}
		if d.IsActive {
			start, err := domain.ParseClock(d.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := domain.ParseClock(d.EndTime)
			if err != nil {
				return nil, err
			}
			if end <= start {
				return nil, ErrInvalidTimeRange
			}
		} else {
			// Inactive days keep whatever valid hours they carry so the form
			// shows them again when the day is switched back on.
			if _, err := domain.ParseClock(d.StartTime); err != nil {
				d.StartTime = defaultDayStart
			}
			if _, err := domain.ParseClock(d.EndTime); err != nil {
				d.EndTime = defaultDayEnd
			}
		}
		entries = append(entries, domain.WeeklyScheduleEntry{
			ID:        domain.WeeklyScheduleID(doctorID, d.DayOfWeek),
			DoctorID:  doctorID,
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsActive:  d.IsActive,
		})
	}

	if _, err := s.repos.Schedules.ReplaceForDoctor(ctx, doctorID, entries); err != nil {
		if errors.Is(err, repository.ErrDuplicateWeekday) {
			return nil, ErrDuplicateWeekday
		}
		return nil, fmt.Errorf("save weekly schedule: %w", err)
	}

	s.logger.Info("weekly schedule saved", "doctor_id", doctorID, "days", len(entries))
	return s.GetWeeklySchedule(ctx, doctorID)
}
