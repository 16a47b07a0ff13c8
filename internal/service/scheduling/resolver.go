package scheduling

import (
	"fmt"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
)

// DayInput is everything the resolver needs for one doctor and date.
type DayInput struct {
	Entry     *domain.WeeklyScheduleEntry
	Overrides []domain.ScheduleOverride
	Occupied  map[string]struct{}
}

// ActiveOverride picks the override honoured for a date: the first APPROVED
// one in creation order. PENDING and DECLINED overrides are ignored.
func ActiveOverride(overrides []domain.ScheduleOverride) (domain.ScheduleOverride, bool) {
	for _, o := range overrides {
		if o.Status == domain.OverrideApproved {
			return o, true
		}
	}
	return domain.ScheduleOverride{}, false
}

// ResolveSlots returns the free start times for one day, ascending.
func ResolveSlots(in DayInput, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if in.Entry == nil || !in.Entry.IsActive {
		return []string{}, nil
	}

	startStr, endStr := in.Entry.StartTime, in.Entry.EndTime
	if ov, ok := ActiveOverride(in.Overrides); ok {
		switch ov.Type {
		case domain.OverrideLeave:
			return []string{}, nil
		case domain.OverrideShiftChange:
			startStr, endStr = ov.StartTime, ov.EndTime
		}
	}

	start, err := domain.ParseClock(startStr)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	end, err := domain.ParseClock(endStr)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}

	slots := []string{}
	// A slot that would run past the window end is dropped, not clipped.
	for t := start; t+slotMinutes <= end; t += slotMinutes {
		s := domain.FormatClock(t)
		if _, taken := in.Occupied[s]; taken {
			continue
		}
		slots = append(slots, s)
	}
	return slots, nil
}
