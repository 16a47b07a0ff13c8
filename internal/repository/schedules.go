package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
)

var ErrDuplicateWeekday = errors.New("duplicate weekday in schedule")

type ScheduleRepo struct {
	*Repo[domain.WeeklyScheduleEntry]
}

// Entry returns the doctor's entry for a weekday, if any.
func (r *ScheduleRepo) Entry(ctx context.Context, doctorID string, day int) (domain.WeeklyScheduleEntry, bool, error) {
	ix, err := r.Snapshot(ctx)
	if err != nil {
		return domain.WeeklyScheduleEntry{}, false, err
	}
	e, ok := ix.First(KeySlotDay, dayKey(doctorID, day))
	return e, ok, nil
}

// ReplaceForDoctor swaps all of a doctor's entries for the given ones.
func (r *ScheduleRepo) ReplaceForDoctor(ctx context.Context, doctorID string, entries []domain.WeeklyScheduleEntry) ([]domain.WeeklyScheduleEntry, error) {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.DayOfWeek]; dup {
			return nil, fmt.Errorf("day %d: %w", e.DayOfWeek, ErrDuplicateWeekday)
		}
		seen[e.DayOfWeek] = struct{}{}
	}

	_, err := r.Mutate(ctx, func(ix *Index[domain.WeeklyScheduleEntry]) ([]domain.WeeklyScheduleEntry, error) {
		kept := make([]domain.WeeklyScheduleEntry, 0, ix.Len()+len(entries))
		for _, e := range ix.All() {
			if e.DoctorID != doctorID {
				kept = append(kept, e)
			}
		}
		return append(kept, entries...), nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
