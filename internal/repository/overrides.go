package repository

import (
	"context"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
)

type OverrideRepo struct {
	*Repo[domain.ScheduleOverride]
}

// ForDate returns every override of a doctor on a date, oldest first.
func (r *OverrideRepo) ForDate(ctx context.Context, doctorID, date string) ([]domain.ScheduleOverride, error) {
	ix, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Lookup(KeyDocDate, doctorID+"|"+date), nil
}
