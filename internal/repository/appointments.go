package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
)

var (
	// ErrSlotTaken means a live appointment already holds (doctor, date, start).
	ErrSlotTaken = errors.New("slot already taken")
	// ErrNumberExhausted means no unused appointment number was found.
	ErrNumberExhausted = errors.New("no free appointment number")
)

type AppointmentRepo struct {
	*Repo[domain.Appointment]
}

// OccupiedStarts returns the start times held by non-cancelled appointments
// of a doctor on a date.
func (r *AppointmentRepo) OccupiedStarts(ctx context.Context, doctorID, date string) (map[string]struct{}, error) {
	ix, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{})
	for _, a := range ix.Lookup(KeyDocDate, doctorID+"|"+date) {
		if a.Status.Occupies() {
			out[a.StartTime] = struct{}{}
		}
	}
	return out, nil
}

// InsertIfFree appends appt unless its slot is held by a live appointment.
// nextNo is asked for candidate numbers until one is unused, at most
// attempts times. Check and insert happen in the same atomic update.
func (r *AppointmentRepo) InsertIfFree(ctx context.Context, appt domain.Appointment, nextNo func() (string, error), attempts int) (domain.Appointment, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var inserted domain.Appointment
	_, err := r.Mutate(ctx, func(ix *Index[domain.Appointment]) ([]domain.Appointment, error) {
		numbers := make(map[string]struct{}, ix.Len())
		for _, a := range ix.All() {
			numbers[a.AppointmentNo] = struct{}{}
		}
		for _, a := range ix.Lookup(KeyDocDate, appt.DoctorID+"|"+appt.AppointmentDate) {
			if a.Status.Occupies() && a.StartTime == appt.StartTime {
				return nil, fmt.Errorf("%s %s at %s: %w", a.DoctorID, a.AppointmentDate, a.StartTime, ErrSlotTaken)
			}
		}

		rec := appt
		for i := 0; ; i++ {
			if i == attempts {
				return nil, ErrNumberExhausted
			}
			no, err := nextNo()
			if err != nil {
				return nil, err
			}
			if _, used := numbers[no]; !used {
				rec.AppointmentNo = no
				break
			}
		}

		inserted = rec
		return append(ix.All(), rec), nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return inserted, nil
}
