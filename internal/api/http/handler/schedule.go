package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/doctor"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/scheduling"
)

type ScheduleHandler struct {
	svc     scheduling.Service
	doctors doctor.Service
}

func NewScheduleHandler(svc scheduling.Service, doctors doctor.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, doctors: doctors}
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrDoctorNotFound), errors.Is(err, doctor.ErrDoctorNotFound):
		return notFound(c, "doctor not found")
	case errors.Is(err, scheduling.ErrInvalidTimeRange),
		errors.Is(err, scheduling.ErrInvalidWeekday),
		errors.Is(err, scheduling.ErrDuplicateWeekday),
		errors.Is(err, domain.ErrInvalidClock):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /doctors/:id/schedule
func (h *ScheduleHandler) GetWeekly(c fiber.Ctx) error {
	entries, err := h.svc.GetWeeklySchedule(c.Context(), c.Params("id"))
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, entries)
}

// PUT /doctors/:id/schedule
// Doctors may only replace their own week.
func (h *ScheduleHandler) SaveWeekly(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}
	doctorID := c.Params("id")

	if actor.Role == domain.RoleDoctor {
		own, err := h.doctors.GetByUserID(c.Context(), actor.ID)
		if err != nil {
			return mapScheduleError(c, err)
		}
		if own.ID != doctorID {
			return forbidden(c)
		}
	}

	var body struct {
		Days []scheduling.DayScheduleInput `json:"days"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	entries, err := h.svc.SaveWeeklySchedule(c.Context(), doctorID, body.Days)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, entries)
}
