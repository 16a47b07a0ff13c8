package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/doctor"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/override"
)

type OverrideHandler struct {
	svc     override.Service
	doctors doctor.Service
}

func NewOverrideHandler(svc override.Service, doctors doctor.Service) *OverrideHandler {
	return &OverrideHandler{svc: svc, doctors: doctors}
}

func mapOverrideError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, override.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, override.ErrDoctorNotFound), errors.Is(err, doctor.ErrDoctorNotFound):
		return notFound(c, "doctor not found")
	case errors.Is(err, override.ErrInvalidType),
		errors.Is(err, override.ErrInvalidDecision),
		errors.Is(err, override.ErrPastDate),
		errors.Is(err, override.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidClock):
		return badRequest(c, err.Error())
	case errors.Is(err, override.ErrAlreadyReviewed), errors.Is(err, override.ErrOverrideConflict):
		return conflict(c, err.Error())
	case errors.Is(err, override.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /overrides
// Doctors see their own requests. Others see the pending queue, or one
// doctor's history with ?doctorId=.
func (h *OverrideHandler) List(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var (
		list []domain.ScheduleOverride
		err  error
	)
	switch {
	case actor.Role == domain.RoleDoctor:
		d, derr := h.doctors.GetByUserID(c.Context(), actor.ID)
		if derr != nil {
			return mapOverrideError(c, derr)
		}
		list, err = h.svc.ListForDoctor(c.Context(), d.ID)
	case c.Query("doctorId") != "":
		list, err = h.svc.ListForDoctor(c.Context(), c.Query("doctorId"))
	default:
		list, err = h.svc.ListPending(c.Context())
	}
	if err != nil {
		return mapOverrideError(c, err)
	}
	return ok(c, list)
}

// POST /overrides
func (h *OverrideHandler) Submit(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}
	d, err := h.doctors.GetByUserID(c.Context(), actor.ID)
	if err != nil {
		return mapOverrideError(c, err)
	}

	var req override.SubmitRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ov, err := h.svc.Submit(c.Context(), d.ID, req)
	if err != nil {
		return mapOverrideError(c, err)
	}
	return created(c, ov)
}

// PATCH /overrides/:id
func (h *OverrideHandler) Review(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var body struct {
		Status domain.OverrideStatus `json:"status"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ov, err := h.svc.Review(c.Context(), actor, c.Params("id"), body.Status)
	if err != nil {
		return mapOverrideError(c, err)
	}
	return ok(c, ov)
}
