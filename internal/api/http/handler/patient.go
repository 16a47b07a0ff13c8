package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound), errors.Is(err, patient.ErrUserNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrUserRequired), errors.Is(err, patient.ErrInvalidPhone):
		return badRequest(c, err.Error())
	case errors.Is(err, patient.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context())
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, list)
}

// GET /patients/:id
func (h *PatientHandler) GetByID(c fiber.Ctx) error {
	p, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// GET /patients/me
func (h *PatientHandler) Me(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}
	p, err := h.svc.GetByUserID(c.Context(), actor.ID)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PUT /patients/me
func (h *PatientHandler) UpsertMe(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var body domain.PatientProfile
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.UserID = actor.ID

	p, err := h.svc.Upsert(c.Context(), actor, body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}
