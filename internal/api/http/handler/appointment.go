package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/appointment"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/patient"
)

type AppointmentHandler struct {
	svc      appointment.Service
	patients patient.Service
}

func NewAppointmentHandler(svc appointment.Service, patients patient.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, patients: patients}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrPatientNotFound), errors.Is(err, appointment.ErrDoctorNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrMissingField),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidClock):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrSlotUnavailable),
		errors.Is(err, appointment.ErrSlotConflict),
		errors.Is(err, appointment.ErrInvalidTransition):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /appointments[?status=]
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var req appointment.ListRequest
	if s := c.Query("status"); s != "" {
		st := domain.AppointmentStatus(s)
		if !st.Valid() {
			return badRequest(c, "invalid status")
		}
		req.Status = &st
	}

	appts, err := h.svc.ListForActor(c.Context(), actor, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	appt, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if !canSee(actor, appt) {
		return notFound(c, appointment.ErrNotFound.Error())
	}
	return ok(c, appt)
}

func canSee(actor domain.User, a *domain.AppointmentView) bool {
	switch actor.Role {
	case domain.RolePatient:
		return a.Patient != nil && a.Patient.UserID == actor.ID
	case domain.RoleDoctor:
		return a.Doctor != nil && a.Doctor.UserID == actor.ID
	default:
		return actor.Role.IsStaffLike()
	}
}

// POST /appointments
// Patients always book for their own profile; staff name the patient.
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var req appointment.BookRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if actor.Role == domain.RolePatient {
		p, err := h.patients.GetByUserID(c.Context(), actor.ID)
		if err != nil {
			if errors.Is(err, patient.ErrPatientNotFound) {
				return conflict(c, "complete your patient profile before booking")
			}
			return internalError(c)
		}
		req.PatientID = p.ID
	}

	appt, err := h.svc.Book(c.Context(), req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var body struct {
		Status domain.AppointmentStatus `json:"status"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.UpdateStatus(c.Context(), actor, c.Params("id"), body.Status)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}
