package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/doctor"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/scheduling"
)

type DoctorHandler struct {
	doctors doctor.Service
	slots   scheduling.Service
}

func NewDoctorHandler(doctors doctor.Service, slots scheduling.Service) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, slots: slots}
}

func mapDoctorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound), errors.Is(err, scheduling.ErrDoctorNotFound):
		return notFound(c, "doctor not found")
	case errors.Is(err, scheduling.ErrInvalidSlotDuration),
		errors.Is(err, scheduling.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidClock):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /doctors
func (h *DoctorHandler) Directory(c fiber.Ctx) error {
	docs, err := h.doctors.Directory(c.Context(), doctor.DirectoryRequest{
		BranchID:       c.Query("branchId"),
		Specialization: c.Query("specialization"),
	})
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, docs)
}

// GET /doctors/me
func (h *DoctorHandler) Me(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}
	d, err := h.doctors.GetByUserID(c.Context(), actor.ID)
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, d)
}

// GET /doctors/:id
func (h *DoctorHandler) GetByID(c fiber.Ctx) error {
	d, err := h.doctors.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, d)
}

// GET /doctors/:id/slots?date=YYYY-MM-DD[&minutes=N]
func (h *DoctorHandler) Slots(c fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return badRequest(c, "date is required")
	}

	var (
		slots []string
		err   error
	)
	if m := c.Query("minutes"); m != "" {
		minutes, convErr := strconv.Atoi(m)
		if convErr != nil {
			return badRequest(c, "invalid minutes")
		}
		slots, err = h.slots.ComputeAvailableSlots(c.Context(), c.Params("id"), date, minutes)
	} else {
		slots, err = h.slots.ComputeDoctorSlots(c.Context(), c.Params("id"), date)
	}
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, fiber.Map{"doctorId": c.Params("id"), "date": date, "slots": slots})
}
