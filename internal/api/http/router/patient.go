package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerPatientRoutes(api fiber.Router, h *handler.PatientHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	patients := api.Group("/patients", sessionRequired)

	// "me" before ":id"
	patients.Get("/me", h.Me)
	patients.Put("/me", requirePerm(authorize.ResourcePatient, authorize.ActionUpdate), h.UpsertMe)

	patients.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionList), h.List)
	patients.Get("/:id", requirePerm(authorize.ResourcePatient, authorize.ActionRead), h.GetByID)
}
