package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	appts := api.Group("/appointments", sessionRequired)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.List)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Book)

	a := appts.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.GetByID)
	a.Patch("/status", requirePerm(authorize.ResourceAppointmentStatus, authorize.ActionUpdate), ah.UpdateStatus)
}
