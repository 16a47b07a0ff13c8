package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerDoctorRoutes(
	api fiber.Router,
	dh *handler.DoctorHandler,
	sh *handler.ScheduleHandler,
	sessionRequired fiber.Handler,
	requirePerm permFunc,
) {
	doctors := api.Group("/doctors", sessionRequired)

	doctors.Get("/", requirePerm(authorize.ResourceDoctor, authorize.ActionList), dh.Directory)
	doctors.Get("/me", requirePerm(authorize.ResourceDoctor, authorize.ActionRead), dh.Me)

	d := doctors.Group("/:id")
	d.Get("/", requirePerm(authorize.ResourceDoctor, authorize.ActionRead), dh.GetByID)
	d.Get("/slots", requirePerm(authorize.ResourceSchedule, authorize.ActionRead), dh.Slots)
	d.Get("/schedule", requirePerm(authorize.ResourceSchedule, authorize.ActionRead), sh.GetWeekly)
	d.Put("/schedule", requirePerm(authorize.ResourceSchedule, authorize.ActionUpdate), sh.SaveWeekly)
}
