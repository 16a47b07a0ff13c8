package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(api fiber.Router, h *handler.UserHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	users := api.Group("/users", sessionRequired)
	users.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.List)
	users.Get("/:id", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.GetByID)
	users.Patch("/:id", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), h.Update)
}
