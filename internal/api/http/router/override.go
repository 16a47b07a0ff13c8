package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerOverrideRoutes(api fiber.Router, h *handler.OverrideHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	overrides := api.Group("/overrides", sessionRequired)

	overrides.Get("/", requirePerm(authorize.ResourceOverride, authorize.ActionList), h.List)
	overrides.Post("/", requirePerm(authorize.ResourceOverride, authorize.ActionCreate), h.Submit)
	overrides.Patch("/:id", requirePerm(authorize.ResourceOverride, authorize.ActionReview), h.Review)
}
