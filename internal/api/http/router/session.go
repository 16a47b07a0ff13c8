package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
)

func (r *Router) registerSessionRoutes(api fiber.Router, h *handler.SessionHandler, sessionRequired fiber.Handler) {
	api.Post("/sessions", h.Login)

	current := api.Group("/sessions/current", sessionRequired)
	current.Get("/", h.Current)
	current.Delete("/", h.Logout)
}
