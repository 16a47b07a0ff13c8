package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/service/dashboard"
)

type DashboardHandler struct {
	svc dashboard.Service
}

func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GET /dashboard
func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}
	sum, err := h.svc.Summary(c.Context(), actor)
	if err != nil {
		return internalError(c)
	}
	return ok(c, sum)
}
