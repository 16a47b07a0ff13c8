package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
)

type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func mapSessionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrEmailRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, session.ErrUnknownEmail):
		return notFound(c, err.Error())
	case errors.Is(err, session.ErrNoSession):
		return unauthorized(c)
	case errors.Is(err, session.ErrUnknownRole):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// POST /sessions
func (h *SessionHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess, err := h.svc.Login(c.Context(), body.Email)
	if err != nil {
		return mapSessionError(c, err)
	}
	return created(c, sess)
}

// GET /sessions/current
func (h *SessionHandler) Current(c fiber.Ctx) error {
	sess, found := middleware.SessionFromFiber(c)
	if !found {
		return unauthorized(c)
	}
	return ok(c, sess)
}

// DELETE /sessions/current
func (h *SessionHandler) Logout(c fiber.Ctx) error {
	sess, found := middleware.SessionFromFiber(c)
	if !found {
		return unauthorized(c)
	}
	if err := h.svc.Logout(c.Context(), sess.ID); err != nil {
		return mapSessionError(c, err)
	}
	return noContent(c)
}
