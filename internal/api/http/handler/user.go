package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrInvalidName), errors.Is(err, user.ErrInvalidPhone), errors.Is(err, user.ErrInvalidEmail):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrForbidden):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /users[?role=]
func (h *UserHandler) List(c fiber.Ctx) error {
	var role *domain.Role
	if q := c.Query("role"); q != "" {
		r, valid := domain.ParseRole(q)
		if !valid {
			return badRequest(c, "invalid role")
		}
		role = &r
	}

	users, err := h.svc.List(c.Context(), role)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, users)
}

// GET /users/:id
func (h *UserHandler) GetByID(c fiber.Ctx) error {
	u, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// PATCH /users/:id
func (h *UserHandler) Update(c fiber.Ctx) error {
	actor, found := actorFromLocals(c)
	if !found {
		return unauthorized(c)
	}

	var upd domain.UserUpdate
	if err := c.Bind().Body(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.Update(c.Context(), actor, c.Params("id"), upd)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}
