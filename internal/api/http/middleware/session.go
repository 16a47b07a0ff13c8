package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
	"github.com/Alijeyrad/stgeorge_backend/pkg/constants"
	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

const (
	LocalsSession = "session"
	LocalsUser    = "user"
)

// SessionRequired resolves the X-Session-Id header to a live session. On
// success the session and its user are stored in locals and the caller is
// attached to the request context as a reqctx.Actor.
func SessionRequired(svc session.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(constants.HeaderSessionID)
		if id == "" {
			return fiber.ErrUnauthorized
		}

		sess, err := svc.Current(c.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fiber.ErrUnauthorized
			}
			return err
		}

		c.Locals(LocalsSession, sess)
		c.Locals(LocalsUser, sess.User)
		c.SetContext(reqctx.WithActor(c.Context(), reqctx.Actor{
			UserID:    sess.UserID,
			Role:      string(sess.User.Role),
			SessionID: sess.ID,
		}))
		return c.Next()
	}
}

// SessionFromFiber returns the session stored by SessionRequired.
func SessionFromFiber(c fiber.Ctx) (*session.Session, bool) {
	s, ok := c.Locals(LocalsSession).(*session.Session)
	return s, ok && s != nil
}

// UserFromFiber returns the session's user stored by SessionRequired.
func UserFromFiber(c fiber.Ctx) (domain.User, bool) {
	u, ok := c.Locals(LocalsUser).(domain.User)
	return u, ok
}
