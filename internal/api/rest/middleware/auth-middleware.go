package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hirewire/jobboard/internal/session"
)

// currentSession resolves the session behind the request cookie, or nil.
func currentSession(ctx *fiber.Ctx, sessions session.Store) *session.Session {
	id := ctx.Cookies(session.CookieName)
	if id == "" {
		return nil
	}
	sess, err := sessions.Get(ctx.Context(), id)
	if err != nil {
		return nil
	}
	return sess
}

// RequireSession guards authenticated routes. The session and user id land
// in Locals for downstream handlers.
func RequireSession(sessions session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := currentSession(ctx, sessions)
		if sess == nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		ctx.Locals("session", sess)
		ctx.Locals("userID", sess.UserID)
		return ctx.Next()
	}
}

// RedirectIfAuthenticated turns already-logged-in callers away from login,
// register and verification endpoints before any credential processing.
func RedirectIfAuthenticated(sessions session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if sess := currentSession(ctx, sessions); sess != nil {
			return ctx.Redirect("/", fiber.StatusSeeOther)
		}
		return ctx.Next()
	}
}

func SessionFromLocals(ctx *fiber.Ctx) *session.Session {
	sess, _ := ctx.Locals("session").(*session.Session)
	return sess
}
