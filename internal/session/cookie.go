package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const CookieName = "session_id"

func SetCookie(ctx *fiber.Ctx, id string, expires time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  expires,
	})
}

func ClearCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
	})
}
