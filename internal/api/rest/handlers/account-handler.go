package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hirewire/jobboard/internal/api/rest/middleware"
	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/errs"
	"github.com/hirewire/jobboard/internal/helper/utils"
	"github.com/hirewire/jobboard/internal/services"
	"github.com/hirewire/jobboard/internal/session"
)

type AccountHandler struct {
	svc      services.AccountService
	sessions session.Store
}

func NewAccountHandler(svc services.AccountService, sessions session.Store) *AccountHandler {
	return &AccountHandler{svc: svc, sessions: sessions}
}

func (h *AccountHandler) SetupRoutes(app *fiber.App) {
	account := app.Group("/api/account")
	guest := middleware.RedirectIfAuthenticated(h.sessions)

	account.Post("/register", guest, h.Register)
	account.Post("/verify", guest, h.VerifyAccount)
	account.Post("/resend-verification", h.ResendVerification)
	account.Post("/login", guest, h.Login)
	account.Post("/logout", h.Logout)
	account.Post("/forgot-password", h.ForgotPassword)
	account.Get("/verify-password-reset-link", h.VerifyPasswordResetLink)
	account.Post("/set-new-password", h.SetNewPassword)

	account.Get("/me", middleware.RequireSession(h.sessions), h.Me)
}

// accountStatus maps workflow errors onto HTTP statuses.
func accountStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrDuplicateEmail):
		return fiber.StatusConflict
	case errors.Is(err, errs.ErrCooldownActive):
		return fiber.StatusTooManyRequests
	case errors.Is(err, errs.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, errs.ErrUnknownEmail):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrInvalidCode),
		errors.Is(err, errs.ErrCodeExpired),
		errors.Is(err, errs.ErrInvalidLink),
		errors.Is(err, errs.ErrPasswordMismatch),
		errors.Is(err, errs.ErrInvalidInput):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func (h *AccountHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if requestBody.Email == "" || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	pendingExisted, err := h.svc.Register(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	message := "Account created! Check your email for the verification code."
	if pendingExisted {
		message = "You already have a pending account. A new verification code has been sent."
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": message,
		"email":   requestBody.Email,
	})
}

func (h *AccountHandler) VerifyAccount(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyAccountRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if requestBody.Code == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please enter the verification code")
	}

	user, err := h.svc.VerifyCode(requestBody.Email, requestBody.Code)
	if err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	// A verified account is logged in right away.
	sess := session.New(user.ID, user.Email)
	if err := h.sessions.Create(ctx.Context(), sess); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not create session")
	}
	session.SetCookie(ctx, sess.ID, sess.ExpiresAt)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Account verified!",
		"user":    dto.UserResponse{ID: user.ID, Email: user.Email},
	})
}

func (h *AccountHandler) ResendVerification(ctx *fiber.Ctx) error {
	var requestBody dto.ResendVerificationRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Email is required to resend verification code")
	}

	sent, err := h.svc.ResendCode(requestBody.Email)
	if err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	message := "A new verification code has been sent to your email."
	if !sent {
		message = "No pending account found with this email."
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": message})
}

func (h *AccountHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	sess := session.New(user.ID, user.Email)
	if err := h.sessions.Create(ctx.Context(), sess); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not create session")
	}
	session.SetCookie(ctx, sess.ID, sess.ExpiresAt)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"user":    dto.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// Logout is idempotent: safe without an active session.
func (h *AccountHandler) Logout(ctx *fiber.Ctx) error {
	if id := ctx.Cookies(session.CookieName); id != "" {
		_ = h.sessions.Delete(ctx.Context(), id)
	}
	session.ClearCookie(ctx)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "Logout successful"})
}

func (h *AccountHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid email id")
	}

	if err := h.svc.RequestReset(requestBody.Email); err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "Password reset link sent"})
}

func (h *AccountHandler) VerifyPasswordResetLink(ctx *fiber.Ctx) error {
	email := ctx.Query("email")
	token := ctx.Query("token")

	if _, err := h.svc.ValidateResetLink(email, token); err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	// The token is not consumed here; the caller renders the new-password
	// form with the same pair.
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"email": email,
		"token": token,
	})
}

func (h *AccountHandler) SetNewPassword(ctx *fiber.Ctx) error {
	var requestBody dto.SetNewPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid input")
	}

	if err := h.svc.CompleteReset(requestBody); err != nil {
		return utils.ResponseError(ctx, accountStatus(err), err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "Password reset successful"})
}

func (h *AccountHandler) Me(ctx *fiber.Ctx) error {
	sess := middleware.SessionFromLocals(ctx)
	if sess == nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetUser(sess.UserID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusNotFound, "user not found")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}
