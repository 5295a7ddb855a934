package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hirewire/jobboard/internal/api/rest/middleware"
	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/errs"
	"github.com/hirewire/jobboard/internal/helper/utils"
	"github.com/hirewire/jobboard/internal/services"
	"github.com/hirewire/jobboard/internal/session"
	pkgutils "github.com/hirewire/jobboard/pkg/utils"
)

const maxCVSize = 5 * 1024 * 1024 // 5MB

type AdvertHandler struct {
	svc      services.AdvertService
	sessions session.Store
}

func NewAdvertHandler(svc services.AdvertService, sessions session.Store) *AdvertHandler {
	return &AdvertHandler{svc: svc, sessions: sessions}
}

func (h *AdvertHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	auth := middleware.RequireSession(h.sessions)

	// Browsing and applying are public.
	api.Get("/adverts", h.ListAdverts)
	api.Get("/adverts/search", h.Search)
	api.Get("/adverts/:advertID", h.GetAdvert)
	api.Post("/adverts/:advertID/apply", h.Apply)

	api.Post("/adverts", auth, h.CreateAdvert)
	api.Put("/adverts/:advertID", auth, h.UpdateAdvert)
	api.Delete("/adverts/:advertID", auth, h.DeleteAdvert)
	api.Get("/adverts/:advertID/applications", auth, h.AdvertApplications)
	api.Patch("/applications/:applicationID/decision", auth, h.Decide)
	api.Get("/me/jobs", auth, h.MyJobs)
	api.Get("/me/applications", auth, h.MyApplications)
}

func advertStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrAdvertNotFound), errors.Is(err, errs.ErrApplicationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, errs.ErrDuplicateApplication), errors.Is(err, errs.ErrInvalidInput):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || raw == 0 {
		return 0, errs.ErrInvalidInput
	}
	return uint(raw), nil
}

func queryPage(ctx *fiber.Ctx) int {
	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func userIDFromLocals(ctx *fiber.Ctx) uint {
	userID, _ := ctx.Locals("userID").(uint)
	return userID
}

func (h *AdvertHandler) ListAdverts(ctx *fiber.Ctx) error {
	page, err := h.svc.ListAdverts(queryPage(ctx))
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AdvertHandler) Search(ctx *fiber.Ctx) error {
	page, err := h.svc.Search(ctx.Query("keyword"), ctx.Query("location"), queryPage(ctx))
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AdvertHandler) GetAdvert(ctx *fiber.Ctx) error {
	advertID, err := paramID(ctx, "advertID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid advert id")
	}

	advert, err := h.svc.GetAdvert(advertID)
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, advert)
}

func (h *AdvertHandler) CreateAdvert(ctx *fiber.Ctx) error {
	var requestBody dto.AdvertRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	advert, err := h.svc.CreateAdvert(userIDFromLocals(ctx), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, advert)
}

func (h *AdvertHandler) UpdateAdvert(ctx *fiber.Ctx) error {
	advertID, err := paramID(ctx, "advertID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid advert id")
	}

	var requestBody dto.AdvertRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	advert, err := h.svc.UpdateAdvert(userIDFromLocals(ctx), advertID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, advert)
}

func (h *AdvertHandler) DeleteAdvert(ctx *fiber.Ctx) error {
	advertID, err := paramID(ctx, "advertID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid advert id")
	}

	if err := h.svc.DeleteAdvert(userIDFromLocals(ctx), advertID); err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "Advert deleted successfully"})
}

// Apply accepts multipart form data: name, email, portfolio_url and an
// optional cv file.
func (h *AdvertHandler) Apply(ctx *fiber.Ctx) error {
	advertID, err := paramID(ctx, "advertID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid advert id")
	}

	input := dto.ApplicationInput{
		Name:         ctx.FormValue("name"),
		Email:        ctx.FormValue("email"),
		PortfolioURL: ctx.FormValue("portfolio_url"),
	}

	if file, err := ctx.FormFile("cv"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot open uploaded file")
		}
		defer f.Close()

		b, err := pkgutils.ReadAllLimit(f, maxCVSize)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "cv file too large (max 5MB)")
		}
		input.CVFilename = file.Filename
		input.CVBytes = b
	}

	app, err := h.svc.Apply(ctx.Context(), advertID, input)
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message":        "Application submitted successfully",
		"application_id": app.ID,
	})
}

func (h *AdvertHandler) MyJobs(ctx *fiber.Ctx) error {
	page, err := h.svc.MyJobs(userIDFromLocals(ctx), queryPage(ctx))
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AdvertHandler) MyApplications(ctx *fiber.Ctx) error {
	sess := middleware.SessionFromLocals(ctx)
	if sess == nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	page, err := h.svc.MyApplications(sess.Email, queryPage(ctx))
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AdvertHandler) AdvertApplications(ctx *fiber.Ctx) error {
	advertID, err := paramID(ctx, "advertID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid advert id")
	}

	page, err := h.svc.AdvertApplications(userIDFromLocals(ctx), advertID, queryPage(ctx))
	if err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AdvertHandler) Decide(ctx *fiber.Ctx) error {
	applicationID, err := paramID(ctx, "applicationID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	var requestBody dto.DecisionRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Status == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "status is required")
	}

	if err := h.svc.Decide(userIDFromLocals(ctx), applicationID, requestBody.Status); err != nil {
		return utils.ResponseError(ctx, advertStatus(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "Application updated successfully"})
}
