package handlers

import (
	"context"
	"log"
	"time"

	"directory-service/internal/middleware"
	"directory-service/internal/models"
	"directory-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	profileService  *service.ProfileService
	accessChecker   middleware.AccessChecker
	accessTimeout   time.Duration
}

func NewSettingsHandler(settingsService *service.SettingsService, profileService *service.ProfileService, accessChecker middleware.AccessChecker, accessTimeout time.Duration) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		profileService:  profileService,
		accessChecker:   accessChecker,
		accessTimeout:   accessTimeout,
	}
}

func (h *SettingsHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/public/experiences/:experienceId/settings", h.GetSettings)

	adminGate := middleware.RequireAccess(h.accessChecker, models.AccessAdmin, h.accessTimeout)

	app.Put("/protected/experiences/:experienceId/settings", h.SaveSettings, middleware.RequireUser(), adminGate)
	app.Post("/protected/admin/experiences/:experienceId/sync", h.SyncMembers, middleware.RequireUser(), adminGate)
}

// GetSettings returns the experience settings, or null before the first
// admin save. Read failures degrade to null as well.
func (h *SettingsHandler) GetSettings(c fiber.Ctx) error {
	experienceID := c.Params("experienceId")
	if experienceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experience ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := h.settingsService.Get(ctx, experienceID)
	if err != nil {
		log.Printf("Failed to fetch settings for %s: %v", experienceID, err)
		settings = nil
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"settings": settings,
		},
	})
}

// SaveSettings upserts the experience settings. The admin gate already ran.
func (h *SettingsHandler) SaveSettings(c fiber.Ctx) error {
	experienceID := c.Params("experienceId")

	var req models.SaveSettingsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := h.settingsService.Upsert(ctx, experienceID, &req)
	if err != nil {
		log.Printf("Failed to save settings for %s: %v", experienceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"settings": settings,
		},
	})
}

// SyncMembers provisions profiles for every current member of the experience.
func (h *SettingsHandler) SyncMembers(c fiber.Ctx) error {
	experienceID := c.Params("experienceId")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := h.profileService.SyncMembers(ctx, experienceID)
	if err != nil {
		log.Printf("Failed to sync members for %s: %v", experienceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to sync experience members",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"membersSeen":     result.MembersSeen,
			"profilesCreated": result.ProfilesCreated,
		},
	})
}
