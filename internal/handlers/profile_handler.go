package handlers

import (
	"context"
	"log"
	"time"

	"directory-service/internal/middleware"
	"directory-service/internal/models"
	"directory-service/internal/registry"
	"directory-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	profileService   *service.ProfileService
	directoryService *service.DirectoryService
}

func NewProfileHandler(profileService *service.ProfileService, directoryService *service.DirectoryService) *ProfileHandler {
	return &ProfileHandler{
		profileService:   profileService,
		directoryService: directoryService,
	}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	// PUBLIC ROUTES - directory browsing and the section catalog
	publicGroup := app.Group("/public")
	publicGroup.Get("/sections", h.ListSectionSchemas)
	publicGroup.Get("/directory/:experienceId/profiles", h.GetDirectory)

	// PROTECTED ROUTES - identity supplied by the host platform upstream
	protectedGroup := app.Group("/protected/profiles", middleware.RequireUser())
	protectedGroup.Get("/me", h.GetMe)
	protectedGroup.Post("/", h.CreateProfile)
	protectedGroup.Put("/:id", h.SaveProfile)
}

// ListSectionSchemas exposes the static section catalog for edit forms.
func (h *ProfileHandler) ListSectionSchemas(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"sections": registry.List(),
		},
	})
}

// GetDirectory returns the filtered directory for an experience. Read
// failures degrade to an empty listing rather than an error page.
func (h *ProfileHandler) GetDirectory(c fiber.Ctx) error {
	experienceID := c.Params("experienceId")
	if experienceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experience ID is required",
		})
	}

	query := &models.DirectoryQuery{
		ExperienceID: experienceID,
		Tab:          c.Query("tab", service.TabAll),
		Search:       c.Query("q"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.directoryService.Query(ctx, query)
	if err != nil {
		log.Printf("Failed to query directory for %s: %v", experienceID, err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"data": fiber.Map{
				"profiles":   []*models.Profile{},
				"totalCount": 0,
			},
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profiles":   result.Profiles,
			"totalCount": result.TotalCount,
		},
	})
}

// GetMe returns the caller's profile in an experience, or null when none
// exists yet.
func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	experienceID := c.Query("experienceId")
	if experienceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experience ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetByUserAndExperience(ctx, userID, experienceID)
	if err != nil {
		log.Printf("Failed to get profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

// CreateProfile runs find-or-create for the caller. Safe to call on every
// visit; the fresh flag tells the client to open the edit flow.
func (h *ProfileHandler) CreateProfile(c fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)

	var req models.CreateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ExperienceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experience ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, created, err := h.profileService.FindOrCreateForUser(ctx, userID, req.ExperienceID)
	if err != nil {
		log.Printf("Failed to reconcile profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": profile,
			"created": created,
			"fresh":   profile.IsFresh(),
		},
	})
}

// SaveProfile performs the full replace of the profile's mutable fields.
func (h *ProfileHandler) SaveProfile(c fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	profileID := c.Params("id")

	var req models.SaveProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Members may only save their own profile.
	existing, err := h.profileService.GetByUserAndExperience(ctx, userID, req.ExperienceID)
	if err != nil {
		log.Printf("Failed to load profile for save by user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}
	if existing == nil || existing.ID.Hex() != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only edit your own profile",
		})
	}

	profile, err := h.profileService.Save(ctx, profileID, &req)
	if err != nil {
		log.Printf("Failed to save profile %s: %v", profileID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile changes",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": profile,
		},
	})
}
