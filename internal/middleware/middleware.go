package middleware

import (
	"context"
	"log"
	"time"

	"directory-service/internal/models"
	"directory-service/internal/platform"

	"github.com/gofiber/fiber/v3"
)

const (
	// Locals keys set by the access middleware.
	UserIDKey      = "userId"
	AccessLevelKey = "accessLevel"
)

type AccessChecker interface {
	CheckAccess(ctx context.Context, userID, experienceID string) (*platform.Access, error)
}

// RequireUser rejects requests that did not pass through the platform's
// token verification upstream (signalled by the X-User-ID header).
func RequireUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User authentication required",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// RequireAccess checks the caller's access to the experience named by the
// route and fails closed: any checker error denies the request.
func RequireAccess(checker AccessChecker, level models.AccessLevel, timeout time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, _ := c.Locals(UserIDKey).(string)
		experienceID := c.Params("experienceId")
		if userID == "" || experienceID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "User and experience identity required",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		access, err := checker.CheckAccess(ctx, userID, experienceID)
		if err != nil {
			log.Printf("Access check failed for user %s on %s: %v", userID, experienceID, err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access check failed",
			})
		}

		if !access.HasAccess || (level == models.AccessAdmin && access.AccessLevel != models.AccessAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		c.Locals(AccessLevelKey, access.AccessLevel)
		return c.Next()
	}
}
