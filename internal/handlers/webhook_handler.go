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

type WebhookHandler struct {
	premiumService *service.PremiumService
}

func NewWebhookHandler(premiumService *service.PremiumService) *WebhookHandler {
	return &WebhookHandler{
		premiumService: premiumService,
	}
}

func (h *WebhookHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/webhooks", h.HandlePaymentWebhook)
	app.Post("/protected/premium/charge", h.CreatePremiumCharge, middleware.RequireUser())
}

// HandlePaymentWebhook ingests payment confirmations. Everything except a
// failed premium flag update is acknowledged, including events we do not
// care about; the event source must only retry the fatal case.
func (h *WebhookHandler) HandlePaymentWebhook(c fiber.Ctx) error {
	var event models.PaymentEvent
	if err := c.Bind().Body(&event); err != nil {
		log.Printf("Discarding unreadable webhook payload: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	if event.Type != "payment.succeeded" || !event.Metadata.Premium {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.premiumService.HandlePaymentSucceeded(ctx, &event); err != nil {
		log.Printf("Webhook premium update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Webhook handler failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// CreatePremiumCharge returns a checkout session for the premium upgrade.
func (h *WebhookHandler) CreatePremiumCharge(c fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)

	var req struct {
		ExperienceID string `json:"experienceId"`
		ReturnURL    string `json:"returnUrl"`
	}
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

	session, err := h.premiumService.CreateCharge(ctx, userID, req.ExperienceID, req.ReturnURL)
	if err != nil {
		log.Printf("Failed to create premium charge for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create charge",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"checkoutUrl": session.PurchaseURL,
			"planId":      session.PlanID,
		},
	})
}
