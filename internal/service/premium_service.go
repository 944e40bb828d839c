package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"directory-service/internal/config"
	"directory-service/internal/event"
	"directory-service/internal/models"
	"directory-service/internal/platform"
)

// PremiumService reconciles asynchronous payment confirmations into the
// premium flag. The flag update is the authoritative state change; the owner
// payout afterwards is a detached side effect whose failure never undoes or
// fails the update.
type PremiumService struct {
	profiles  ProfileStore
	cache     ListingCache
	publisher event.Publisher
	payments  PaymentsClient
	payout    config.PayoutConfig
}

func NewPremiumService(profiles ProfileStore, cache ListingCache, publisher event.Publisher, payments PaymentsClient, payout config.PayoutConfig) *PremiumService {
	return &PremiumService{
		profiles:  profiles,
		cache:     cache,
		publisher: publisher,
		payments:  payments,
		payout:    payout,
	}
}

// HandlePaymentSucceeded flips the premium flag for the paying member exactly
// once and then attempts the owner payout. A payment for an unknown
// (user, experience) pair is acknowledged without touching anything.
func (s *PremiumService) HandlePaymentSucceeded(ctx context.Context, e *models.PaymentEvent) error {
	userID := e.UserID
	experienceID := e.Metadata.ExperienceID
	if userID == "" || experienceID == "" {
		log.Printf("Ignoring payment event without identities (user=%q experience=%q)", userID, experienceID)
		return nil
	}

	matched, err := s.profiles.SetPremium(ctx, userID, experienceID)
	if err != nil {
		return fmt.Errorf("failed to apply premium payment for user %s: %w", userID, err)
	}
	if !matched {
		log.Printf("Payment for unknown profile (user=%s experience=%s), nothing to update", userID, experienceID)
		return nil
	}

	s.cache.Invalidate(ctx, experienceID)

	if err := s.publisher.PublishProfileEvent(&models.ProfileEvent{
		EventType:    models.EventTypePremiumActivated,
		UserID:       userID,
		ExperienceID: experienceID,
		Timestamp:    time.Now().Unix(),
	}); err != nil {
		log.Printf("Failed to publish premium activated event: %v", err)
	}

	s.sendOwnerPayout(ctx, experienceID)
	return nil
}

func (s *PremiumService) sendOwnerPayout(ctx context.Context, experienceID string) {
	if s.payout.RecipientID == "" {
		log.Printf("No payout recipient configured, skipping owner payout for %s", experienceID)
		return
	}

	input := platform.TransferInput{
		AmountCents:    s.payout.AmountCents,
		Currency:       s.payout.Currency,
		DestinationID:  s.payout.RecipientID,
		IdempotenceKey: fmt.Sprintf("owner-payout-%s-%d", experienceID, time.Now().Unix()),
	}

	if err := s.payments.TransferFunds(ctx, input); err != nil {
		log.Printf("Owner payout failed for %s (premium flag already set): %v", experienceID, err)
	}
}

// CreateCharge asks the payments collaborator for a premium checkout session.
// The metadata ties the later confirmation event back to the experience.
func (s *PremiumService) CreateCharge(ctx context.Context, userID, experienceID, returnURL string) (*platform.CheckoutSession, error) {
	if userID == "" || experienceID == "" {
		return nil, fmt.Errorf("user ID and experience ID are required")
	}

	session, err := s.payments.ChargeUser(ctx, platform.ChargeInput{
		AmountCents:  s.payout.PremiumPriceCents,
		Currency:     s.payout.Currency,
		UserID:       userID,
		ExperienceID: experienceID,
		ReturnURL:    returnURL,
		Metadata: map[string]any{
			"premium":      true,
			"experienceId": experienceID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create premium charge: %w", err)
	}
	if session == nil || session.PurchaseURL == "" {
		return nil, fmt.Errorf("payments collaborator returned no checkout session")
	}

	return session, nil
}
