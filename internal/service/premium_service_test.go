package service

import (
	"context"
	"strings"
	"testing"

	"directory-service/internal/config"
	"directory-service/internal/event"
	"directory-service/internal/models"
	"directory-service/internal/platform"
)

func paymentEvent(userID, experienceID string) *models.PaymentEvent {
	return &models.PaymentEvent{
		Type:   "payment.succeeded",
		UserID: userID,
		Metadata: models.PaymentEventMetadata{
			Premium:      true,
			ExperienceID: experienceID,
		},
	}
}

func newPremiumService(store *fakeProfileStore, payments *fakePayments) (*PremiumService, *fakeCache, *event.MockPublisher) {
	cache := &fakeCache{}
	publisher := event.NewMockPublisher()
	payout := config.PayoutConfig{
		AmountCents: 50,
		Currency:    "usd",
		RecipientID: "user_owner",
	}
	return NewPremiumService(store, cache, publisher, payments, payout), cache, publisher
}

func TestHandlePaymentSucceededSetsFlagAndPaysOut(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{UserID: "user_1", ExperienceID: "exp_1", Username: "gopher"})
	payments := &fakePayments{}

	svc, cache, publisher := newPremiumService(store, payments)

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_1", "exp_1")); err != nil {
		t.Fatalf("HandlePaymentSucceeded failed: %v", err)
	}

	profile, _ := store.FindByUserAndExperience(context.Background(), "user_1", "exp_1")
	if !profile.IsPremiumMember {
		t.Error("Expected premium flag to be set")
	}
	if len(cache.invalidations) != 1 {
		t.Errorf("Expected one cache invalidation, got %d", len(cache.invalidations))
	}
	if len(publisher.Events) != 1 || publisher.Events[0].EventType != models.EventTypePremiumActivated {
		t.Errorf("Expected premium.activated event, got %v", publisher.Events)
	}

	if len(payments.transfers) != 1 {
		t.Fatalf("Expected one owner payout, got %d", len(payments.transfers))
	}
	transfer := payments.transfers[0]
	if transfer.AmountCents != 50 || transfer.DestinationID != "user_owner" {
		t.Errorf("Unexpected payout %+v", transfer)
	}
	if !strings.HasPrefix(transfer.IdempotenceKey, "owner-payout-exp_1-") {
		t.Errorf("Unexpected idempotence key %q", transfer.IdempotenceKey)
	}
}

func TestHandlePaymentSucceededUnknownProfile(t *testing.T) {
	store := newFakeProfileStore()
	payments := &fakePayments{}

	svc, cache, _ := newPremiumService(store, payments)

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_ghost", "exp_1")); err != nil {
		t.Fatalf("Expected unknown profile to be acknowledged, got %v", err)
	}
	if len(payments.transfers) != 0 {
		t.Errorf("Expected no payout for unknown profile, got %d", len(payments.transfers))
	}
	if len(cache.invalidations) != 0 {
		t.Errorf("Expected no cache invalidation, got %d", len(cache.invalidations))
	}
}

func TestHandlePaymentSucceededMissingIdentities(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{UserID: "user_1", ExperienceID: "exp_1"})
	svc, _, _ := newPremiumService(store, &fakePayments{})

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("", "exp_1")); err != nil {
		t.Fatalf("Expected missing user ID to be acknowledged, got %v", err)
	}
	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_1", "")); err != nil {
		t.Fatalf("Expected missing experience ID to be acknowledged, got %v", err)
	}

	profile, _ := store.FindByUserAndExperience(context.Background(), "user_1", "exp_1")
	if profile.IsPremiumMember {
		t.Error("Expected no premium flag without full identities")
	}
}

func TestHandlePaymentSucceededFlagUpdateFailureIsFatal(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{UserID: "user_1", ExperienceID: "exp_1"})
	store.setPremiumErr = context.DeadlineExceeded
	payments := &fakePayments{}

	svc, _, _ := newPremiumService(store, payments)

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_1", "exp_1")); err == nil {
		t.Fatal("Expected flag update failure to surface")
	}
	if len(payments.transfers) != 0 {
		t.Errorf("Expected no payout after failed flag update, got %d", len(payments.transfers))
	}
}

func TestHandlePaymentSucceededPayoutFailureIsDetached(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{UserID: "user_1", ExperienceID: "exp_1"})
	payments := &fakePayments{transferErr: context.DeadlineExceeded}

	svc, _, _ := newPremiumService(store, payments)

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_1", "exp_1")); err != nil {
		t.Fatalf("Expected payout failure to not fail the handler, got %v", err)
	}

	profile, _ := store.FindByUserAndExperience(context.Background(), "user_1", "exp_1")
	if !profile.IsPremiumMember {
		t.Error("Expected premium flag to stay set after payout failure")
	}
}

func TestHandlePaymentSucceededNoRecipientSkipsPayout(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{UserID: "user_1", ExperienceID: "exp_1"})
	payments := &fakePayments{}

	svc := NewPremiumService(store, &fakeCache{}, event.NewMockPublisher(), payments, config.PayoutConfig{
		AmountCents: 50,
		Currency:    "usd",
	})

	if err := svc.HandlePaymentSucceeded(context.Background(), paymentEvent("user_1", "exp_1")); err != nil {
		t.Fatalf("HandlePaymentSucceeded failed: %v", err)
	}
	if len(payments.transfers) != 0 {
		t.Errorf("Expected payout to be skipped without a recipient, got %d", len(payments.transfers))
	}
}

func TestCreateCharge(t *testing.T) {
	payments := &fakePayments{session: &platform.CheckoutSession{
		PlanID:      "plan_123",
		PurchaseURL: "https://example.com/checkout/plan_123",
	}}

	svc := NewPremiumService(newFakeProfileStore(), &fakeCache{}, event.NewMockPublisher(), payments, config.PayoutConfig{
		PremiumPriceCents: 100,
		Currency:          "usd",
	})

	session, err := svc.CreateCharge(context.Background(), "user_1", "exp_1", "https://example.com/profile")
	if err != nil {
		t.Fatalf("CreateCharge failed: %v", err)
	}
	if session.PurchaseURL != "https://example.com/checkout/plan_123" {
		t.Errorf("Unexpected checkout URL %q", session.PurchaseURL)
	}

	if _, err := svc.CreateCharge(context.Background(), "", "exp_1", ""); err == nil {
		t.Error("Expected missing user ID to be rejected")
	}
}
