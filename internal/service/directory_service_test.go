package service

import (
	"context"
	"testing"

	"directory-service/internal/models"
)

func seedDirectory(store *fakeProfileStore) {
	store.add(&models.Profile{
		UserID:       "user_alice",
		ExperienceID: "exp_1",
		Username:     "alicek",
		Name:         "Alice Kim",
		Bio:          "Shipping things",
		Sections: []models.Section{
			{Type: models.SectionDeveloper, Title: "Developer", Data: map[string]any{"languages": []string{"go"}}},
		},
	})
	store.add(&models.Profile{
		UserID:       "user_bob",
		ExperienceID: "exp_1",
		Username:     "bob",
		Name:         "Bob Stone",
		Bio:          "I work in Mali",
		Sections: []models.Section{
			{Type: models.SectionTrader, Title: "Trader", Data: map[string]any{"assets": []string{"stocks"}}},
		},
		IsPremiumMember: true,
	})
	store.add(&models.Profile{
		UserID:       "user_cara",
		ExperienceID: "exp_1",
		Username:     "cara",
		Name:         "Cara Voss",
		Bio:          "",
	})
	store.add(&models.Profile{
		UserID:       "user_other",
		ExperienceID: "exp_2",
		Username:     "stranger",
		Name:         "Other Community",
	})
}

func newDirectoryService(t *testing.T) (*DirectoryService, *fakeProfileStore, *fakeSettingsStore) {
	t.Helper()
	store := newFakeProfileStore()
	seedDirectory(store)
	settings := newFakeSettingsStore()
	return NewDirectoryService(store, settings, &fakeCache{}), store, settings
}

func TestQueryAllTab(t *testing.T) {
	svc, _, _ := newDirectoryService(t)

	result, err := svc.Query(context.Background(), &models.DirectoryQuery{
		ExperienceID: "exp_1",
		Tab:          TabAll,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if result.TotalCount != 3 {
		t.Errorf("Expected 3 profiles in exp_1, got %d", result.TotalCount)
	}
	for _, p := range result.Profiles {
		if p.ExperienceID != "exp_1" {
			t.Errorf("Profile from wrong experience leaked in: %s", p.ExperienceID)
		}
	}
}

func TestQuerySectionTabHonorsEnabledTypes(t *testing.T) {
	svc, _, settings := newDirectoryService(t)
	ctx := context.Background()

	// No saved settings: everything is enabled.
	result, err := svc.Query(ctx, &models.DirectoryQuery{ExperienceID: "exp_1", Tab: "developers"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if result.TotalCount != 1 || result.Profiles[0].Username != "alicek" {
		t.Errorf("Expected only the developer profile, got %v", result.Profiles)
	}

	// Admin disables the developer section: the tab goes empty, the data stays.
	if _, err := settings.Upsert(ctx, "exp_1", "indigo", []models.SectionType{models.SectionTrader}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err = svc.Query(ctx, &models.DirectoryQuery{ExperienceID: "exp_1", Tab: "developers"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("Expected empty result for disabled section tab, got %d", result.TotalCount)
	}
}

func TestQueryVerifiedTab(t *testing.T) {
	svc, _, _ := newDirectoryService(t)

	result, err := svc.Query(context.Background(), &models.DirectoryQuery{
		ExperienceID: "exp_1",
		Tab:          TabVerified,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if result.TotalCount != 1 || !result.Profiles[0].IsPremiumMember {
		t.Errorf("Expected only the premium profile, got %v", result.Profiles)
	}
}

func TestQuerySearchMatchesNameUsernameBio(t *testing.T) {
	svc, _, _ := newDirectoryService(t)
	ctx := context.Background()

	// "ali" hits Alice Kim by name and Bob by bio ("Mali"), case-insensitively.
	result, err := svc.Query(ctx, &models.DirectoryQuery{ExperienceID: "exp_1", Search: "ALI"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if result.TotalCount != 2 {
		t.Fatalf("Expected 2 matches for 'ALI', got %d", result.TotalCount)
	}

	found := map[string]bool{}
	for _, p := range result.Profiles {
		found[p.Username] = true
	}
	if !found["alicek"] || !found["bob"] {
		t.Errorf("Expected alicek and bob to match, got %v", found)
	}

	// Empty bio does not match.
	result, err = svc.Query(ctx, &models.DirectoryQuery{ExperienceID: "exp_1", Search: "zzz"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("Expected no matches for 'zzz', got %d", result.TotalCount)
	}
}

func TestQueryCombinesTabAndSearch(t *testing.T) {
	svc, _, _ := newDirectoryService(t)

	result, err := svc.Query(context.Background(), &models.DirectoryQuery{
		ExperienceID: "exp_1",
		Tab:          "traders",
		Search:       "mali",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if result.TotalCount != 1 || result.Profiles[0].Username != "bob" {
		t.Errorf("Expected bob for traders+mali, got %v", result.Profiles)
	}
}
