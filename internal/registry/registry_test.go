package registry

import (
	"testing"

	"directory-service/internal/models"
)

func TestListOrderAndCompleteness(t *testing.T) {
	sections := List()

	expected := []models.SectionType{
		models.SectionGamer,
		models.SectionCreator,
		models.SectionDeveloper,
		models.SectionTrader,
		models.SectionStudent,
	}

	if len(sections) != len(expected) {
		t.Fatalf("Expected %d sections, got %d", len(expected), len(sections))
	}

	for i, want := range expected {
		if sections[i].Key != want {
			t.Errorf("Expected section %d to be %s, got %s", i, want, sections[i].Key)
		}
		if sections[i].Label == "" || sections[i].Description == "" {
			t.Errorf("Section %s is missing label or description", want)
		}
		if len(sections[i].Fields) == 0 {
			t.Errorf("Section %s has no fields", want)
		}
	}
}

func TestGet(t *testing.T) {
	schema, ok := Get(models.SectionDeveloper)
	if !ok {
		t.Fatal("Expected developer schema to exist")
	}
	if schema.Label != "Developer" {
		t.Errorf("Expected label Developer, got %s", schema.Label)
	}

	if _, ok := Get(models.SectionType("astronaut")); ok {
		t.Error("Expected unknown type to be absent")
	}
}

func TestFieldMaxCaps(t *testing.T) {
	schema, _ := Get(models.SectionGamer)
	for _, field := range schema.Fields {
		if field.Name == "games" && field.Max != 8 {
			t.Errorf("Expected games max 8, got %d", field.Max)
		}
		if field.Name == "handles" && field.Kind != models.FieldKeyValue {
			t.Errorf("Expected handles to be key-value, got %s", field.Kind)
		}
	}
}

func TestTabMapping(t *testing.T) {
	testCases := []struct {
		tab      string
		expected models.SectionType
		ok       bool
	}{
		{"developers", models.SectionDeveloper, true},
		{"gamers", models.SectionGamer, true},
		{"students", models.SectionStudent, true},
		{"all", "", false},
		{"verified", "", false},
		{"astronauts", "", false},
		{"", "", false},
		{"s", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.tab, func(t *testing.T) {
			got, ok := TypeForTab(tc.tab)
			if ok != tc.ok {
				t.Fatalf("TypeForTab(%q) ok = %v, expected %v", tc.tab, ok, tc.ok)
			}
			if ok && got != tc.expected {
				t.Errorf("TypeForTab(%q) = %s, expected %s", tc.tab, got, tc.expected)
			}
		})
	}

	if PluralKey(models.SectionDeveloper) != "developers" {
		t.Errorf("Expected plural key developers, got %s", PluralKey(models.SectionDeveloper))
	}
}
