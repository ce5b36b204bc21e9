package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewActivityValidation(t *testing.T) {
	cases := []struct {
		name        string
		date        string
		title       string
		description string
		wantErr     bool
	}{
		{"Valid", "2025-03-10", "Dentist", "annual checkup", false},
		{"ValidEmptyDescription", "2025-03-10", "Dentist", "", false},
		{"EmptyTitle", "2025-03-10", "", "", true},
		{"WhitespaceTitle", "2025-03-10", "   ", "", true},
		{"TitleTooLong", "2025-03-10", strings.Repeat("a", 101), "", true},
		{"TitleAtLimit", "2025-03-10", strings.Repeat("a", 100), "", false},
		{"EmptyDate", "", "Dentist", "", true},
		{"BadDateFormat", "10/03/2025", "Dentist", "", true},
		{"BadDateShape", "2025-3-10", "Dentist", "", true},
		{"ImpossibleDate", "2025-02-30", "Dentist", "", true},
		{"DescriptionTooLong", "2025-03-10", "Dentist", strings.Repeat("d", 501), true},
		{"DescriptionAtLimit", "2025-03-10", "Dentist", strings.Repeat("d", 500), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewActivity(tc.date, tc.title, tc.description)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected a validation error")
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Expected ValidationError, got %T: %v", err, err)
				}
				if ve.Message == "" {
					t.Error("Expected a human-readable message")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !a.IsNew() {
				t.Error("Expected a new activity to have no id")
			}
		})
	}
}

func TestActivityFromRowRequiresID(t *testing.T) {
	if _, err := ActivityFromRow(0, "2025-03-10", "Dentist", ""); err == nil {
		t.Fatal("Expected an error for id 0")
	}

	a, err := ActivityFromRow(7, "2025-03-10", "Dentist", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.IsNew() {
		t.Error("Expected a reconstituted activity to not be new")
	}
	if a.ID() != 7 {
		t.Errorf("Expected id 7, got %d", a.ID())
	}
}

func TestActivityUpdate(t *testing.T) {
	original, err := ActivityFromRow(3, "2025-03-10", "Dentist", "checkup")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	newTitle := "Dentist (moved)"
	updated, err := original.Update(nil, &newTitle, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if updated.Title() != newTitle {
		t.Errorf("Expected updated title %q, got %q", newTitle, updated.Title())
	}
	if updated.Date() != original.Date() || updated.Description() != original.Description() {
		t.Error("Expected unset fields to be copied from the original")
	}
	if updated.ID() != original.ID() {
		t.Error("Expected the id to be preserved")
	}
	if original.Title() != "Dentist" {
		t.Error("Expected the original to be unaffected")
	}

	// An update that violates a rule must not produce an instance
	badDate := "not-a-date"
	if _, err := original.Update(&badDate, nil, nil); err == nil {
		t.Fatal("Expected a validation error for a bad date")
	}
}
