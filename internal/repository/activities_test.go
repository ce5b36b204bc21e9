package repository

import (
	"errors"
	"testing"

	"calendario-store/internal/blob"
	"calendario-store/internal/domain"
	"calendario-store/internal/engine"
)

func newTestRepository(t *testing.T) *ActivityRepository {
	t.Helper()
	store, err := blob.Open(blob.Options{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open blob store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	eng := engine.New(store, engine.Options{ScratchDir: t.TempDir()})
	t.Cleanup(func() { eng.Close() })

	return NewActivityRepository(eng)
}

func mustSave(t *testing.T, repo *ActivityRepository, date, title, description string) *domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(date, title, description)
	if err != nil {
		t.Fatalf("Failed to build activity: %v", err)
	}
	saved, err := repo.Save(a)
	if err != nil {
		t.Fatalf("Failed to save activity: %v", err)
	}
	return saved
}

func TestSaveAndFindByID(t *testing.T) {
	repo := newTestRepository(t)

	saved := mustSave(t, repo, "2025-05-20", "Aniversário", "bolo e presentes")

	if saved.IsNew() {
		t.Fatal("Expected the saved activity to carry a generated id")
	}

	found, err := repo.FindByID(saved.ID())
	if err != nil {
		t.Fatalf("Failed to find activity: %v", err)
	}
	if found == nil {
		t.Fatal("Expected the activity to be found")
	}
	if found.Date() != "2025-05-20" || found.Title() != "Aniversário" || found.Description() != "bolo e presentes" {
		t.Errorf("Round trip mismatch: got %s %q %q", found.Date(), found.Title(), found.Description())
	}
	if found.ID() != saved.ID() {
		t.Errorf("Expected id %d, got %d", saved.ID(), found.ID())
	}
}

func TestFindByIDAbsent(t *testing.T) {
	repo := newTestRepository(t)

	found, err := repo.FindByID(42)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if found != nil {
		t.Error("Expected no activity")
	}
}

func TestFindAllOrdering(t *testing.T) {
	repo := newTestRepository(t)

	// Inserted out of date order on purpose
	mustSave(t, repo, "2025-06-02", "Second day", "")
	mustSave(t, repo, "2025-06-01", "First day A", "")
	mustSave(t, repo, "2025-06-01", "First day B", "")

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("Failed to list activities: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 activities, got %d", len(all))
	}

	wantTitles := []string{"First day A", "First day B", "Second day"}
	for i, want := range wantTitles {
		if all[i].Title() != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, all[i].Title())
		}
	}
}

func TestFindByDate(t *testing.T) {
	repo := newTestRepository(t)

	first := mustSave(t, repo, "2025-06-01", "Morning", "")
	mustSave(t, repo, "2025-06-02", "Other day", "")
	second := mustSave(t, repo, "2025-06-01", "Evening", "")

	matched, err := repo.FindByDate("2025-06-01")
	if err != nil {
		t.Fatalf("Failed to list by date: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(matched))
	}

	// Insertion order, not alphabetical
	if matched[0].ID() != first.ID() || matched[1].ID() != second.ID() {
		t.Errorf("Expected insertion order [%d %d], got [%d %d]",
			first.ID(), second.ID(), matched[0].ID(), matched[1].ID())
	}

	empty, err := repo.FindByDate("2030-01-01")
	if err != nil {
		t.Fatalf("Failed to list by date: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no activities, got %d", len(empty))
	}
}

func TestSaveUpdate(t *testing.T) {
	repo := newTestRepository(t)

	saved := mustSave(t, repo, "2025-06-01", "Draft", "")

	title := "Final"
	updated, err := saved.Update(nil, &title, nil)
	if err != nil {
		t.Fatalf("Failed to build update: %v", err)
	}
	result, err := repo.Save(updated)
	if err != nil {
		t.Fatalf("Failed to save update: %v", err)
	}
	if result.ID() != saved.ID() {
		t.Errorf("Expected the update to keep id %d, got %d", saved.ID(), result.ID())
	}

	// Update semantics, not append: one row, last write wins
	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 activity after update, got %d", len(all))
	}
	if all[0].Title() != "Final" {
		t.Errorf("Expected the last write, got %q", all[0].Title())
	}
}

func TestSaveUpdateMissingRow(t *testing.T) {
	repo := newTestRepository(t)

	ghost, err := domain.ActivityFromRow(99, "2025-06-01", "Ghost", "")
	if err != nil {
		t.Fatalf("Failed to build activity: %v", err)
	}

	if _, err := repo.Save(ghost); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)

	saved := mustSave(t, repo, "2025-06-01", "Doomed", "")

	if err := repo.Delete(saved.ID()); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	found, err := repo.FindByID(saved.ID())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if found != nil {
		t.Error("Expected the activity to be gone")
	}

	if err := repo.Delete(saved.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for a second delete, got %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepository(t)

	mustSave(t, repo, "2025-06-01", "One", "")
	mustSave(t, repo, "2025-06-02", "Two", "")
	mustSave(t, repo, "2025-06-03", "Three", "")

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("Failed to delete all: %v", err)
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected an empty store, got %d activities", len(all))
	}

	// Idempotent on an already-empty store
	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("Failed to delete all twice: %v", err)
	}
}

func TestCount(t *testing.T) {
	repo := newTestRepository(t)

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0, got %d", count)
	}

	mustSave(t, repo, "2025-06-01", "One", "")
	mustSave(t, repo, "2025-06-02", "Two", "")

	count, err = repo.Count()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2, got %d", count)
	}
}
