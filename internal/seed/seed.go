// Package seed populates an empty store with the fixed initial dataset.
package seed

import (
	"fmt"
	"log/slog"

	"calendario-store/internal/domain"
	"calendario-store/internal/metrics"
	"calendario-store/internal/repository"
)

// Seeder performs the idempotent first-run bulk insert.
type Seeder struct {
	activities *repository.ActivityRepository
}

// NewSeeder creates a seeder over the given repository.
func NewSeeder(activities *repository.ActivityRepository) *Seeder {
	return &Seeder{activities: activities}
}

// Seed inserts the fixed dataset unless any activity already exists. Rows are
// inserted one at a time; individual failures are counted and logged without
// aborting the batch.
func (s *Seeder) Seed() error {
	existing, err := s.activities.Count()
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if existing > 0 {
		slog.Info("Database already has data, seed skipped", "existing", existing)
		return nil
	}
	s.insertAll()
	return nil
}

// ForceSeed inserts the dataset without the existing-data check. Intended for
// manual invocation only.
func (s *Seeder) ForceSeed() {
	slog.Info("Forcing database seed")
	s.insertAll()
}

// NeedsSeed reports whether the store has no activities.
func (s *Seeder) NeedsSeed() (bool, error) {
	count, err := s.activities.Count()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *Seeder) insertAll() {
	var inserted, failed int

	for _, row := range seedData {
		activity, err := domain.NewActivity(row.Date, row.Title, "")
		if err == nil {
			_, err = s.activities.Save(activity)
		}
		if err != nil {
			slog.Error("Failed to insert seed row", "title", row.Title, "date", row.Date, "error", err)
			metrics.SeedInsertsTotal.WithLabelValues(metrics.ResultFailure).Inc()
			failed++
			continue
		}
		metrics.SeedInsertsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		inserted++
	}

	slog.Info("Seed finished", "inserted", inserted, "failed", failed)
}
