// Package repository translates between domain entities and engine rows.
package repository

import (
	"database/sql"
	"fmt"

	"calendario-store/internal/domain"
	"calendario-store/internal/engine"
)

// ActivityRepository persists domain.Activity values through the engine. It
// never touches the blob store directly.
type ActivityRepository struct {
	engine *engine.Engine
}

// NewActivityRepository creates a repository over the given engine.
func NewActivityRepository(e *engine.Engine) *ActivityRepository {
	return &ActivityRepository{engine: e}
}

// activityRow is the typed decoding of an activities row. Positional values
// never escape this package.
type activityRow struct {
	ID          int64
	Date        string
	Title       string
	Description sql.NullString
}

func (r activityRow) toEntity() (*domain.Activity, error) {
	return domain.ActivityFromRow(r.ID, r.Date, r.Title, r.Description.String)
}

// FindAll returns every activity ordered by date, then id.
func (r *ActivityRepository) FindAll() ([]*domain.Activity, error) {
	return r.query("SELECT id, date, title, description FROM activities ORDER BY date, id")
}

// FindByDate returns the activities on a date in insertion order.
func (r *ActivityRepository) FindByDate(date string) ([]*domain.Activity, error) {
	return r.query("SELECT id, date, title, description FROM activities WHERE date = ? ORDER BY id", date)
}

// FindByID returns the activity with the given id, or nil if there is none.
func (r *ActivityRepository) FindByID(id int64) (*domain.Activity, error) {
	row, err := r.engine.QueryRow("SELECT id, date, title, description FROM activities WHERE id = ?", id)
	if err != nil {
		return nil, err
	}

	var ar activityRow
	err = row.Scan(&ar.ID, &ar.Date, &ar.Title, &ar.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return ar.toEntity()
}

// Save inserts a new activity or updates an existing one. On insert the
// returned entity carries the generated id; callers never receive a saved
// activity without one. On update the target row must exist.
func (r *ActivityRepository) Save(a *domain.Activity) (*domain.Activity, error) {
	if a.IsNew() {
		_, err := r.engine.Exec(
			"INSERT INTO activities (date, title, description) VALUES (?, ?, ?)",
			a.Date(), a.Title(), a.Description())
		if err != nil {
			return nil, fmt.Errorf("failed to insert activity: %w", err)
		}

		id, err := r.engine.LastInsertID()
		if err != nil {
			return nil, err
		}
		return a.WithID(id), nil
	}

	result, err := r.engine.Exec(
		"UPDATE activities SET date = ?, title = ?, description = ? WHERE id = ?",
		a.Date(), a.Title(), a.Description(), a.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("activity %d: %w", a.ID(), domain.ErrNotFound)
	}
	return a, nil
}

// Delete removes the activity with the given id.
func (r *ActivityRepository) Delete(id int64) error {
	result, err := r.engine.Exec("DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("activity %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every activity.
func (r *ActivityRepository) DeleteAll() error {
	if _, err := r.engine.Exec("DELETE FROM activities"); err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}
	return nil
}

// Count returns the number of stored activities.
func (r *ActivityRepository) Count() (int64, error) {
	row, err := r.engine.QueryRow("SELECT COUNT(*) FROM activities")
	if err != nil {
		return 0, err
	}
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) query(query string, args ...any) ([]*domain.Activity, error) {
	rows, err := r.engine.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		var ar activityRow
		if err := rows.Scan(&ar.ID, &ar.Date, &ar.Title, &ar.Description); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a, err := ar.toEntity()
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
