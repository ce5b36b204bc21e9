package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	// MaxTitleLength is the maximum number of characters in an activity title.
	MaxTitleLength = 100
	// MaxDescriptionLength is the maximum number of characters in an activity description.
	MaxDescriptionLength = 500
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Activity is a calendar activity. Instances are immutable and always valid:
// validation runs in the constructor path, so an Activity can never be
// observed in an invalid state.
type Activity struct {
	id          int64 // 0 until first persisted
	date        string
	title       string
	description string
}

// NewActivity creates a new, not-yet-persisted activity.
func NewActivity(date, title, description string) (*Activity, error) {
	return newActivity(0, date, title, description)
}

// ActivityFromRow reconstitutes an activity from a stored row. The id must be
// set; rows without one cannot come from the database.
func ActivityFromRow(id int64, date, title, description string) (*Activity, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "a persisted activity requires a positive id"}
	}
	return newActivity(id, date, title, description)
}

func newActivity(id int64, date, title, description string) (*Activity, error) {
	if err := validate(date, title, description); err != nil {
		return nil, err
	}
	return &Activity{id: id, date: date, title: title, description: description}, nil
}

// Update returns a copy with the given fields replaced. Empty arguments keep
// the original value; the receiver is unaffected.
func (a *Activity) Update(date, title, description *string) (*Activity, error) {
	next := *a
	if date != nil {
		next.date = *date
	}
	if title != nil {
		next.title = *title
	}
	if description != nil {
		next.description = *description
	}
	if err := validate(next.date, next.title, next.description); err != nil {
		return nil, err
	}
	return &next, nil
}

// WithID returns a copy carrying the id generated on insert.
func (a *Activity) WithID(id int64) *Activity {
	next := *a
	next.id = id
	return &next
}

// IsNew reports whether the activity has not been persisted yet.
func (a *Activity) IsNew() bool { return a.id == 0 }

func (a *Activity) ID() int64           { return a.id }
func (a *Activity) Date() string        { return a.date }
func (a *Activity) Title() string       { return a.title }
func (a *Activity) Description() string { return a.description }

func validate(date, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "the activity title is required"}
	}
	if len([]rune(title)) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: "the title cannot exceed 100 characters"}
	}
	if date == "" || !isValidDate(date) {
		return &ValidationError{Field: "date", Message: "invalid date, expected YYYY-MM-DD"}
	}
	if len([]rune(description)) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: "the description cannot exceed 500 characters"}
	}
	return nil
}

// isValidDate checks the YYYY-MM-DD shape and that the value is a real
// calendar date (2025-02-30 is rejected, not normalized).
func isValidDate(date string) bool {
	if !dateFormat.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
