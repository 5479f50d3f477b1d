// Package journal defines the dog journal records (dogs, activities, daily
// ratings) together with the scoring and time-range primitives shared by the
// analysis packages.
package journal

import "time"

// Dog is the subject whose records are journaled and analyzed.
type Dog struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Breed     string     `json:"breed,omitempty" yaml:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Gender    string     `json:"gender,omitempty" yaml:"gender,omitempty"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
}

// Activity is a single logged event for a dog.
type Activity struct {
	ID           string    `json:"id" yaml:"id"`
	DogID        string    `json:"dog_id" yaml:"dog_id"`
	Date         time.Time `json:"date" yaml:"date"`
	ActivityType string    `json:"activity_type" yaml:"activity_type"`
	Outcome      Outcome   `json:"outcome" yaml:"outcome"`
	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RecordDate implements Dated.
func (a Activity) RecordDate() time.Time { return a.Date }

// DailyRating is the overall verdict for one day. Rating may be empty when
// the day was logged without a verdict.
type DailyRating struct {
	ID     string    `json:"id" yaml:"id"`
	DogID  string    `json:"dog_id" yaml:"dog_id"`
	Date   time.Time `json:"date" yaml:"date"`
	Rating Outcome   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Notes  string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RecordDate implements Dated.
func (r DailyRating) RecordDate() time.Time { return r.Date }

// CustomActivity is a user-defined activity label offered alongside the
// predefined catalog.
type CustomActivity struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Journal is a dog together with every record it owns.
type Journal struct {
	Dog        Dog           `json:"dog"`
	Activities []Activity    `json:"activities"`
	Ratings    []DailyRating `json:"ratings"`
}

// Day is the log of a single calendar day.
type Day struct {
	Date       string       `json:"date"`
	Activities []Activity   `json:"activities"`
	Rating     *DailyRating `json:"rating,omitempty"`
}

// DayKey formats t as the calendar-day key used for grouping and
// deduplication.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
