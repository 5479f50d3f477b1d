package journal

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a dog does not exist.
var ErrNotFound = errors.New("journal: not found")

// ErrInvalidInput is wrapped around validation failures.
var ErrInvalidInput = errors.New("journal: invalid input")

// Repository persists dogs and their records. Implementations must be safe
// for concurrent use.
type Repository interface {
	CreateDog(ctx context.Context, d Dog) error
	UpdateDog(ctx context.Context, d Dog) error
	GetDog(ctx context.Context, id string) (Dog, error)
	ListDogs(ctx context.Context) ([]Dog, error)
	// DeleteDog removes the dog and every record it owns.
	DeleteDog(ctx context.Context, id string) error

	ListActivities(ctx context.Context, dogID string) ([]Activity, error)
	ListRatings(ctx context.Context, dogID string) ([]DailyRating, error)
	// ReplaceDay atomically deletes the activities and rating logged in
	// [from, to) and stores the given ones. A nil rating leaves the day
	// unrated.
	ReplaceDay(ctx context.Context, dogID string, from, to time.Time, activities []Activity, rating *DailyRating) error

	ListCustomActivities(ctx context.Context) ([]CustomActivity, error)
	AddCustomActivity(ctx context.Context, c CustomActivity) error
}

// CacheInvalidator drops derived data for a dog whose records changed.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, dogID string) error
}
