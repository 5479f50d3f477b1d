// Package memory is an in-process journal.Repository used by tests and by
// the "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/doglog-app/doglog/internal/journal"
)

// Repository keeps every record in maps guarded by a RWMutex.
type Repository struct {
	mu         sync.RWMutex
	dogs       map[string]journal.Dog
	activities map[string][]journal.Activity
	ratings    map[string][]journal.DailyRating
	custom     []journal.CustomActivity
}

// New returns an empty Repository.
func New() *Repository {
	return &Repository{
		dogs:       make(map[string]journal.Dog),
		activities: make(map[string][]journal.Activity),
		ratings:    make(map[string][]journal.DailyRating),
	}
}

func (r *Repository) CreateDog(_ context.Context, d journal.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dogs[d.ID] = d
	return nil
}

func (r *Repository) UpdateDog(_ context.Context, d journal.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[d.ID]; !ok {
		return journal.ErrNotFound
	}
	r.dogs[d.ID] = d
	return nil
}

func (r *Repository) GetDog(_ context.Context, id string) (journal.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dogs[id]
	if !ok {
		return journal.Dog{}, journal.ErrNotFound
	}
	return d, nil
}

func (r *Repository) ListDogs(_ context.Context) ([]journal.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]journal.Dog, 0, len(r.dogs))
	for _, d := range r.dogs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repository) DeleteDog(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[id]; !ok {
		return journal.ErrNotFound
	}
	delete(r.dogs, id)
	delete(r.activities, id)
	delete(r.ratings, id)
	return nil
}

func (r *Repository) ListActivities(_ context.Context, dogID string) ([]journal.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]journal.Activity(nil), r.activities[dogID]...), nil
}

func (r *Repository) ListRatings(_ context.Context, dogID string) ([]journal.DailyRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]journal.DailyRating(nil), r.ratings[dogID]...), nil
}

func (r *Repository) ReplaceDay(_ context.Context, dogID string, from, to time.Time, activities []journal.Activity, rating *journal.DailyRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[dogID]; !ok {
		return journal.ErrNotFound
	}

	inDay := func(t time.Time) bool { return !t.Before(from) && t.Before(to) }

	kept := r.activities[dogID][:0:0]
	for _, a := range r.activities[dogID] {
		if !inDay(a.Date) {
			kept = append(kept, a)
		}
	}
	r.activities[dogID] = append(kept, activities...)

	keptRatings := r.ratings[dogID][:0:0]
	for _, rt := range r.ratings[dogID] {
		if !inDay(rt.Date) {
			keptRatings = append(keptRatings, rt)
		}
	}
	if rating != nil {
		keptRatings = append(keptRatings, *rating)
	}
	r.ratings[dogID] = keptRatings
	return nil
}

func (r *Repository) ListCustomActivities(_ context.Context) ([]journal.CustomActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]journal.CustomActivity(nil), r.custom...), nil
}

func (r *Repository) AddCustomActivity(_ context.Context, c journal.CustomActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = append(r.custom, c)
	return nil
}

// Seed appends records directly, bypassing day replacement. Intended for
// tests and demos.
func (r *Repository) Seed(dogID string, activities []journal.Activity, ratings []journal.DailyRating) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities[dogID] = append(r.activities[dogID], activities...)
	r.ratings[dogID] = append(r.ratings[dogID], ratings...)
}
