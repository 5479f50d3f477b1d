package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doglog-app/doglog/internal/journal"
)

// Repository implements journal.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

const dogColumns = "id, name, breed, birth_date, gender, notes, created_at, updated_at"

func (r *Repository) CreateDog(ctx context.Context, d journal.Dog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dogs (`+dogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.ID, d.Name, d.Breed, d.BirthDate, d.Gender, d.Notes, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting dog: %w", err)
	}
	return nil
}

func (r *Repository) UpdateDog(ctx context.Context, d journal.Dog) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE dogs
		SET name = $2, breed = $3, birth_date = $4, gender = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, d.ID, d.Name, d.Breed, d.BirthDate, d.Gender, d.Notes, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating dog: %w", err)
	}
	return requireRow(tag)
}

func (r *Repository) GetDog(ctx context.Context, id string) (journal.Dog, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+dogColumns+" FROM dogs WHERE id = $1", id)
	d, err := scanDog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return journal.Dog{}, journal.ErrNotFound
	}
	return d, err
}

func (r *Repository) ListDogs(ctx context.Context) ([]journal.Dog, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+dogColumns+" FROM dogs ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dogs := []journal.Dog{}
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, d)
	}
	return dogs, rows.Err()
}

// DeleteDog relies on ON DELETE CASCADE for the dog's records.
func (r *Repository) DeleteDog(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM dogs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting dog: %w", err)
	}
	return requireRow(tag)
}

func (r *Repository) ListActivities(ctx context.Context, dogID string) ([]journal.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dog_id, date, activity_type, outcome, notes
		FROM activities WHERE dog_id = $1 ORDER BY date, seq
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Activity
	for rows.Next() {
		var a journal.Activity
		var outcome string
		if err := rows.Scan(&a.ID, &a.DogID, &a.Date, &a.ActivityType, &outcome, &a.Notes); err != nil {
			return nil, err
		}
		a.Outcome = journal.Outcome(outcome)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) ListRatings(ctx context.Context, dogID string) ([]journal.DailyRating, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dog_id, date, rating, notes
		FROM daily_ratings WHERE dog_id = $1 ORDER BY date, seq
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.DailyRating
	for rows.Next() {
		var dr journal.DailyRating
		var rating string
		if err := rows.Scan(&dr.ID, &dr.DogID, &dr.Date, &rating, &dr.Notes); err != nil {
			return nil, err
		}
		dr.Rating = journal.Outcome(rating)
		out = append(out, dr)
	}
	return out, rows.Err()
}

func (r *Repository) ReplaceDay(ctx context.Context, dogID string, from, to time.Time, activities []journal.Activity, rating *journal.DailyRating) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM dogs WHERE id = $1)", dogID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return journal.ErrNotFound
		}

		if _, err := tx.Exec(ctx,
			"DELETE FROM activities WHERE dog_id = $1 AND date >= $2 AND date < $3", dogID, from, to); err != nil {
			return fmt.Errorf("clearing activities: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"DELETE FROM daily_ratings WHERE dog_id = $1 AND date >= $2 AND date < $3", dogID, from, to); err != nil {
			return fmt.Errorf("clearing rating: %w", err)
		}

		batch := &pgx.Batch{}
		for _, a := range activities {
			batch.Queue(`
				INSERT INTO activities (id, dog_id, date, activity_type, outcome, notes)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, a.ID, dogID, a.Date, a.ActivityType, string(a.Outcome), a.Notes)
		}
		if rating != nil {
			batch.Queue(`
				INSERT INTO daily_ratings (id, dog_id, date, rating, notes)
				VALUES ($1, $2, $3, $4, $5)
			`, rating.ID, dogID, rating.Date, string(rating.Rating), rating.Notes)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting day records: %w", err)
		}
		return nil
	})
}

func (r *Repository) ListCustomActivities(ctx context.Context) ([]journal.CustomActivity, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name, created_at FROM custom_activities ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.CustomActivity
	for rows.Next() {
		var c journal.CustomActivity
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) AddCustomActivity(ctx context.Context, c journal.CustomActivity) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO custom_activities (id, name, created_at) VALUES ($1, $2, $3)",
		c.ID, c.Name, c.CreatedAt)
	return err
}

func scanDog(row pgx.Row) (journal.Dog, error) {
	var d journal.Dog
	err := row.Scan(&d.ID, &d.Name, &d.Breed, &d.BirthDate, &d.Gender, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return journal.ErrNotFound
	}
	return nil
}
