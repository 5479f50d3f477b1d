package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doglog-app/doglog/internal/journal"
)

// Repository is the SQLite journal.Repository.
type Repository struct {
	db *DB
}

// Journal returns the journal repository backed by db.
func (db *DB) Journal() *Repository {
	return &Repository{db: db}
}

const dogColumns = "id, name, breed, birth_date, gender, notes, created_at, updated_at"

func (r *Repository) CreateDog(ctx context.Context, d journal.Dog) error {
	_, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO dogs ("+dogColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.Name, d.Breed, nullTime(d.BirthDate), d.Gender, d.Notes,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dog: %w", err)
	}
	return nil
}

func (r *Repository) UpdateDog(ctx context.Context, d journal.Dog) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE dogs SET name = ?, breed = ?, birth_date = ?, gender = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, d.Breed, nullTime(d.BirthDate), d.Gender, d.Notes, formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating dog: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) GetDog(ctx context.Context, id string) (journal.Dog, error) {
	row := r.db.conn.QueryRowContext(ctx, "SELECT "+dogColumns+" FROM dogs WHERE id = ?", id)
	d, err := scanDog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Dog{}, journal.ErrNotFound
	}
	return d, err
}

func (r *Repository) ListDogs(ctx context.Context) ([]journal.Dog, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT "+dogColumns+" FROM dogs ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// DeleteDog removes the dog, its records and its snapshots.
func (r *Repository) DeleteDog(ctx context.Context, id string) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM activities WHERE dog_id = ?",
		"DELETE FROM daily_ratings WHERE dog_id = ?",
		"DELETE FROM aggregate_metrics WHERE snapshot_id IN (SELECT id FROM snapshots WHERE dog_id = ?)",
		"DELETE FROM snapshots WHERE dog_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting dog records: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM dogs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting dog: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) ListActivities(ctx context.Context, dogID string) ([]journal.Activity, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, dog_id, date, activity_type, outcome, notes
		 FROM activities WHERE dog_id = ? ORDER BY date, rowid`,
		dogID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []journal.Activity
	for rows.Next() {
		var a journal.Activity
		var date, outcome string
		if err := rows.Scan(&a.ID, &a.DogID, &date, &a.ActivityType, &outcome, &a.Notes); err != nil {
			return nil, err
		}
		if a.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		a.Outcome = journal.Outcome(outcome)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) ListRatings(ctx context.Context, dogID string) ([]journal.DailyRating, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, dog_id, date, rating, notes
		 FROM daily_ratings WHERE dog_id = ? ORDER BY date, rowid`,
		dogID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []journal.DailyRating
	for rows.Next() {
		var dr journal.DailyRating
		var date, rating string
		if err := rows.Scan(&dr.ID, &dr.DogID, &date, &rating, &dr.Notes); err != nil {
			return nil, err
		}
		if dr.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		dr.Rating = journal.Outcome(rating)
		out = append(out, dr)
	}
	return out, rows.Err()
}

// ReplaceDay swaps a day's records inside one transaction.
func (r *Repository) ReplaceDay(ctx context.Context, dogID string, from, to time.Time, activities []journal.Activity, rating *journal.DailyRating) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM dogs WHERE id = ?", dogID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return journal.ErrNotFound
	}

	lo, hi := formatTime(from), formatTime(to)
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM activities WHERE dog_id = ? AND date >= ? AND date < ?", dogID, lo, hi); err != nil {
		return fmt.Errorf("clearing activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM daily_ratings WHERE dog_id = ? AND date >= ? AND date < ?", dogID, lo, hi); err != nil {
		return fmt.Errorf("clearing rating: %w", err)
	}

	for _, a := range activities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activities (id, dog_id, date, activity_type, outcome, notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, dogID, formatTime(a.Date), a.ActivityType, string(a.Outcome), a.Notes,
		); err != nil {
			return fmt.Errorf("inserting activity: %w", err)
		}
	}
	if rating != nil {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO daily_ratings (id, dog_id, date, rating, notes) VALUES (?, ?, ?, ?, ?)",
			rating.ID, dogID, formatTime(rating.Date), string(rating.Rating), rating.Notes,
		); err != nil {
			return fmt.Errorf("inserting rating: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) ListCustomActivities(ctx context.Context) ([]journal.CustomActivity, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT id, name, created_at FROM custom_activities ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []journal.CustomActivity
	for rows.Next() {
		var c journal.CustomActivity
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) AddCustomActivity(ctx context.Context, c journal.CustomActivity) error {
	_, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO custom_activities (id, name, created_at) VALUES (?, ?, ?)",
		c.ID, c.Name, formatTime(c.CreatedAt),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (journal.Dog, error) {
	var d journal.Dog
	var birth sql.NullString
	var created, updated string
	if err := row.Scan(&d.ID, &d.Name, &d.Breed, &birth, &d.Gender, &d.Notes, &created, &updated); err != nil {
		return journal.Dog{}, err
	}
	var err error
	if birth.Valid {
		t, err := parseTime(birth.String)
		if err != nil {
			return journal.Dog{}, err
		}
		d.BirthDate = &t
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return journal.Dog{}, err
	}
	if d.UpdatedAt, err = parseTime(updated); err != nil {
		return journal.Dog{}, err
	}
	return d, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return journal.ErrNotFound
	}
	return nil
}
