package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// Fresh database.
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dogs (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			breed       TEXT NOT NULL DEFAULT '',
			birth_date  TEXT,
			gender      TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id            TEXT PRIMARY KEY,
			dog_id        TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
			date          TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			outcome       TEXT NOT NULL,
			notes         TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS daily_ratings (
			id      TEXT PRIMARY KEY,
			dog_id  TEXT NOT NULL REFERENCES dogs(id) ON DELETE CASCADE,
			date    TEXT NOT NULL,
			rating  TEXT NOT NULL DEFAULT '',
			notes   TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS custom_activities (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_cache (
			cache_key   TEXT PRIMARY KEY,
			payload     BLOB NOT NULL,
			stored_at   TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			dog_id      TEXT NOT NULL,
			time_range  TEXT NOT NULL,
			taken_at    TEXT NOT NULL,
			version     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS aggregate_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			detail       TEXT
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_activities_dog_date ON activities(dog_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_dog_date ON daily_ratings(dog_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_dog ON snapshots(dog_id, time_range)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
