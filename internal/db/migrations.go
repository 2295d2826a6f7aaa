package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name    TEXT    NOT NULL,
		email        TEXT    NOT NULL UNIQUE,
		company_name TEXT    NOT NULL DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		manufacturer TEXT    NOT NULL,
		model_name   TEXT    NOT NULL,
		car_segment  TEXT    NOT NULL,
		UNIQUE (manufacturer, model_name)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		vin               TEXT    NOT NULL UNIQUE,
		license_plate     TEXT    NOT NULL,
		engine_type       TEXT    NOT NULL,
		transmission      TEXT    NOT NULL,
		manufactured_year INTEGER NOT NULL,
		manufacturer      TEXT    NOT NULL,
		model_name        TEXT    NOT NULL,
		model_id          INTEGER REFERENCES models(id),
		car_segment       TEXT    NOT NULL,
		user_id           INTEGER NOT NULL REFERENCES customers(id),
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		car_segment TEXT    NOT NULL,
		price       REAL    NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS parts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		car_segment TEXT    NOT NULL,
		price       REAL    NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle_id   INTEGER NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		notes        TEXT    NOT NULL,
		visit_status TEXT    NOT NULL DEFAULT 'not started',
		visit_start  TEXT    NOT NULL DEFAULT '',
		visit_end    TEXT    NOT NULL DEFAULT '',
		car_segment  TEXT    NOT NULL DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visit_services (
		visit_id    INTEGER NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		service_id  INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		qty         INTEGER NOT NULL CHECK (qty >= 0),
		price       REAL    NOT NULL,
		car_segment TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (visit_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS visit_parts (
		visit_id    INTEGER NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		part_id     INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		qty         INTEGER NOT NULL CHECK (qty >= 0),
		price       REAL    NOT NULL,
		car_segment TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (visit_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS api_tokens (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		name         TEXT     NOT NULL,
		token_prefix TEXT     NOT NULL,
		token_hash   TEXT     NOT NULL UNIQUE,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	columnMigrations := []struct {
		table, column, definition string
	}{
		{"customers", "phone", "TEXT NOT NULL DEFAULT ''"},
		{"api_tokens", "expires_at", "DATETIME"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing column info: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
