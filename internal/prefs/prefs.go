// Package prefs persists learned exercise-preference signals in a
// local SQLite database so they survive restarts. Signals are
// recorded on substitution and consumed by ranking layers elsewhere.
package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liftlab/liftplan/internal/models"
	_ "modernc.org/sqlite"
)

// DB is the preference-signal store.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite preference database at
// dir/prefs.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating prefs dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "prefs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening prefs db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS preference_signals (
		user_id     TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		split       TEXT NOT NULL,
		weight      INTEGER NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating prefs table: %w", err)
	}

	return &DB{db: db}, nil
}

// Record appends one preference signal.
func (d *DB) Record(sig models.PreferenceSignal) error {
	_, err := d.db.Exec(
		`INSERT INTO preference_signals (user_id, exercise_id, split, weight, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		sig.UserID, sig.ExerciseID, string(sig.Split), sig.Weight, sig.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("recording preference signal: %w", err)
	}
	return nil
}

// ForUser returns the accumulated signal weight per exercise for one
// user and split.
func (d *DB) ForUser(userID string, split models.Split) (map[string]int, error) {
	rows, err := d.db.Query(
		`SELECT exercise_id, SUM(weight) FROM preference_signals
		 WHERE user_id = ? AND split = ? GROUP BY exercise_id`,
		userID, string(split),
	)
	if err != nil {
		return nil, fmt.Errorf("querying preference signals: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var exerciseID string
		var weight int
		if err := rows.Scan(&exerciseID, &weight); err != nil {
			return nil, fmt.Errorf("scanning preference signal: %w", err)
		}
		out[exerciseID] = weight
	}
	return out, rows.Err()
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
