package store

import (
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
)

// labelCheck renders the closed label set as an SQL IN list.
func labelCheck() string {
	quoted := make([]string, len(gesture.Labels))
	for i, l := range gesture.Labels {
		quoted[i] = "'" + strings.ReplaceAll(string(l), "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per run of the recognition loop
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			camera_id INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Smoothed label changes within a session
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			label TEXT NOT NULL CHECK(label IN (%s)),
			hands INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`, labelCheck()),

		`CREATE INDEX IF NOT EXISTS idx_gesture_events_session_id ON gesture_events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
