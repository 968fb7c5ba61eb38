package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrInvalidLabel is returned when recording a label outside the closed set.
var ErrInvalidLabel = errors.New("invalid gesture label")

// Event is a change of the smoothed gesture label.
type Event struct {
	ID        string
	SessionID string
	Label     gesture.Label
	// Hands is the number of hands detected in the frame that caused the change.
	Hands     int
	CreatedAt time.Time
}

// EventRepository provides access to gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record stores a label change for the session.
func (r *EventRepository) Record(sessionID string, label gesture.Label, hands int) (*Event, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	e := &Event{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Label:     label,
		Hands:     hands,
		CreatedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, session_id, label, hands, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Label), e.Hands, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record event for session %s: %w", sessionID, err)
	}

	return e, nil
}

// ListBySession returns the events of a session in the order they were recorded.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, label, hands, created_at
		 FROM gesture_events WHERE session_id = ? ORDER BY rowid ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// Recent returns the newest events across all sessions, newest first.
// A limit of zero or less returns all.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, label, hands, created_at
		 FROM gesture_events ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// CountByLabel returns how many times each label was entered during the session.
func (r *EventRepository) CountByLabel(sessionID string) (map[gesture.Label]int, error) {
	rows, err := r.db.Query(
		`SELECT label, COUNT(*) FROM gesture_events WHERE session_id = ? GROUP BY label`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[gesture.Label]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[gesture.Label(label)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var label string

		if err := rows.Scan(&e.ID, &e.SessionID, &label, &e.Hands, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.Label = gesture.Label(label)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
