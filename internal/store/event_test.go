package store

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
)

func startSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess, err := s.Sessions().Start(0)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return sess
}

func TestEventRepository_Record(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	e, err := s.Events().Record(sess.ID, gesture.PeaceSign, 2)
	if err != nil {
		t.Fatalf("failed to record event: %v", err)
	}
	if e.ID == "" {
		t.Error("ID should be assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	got := events[0]
	if got.Label != gesture.PeaceSign {
		t.Errorf("Label = %q, want %q", got.Label, gesture.PeaceSign)
	}
	if got.Hands != 2 {
		t.Errorf("Hands = %d, want 2", got.Hands)
	}
	if got.SessionID != sess.ID {
		t.Errorf("SessionID = %q, want %q", got.SessionID, sess.ID)
	}
}

func TestEventRepository_RecordEveryLabel(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	for _, l := range gesture.Labels {
		if _, err := s.Events().Record(sess.ID, l, 1); err != nil {
			t.Errorf("label %q should be accepted: %v", l, err)
		}
	}
}

func TestEventRepository_RecordInvalidLabel(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	_, err := s.Events().Record(sess.ID, gesture.Label("Wave"), 1)
	if !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestEventRepository_RecordUnknownSession(t *testing.T) {
	s := newTestStore(t)

	// Foreign keys reject events for sessions that do not exist
	if _, err := s.Events().Record("missing", gesture.Fist, 1); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestEventRepository_ListBySessionOrder(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)
	other := startSession(t, s)

	seq := []gesture.Label{gesture.NoHand, gesture.Fist, gesture.OpenPalm, gesture.Fist}
	for _, l := range seq {
		if _, err := s.Events().Record(sess.ID, l, 1); err != nil {
			t.Fatalf("failed to record %q: %v", l, err)
		}
	}
	if _, err := s.Events().Record(other.ID, gesture.ThumbsUp, 1); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != len(seq) {
		t.Fatalf("expected %d events, got %d", len(seq), len(events))
	}
	for i, e := range events {
		if e.Label != seq[i] {
			t.Errorf("events[%d].Label = %q, want %q", i, e.Label, seq[i])
		}
	}
}

func TestEventRepository_Recent(t *testing.T) {
	s := newTestStore(t)
	a := startSession(t, s)
	b := startSession(t, s)

	s.Events().Record(a.ID, gesture.Fist, 1)
	s.Events().Record(b.ID, gesture.OpenPalm, 1)
	s.Events().Record(a.ID, gesture.ThumbsUp, 1)

	recent, err := s.Events().Recent(2)
	if err != nil {
		t.Fatalf("failed to list recent events: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 events, got %d", len(recent))
	}
	if recent[0].Label != gesture.ThumbsUp || recent[1].Label != gesture.OpenPalm {
		t.Errorf("unexpected order: %q, %q", recent[0].Label, recent[1].Label)
	}

	all, err := s.Events().Recent(0)
	if err != nil {
		t.Fatalf("failed to list recent events: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 events, got %d", len(all))
	}
}

func TestEventRepository_CountByLabel(t *testing.T) {
	s := newTestStore(t)
	sess := startSession(t, s)

	for _, l := range []gesture.Label{gesture.Fist, gesture.OpenPalm, gesture.Fist, gesture.NoHand, gesture.Fist} {
		if _, err := s.Events().Record(sess.ID, l, 1); err != nil {
			t.Fatalf("failed to record %q: %v", l, err)
		}
	}

	counts, err := s.Events().CountByLabel(sess.ID)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}

	want := map[gesture.Label]int{gesture.Fist: 3, gesture.OpenPalm: 1, gesture.NoHand: 1}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for l, n := range want {
		if counts[l] != n {
			t.Errorf("counts[%q] = %d, want %d", l, counts[l], n)
		}
	}
}
