package store

import (
	"errors"
	"testing"
)

func TestSessionRepository_Start(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, err := repo.Start(2)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	if sess.ID == "" {
		t.Error("ID should be assigned")
	}
	if sess.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}
	if !sess.Active() {
		t.Error("new session should be active")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", got.CameraID)
	}
	if got.EndedAt != nil {
		t.Error("EndedAt should be nil for a running session")
	}
	if !got.StartedAt.Equal(sess.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, sess.StartedAt)
	}
}

func TestSessionRepository_End(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, err := repo.Start(0)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	if err := repo.End(sess.ID); err != nil {
		t.Fatalf("failed to end session: %v", err)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Active() {
		t.Fatal("session should be ended")
	}
	first := *got.EndedAt

	// Ending again keeps the original end time
	if err := repo.End(sess.ID); err != nil {
		t.Fatalf("second End failed: %v", err)
	}
	got, _ = repo.GetByID(sess.ID)
	if !got.EndedAt.Equal(first) {
		t.Errorf("EndedAt changed from %v to %v", first, *got.EndedAt)
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.End("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("End: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := repo.Start(i)
		if err != nil {
			t.Fatalf("failed to start session %d: %v", i, err)
		}
		ids = append(ids, sess.ID)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	// Newest first
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("unexpected order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(limited))
	}
}

func TestSessionRepository_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	sessions, err := s.Sessions().List(10)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestSessionRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Start(0)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	if _, err := s.Events().Record(sess.ID, "Fist", 1); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}

	if err := s.Sessions().Delete(sess.ID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events should be deleted with their session, got %d", len(events))
	}
}
