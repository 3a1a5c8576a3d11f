package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/service/mocks"
	"github.com/ericogr/vault-battles/internal/storage"
)

func TestCreateSession_ValidatesParticipants(t *testing.T) {
	r, _ := newTestResolver(t, fakeCatalog{})
	ctx := context.Background()
	cases := map[string][]battle.Participant{
		"single":    {{ID: "a"}},
		"duplicate": {{ID: "a"}, {ID: "a"}},
		"blank id":  {{ID: "a"}, {ID: " "}},
	}
	for name, ps := range cases {
		if _, err := r.CreateSession(ctx, battle.ModeSession, ps); !errors.Is(err, ErrInvalidParticipants) {
			t.Fatalf("%s: expected ErrInvalidParticipants, got %v", name, err)
		}
	}

	s, err := r.CreateSession(ctx, "", []battle.Participant{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Mode != battle.ModeSession || s.Status != battle.StatusActive || s.Round != 1 || s.Wave != 1 {
		t.Fatalf("unexpected new session %+v", s)
	}
}

func TestJoinSession(t *testing.T) {
	r, _ := newTestResolver(t, fakeCatalog{})
	ctx := context.Background()
	s := mustCreate(t, r, battle.ModeSession, fighter("a", "A", 100, 0, 0), fighter("b", "B", 100, 0, 0))

	got, err := r.JoinSession(ctx, s.ID, battle.Participant{ID: "c", Name: "Cy", Side: "B", Level: 15})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	c := got.Find("c")
	if c == nil || c.Materialized() {
		t.Fatalf("expected unmaterialized newcomer, got %+v", c)
	}
	if len(got.Log) != 1 || got.Log[0] != "Cy joined the battle" {
		t.Fatalf("unexpected log %v", got.Log)
	}

	if _, err := r.JoinSession(ctx, s.ID, battle.Participant{ID: "c"}); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if _, err := r.JoinSession(ctx, "missing", battle.Participant{ID: "d"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestCloseSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatTracker(ctrl)
	r, _ := newTestResolver(t, fakeCatalog{}, WithStatTracker(stats))
	ctx := context.Background()
	s := mustCreate(t, r, battle.ModeSession, fighter("a", "A", 100, 0, 0), fighter("b", "B", 100, 0, 0))
	stats.EXPECT().TrackSessionClosed(gomock.Any(), s.ID, []string{"a", "b"}).Return(nil).Times(1)

	got, err := r.CloseSession(ctx, s.ID, "admin@example.com")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if got.Status != battle.StatusClosed || got.Winner != "" {
		t.Fatalf("expected closed session without winner, got %s/%q", got.Status, got.Winner)
	}
	if got.Log[len(got.Log)-1] != "Battle closed by admin@example.com" {
		t.Fatalf("unexpected log %v", got.Log)
	}

	if _, err := r.CloseSession(ctx, s.ID, "admin@example.com"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if _, err := r.JoinSession(ctx, s.ID, battle.Participant{ID: "c"}); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on join, got %v", err)
	}
}

func TestCloseIdleSessions(t *testing.T) {
	r, _ := newTestResolver(t, fakeCatalog{})
	ctx := context.Background()
	idle := mustCreate(t, r, battle.ModeSession, fighter("a", "A", 100, 0, 0), fighter("b", "B", 100, 0, 0))
	done := mustCreate(t, r, battle.ModeSession, fighter("c", "A", 100, 0, 0), fighter("d", "B", 100, 0, 0))
	if _, err := r.CloseSession(ctx, done.ID, "admin"); err != nil {
		t.Fatalf("close: %v", err)
	}

	n, err := r.CloseIdleSessions(ctx, time.Now(), time.Hour)
	if err != nil || n != 0 {
		t.Fatalf("fresh sessions must stay open: n=%d err=%v", n, err)
	}

	n, err = r.CloseIdleSessions(ctx, time.Now().Add(2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("close idle: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one idle session closed, got %d", n)
	}
	got := mustGet(t, r, idle.ID)
	if got.Status != battle.StatusClosed || got.Log[len(got.Log)-1] != "Battle closed due to inactivity" {
		t.Fatalf("unexpected idle session %+v", got)
	}
}

func TestProfileTrackerRecordsOutcomes(t *testing.T) {
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	repo := storage.NewSQLiteRepository(db, storage.DefaultRetryPolicy())
	tracker := NewProfileTracker(repo)

	r, _ := newTestResolver(t, fakeCatalog{}, WithStatTracker(tracker))
	ctx := context.Background()
	s := mustCreate(t, r, battle.ModeSession, fighter("a", "A", 100, 0, 0), fighter("b", "B", 5, 0, 0))
	if _, err := r.ApplyMove(ctx, s.ID, "a", "b", hit(5), "a finishes b"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	a, err := repo.GetProfile(ctx, "a")
	if err != nil {
		t.Fatalf("profile a: %v", err)
	}
	b, err := repo.GetProfile(ctx, "b")
	if err != nil {
		t.Fatalf("profile b: %v", err)
	}
	if a.Eliminations != 1 || a.SessionsPlayed != 1 {
		t.Fatalf("unexpected profile a %+v", a)
	}
	if b.Defeats != 1 || b.SessionsPlayed != 1 {
		t.Fatalf("unexpected profile b %+v", b)
	}
}
