package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ericogr/vault-battles/internal/battle"
)

func openTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteRepository(db, DefaultRetryPolicy())
}

func newTestSession() *battle.Session {
	return &battle.Session{Participants: []battle.Participant{
		{ID: "a", Name: "Ada", Side: "red", Level: 12},
		{ID: "b", Name: "Bo", Side: "blue", Level: 3},
	}}
}

func TestSQLiteSessionCreateGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	s := newTestSession()
	if err := repo.CreateSession(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" || s.Version != 1 || s.Status != battle.StatusActive {
		t.Fatalf("expected id, version 1 and active status, got %+v", s)
	}

	got, err := repo.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Participants) != 2 || got.Participants[0].Name != "Ada" {
		t.Fatalf("unexpected participants %+v", got.Participants)
	}
	if got.Participants[0].Health != nil {
		t.Fatalf("vault must stay unset until first use")
	}

	if _, err := repo.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteTransactCommitsAndBumpsVersion(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	s := newTestSession()
	if err := repo.CreateSession(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := repo.Transact(ctx, s.ID, func(cur *battle.Session) error {
		cur.AppendLog("Ada strikes")
		cur.Participants[1].Materialize()
		return nil
	})
	if err != nil {
		t.Fatalf("transact: %v", err)
	}
	if out.Version != 2 {
		t.Fatalf("expected version 2, got %d", out.Version)
	}
	got, _ := repo.GetSession(ctx, s.ID)
	if len(got.Log) != 1 || got.Log[0] != "Ada strikes" || got.Version != 2 {
		t.Fatalf("unexpected committed session %+v", got)
	}
	if !got.Participants[1].Materialized() {
		t.Fatalf("expected participant vault to be persisted")
	}
}

func TestSQLiteTransactAbortLeavesSessionUntouched(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	s := newTestSession()
	if err := repo.CreateSession(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err := repo.Transact(ctx, s.ID, func(cur *battle.Session) error {
		cur.AppendLog("should not land")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to surface, got %v", err)
	}
	got, _ := repo.GetSession(ctx, s.ID)
	if len(got.Log) != 0 || got.Version != 1 {
		t.Fatalf("expected no write, got %+v", got)
	}

	if _, err := repo.Transact(ctx, "missing", func(*battle.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteFindIdleSessions(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	idle := newTestSession()
	if err := repo.CreateSession(ctx, idle); err != nil {
		t.Fatalf("create: %v", err)
	}
	cutoff := time.Now().UTC().Add(time.Second)
	closed := newTestSession()
	closed.Status = battle.StatusClosed
	if err := repo.CreateSession(ctx, closed); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindIdleSessions(ctx, cutoff)
	if err != nil {
		t.Fatalf("find idle: %v", err)
	}
	if len(got) != 1 || got[0].ID != idle.ID {
		t.Fatalf("expected only the active session, got %+v", got)
	}
	got, _ = repo.FindIdleSessions(ctx, cutoff.Add(-time.Hour))
	if len(got) != 0 {
		t.Fatalf("expected nothing idle before the sessions existed, got %d", len(got))
	}
}

func TestSQLiteProfiles(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	if err := repo.UpsertProfile(ctx, "a", "Ada"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.RecordSessionPlayed(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("played: %v", err)
	}
	if err := repo.RecordElimination(ctx, "a", "b"); err != nil {
		t.Fatalf("elimination: %v", err)
	}

	a, err := repo.GetProfile(ctx, "a")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if a.PlayerName != "Ada" || a.SessionsPlayed != 1 || a.Eliminations != 1 || a.Defeats != 0 {
		t.Fatalf("unexpected profile %+v", a)
	}
	b, _ := repo.GetProfile(ctx, "b")
	if b.Defeats != 1 || b.SessionsPlayed != 1 {
		t.Fatalf("unexpected profile %+v", b)
	}
	none, _ := repo.GetProfile(ctx, "nobody")
	if none.PlayerID != "nobody" || none.Eliminations != 0 {
		t.Fatalf("expected empty profile, got %+v", none)
	}

	top, err := repo.GetTopPlayers(ctx, 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].PlayerID != "a" {
		t.Fatalf("expected Ada on top, got %+v", top)
	}
}

func TestSQLiteMasteries(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	m, err := repo.GetMastery(ctx, "a", "bolt")
	if err != nil {
		t.Fatalf("get mastery: %v", err)
	}
	if m.Level != 1 || m.ID != 0 {
		t.Fatalf("expected default level 1, got %+v", m)
	}

	if err := repo.SaveMastery(ctx, &battle.Mastery{OwnerID: "a", MoveID: "bolt", Level: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveMastery(ctx, &battle.Mastery{OwnerID: "a", MoveID: "bolt", Level: 4, Damage: 30}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	m, _ = repo.GetMastery(ctx, "a", "bolt")
	if m.Level != 4 || m.Damage != 30 {
		t.Fatalf("expected upgraded mastery, got %+v", m)
	}
}
