package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ericogr/vault-battles/internal/battle"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a lost optimistic write. Stores retry it
	// internally and only return it once the retry budget is spent.
	ErrConflict = errors.New("write conflict")
)

// TxFunc mutates a private copy of a session inside a transaction. It may
// run more than once and must not have side effects outside s. Returning
// an error aborts the transaction without writing anything.
type TxFunc func(s *battle.Session) error

// SessionStore is the transactional document store for battle sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *battle.Session) error
	GetSession(ctx context.Context, id string) (*battle.Session, error)
	// Transact runs fn as an atomic conditional read-modify-write of the
	// session and returns the committed session.
	Transact(ctx context.Context, id string, fn TxFunc) (*battle.Session, error)
	// FindIdleSessions returns active sessions not updated since before.
	FindIdleSessions(ctx context.Context, before time.Time) ([]battle.Session, error)
}

// ProfileRepository stores aggregate player stats.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, playerID, name string) error
	GetProfile(ctx context.Context, playerID string) (*battle.PlayerProfile, error)
	RecordElimination(ctx context.Context, actorID, eliminatedID string) error
	RecordSessionPlayed(ctx context.Context, playerIDs []string) error
	GetTopPlayers(ctx context.Context, limit int) ([]battle.PlayerProfile, error)
}

// MasteryRepository stores per-owner move upgrades.
type MasteryRepository interface {
	// GetMastery returns the owner's mastery for a move, or a level-1 zero
	// value when none was recorded.
	GetMastery(ctx context.Context, ownerID, moveID string) (battle.Mastery, error)
	SaveMastery(ctx context.Context, m *battle.Mastery) error
}

// Repository is the full persistence surface of the sqlite backend.
type Repository interface {
	SessionStore
	ProfileRepository
	MasteryRepository
}

// PrepareNewSession fills identity, status and version of a new session.
// Participant vaults are left as given and materialize on first use.
func PrepareNewSession(s *battle.Session) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = battle.StatusActive
	}
	if s.Mode == "" {
		s.Mode = battle.ModeSession
	}
	if s.Version == 0 {
		s.Version = 1
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Log == nil {
		s.Log = []string{}
	}
}
