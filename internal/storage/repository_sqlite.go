package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/vault-battles/internal/battle"
)

// sessionColumns are rewritten on every committed transaction.
var sessionColumns = []string{"mode", "status", "participants", "log", "round", "wave", "winner", "version", "updated_at"}

type sqliteRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

// NewSQLiteRepository returns the gorm-backed repository. Session writes
// are optimistic: each commit is an UPDATE guarded by the version read in
// the same transaction and a lost race is retried per policy.
func NewSQLiteRepository(db *gorm.DB, policy RetryPolicy) Repository {
	return &sqliteRepository{db: db, retry: policy}
}

func (r *sqliteRepository) CreateSession(ctx context.Context, s *battle.Session) error {
	PrepareNewSession(s)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sqliteRepository) GetSession(ctx context.Context, id string) (*battle.Session, error) {
	var s battle.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) Transact(ctx context.Context, id string, fn TxFunc) (*battle.Session, error) {
	return RetryOnConflict(ctx, r.retry, id, func() (*battle.Session, error) {
		var committed *battle.Session
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var cur battle.Session
			if err := tx.First(&cur, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			next, err := cur.Clone()
			if err != nil {
				return err
			}
			if err := fn(next); err != nil {
				return err
			}
			next.ID = cur.ID
			next.CreatedAt = cur.CreatedAt
			next.Version = cur.Version + 1
			next.UpdatedAt = time.Now().UTC()

			res := tx.Model(&battle.Session{}).
				Where("id = ? AND version = ?", cur.ID, cur.Version).
				Select(sessionColumns).
				Updates(next)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
			committed = next
			return nil
		})
		if err != nil {
			return nil, err
		}
		return committed, nil
	})
}

func (r *sqliteRepository) FindIdleSessions(ctx context.Context, before time.Time) ([]battle.Session, error) {
	var sessions []battle.Session
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at <= ?", battle.StatusActive, before).
		Order("updated_at asc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// --- Profiles ----------------------------------------------------------

func (r *sqliteRepository) UpsertProfile(ctx context.Context, playerID, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return bumpProfile(tx, playerID, name, 0, 0, 0)
	})
}

func (r *sqliteRepository) GetProfile(ctx context.Context, playerID string) (*battle.PlayerProfile, error) {
	var p battle.PlayerProfile
	if err := r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &battle.PlayerProfile{PlayerID: playerID}, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) RecordElimination(ctx context.Context, actorID, eliminatedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpProfile(tx, actorID, "", 0, 1, 0); err != nil {
			return err
		}
		return bumpProfile(tx, eliminatedID, "", 0, 0, 1)
	})
}

func (r *sqliteRepository) RecordSessionPlayed(ctx context.Context, playerIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range playerIDs {
			if err := bumpProfile(tx, id, "", 1, 0, 0); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTopPlayers returns top N players ordered by eliminations desc, then
// sessions played desc.
func (r *sqliteRepository) GetTopPlayers(ctx context.Context, limit int) ([]battle.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []battle.PlayerProfile
	if err := r.db.WithContext(ctx).Model(&battle.PlayerProfile{}).
		Order("eliminations DESC").
		Order("sessions_played DESC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// bumpProfile upserts a profile and adds the given deltas. An empty name
// keeps the stored one.
func bumpProfile(tx *gorm.DB, playerID, name string, played, eliminations, defeats int) error {
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	var p battle.PlayerProfile
	if err := tx.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p = battle.PlayerProfile{PlayerID: playerID}
	}
	if name != "" {
		p.PlayerName = name
	}
	p.SessionsPlayed += played
	p.Eliminations += eliminations
	p.Defeats += defeats
	return tx.Save(&p).Error
}

// --- Masteries ---------------------------------------------------------

func (r *sqliteRepository) GetMastery(ctx context.Context, ownerID, moveID string) (battle.Mastery, error) {
	var m battle.Mastery
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND move_id = ?", ownerID, moveID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return battle.Mastery{OwnerID: ownerID, MoveID: moveID, Level: 1}, nil
		}
		return battle.Mastery{}, err
	}
	return m, nil
}

func (r *sqliteRepository) SaveMastery(ctx context.Context, m *battle.Mastery) error {
	if m.OwnerID == "" || m.MoveID == "" {
		return gorm.ErrInvalidData
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "move_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "damage", "healing", "shield_boost", "updated_at"}),
	}).Create(m).Error
}
