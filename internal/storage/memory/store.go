package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/storage"
)

type record struct {
	version int64
	payload []byte
	updated time.Time
	status  battle.Status
}

// Store keeps sessions as encoded snapshots in memory. Transactions are
// optimistic: fn runs on a decoded copy outside the lock and the write is
// a compare-and-swap on the version, retried on conflict.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]record
	retry    storage.RetryPolicy
}

// New returns an empty store.
func New(policy storage.RetryPolicy) *Store {
	return &Store{sessions: make(map[string]record), retry: policy}
}

func (s *Store) CreateSession(ctx context.Context, sess *battle.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storage.PrepareNewSession(sess)
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	s.sessions[sess.ID] = record{version: sess.Version, payload: payload, updated: sess.UpdatedAt, status: sess.Status}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*battle.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return decode(rec.payload)
}

func (s *Store) Transact(ctx context.Context, id string, fn storage.TxFunc) (*battle.Session, error) {
	return storage.RetryOnConflict(ctx, s.retry, id, func() (*battle.Session, error) {
		s.mu.RLock()
		rec, ok := s.sessions[id]
		s.mu.RUnlock()
		if !ok {
			return nil, storage.ErrNotFound
		}
		next, err := decode(rec.payload)
		if err != nil {
			return nil, err
		}
		if err := fn(next); err != nil {
			return nil, err
		}
		next.ID = id
		next.Version = rec.version + 1
		next.UpdatedAt = time.Now().UTC()
		payload, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("marshal session: %w", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if cur := s.sessions[id]; cur.version != rec.version {
			return nil, storage.ErrConflict
		}
		s.sessions[id] = record{version: next.Version, payload: payload, updated: next.UpdatedAt, status: next.Status}
		return next, nil
	})
}

func (s *Store) FindIdleSessions(ctx context.Context, before time.Time) ([]battle.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]battle.Session, 0)
	for _, rec := range s.sessions {
		if rec.status != battle.StatusActive || rec.updated.After(before) {
			continue
		}
		sess, err := decode(rec.payload)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

// Snapshot returns the raw encoded session, for byte-level comparisons.
func (s *Store) Snapshot(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(rec.payload))
	copy(out, rec.payload)
	return out, true
}

func decode(payload []byte) (*battle.Session, error) {
	var sess battle.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}
