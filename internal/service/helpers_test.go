package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/engine"
	"github.com/ericogr/vault-battles/internal/storage"
	"github.com/ericogr/vault-battles/internal/storage/memory"
)

type fakeCatalog map[string]battle.Move

func (c fakeCatalog) Move(id string) (battle.Move, bool) {
	mv, ok := c[id]
	return mv, ok
}

type fakeMasteries struct {
	mu    sync.Mutex
	byKey map[string]battle.Mastery
	reads int
}

func (f *fakeMasteries) GetMastery(_ context.Context, ownerID, moveID string) (battle.Mastery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if m, ok := f.byKey[ownerID+"/"+moveID]; ok {
		return m, nil
	}
	return battle.Mastery{OwnerID: ownerID, MoveID: moveID, Level: 1}, nil
}

func (f *fakeMasteries) SaveMastery(_ context.Context, m *battle.Mastery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byKey == nil {
		f.byKey = make(map[string]battle.Mastery)
	}
	f.byKey[m.OwnerID+"/"+m.MoveID] = *m
	return nil
}

// inline runs post-commit jobs on the calling goroutine.
func inline(f func()) { f() }

func newTestResolver(t *testing.T, catalog MoveCatalog, opts ...Option) (*Resolver, *memory.Store) {
	t.Helper()
	st := memory.New(storage.RetryPolicy{MaxAttempts: 1000})
	base := []Option{
		WithDispatcher(inline),
		WithCalculator(engine.NewCalculator(engine.WithSource(engine.FixedSource(0)))),
	}
	return NewResolver(st, catalog, append(base, opts...)...), st
}

func fighter(id, side string, health, shield, pp int) battle.Participant {
	return battle.Participant{
		ID: id, Name: id, Side: side,
		Health: battle.Int(health), Shield: battle.Int(shield), PP: battle.Int(pp),
	}
}

func mustCreate(t *testing.T, r *Resolver, mode battle.Mode, ps ...battle.Participant) *battle.Session {
	t.Helper()
	s, err := r.CreateSession(context.Background(), mode, ps)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func mustGet(t *testing.T, r *Resolver, id string) *battle.Session {
	t.Helper()
	s, err := r.Session(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	return s
}

func vaultOf(t *testing.T, s *battle.Session, id string) battle.Vault {
	t.Helper()
	p := s.Find(id)
	if p == nil {
		t.Fatalf("participant %s missing", id)
	}
	return p.Vault()
}
