package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/engine"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/storage"
)

// DefaultStatTimeout bounds a single post-commit stat tracking call.
const DefaultStatTimeout = 5 * time.Second

// MoveCatalog is the read-only move catalog.
type MoveCatalog interface {
	Move(id string) (battle.Move, bool)
}

// Resolver owns the single write path into battle sessions.
type Resolver struct {
	store       storage.SessionStore
	catalog     MoveCatalog
	masteries   storage.MasteryRepository
	stats       StatTracker
	calc        *engine.Calculator
	opponent    engine.MoveSelector
	dispatch    func(func())
	statTimeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStatTracker sets the post-commit stat collaborator.
func WithStatTracker(t StatTracker) Option {
	return func(r *Resolver) {
		if t != nil {
			r.stats = t
		}
	}
}

// WithMasteries sets where per-owner move upgrades are read from.
func WithMasteries(m storage.MasteryRepository) Option {
	return func(r *Resolver) { r.masteries = m }
}

// WithCalculator replaces the effect calculator, e.g. to pin its random source.
func WithCalculator(c *engine.Calculator) Option {
	return func(r *Resolver) {
		if c != nil {
			r.calc = c
		}
	}
}

// WithOpponent sets the move selector of the story-mode opponent. Without
// one the opponent passes every round.
func WithOpponent(s engine.MoveSelector) Option {
	return func(r *Resolver) { r.opponent = s }
}

// WithDispatcher replaces how post-commit work is scheduled. The default
// runs each job on its own goroutine.
func WithDispatcher(d func(func())) Option {
	return func(r *Resolver) {
		if d != nil {
			r.dispatch = d
		}
	}
}

// WithStatTimeout bounds each stat tracking call.
func WithStatTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.statTimeout = d
		}
	}
}

// NewResolver wires a resolver over a session store and move catalog.
func NewResolver(store storage.SessionStore, catalog MoveCatalog, opts ...Option) *Resolver {
	r := &Resolver{
		store:       store,
		catalog:     catalog,
		stats:       noopTracker{},
		dispatch:    func(f func()) { go f() },
		statTimeout: DefaultStatTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.calc == nil {
		r.calc = engine.NewCalculator()
	}
	return r
}

// Session returns a snapshot of a session.
func (r *Resolver) Session(ctx context.Context, id string) (*battle.Session, error) {
	s, err := r.store.GetSession(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return s, nil
}

// storageError maps store failures onto the service taxonomy. ApplyErrors
// raised inside a transaction pass through unchanged.
func storageError(err error) error {
	var ae *ApplyError
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, storage.ErrConflict):
		return &ApplyError{Code: CodeStorageConflict, Message: ErrStorageConflict.Message, Cause: err}
	default:
		return fmt.Errorf("session store: %w", err)
	}
}

// afterCommit schedules post-commit work with its own bounded context; the
// request context may already be done by the time it runs.
func (r *Resolver) afterCommit(name, sessionID string, job func(ctx context.Context) error) {
	timeout := r.statTimeout
	r.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := job(ctx); err != nil {
			logging.Error(name+" failed", err, logging.Fields{constants.LogFieldSessionID: sessionID})
		}
	})
}

func (r *Resolver) trackElimination(sessionID, actorID, eliminatedID string) {
	r.afterCommit("stat tracking", sessionID, func(ctx context.Context) error {
		return r.stats.TrackElimination(ctx, sessionID, actorID, eliminatedID)
	})
}

func (r *Resolver) trackClosed(s *battle.Session) {
	ids := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		ids = append(ids, p.ID)
	}
	r.afterCommit("session stats", s.ID, func(ctx context.Context) error {
		return r.stats.TrackSessionClosed(ctx, s.ID, ids)
	})
}
