package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/engine"
)

// ApplyOutcome is what a committed move did.
type ApplyOutcome struct {
	Success            bool          `json:"success"`
	Message            string        `json:"message"`
	Deltas             engine.Deltas `json:"deltas"`
	Eliminated         bool          `json:"eliminated"`
	EliminationMessage string        `json:"elimination_message,omitempty"`
	SessionClosed      bool          `json:"session_closed"`
	Winner             string        `json:"winner,omitempty"`
	Version            int64         `json:"version"`

	Session *battle.Session `json:"-"`
}

// ApplyMove commits a previously computed effect to the session as one
// atomic conditional write. In order: the session must exist and be
// active, actor and target must be present, the actor must not be
// eliminated, both vaults are materialized, the effect is applied, a new
// elimination adds its own log line after the move's line, and an empty
// log message rejects the whole move. Any rejection leaves the stored
// session untouched.
//
// The transaction body may run several times under contention. The stat
// tracking it triggers runs once, after the commit returns.
func (r *Resolver) ApplyMove(ctx context.Context, sessionID, actorID, targetID string, eff battle.Effect, logMessage string) (ApplyOutcome, error) {
	if !eff.Success {
		return ApplyOutcome{}, reject(ErrInsufficientResource, "%s", eff.Message)
	}

	var out ApplyOutcome
	committed, err := r.store.Transact(ctx, sessionID, func(s *battle.Session) error {
		out = ApplyOutcome{}

		if !s.Active() {
			return ErrSessionClosed
		}
		actor := s.Find(actorID)
		if actor == nil {
			return reject(ErrActorNotFound, "actor %s not found in session", actorID)
		}
		target := s.Find(targetID)
		if target == nil {
			return reject(ErrTargetNotFound, "target %s not found in session", targetID)
		}
		if actor.Eliminated {
			return reject(ErrActorEliminated, "%s is eliminated", actorID)
		}

		actor.Materialize()
		target.Materialize()
		out.Deltas = engine.ApplyEffect(eff, actor, target, s.Mode)

		if strings.TrimSpace(logMessage) == "" {
			return ErrInvalidLogMessage
		}
		s.AppendLog(logMessage)
		if out.Deltas.Eliminated {
			out.Eliminated = true
			out.EliminationMessage = fmt.Sprintf(constants.LogEliminatedFmt, participantName(target))
			s.AppendLog(out.EliminationMessage)
		}

		if sides := s.StandingSides(); len(sides) <= 1 {
			winner := ""
			if len(sides) == 1 {
				winner = sides[0]
			}
			if err := s.Close(ctx, winner); err != nil {
				return err
			}
			out.SessionClosed = true
			out.Winner = winner
		}
		return nil
	})
	if err != nil {
		return ApplyOutcome{}, storageError(err)
	}

	out.Success = true
	out.Message = logMessage
	out.Version = committed.Version
	out.Session = committed

	if out.Eliminated && actorID != targetID {
		r.trackElimination(sessionID, actorID, targetID)
	}
	if out.SessionClosed {
		r.trackClosed(committed)
	}
	return out, nil
}

// AdvanceTurn closes the actor's turn: its ledger ticks exactly once and
// the round counter moves on.
func (r *Resolver) AdvanceTurn(ctx context.Context, sessionID, actorID string) (*battle.Session, error) {
	committed, err := r.store.Transact(ctx, sessionID, func(s *battle.Session) error {
		if !s.Active() {
			return ErrSessionClosed
		}
		actor := s.Find(actorID)
		if actor == nil {
			return reject(ErrActorNotFound, "actor %s not found in session", actorID)
		}
		*actor = engine.Tick(*actor, s.Mode)
		s.Round++
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return committed, nil
}

func participantName(p *battle.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
