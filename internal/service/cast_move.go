package service

import (
	"context"
	"fmt"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/dedupe"
	"github.com/ericogr/vault-battles/internal/engine"
	"github.com/ericogr/vault-battles/internal/keys"
)

// CastRequest is a player's move choice.
type CastRequest struct {
	SessionID string `json:"session_id"`
	ActorID   string `json:"actor_id"`
	TargetID  string `json:"target_id"`
	MoveID    string `json:"move_id"`
}

// CastOutcome is the result of a full cast: one applied outcome per target
// and the session as committed after the actor's turn advanced.
type CastOutcome struct {
	Results []ApplyOutcome  `json:"results"`
	Session *battle.Session `json:"session"`
}

// CastMove runs one player action in the required order: read a snapshot,
// resolve the move with the caster's mastery, pick targets, reject locked
// or unaffordable moves before any write, commit the effect on each target
// and finally advance the actor's turn. Team moves charge their cost and
// start their cooldown once.
func (r *Resolver) CastMove(ctx context.Context, req CastRequest) (CastOutcome, error) {
	snap, err := r.store.GetSession(ctx, req.SessionID)
	if err != nil {
		return CastOutcome{}, storageError(err)
	}
	if !snap.Active() {
		return CastOutcome{}, ErrSessionClosed
	}
	actor := snap.Find(req.ActorID)
	if actor == nil {
		return CastOutcome{}, reject(ErrActorNotFound, "actor %s not found in session", req.ActorID)
	}
	if actor.Eliminated {
		return CastOutcome{}, reject(ErrActorEliminated, "%s is eliminated", req.ActorID)
	}
	actor.Materialize()

	mv, ok := r.catalog.Move(req.MoveID)
	if !ok {
		return CastOutcome{}, reject(ErrMoveNotFound, "move %s not found", req.MoveID)
	}
	cast, err := r.resolveCast(ctx, req.ActorID, mv)
	if err != nil {
		return CastOutcome{}, err
	}
	if !engine.Usable(*actor, mv) {
		return CastOutcome{}, reject(ErrMoveUnavailable, "%s cannot use %s right now", req.ActorID, mv.Name)
	}

	targets, err := selectTargets(snap, actor, mv, req.TargetID)
	if err != nil {
		return CastOutcome{}, err
	}

	calc := r.calc.ForMode(snap.Mode)
	effects := make([]battle.Effect, len(targets))
	for i, t := range targets {
		t.Materialize()
		effects[i] = calc.Compute(cast, *actor, *t)
		if !effects[i].Success {
			return CastOutcome{}, reject(ErrInsufficientResource, "%s", effects[i].Message)
		}
		if i > 0 {
			effects[i].ResourceCost = 0
			effects[i].Cooldown = 0
		}
	}

	out := CastOutcome{Results: make([]ApplyOutcome, 0, len(targets))}
	for i, t := range targets {
		res, err := r.ApplyMove(ctx, req.SessionID, req.ActorID, t.ID, effects[i], effects[i].Message)
		if err != nil {
			return out, err
		}
		out.Results = append(out.Results, res)
		out.Session = res.Session
		if res.SessionClosed {
			return out, nil
		}
	}

	s, err := r.AdvanceTurn(ctx, req.SessionID, req.ActorID)
	if err != nil {
		return out, err
	}
	out.Session = s
	return out, nil
}

// resolveCast merges the caster's mastery into the catalog move. Lookups
// for the same owner and move share one in-flight read.
func (r *Resolver) resolveCast(ctx context.Context, ownerID string, mv battle.Move) (engine.Cast, error) {
	if r.masteries == nil {
		return engine.Cast{Move: mv, Mastery: 1}, nil
	}
	v, err, _ := dedupe.MasteryGroup.Do(keys.MasteryKey(ownerID, mv.ID), func() (interface{}, error) {
		return r.masteries.GetMastery(ctx, ownerID, mv.ID)
	})
	if err != nil {
		return engine.Cast{}, fmt.Errorf("load mastery: %w", err)
	}
	m := v.(battle.Mastery)
	return engine.Cast{Move: m.Apply(mv), Mastery: m.EffectiveLevel()}, nil
}

// selectTargets applies the move's target selector to the snapshot.
func selectTargets(s *battle.Session, actor *battle.Participant, mv battle.Move, targetID string) ([]*battle.Participant, error) {
	switch mv.Target {
	case battle.TargetSelf:
		if targetID != "" && targetID != actor.ID {
			return nil, reject(ErrInvalidTarget, "%s can only target its caster", mv.Name)
		}
		return []*battle.Participant{actor}, nil
	case battle.TargetTeam:
		out := make([]*battle.Participant, 0, len(s.Participants))
		for i := range s.Participants {
			p := &s.Participants[i]
			if p.Eliminated {
				continue
			}
			enemy := p.SideKey() != actor.SideKey()
			if enemy == mv.Category.Offensive() {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, reject(ErrInvalidTarget, "no valid targets for %s", mv.Name)
		}
		return out, nil
	default:
		if targetID == "" {
			return nil, reject(ErrInvalidTarget, "%s needs a target", mv.Name)
		}
		t := s.Find(targetID)
		if t == nil {
			return nil, reject(ErrTargetNotFound, "target %s not found in session", targetID)
		}
		if mv.Target == battle.TargetEnemy && t.SideKey() == actor.SideKey() {
			return nil, reject(ErrInvalidTarget, "%s must target an opponent", mv.Name)
		}
		if t.ID == actor.ID {
			return []*battle.Participant{actor}, nil
		}
		return []*battle.Participant{t}, nil
	}
}
