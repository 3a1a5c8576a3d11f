package service

import (
	"context"
	"errors"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/engine"
)

// StoryOutcome is one resolved story-mode round and the session it left.
type StoryOutcome struct {
	Round   engine.RoundResult `json:"round"`
	Session *battle.Session    `json:"session"`
}

// PlayStoryRound plays the player's move against the session's single
// opponent. Both casts, both ledger ticks and the log lines commit
// together. Energy pays for moves and only health counts for elimination.
func (r *Resolver) PlayStoryRound(ctx context.Context, sessionID, playerID, moveID string) (StoryOutcome, error) {
	mv, ok := r.catalog.Move(moveID)
	if !ok {
		return StoryOutcome{}, reject(ErrMoveNotFound, "move %s not found", moveID)
	}
	cast, err := r.resolveCast(ctx, playerID, mv)
	if err != nil {
		return StoryOutcome{}, err
	}

	k := r.calc.Skirmish(r.opponent)
	var res engine.RoundResult
	committed, err := r.store.Transact(ctx, sessionID, func(s *battle.Session) error {
		var err error
		res, err = k.Round(ctx, s, playerID, cast)
		return storyError(err)
	})
	if err != nil {
		return StoryOutcome{}, storageError(err)
	}
	if res.Over {
		r.trackClosed(committed)
	}
	return StoryOutcome{Round: res, Session: committed}, nil
}

func storyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, engine.ErrNotStory):
		return ErrNotStoryMode
	case errors.Is(err, engine.ErrSkirmishOver):
		return ErrSessionClosed
	case errors.Is(err, engine.ErrSkirmishSize):
		return reject(ErrInvalidParticipants, "story rounds need exactly two participants")
	case errors.Is(err, engine.ErrUnknownParticipant):
		return ErrActorNotFound
	default:
		return err
	}
}
