package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/ericogr/vault-battles/internal/battle"
)

var (
	ErrNotStory           = errors.New("skirmish requires a story-mode session")
	ErrSkirmishOver       = errors.New("skirmish is over")
	ErrSkirmishSize       = errors.New("skirmish requires exactly two participants")
	ErrUnknownParticipant = errors.New("participant not in skirmish")
)

// MoveSelector picks the opponent's move. It is a black box to the
// engine; ok=false means the opponent passes.
type MoveSelector interface {
	Select(self, opponent battle.Participant) (cast Cast, ok bool)
}

// SelectorFunc adapts a function to MoveSelector.
type SelectorFunc func(self, opponent battle.Participant) (Cast, bool)

func (f SelectorFunc) Select(self, opponent battle.Participant) (Cast, bool) { return f(self, opponent) }

// Skirmish resolves story-mode exchanges between a player and a single
// opponent held entirely in memory. It uses the same calculator and
// ApplyEffect as shared sessions but with energy costs and the
// health-only elimination rule.
type Skirmish struct {
	calc     *Calculator
	opponent MoveSelector
}

// NewSkirmish builds a resolver. The calculator is forced into story mode.
func NewSkirmish(src Source, opponent MoveSelector) *Skirmish {
	return &Skirmish{calc: NewCalculator(WithSource(src), WithMode(battle.ModeStory)), opponent: opponent}
}

// Skirmish returns a story-mode skirmish drawing from c's random source.
func (c *Calculator) Skirmish(opponent MoveSelector) *Skirmish {
	return &Skirmish{calc: c.ForMode(battle.ModeStory), opponent: opponent}
}

// FirstUsable plays the first of moves the opponent can use and pay for
// this turn, and passes when there is none.
func FirstUsable(moves []battle.Move) MoveSelector {
	return SelectorFunc(func(self, _ battle.Participant) (Cast, bool) {
		for _, mv := range moves {
			if Usable(self, mv) && mv.Cost <= self.Energy {
				return Cast{Move: mv, Mastery: 1}, true
			}
		}
		return Cast{}, false
	})
}

// RoundResult summarizes one resolved round.
type RoundResult struct {
	Round   int      `json:"round"`
	Summary string   `json:"summary"`
	Over    bool     `json:"over"`
	Winner  string   `json:"winner,omitempty"`
	Actions []string `json:"actions"`
}

type turn struct {
	actor, target int
	cast          Cast
	speed         int
	order         int
}

// Round plays one round: the player's cast and the opponent's selected
// cast resolve in speed order (ties go to the player), then both ledgers
// tick once. The session is closed when a side falls.
func (k *Skirmish) Round(ctx context.Context, s *battle.Session, playerID string, cast Cast) (RoundResult, error) {
	if s.Mode != battle.ModeStory {
		return RoundResult{}, ErrNotStory
	}
	if !s.Active() {
		return RoundResult{}, ErrSkirmishOver
	}
	if len(s.Participants) != 2 {
		return RoundResult{}, ErrSkirmishSize
	}
	pi := -1
	for i := range s.Participants {
		s.Participants[i].Materialize()
		if s.Participants[i].ID == playerID {
			pi = i
		}
	}
	if pi < 0 {
		return RoundResult{}, ErrUnknownParticipant
	}
	oi := 1 - pi

	rc := newRoundContext(s)
	turns := []turn{{actor: pi, target: oi, cast: cast, speed: speedOf(s.Participants[pi]), order: 0}}
	if k.opponent != nil {
		if oc, ok := k.opponent.Select(s.Participants[oi], s.Participants[pi]); ok {
			turns = append(turns, turn{actor: oi, target: pi, cast: oc, speed: speedOf(s.Participants[oi]), order: 1})
		}
	}
	sort.SliceStable(turns, func(a, b int) bool {
		if turns[a].speed != turns[b].speed {
			return turns[a].speed > turns[b].speed
		}
		return turns[a].order < turns[b].order
	})

	for _, t := range turns {
		k.act(rc, t)
	}

	for i := range s.Participants {
		s.Participants[i] = Tick(s.Participants[i], battle.ModeStory)
	}
	s.Round++
	rc.commit()

	res := RoundResult{Round: s.Round, Summary: rc.joinSummary(), Actions: rc.summary}
	if sides := s.StandingSides(); len(sides) <= 1 {
		winner := ""
		if len(sides) == 1 {
			winner = sides[0]
		}
		if err := s.Close(ctx, winner); err != nil {
			return res, err
		}
		res.Over = true
		res.Winner = winner
	}
	return res, nil
}

func (k *Skirmish) act(rc *roundContext, t turn) {
	actor := &rc.s.Participants[t.actor]
	if actor.Eliminated {
		return
	}
	mv := t.cast.Move
	if !Usable(*actor, mv) {
		rc.add(displayName(*actor) + " cannot use " + mv.Name + " this turn")
		return
	}
	target := &rc.s.Participants[t.target]
	if !mv.Category.Offensive() {
		target = actor
	}
	eff := k.calc.Compute(t.cast, *actor, *target)
	if !eff.Success {
		rc.add(displayName(*actor) + ": " + eff.Message)
		return
	}
	d := ApplyEffect(eff, actor, target, battle.ModeStory)
	rc.add(eff.Message)
	if d.Eliminated {
		rc.add(rc.eliminatedTag(*target))
	}
}

// speedOf is the initiative of a participant: speed buffs minus slows.
func speedOf(p battle.Participant) int {
	return p.BuffStrength(battle.BuffSpeed) - p.DebuffStrength(battle.DebuffSlow)
}
