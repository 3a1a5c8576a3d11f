package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ericogr/vault-battles/internal/battle"
)

var testMoves = fakeCatalog{
	"strike": {ID: "strike", Name: "Strike", Category: battle.CategoryAttack, Target: battle.TargetSingle, Damage: 40},
	"focus":  {ID: "focus", Name: "Focus", Category: battle.CategoryAttack, Target: battle.TargetEnemy, BasePower: 10},
	"guard":  {ID: "guard", Name: "Guard", Category: battle.CategoryDefense, Target: battle.TargetSelf, ShieldBoost: 25},
	"sweep":  {ID: "sweep", Name: "Sweep", Category: battle.CategoryAttack, Target: battle.TargetTeam, Damage: 10, Cost: 5, Cooldown: 2},
	"feint":  {ID: "feint", Name: "Feint", Category: battle.CategoryAttack, Target: battle.TargetSingle, Damage: 5, Cooldown: 1},
	"rally":  {ID: "rally", Name: "Rally", Category: battle.CategoryMobility, Target: battle.TargetSelf, EffectType: battle.BuffDamageBoost, DebuffStrength: 50},
	"hush": {ID: "hush", Name: "Hush", Category: battle.CategoryControl, Target: battle.TargetEnemy,
		EffectType: battle.DebuffSilence, Duration: 2, DebuffStrength: 1},
}

func castArena(t *testing.T, opts ...Option) (*Resolver, *battle.Session) {
	t.Helper()
	r, _ := newTestResolver(t, testMoves, opts...)
	s := mustCreate(t, r, battle.ModeSession,
		fighter("a", "A", 100, 0, 10),
		fighter("d", "A", 100, 0, 0),
		fighter("b", "B", 100, 0, 0),
		fighter("c", "B", 100, 0, 0),
	)
	return r, s
}

func TestCastMove_SingleTargetCommitsAndAdvances(t *testing.T) {
	r, s := castArena(t)
	out, err := r.CastMove(context.Background(), CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: "strike"})
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Deltas.TargetHealth != -40 {
		t.Fatalf("unexpected results %+v", out.Results)
	}
	if out.Session.Round != s.Round+1 {
		t.Fatalf("expected round %d, got %d", s.Round+1, out.Session.Round)
	}
	got := mustGet(t, r, s.ID)
	if v := vaultOf(t, got, "b"); v.Health != 60 {
		t.Fatalf("expected b at 60 health, got %d", v.Health)
	}
	if len(got.Log) != 1 || got.Log[0] != "a hits b with Strike for 40 damage" {
		t.Fatalf("unexpected log %v", got.Log)
	}
}

func TestCastMove_TeamMoveChargesOnce(t *testing.T) {
	r, s := castArena(t)
	ctx := context.Background()
	out, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", MoveID: "sweep"})
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected both enemies hit, got %d results", len(out.Results))
	}
	got := mustGet(t, r, s.ID)
	for _, id := range []string{"b", "c"} {
		if v := vaultOf(t, got, id); v.Health != 90 {
			t.Fatalf("%s: expected 90 health, got %d", id, v.Health)
		}
	}
	if v := vaultOf(t, got, "d"); v.Health != 100 {
		t.Fatalf("ally was hit: %+v", v)
	}
	a := got.Find("a")
	if a.Vault().PP != 5 {
		t.Fatalf("expected cost charged once, PP %d", a.Vault().PP)
	}
	if a.Cooldowns["sweep"] != 2 || len(a.FreshCooldowns) != 0 {
		t.Fatalf("expected the full cooldown left after the cast, got %v fresh %v", a.Cooldowns, a.FreshCooldowns)
	}

	_, err = r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", MoveID: "sweep"})
	if !errors.Is(err, ErrMoveUnavailable) {
		t.Fatalf("expected ErrMoveUnavailable on cooldown, got %v", err)
	}
}

func TestCastMove_RejectsBeforeAnyWrite(t *testing.T) {
	r, st := newTestResolver(t, testMoves)
	frozen := fighter("f", "A", 100, 0, 50)
	frozen.Debuffs = []battle.Modifier{{ID: "ice", Type: battle.DebuffFreeze, Duration: 1, RemainingTurns: 1, Source: "Chill"}}
	down := fighter("x", "A", 0, 0, 0)
	down.Eliminated = true
	s := mustCreate(t, r, battle.ModeSession,
		fighter("a", "A", 100, 0, 0),
		frozen,
		down,
		fighter("b", "B", 100, 0, 0),
	)
	before, _ := st.Snapshot(s.ID)

	cases := []struct {
		name string
		req  CastRequest
		want error
	}{
		{"unaffordable", CastRequest{ActorID: "a", MoveID: "sweep"}, ErrInsufficientResource},
		{"unknown move", CastRequest{ActorID: "a", TargetID: "b", MoveID: "nope"}, ErrMoveNotFound},
		{"frozen actor", CastRequest{ActorID: "f", TargetID: "b", MoveID: "strike"}, ErrMoveUnavailable},
		{"eliminated actor", CastRequest{ActorID: "x", TargetID: "b", MoveID: "strike"}, ErrActorEliminated},
		{"missing actor", CastRequest{ActorID: "ghost", TargetID: "b", MoveID: "strike"}, ErrActorNotFound},
		{"missing target", CastRequest{ActorID: "a", TargetID: "ghost", MoveID: "strike"}, ErrTargetNotFound},
		{"no target", CastRequest{ActorID: "a", MoveID: "strike"}, ErrInvalidTarget},
		{"ally for enemy move", CastRequest{ActorID: "a", TargetID: "f", MoveID: "focus"}, ErrInvalidTarget},
		{"other for self move", CastRequest{ActorID: "a", TargetID: "b", MoveID: "guard"}, ErrInvalidTarget},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.req.SessionID = s.ID
			if _, err := r.CastMove(context.Background(), c.req); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			after, _ := st.Snapshot(s.ID)
			if !bytes.Equal(before, after) {
				t.Fatalf("session changed after rejected cast")
			}
		})
	}
}

func TestCastMove_SelfMoveLandsOnCaster(t *testing.T) {
	r, s := castArena(t)
	if _, err := r.CastMove(context.Background(), CastRequest{SessionID: s.ID, ActorID: "a", MoveID: "guard"}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if v := vaultOf(t, mustGet(t, r, s.ID), "a"); v.Shield != 25 {
		t.Fatalf("expected shield 25, got %d", v.Shield)
	}
}

func TestCastMove_SilenceBlocksSupportMoves(t *testing.T) {
	r, s := castArena(t)
	ctx := context.Background()
	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: "hush"}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	b := mustGet(t, r, s.ID).Find("b")
	if !b.HasDebuff(battle.DebuffSilence) || b.Debuffs[0].RemainingTurns != 2 || b.Debuffs[0].ID == "" {
		t.Fatalf("expected a fresh two-turn silence, got %+v", b.Debuffs)
	}
	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "b", MoveID: "guard"}); !errors.Is(err, ErrMoveUnavailable) {
		t.Fatalf("expected silenced guard to fail, got %v", err)
	}
	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "b", TargetID: "a", MoveID: "strike"}); err != nil {
		t.Fatalf("silence should not block attacks: %v", err)
	}
}

func TestCastMove_MasteryScalesMove(t *testing.T) {
	masteries := &fakeMasteries{}
	ctx := context.Background()
	_ = masteries.SaveMastery(ctx, &battle.Mastery{OwnerID: "a", MoveID: "focus", Level: 3})
	_ = masteries.SaveMastery(ctx, &battle.Mastery{OwnerID: "a", MoveID: "strike", Level: 2, Damage: 30})
	r, s := castArena(t, WithMasteries(masteries))

	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: "focus"}); err != nil {
		t.Fatalf("cast focus: %v", err)
	}
	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "c", MoveID: "strike"}); err != nil {
		t.Fatalf("cast strike: %v", err)
	}
	got := mustGet(t, r, s.ID)
	if v := vaultOf(t, got, "b"); v.Health != 86 {
		t.Fatalf("expected level-3 focus to deal 14, b at %d", v.Health)
	}
	if v := vaultOf(t, got, "c"); v.Health != 70 {
		t.Fatalf("expected upgraded strike to deal 30, c at %d", v.Health)
	}
}

func TestCastMove_FinishingBlowClosesWithoutAdvancing(t *testing.T) {
	r, _ := newTestResolver(t, testMoves)
	s := mustCreate(t, r, battle.ModeSession,
		fighter("a", "A", 100, 0, 0),
		fighter("b", "B", 40, 0, 0),
	)
	out, err := r.CastMove(context.Background(), CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: "strike"})
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if len(out.Results) != 1 || !out.Results[0].SessionClosed || out.Results[0].Winner != "A" {
		t.Fatalf("unexpected results %+v", out.Results)
	}
	if out.Session.Status != battle.StatusClosed || out.Session.Round != s.Round {
		t.Fatalf("expected closed session at round %d, got %s round %d", s.Round, out.Session.Status, out.Session.Round)
	}
}

func TestCastMove_StoryModeSpendsEnergy(t *testing.T) {
	moves := fakeCatalog{"bolt": {ID: "bolt", Name: "Bolt", Category: battle.CategoryAttack, Target: battle.TargetEnemy, Damage: 5, Cost: 2}}
	r, _ := newTestResolver(t, moves)
	hero := fighter("h", "hero", 100, 0, 0)
	hero.Energy, hero.MaxEnergy = 2, 3
	s := mustCreate(t, r, battle.ModeStory, hero, fighter("m", "monster", 100, 0, 0))

	if _, err := r.CastMove(context.Background(), CastRequest{SessionID: s.ID, ActorID: "h", TargetID: "m", MoveID: "bolt"}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	h := mustGet(t, r, s.ID).Find("h")
	if h.Energy != 1 || h.Vault().PP != 0 {
		t.Fatalf("expected energy 2-2+1 and untouched PP, got energy %d PP %d", h.Energy, h.Vault().PP)
	}
}

func TestCastMove_CooldownOneBlocksNextTurn(t *testing.T) {
	r, s := castArena(t)
	ctx := context.Background()
	cast := func(moveID string) error {
		_, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: moveID})
		return err
	}

	if err := cast("feint"); err != nil {
		t.Fatalf("first feint: %v", err)
	}
	if err := cast("feint"); !errors.Is(err, ErrMoveUnavailable) {
		t.Fatalf("expected feint locked on the next turn, got %v", err)
	}
	if err := cast("strike"); err != nil {
		t.Fatalf("strike: %v", err)
	}
	if err := cast("feint"); err != nil {
		t.Fatalf("expected feint usable once a turn passed, got %v", err)
	}
}

func TestCastMove_OneTurnSelfBuffBoostsNextAttack(t *testing.T) {
	r, s := castArena(t)
	ctx := context.Background()

	if _, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", MoveID: "rally"}); err != nil {
		t.Fatalf("rally: %v", err)
	}
	buffs := mustGet(t, r, s.ID).Find("a").Buffs
	if len(buffs) != 1 || buffs[0].RemainingTurns != 1 || buffs[0].Fresh {
		t.Fatalf("expected the boost to outlast its own turn, got %+v", buffs)
	}

	out, err := r.CastMove(ctx, CastRequest{SessionID: s.ID, ActorID: "a", TargetID: "b", MoveID: "strike"})
	if err != nil {
		t.Fatalf("strike: %v", err)
	}
	if got := out.Results[0].Deltas.TargetHealth; got != -60 {
		t.Fatalf("expected boosted strike for 60, got %d", got)
	}
	if buffs := mustGet(t, r, s.ID).Find("a").Buffs; len(buffs) != 0 {
		t.Fatalf("expected the boost spent after the boosted turn, got %+v", buffs)
	}
}
