package engine

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/ericogr/vault-battles/internal/battle"
)

func vaulted(id string, health, shield, pp int) *battle.Participant {
	p := &battle.Participant{ID: id, Name: id, Health: battle.Int(health), Shield: battle.Int(shield), PP: battle.Int(pp)}
	p.Materialize()
	return p
}

func TestApplyEffect_ShieldAbsorbsFirst(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 0), vaulted("t", 50, 30, 0)
	d := ApplyEffect(battle.Effect{Damage: 50, Success: true}, actor, target, battle.ModeSession)
	v := target.Vault()
	if v.Shield != 0 || v.Health != 30 {
		t.Fatalf("expected shield 0 health 30, got shield %d health %d", v.Shield, v.Health)
	}
	if d.TargetShield != -30 || d.TargetHealth != -20 {
		t.Fatalf("unexpected deltas %+v", d)
	}
}

func TestApplyEffect_ShieldDamageOverflowsToHealth(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 0), vaulted("t", 50, 10, 0)
	ApplyEffect(battle.Effect{ShieldDamage: 25, Success: true}, actor, target, battle.ModeSession)
	if v := target.Vault(); v.Shield != 0 || v.Health != 35 {
		t.Fatalf("expected shield 0 health 35, got %+v", v)
	}
}

func TestApplyEffect_HealingCapped(t *testing.T) {
	actor := vaulted("a", 100, 0, 0)
	target := vaulted("t", 90, 0, 0)
	ApplyEffect(battle.Effect{Healing: 50, Success: true}, actor, target, battle.ModeSession)
	if v := target.Vault(); v.Health != v.MaxHealth {
		t.Fatalf("expected health capped at %d, got %d", v.MaxHealth, v.Health)
	}
}

func TestApplyEffect_SelfShieldBoostLandsOnActor(t *testing.T) {
	actor := vaulted("a", 100, 20, 0)
	d := ApplyEffect(battle.Effect{ShieldBoost: 30, Success: true}, actor, actor, battle.ModeSession)
	if got := actor.Vault().Shield; got != 50 {
		t.Fatalf("expected actor shield 50, got %d", got)
	}
	if d.ActorShield != 30 {
		t.Fatalf("expected actor shield delta 30, got %+v", d)
	}
}

func TestApplyEffect_StealClampsToTargetPool(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 10), vaulted("t", 100, 0, 5)
	d := ApplyEffect(battle.Effect{ResourceStolen: 20, Success: true}, actor, target, battle.ModeSession)
	if target.Vault().PP != 0 || actor.Vault().PP != 15 {
		t.Fatalf("expected target 0 actor 15, got target %d actor %d", target.Vault().PP, actor.Vault().PP)
	}
	if d.ActorPP != 5 || d.TargetPP != -5 {
		t.Fatalf("unexpected deltas %+v", d)
	}
}

func TestApplyEffect_StealClampsToActorCapacity(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 995), vaulted("t", 100, 0, 50)
	d := ApplyEffect(battle.Effect{ResourceStolen: 20, Success: true}, actor, target, battle.ModeSession)
	if actor.Vault().PP != battle.DefaultMaxPP || target.Vault().PP != 45 {
		t.Fatalf("expected actor at capacity and target -5, got actor %d target %d", actor.Vault().PP, target.Vault().PP)
	}
	if d.ActorPP != -d.TargetPP {
		t.Fatalf("expected a conserving transfer, got actor %+d target %+d", d.ActorPP, d.TargetPP)
	}

	full := vaulted("f", 100, 0, battle.DefaultMaxPP)
	ApplyEffect(battle.Effect{ResourceStolen: 20, Success: true}, full, target, battle.ModeSession)
	if target.Vault().PP != 45 {
		t.Fatalf("expected nothing drained into a full pool, target %d", target.Vault().PP)
	}
}

func TestApplyEffect_CostFlooredAtZero(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 3), vaulted("t", 100, 0, 0)
	ApplyEffect(battle.Effect{ResourceCost: 10, Success: true}, actor, target, battle.ModeSession)
	if actor.Vault().PP != 0 {
		t.Fatalf("expected PP floored at 0, got %d", actor.Vault().PP)
	}
}

func TestApplyEffect_EliminationThreshold(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 0), vaulted("t", 5, 0, 0)
	d := ApplyEffect(battle.Effect{Damage: 5, Success: true}, actor, target, battle.ModeSession)
	if !d.Eliminated || !target.Eliminated || target.Vault().Health != 0 {
		t.Fatalf("expected elimination, got %+v eliminated=%v", target.Vault(), target.Eliminated)
	}
	d = ApplyEffect(battle.Effect{Damage: 5, Success: true}, actor, target, battle.ModeSession)
	if d.Eliminated || !target.Eliminated {
		t.Fatalf("a second hit must not report a new elimination")
	}
	ApplyEffect(battle.Effect{Healing: 40, Success: true}, actor, target, battle.ModeSession)
	if !target.Eliminated {
		t.Fatalf("healing must not clear elimination")
	}
}

func TestApplyEffect_ModifiersCleanseAndCooldown(t *testing.T) {
	actor := vaulted("a", 100, 0, 0)
	actor.Buffs = []battle.Modifier{{ID: "cdr", Type: battle.BuffCooldownReduction, Strength: 1, RemainingTurns: 2}}
	target := vaulted("t", 100, 0, 0)
	target.Debuffs = []battle.Modifier{{ID: "old", Type: battle.DebuffSlow, RemainingTurns: 3}}

	eff := battle.Effect{
		MoveID:   "purge",
		Cooldown: 3,
		Cleanse:  true,
		Buffs:    []battle.Modifier{{Type: battle.BuffSpeed, Strength: 5, Duration: 2, RemainingTurns: 2, Source: "Purge"}},
		Success:  true,
	}
	ApplyEffect(eff, actor, target, battle.ModeSession)
	if len(target.Debuffs) != 0 {
		t.Fatalf("expected debuffs cleansed, got %+v", target.Debuffs)
	}
	if len(target.Buffs) != 1 || target.Buffs[0].Type != battle.BuffSpeed {
		t.Fatalf("expected speed buff on target, got %+v", target.Buffs)
	}
	if actor.Cooldowns["purge"] != 2 {
		t.Fatalf("expected cooldown 3-1=2, got %v", actor.Cooldowns)
	}
}

func TestApplyEffect_StoryModeUsesEnergyAndHealthRule(t *testing.T) {
	actor, target := vaulted("a", 100, 0, 7), vaulted("t", 5, 50, 0)
	actor.Energy = 3
	d := ApplyEffect(battle.Effect{Damage: 60, ResourceCost: 2, Success: true}, actor, target, battle.ModeStory)
	if actor.Energy != 1 || actor.Vault().PP != 7 {
		t.Fatalf("story cost must come from energy, got energy %d pp %d", actor.Energy, actor.Vault().PP)
	}
	if !d.Eliminated {
		t.Fatalf("expected story elimination at health 0, got %+v", target.Vault())
	}
}

func TestApplyEffect_BoundsHold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		actor := vaulted("a", rapid.IntRange(0, 100).Draw(t, "ah"), rapid.IntRange(0, 100).Draw(t, "as"), rapid.IntRange(0, 1000).Draw(t, "app"))
		target := vaulted("t", rapid.IntRange(0, 100).Draw(t, "th"), rapid.IntRange(0, 100).Draw(t, "ts"), rapid.IntRange(0, 1000).Draw(t, "tpp"))
		wasEliminated := rapid.Bool().Draw(t, "eliminated")
		target.Eliminated = wasEliminated
		self := rapid.Bool().Draw(t, "self")
		if self {
			target = actor
			wasEliminated = actor.Eliminated
		}
		eff := battle.Effect{
			Damage:         rapid.IntRange(0, 300).Draw(t, "damage"),
			ShieldDamage:   rapid.IntRange(0, 300).Draw(t, "shieldDamage"),
			Healing:        rapid.IntRange(0, 300).Draw(t, "healing"),
			ShieldBoost:    rapid.IntRange(0, 300).Draw(t, "shieldBoost"),
			ResourceStolen: rapid.IntRange(0, 2000).Draw(t, "steal"),
			ResourceCost:   rapid.IntRange(0, 2000).Draw(t, "cost"),
			Success:        true,
		}
		ApplyEffect(eff, actor, target, battle.ModeSession)
		for _, p := range []*battle.Participant{actor, target} {
			v := p.Vault()
			if v.Health < 0 || v.Health > v.MaxHealth || v.Shield < 0 || v.Shield > v.MaxShield || v.PP < 0 || v.PP > v.MaxPP {
				t.Fatalf("bounds violated for %s: %+v", p.ID, v)
			}
		}
		if wasEliminated && !target.Eliminated {
			t.Fatalf("elimination was cleared")
		}
	})
}
