package engine

import (
	"slices"

	"github.com/ericogr/vault-battles/internal/battle"
)

// Deltas are the numeric changes an applied effect produced, reported as
// after minus before so callers can drive animations.
type Deltas struct {
	TargetHealth int  `json:"target_health"`
	TargetShield int  `json:"target_shield"`
	TargetPP     int  `json:"target_pp"`
	ActorShield  int  `json:"actor_shield"`
	ActorPP      int  `json:"actor_pp"`
	ActorEnergy  int  `json:"actor_energy"`
	Eliminated   bool `json:"eliminated"`
}

// ApplyEffect applies eff to the participants in place. actor and target
// may point to the same participant for self-casts. Both are materialized
// first, so vault fields are always set afterwards.
//
// Order: shield damage, generic damage (shield absorbs first), healing,
// shield boost, resource steal, resource cost, cleanse, modifiers,
// cooldown, elimination. Every vault field stays within [0, max].
// Modifiers landing on the actor and the started cooldown are marked
// fresh, so the actor's end-of-turn Tick does not count this turn.
func ApplyEffect(eff battle.Effect, actor, target *battle.Participant, mode battle.Mode) Deltas {
	actor.Materialize()
	target.Materialize()
	actorBefore, targetBefore := actor.Vault(), target.Vault()
	energyBefore := actor.Energy

	tv := target.Vault()
	if eff.ShieldDamage > 0 {
		absorbed := minInt(eff.ShieldDamage, tv.Shield)
		tv.Shield -= absorbed
		tv.Health = clamp(tv.Health-(eff.ShieldDamage-absorbed), 0, tv.MaxHealth)
	}
	if eff.Damage > 0 {
		absorbed := minInt(eff.Damage, tv.Shield)
		tv.Shield -= absorbed
		tv.Health = clamp(tv.Health-(eff.Damage-absorbed), 0, tv.MaxHealth)
	}
	if eff.Healing > 0 {
		tv.Health = clamp(tv.Health+eff.Healing, 0, tv.MaxHealth)
	}
	// target aliases actor on a self-cast, so the boost lands on the actor.
	if eff.ShieldBoost > 0 {
		tv.Shield = clamp(tv.Shield+eff.ShieldBoost, 0, tv.MaxShield)
	}
	target.SetVault(tv)

	if eff.ResourceStolen > 0 && actor != target {
		tv = target.Vault()
		av := actor.Vault()
		// A transfer: nothing leaves the target that the actor cannot hold.
		taken := minInt(minInt(eff.ResourceStolen, tv.PP), maxInt(av.MaxPP-av.PP, 0))
		tv.PP -= taken
		av.PP = clamp(av.PP+taken, 0, av.MaxPP)
		target.SetVault(tv)
		actor.SetVault(av)
	}

	if eff.ResourceCost > 0 {
		if mode == battle.ModeStory {
			actor.Energy = maxInt(actor.Energy-eff.ResourceCost, 0)
		} else {
			av := actor.Vault()
			av.PP = maxInt(av.PP-eff.ResourceCost, 0)
			actor.SetVault(av)
		}
	}

	if eff.Cleanse {
		target.Debuffs = nil
	}
	// Entries the actor grants itself must survive the tick that ends
	// this very turn.
	self := target == actor
	for _, b := range eff.Buffs {
		b.Fresh = self
		target.Buffs = AddModifier(target.Buffs, b)
	}
	for _, d := range eff.Debuffs {
		d.Fresh = self
		target.Debuffs = AddModifier(target.Debuffs, d)
	}

	if eff.MoveID != "" {
		if cd := eff.Cooldown - actor.BuffStrength(battle.BuffCooldownReduction); cd > 0 {
			if actor.Cooldowns == nil {
				actor.Cooldowns = make(map[string]int)
			}
			actor.Cooldowns[eff.MoveID] = cd
			if !slices.Contains(actor.FreshCooldowns, eff.MoveID) {
				actor.FreshCooldowns = append(actor.FreshCooldowns, eff.MoveID)
			}
		}
	}

	out := Deltas{}
	if !target.Eliminated && target.Defeated(mode) {
		target.Eliminated = true
		out.Eliminated = true
	}

	actorAfter, targetAfter := actor.Vault(), target.Vault()
	out.TargetHealth = targetAfter.Health - targetBefore.Health
	out.TargetShield = targetAfter.Shield - targetBefore.Shield
	out.TargetPP = targetAfter.PP - targetBefore.PP
	out.ActorShield = actorAfter.Shield - actorBefore.Shield
	out.ActorPP = actorAfter.PP - actorBefore.PP
	out.ActorEnergy = actor.Energy - energyBefore
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
