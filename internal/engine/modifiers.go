package engine

import (
	"math"

	"github.com/ericogr/vault-battles/internal/battle"
)

// Elemental multipliers.
const (
	ElementAdvantage    = 1.5
	ElementDisadvantage = 0.7
	ElementSame         = 1.2
	ElementNeutral      = 1.0

	// MasteryGrowth is the magnitude growth per mastery level above 1.
	MasteryGrowth = 0.2
)

// advantages is the fixed cyclic advantage table. It is not symmetric:
// disadvantage is derived by reversing the roles.
var advantages = map[battle.Element][]battle.Element{
	battle.ElementFire:  {battle.ElementEarth, battle.ElementAir},
	battle.ElementWater: {battle.ElementFire, battle.ElementEarth},
	battle.ElementEarth: {battle.ElementAir, battle.ElementWater},
	battle.ElementAir:   {battle.ElementFire, battle.ElementWater},
}

// HasAdvantage reports whether attacker's affinity beats defender's.
func HasAdvantage(attacker, defender battle.Element) bool {
	for _, e := range advantages[attacker] {
		if e == defender {
			return true
		}
	}
	return false
}

// ElementalMultiplier returns the damage multiplier for the matchup.
// Same element wins first, then advantage before disadvantage, so pairs
// that beat each other both get the advantage. Untagged sides are neutral.
func ElementalMultiplier(attacker, defender battle.Element) float64 {
	if attacker == battle.ElementNone || defender == battle.ElementNone {
		return ElementNeutral
	}
	if attacker == defender {
		return ElementSame
	}
	if HasAdvantage(attacker, defender) {
		return ElementAdvantage
	}
	if HasAdvantage(defender, attacker) {
		return ElementDisadvantage
	}
	return ElementNeutral
}

// MasteryScale returns the base magnitude multiplier for a mastery level.
func MasteryScale(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*MasteryGrowth
}

// --- Modifier stacks ---------------------------------------------------
// Every stack is additive: strengths are summed and applied once.

func damageMultiplier(attacker, defender battle.Participant) float64 {
	pct := attacker.BuffStrength(battle.BuffDamageBoost) + defender.DebuffStrength(battle.DebuffVulnerability)
	return 1 + float64(pct)/100.0
}

func shieldDamageMultiplier(attacker, defender battle.Participant) float64 {
	pct := attacker.BuffStrength(battle.BuffDamageBoost) + defender.DebuffStrength(battle.DebuffShieldBreak)
	return 1 + float64(pct)/100.0
}

func healingMultiplier(healer battle.Participant) float64 {
	return 1 + float64(healer.BuffStrength(battle.BuffPPRegen))/100.0
}

// magnitude resolves the base value of a move: a precomputed number wins,
// otherwise base scales with mastery.
func magnitude(precomputed, base, mastery int) int {
	if precomputed > 0 {
		return precomputed
	}
	if base <= 0 {
		return 0
	}
	return floor(float64(base) * MasteryScale(mastery))
}

// scale applies mult to v; any non-zero result is floored at 1.
func scale(v int, mult float64) int {
	if v <= 0 {
		return 0
	}
	out := floor(float64(v) * mult)
	if out < 1 {
		out = 1
	}
	return out
}

// floor truncates x, absorbing float noise such as 13.999999999999998.
func floor(x float64) int {
	return int(math.Floor(x + floatSlack))
}

const floatSlack = 1e-9
