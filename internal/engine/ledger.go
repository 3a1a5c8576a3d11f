package engine

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ericogr/vault-battles/internal/battle"
)

// EnergyRegenPerTick is the energy a story-mode participant regains at the
// end of each of its turns.
const EnergyRegenPerTick = 1

// Tick advances a participant's ledger by one completed turn: every buff
// and debuff loses one remaining turn and is dropped when it reaches zero,
// move cooldowns count down the same way and story-mode energy
// regenerates up to MaxEnergy. Entries marked fresh only lose the mark:
// the turn that granted them does not count against their duration.
//
// Tick is not idempotent. Calling it twice for the same turn expires
// modifiers twice; the orchestrator calls it exactly once per turn.
func Tick(p battle.Participant, mode battle.Mode) battle.Participant {
	p.Buffs = tickModifiers(p.Buffs)
	p.Debuffs = tickModifiers(p.Debuffs)
	p.Cooldowns = tickCooldowns(p.Cooldowns, p.FreshCooldowns)
	p.FreshCooldowns = nil
	if mode == battle.ModeStory && p.MaxEnergy > 0 {
		p.Energy = minInt(p.Energy+EnergyRegenPerTick, p.MaxEnergy)
	}
	return p
}

func tickModifiers(mods []battle.Modifier) []battle.Modifier {
	if len(mods) == 0 {
		return nil
	}
	out := make([]battle.Modifier, 0, len(mods))
	for _, m := range mods {
		if m.Fresh {
			m.Fresh = false
			out = append(out, m)
			continue
		}
		m.RemainingTurns--
		if m.RemainingTurns > 0 {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func tickCooldowns(cds map[string]int, fresh []string) map[string]int {
	if len(cds) == 0 {
		return nil
	}
	out := make(map[string]int, len(cds))
	for id, turns := range cds {
		if slices.Contains(fresh, id) {
			out[id] = turns
			continue
		}
		if turns-1 > 0 {
			out[id] = turns - 1
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AddModifier merges m into mods. An entry with the same type and source
// is refreshed instead of stacked, keeping the longer remaining duration;
// modifiers from different sources stack additively. New entries get a
// fresh id.
func AddModifier(mods []battle.Modifier, m battle.Modifier) []battle.Modifier {
	if m.RemainingTurns <= 0 {
		m.RemainingTurns = m.Duration
	}
	if m.RemainingTurns <= 0 {
		return mods
	}
	out := make([]battle.Modifier, len(mods), len(mods)+1)
	copy(out, mods)
	for i := range out {
		if out[i].Type == m.Type && out[i].Source == m.Source {
			if m.RemainingTurns > out[i].RemainingTurns {
				m.ID = out[i].ID
				out[i] = m
			}
			return out
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return append(out, m)
}

// Locked reports whether a participant cannot act this turn.
func Locked(p battle.Participant) bool {
	return p.HasDebuff(battle.DebuffFreeze)
}

// OnCooldown reports the remaining cooldown for a move, or zero.
func OnCooldown(p battle.Participant, moveID string) int {
	return p.Cooldowns[moveID]
}

// Usable reports whether p can cast mv right now: not frozen, not silenced
// for a non-attack move, and off cooldown.
func Usable(p battle.Participant, mv battle.Move) bool {
	if Locked(p) {
		return false
	}
	if p.HasDebuff(battle.DebuffSilence) && mv.Category != battle.CategoryAttack {
		return false
	}
	return OnCooldown(p, mv.ID) == 0
}
