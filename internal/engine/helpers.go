package engine

import "github.com/ericogr/vault-battles/internal/battle"

// displayName returns the participant name, falling back to its id.
func displayName(p battle.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// attackElement returns the element a move strikes with: the move's own
// tag when set, otherwise the caster's affinity.
func attackElement(mv battle.Move, attacker battle.Participant) battle.Element {
	if mv.Element != battle.ElementNone {
		return mv.Element
	}
	return attacker.Element
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
