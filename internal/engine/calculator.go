package engine

import (
	"math"
	"strconv"

	"github.com/ericogr/vault-battles/internal/battle"
)

// MsgInsufficientResource is the message of a failed effect whose cost
// exceeds what the attacker can spend.
const MsgInsufficientResource = "insufficient resource"

// Resource-hack steal fraction bounds.
const (
	StealFractionMin = 0.5
	StealFractionMax = 1.0
)

// Cast is a move as resolved for a specific caster: the catalog move with
// the caster's upgrades merged in plus the caster's mastery level.
type Cast struct {
	Move    battle.Move
	Mastery int
}

// Calculator turns a (cast, attacker, defender) triple into an Effect. It
// holds no battle state and is safe for concurrent use; the only random
// component is the resource-hack steal fraction drawn from its Source.
type Calculator struct {
	rng  Source
	mode battle.Mode
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSource injects the random source.
func WithSource(src Source) Option {
	return func(c *Calculator) {
		if src != nil {
			c.rng = src
		}
	}
}

// WithMode selects which resource pays for moves: PP in session mode,
// energy in story mode.
func WithMode(mode battle.Mode) Option {
	return func(c *Calculator) { c.mode = mode }
}

// NewCalculator builds a calculator. Without WithSource it seeds a source
// from crypto/rand, falling back to a time-independent fixed seed only if
// the system entropy pool cannot be read.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{mode: battle.ModeSession}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		src, err := NewSource()
		if err != nil {
			src = NewSeededSource(1)
		}
		c.rng = src
	}
	return c
}

// Mode returns the resource mode of the calculator.
func (c *Calculator) Mode() battle.Mode { return c.mode }

// ForMode returns a calculator sharing c's random source that spends the
// resource of the given mode.
func (c *Calculator) ForMode(mode battle.Mode) *Calculator {
	if mode == "" || mode == c.mode {
		return c
	}
	return &Calculator{rng: c.rng, mode: mode}
}

// Available returns what the attacker can spend on a move.
func (c *Calculator) Available(p battle.Participant) int {
	if c.mode == battle.ModeStory {
		return p.Energy
	}
	return p.Vault().PP
}

// Compute resolves the effect of a cast. A cost above the attacker's
// available resource yields a failed effect with zero magnitudes.
func (c *Calculator) Compute(cast Cast, attacker, defender battle.Participant) battle.Effect {
	mv := cast.Move
	if mv.Cost > c.Available(attacker) {
		return battle.Effect{MoveID: mv.ID, Success: false, Message: MsgInsufficientResource}
	}

	eff := battle.Effect{MoveID: mv.ID, ResourceCost: mv.Cost, Cooldown: mv.Cooldown, Success: true}
	switch mv.Category {
	case battle.CategoryAttack:
		c.attack(&eff, cast, attacker, defender)
	case battle.CategoryDefense, battle.CategorySupport:
		c.protect(&eff, cast, attacker, defender)
	case battle.CategoryControl:
		c.control(&eff, cast, attacker, defender)
	case battle.CategoryMobility, battle.CategoryStealth, battle.CategoryReveal:
		c.timedBuff(&eff, cast, attacker, defender)
	case battle.CategoryCleanse:
		c.cleanse(&eff, cast, attacker, defender)
	default:
		// utility and unknown categories are informational only
		eff.Message = displayName(attacker) + " uses " + mv.Name
	}
	return eff
}

func (c *Calculator) attack(eff *battle.Effect, cast Cast, attacker, defender battle.Participant) {
	mv := cast.Move
	base := magnitude(mv.Damage, mv.BasePower, cast.Mastery)
	elem := ElementalMultiplier(attackElement(mv, attacker), defender.Element)

	switch mv.Subtype {
	case battle.SubtypeResourceHack:
		pool := defender.Vault().PP
		if base < pool {
			pool = base
		}
		stolen := 0
		if pool > 0 {
			frac := StealFractionMin + c.rng.Float64()*(StealFractionMax-StealFractionMin)
			stolen = int(math.Floor(float64(pool) * frac))
			if stolen < 1 {
				stolen = 1
			}
		}
		eff.ResourceStolen = stolen
		eff.Message = displayName(attacker) + " hacks " + displayName(defender) + " with " + mv.Name +
			" and steals " + strconv.Itoa(stolen) + " PP"
	case battle.SubtypeShieldBreaker:
		eff.ShieldDamage = scale(base, elem*shieldDamageMultiplier(attacker, defender))
		eff.Message = displayName(attacker) + " breaks " + displayName(defender) + "'s shield with " + mv.Name +
			" for " + strconv.Itoa(eff.ShieldDamage) + " damage"
	default:
		eff.Damage = scale(base, elem*damageMultiplier(attacker, defender))
		eff.Message = displayName(attacker) + " hits " + displayName(defender) + " with " + mv.Name +
			" for " + strconv.Itoa(eff.Damage) + " damage" + elementTag(elem)
	}

	// Attacks may carry a rider debuff (e.g. vulnerability on hit).
	if mv.EffectType != "" && mv.Duration > 0 {
		eff.Debuffs = append(eff.Debuffs, newModifier(mv.EffectType, modifierStrength(mv, base), mv.Duration, mv.Name))
	}
}

func (c *Calculator) protect(eff *battle.Effect, cast Cast, attacker, defender battle.Participant) {
	mv := cast.Move
	heal := mv.Healing
	if heal <= 0 && mv.Category == battle.CategorySupport {
		heal = magnitude(0, mv.BasePower, cast.Mastery)
	}
	boost := mv.ShieldBoost
	if boost <= 0 && mv.Category == battle.CategoryDefense {
		boost = magnitude(0, mv.BasePower, cast.Mastery)
	}
	eff.Healing = scale(heal, healingMultiplier(attacker))
	eff.ShieldBoost = scale(boost, 1)

	if mv.Duration > 0 {
		t := mv.EffectType
		if t == "" {
			t = battle.BuffShieldBoost
		}
		eff.Buffs = append(eff.Buffs, newModifier(t, modifierStrength(mv, boost), mv.Duration, mv.Name))
	}

	msg := displayName(attacker) + " casts " + mv.Name
	if mv.Target != battle.TargetSelf {
		msg += " on " + displayName(defender)
	}
	if eff.Healing > 0 {
		msg += ", healing " + strconv.Itoa(eff.Healing)
	}
	if eff.ShieldBoost > 0 {
		msg += ", +" + strconv.Itoa(eff.ShieldBoost) + " shield"
	}
	if mv.Duration > 0 {
		msg += " for " + strconv.Itoa(mv.Duration) + " turn(s)"
	}
	eff.Message = msg
}

func (c *Calculator) control(eff *battle.Effect, cast Cast, attacker, defender battle.Participant) {
	mv := cast.Move
	t := mv.EffectType
	if t == "" {
		t = battle.DebuffFreeze
	}
	dur := mv.Duration
	if dur <= 0 {
		dur = 1
	}
	d := newModifier(t, modifierStrength(mv, magnitude(0, mv.BasePower, cast.Mastery)), dur, mv.Name)
	eff.Debuffs = append(eff.Debuffs, d)
	eff.Message = displayName(attacker) + " uses " + mv.Name + " on " + displayName(defender) +
		": " + string(t) + " for " + strconv.Itoa(dur) + " turn(s)"
}

func (c *Calculator) timedBuff(eff *battle.Effect, cast Cast, attacker, _ battle.Participant) {
	mv := cast.Move
	t := mv.EffectType
	if t == "" {
		switch mv.Category {
		case battle.CategoryMobility:
			t = battle.BuffSpeed
		case battle.CategoryStealth:
			t = battle.BuffStealth
		default:
			t = battle.BuffReveal
		}
	}
	dur := mv.Duration
	if dur <= 0 {
		dur = 1
	}
	b := newModifier(t, modifierStrength(mv, magnitude(0, mv.BasePower, cast.Mastery)), dur, mv.Name)
	eff.Buffs = append(eff.Buffs, b)
	eff.Message = displayName(attacker) + " uses " + mv.Name + ": " + string(t) + " for " + strconv.Itoa(dur) + " turn(s)"
}

func (c *Calculator) cleanse(eff *battle.Effect, cast Cast, attacker, defender battle.Participant) {
	mv := cast.Move
	eff.Cleanse = true
	eff.Healing = scale(magnitude(mv.Healing, mv.BasePower, cast.Mastery), healingMultiplier(attacker))
	msg := displayName(attacker) + " cleanses " + displayName(defender) + " with " + mv.Name
	if eff.Healing > 0 {
		msg += ", healing " + strconv.Itoa(eff.Healing)
	}
	eff.Message = msg
}

// modifierStrength prefers the move's explicit strength.
func modifierStrength(mv battle.Move, fallback int) int {
	if mv.DebuffStrength > 0 {
		return mv.DebuffStrength
	}
	return fallback
}

func newModifier(t battle.ModifierType, strength, duration int, source string) battle.Modifier {
	if duration < 0 {
		duration = 0
	}
	return battle.Modifier{Type: t, Strength: strength, Duration: duration, RemainingTurns: duration, Source: source}
}

func elementTag(mult float64) string {
	switch mult {
	case ElementAdvantage:
		return " (super effective)"
	case ElementDisadvantage:
		return " (resisted)"
	case ElementSame:
		return " (affinity bonus)"
	}
	return ""
}
