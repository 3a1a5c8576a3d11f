package battle

// Element is an elemental affinity tag.
type Element string

const (
	ElementNone  Element = ""
	ElementFire  Element = "fire"
	ElementWater Element = "water"
	ElementEarth Element = "earth"
	ElementAir   Element = "air"
)

// ModifierType is the type tag of a buff or debuff.
type ModifierType string

const (
	BuffDamageBoost       ModifierType = "damage_boost"
	BuffShieldBoost       ModifierType = "shield_boost"
	BuffSpeed             ModifierType = "speed"
	BuffCooldownReduction ModifierType = "cooldown_reduction"
	BuffPPRegen           ModifierType = "pp_regen"
	BuffStealth           ModifierType = "stealth"
	BuffReveal            ModifierType = "reveal"
	BuffCoordination      ModifierType = "coordination"

	DebuffVulnerability ModifierType = "vulnerability"
	DebuffShieldBreak   ModifierType = "shield_break"
	DebuffSilence       ModifierType = "silence"
	DebuffFreeze        ModifierType = "freeze"
	DebuffSlow          ModifierType = "slow"
)

// Modifier is a timed buff or debuff. RemainingTurns strictly decreases by
// one per tick and the entry is dropped when it reaches zero.
type Modifier struct {
	ID             string       `json:"id"`
	Type           ModifierType `json:"type"`
	Strength       int          `json:"strength"`
	Duration       int          `json:"duration"`
	RemainingTurns int          `json:"remaining_turns"`
	Source         string       `json:"source"`
	// Fresh marks an entry the holder granted itself during its current
	// turn. The next tick clears the mark instead of counting the turn.
	Fresh bool `json:"fresh,omitempty"`
}

// Vault defaults for participants that join without initialised fields.
const (
	DefaultMinMaxHealth = 100
	HealthPerLevel      = 10
	DefaultMaxShield    = 100
	DefaultMaxPP        = 1000
	DefaultStartingPP   = 0
)

// Participant is a battle-side actor. The vault fields are optional in the
// stored record: nil means the vault was never initialised and Materialize
// fills it in.
type Participant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Side    string  `json:"side,omitempty"`
	Level   int     `json:"level"`
	Element Element `json:"element,omitempty"`

	Health    *int `json:"health,omitempty"`
	MaxHealth *int `json:"max_health,omitempty"`
	Shield    *int `json:"shield,omitempty"`
	MaxShield *int `json:"max_shield,omitempty"`
	PP        *int `json:"pp,omitempty"`
	MaxPP     *int `json:"max_pp,omitempty"`

	// Energy is only spent in the story variant.
	Energy    int `json:"energy,omitempty"`
	MaxEnergy int `json:"max_energy,omitempty"`

	Buffs     []Modifier     `json:"buffs,omitempty"`
	Debuffs   []Modifier     `json:"debuffs,omitempty"`
	Cooldowns map[string]int `json:"cooldowns,omitempty"`
	// FreshCooldowns lists cooldowns started during the current turn.
	FreshCooldowns []string `json:"fresh_cooldowns,omitempty"`

	Eliminated bool `json:"eliminated"`
}

// Vault is the materialized view of a participant's resources.
type Vault struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Shield    int `json:"shield"`
	MaxShield int `json:"max_shield"`
	PP        int `json:"pp"`
	MaxPP     int `json:"max_pp"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Materialize defaults every vault field that is still unset:
// maxHealth = max(100, level*10), health = maxHealth, maxShield = 100,
// shield = maxShield, PP = 0, maxPP = 1000. Set fields are left alone,
// except that current values are clamped into [0, max].
func (p *Participant) Materialize() {
	if p.MaxHealth == nil {
		mh := p.Level * HealthPerLevel
		if mh < DefaultMinMaxHealth {
			mh = DefaultMinMaxHealth
		}
		p.MaxHealth = Int(mh)
	}
	if p.Health == nil {
		p.Health = Int(*p.MaxHealth)
	}
	if p.MaxShield == nil {
		p.MaxShield = Int(DefaultMaxShield)
	}
	if p.Shield == nil {
		p.Shield = Int(*p.MaxShield)
	}
	if p.PP == nil {
		p.PP = Int(DefaultStartingPP)
	}
	if p.MaxPP == nil {
		p.MaxPP = Int(DefaultMaxPP)
	}
	clampInto(p.Health, p.MaxHealth)
	clampInto(p.Shield, p.MaxShield)
	clampInto(p.PP, p.MaxPP)
}

func clampInto(v, hi *int) {
	if *hi < 0 {
		*hi = 0
	}
	if *v > *hi {
		*v = *hi
	}
	if *v < 0 {
		*v = 0
	}
}

// Materialized reports whether every vault field is set.
func (p *Participant) Materialized() bool {
	return p.Health != nil && p.MaxHealth != nil && p.Shield != nil &&
		p.MaxShield != nil && p.PP != nil && p.MaxPP != nil
}

// Vault returns the current resources; unset fields read as zero.
func (p Participant) Vault() Vault {
	return Vault{
		Health:    deref(p.Health),
		MaxHealth: deref(p.MaxHealth),
		Shield:    deref(p.Shield),
		MaxShield: deref(p.MaxShield),
		PP:        deref(p.PP),
		MaxPP:     deref(p.MaxPP),
	}
}

// SetVault stores v back into the participant.
func (p *Participant) SetVault(v Vault) {
	p.Health = Int(v.Health)
	p.MaxHealth = Int(v.MaxHealth)
	p.Shield = Int(v.Shield)
	p.MaxShield = Int(v.MaxShield)
	p.PP = Int(v.PP)
	p.MaxPP = Int(v.MaxPP)
}

// Defeated applies the elimination rule of the given mode:
// health+shield <= 0 for sessions, health <= 0 for story battles.
func (p Participant) Defeated(mode Mode) bool {
	v := p.Vault()
	if mode == ModeStory {
		return v.Health <= 0
	}
	return v.Health+v.Shield <= 0
}

// SideKey returns the participant's side, falling back to its own id so
// participants without a side battle as free agents.
func (p Participant) SideKey() string {
	if p.Side != "" {
		return p.Side
	}
	return p.ID
}

// HasDebuff reports whether any active debuff has the given type.
func (p Participant) HasDebuff(t ModifierType) bool {
	for _, d := range p.Debuffs {
		if d.Type == t {
			return true
		}
	}
	return false
}

// BuffStrength sums the strength of active buffs of the given type.
func (p Participant) BuffStrength(t ModifierType) int {
	return sumStrength(p.Buffs, t)
}

// DebuffStrength sums the strength of active debuffs of the given type.
func (p Participant) DebuffStrength(t ModifierType) int {
	return sumStrength(p.Debuffs, t)
}

func sumStrength(mods []Modifier, t ModifierType) int {
	total := 0
	for _, m := range mods {
		if m.Type == t {
			total += m.Strength
		}
	}
	return total
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
