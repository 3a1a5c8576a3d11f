package battle

import (
	"time"

	"gorm.io/gorm"
)

// Category groups moves by the kind of effect they resolve to.
type Category string

const (
	CategoryAttack   Category = "attack"
	CategoryDefense  Category = "defense"
	CategoryUtility  Category = "utility"
	CategorySupport  Category = "support"
	CategoryControl  Category = "control"
	CategoryMobility Category = "mobility"
	CategoryStealth  Category = "stealth"
	CategoryReveal   Category = "reveal"
	CategoryCleanse  Category = "cleanse"
)

// Categories lists every valid move category (used by config validation).
var Categories = []Category{
	CategoryAttack, CategoryDefense, CategoryUtility, CategorySupport, CategoryControl,
	CategoryMobility, CategoryStealth, CategoryReveal, CategoryCleanse,
}

// Offensive reports whether moves of this category are aimed at opponents.
func (c Category) Offensive() bool {
	return c == CategoryAttack || c == CategoryControl
}

// TargetSelector describes who a move may be cast on.
type TargetSelector string

const (
	TargetSelf   TargetSelector = "self"
	TargetSingle TargetSelector = "single"
	TargetEnemy  TargetSelector = "enemy"
	TargetTeam   TargetSelector = "team"
)

// TargetSelectors lists every valid target selector.
var TargetSelectors = []TargetSelector{TargetSelf, TargetSingle, TargetEnemy, TargetTeam}

// Subtype refines how an attack move resolves.
type Subtype string

const (
	SubtypeNone          Subtype = ""
	SubtypeResourceHack  Subtype = "resource_hack"
	SubtypeShieldBreaker Subtype = "shield_breaker"
)

// Move is an immutable catalog entry. Mastery levels and upgraded numbers
// belong to the caster and are merged in at cast time (see Mastery.Apply).
type Move struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category Category       `json:"category"`
	Target   TargetSelector `json:"target"`
	Cost     int            `json:"cost"`
	Cooldown int            `json:"cooldown"`
	// Precomputed numbers. A positive value is used as-is by the calculator
	// because it already embeds any equip/upgrade boost.
	Damage         int `json:"damage,omitempty"`
	Healing        int `json:"healing,omitempty"`
	ShieldBoost    int `json:"shield_boost,omitempty"`
	DebuffStrength int `json:"debuff_strength,omitempty"`
	Duration       int `json:"duration,omitempty"`
	// BasePower is the unscaled magnitude used when no precomputed number
	// is present; it grows with the caster's mastery level.
	BasePower   int          `json:"base_power,omitempty"`
	Element     Element      `json:"element,omitempty"`
	EffectType  ModifierType `json:"effect_type,omitempty"`
	Subtype     Subtype      `json:"subtype,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Mastery stores a player's upgrade tier for a single move.
type Mastery struct {
	gorm.Model
	OwnerID     string `json:"owner_id" gorm:"uniqueIndex:idx_move_mastery_owner_move"`
	MoveID      string `json:"move_id" gorm:"uniqueIndex:idx_move_mastery_owner_move"`
	Level       int    `json:"level"`
	Damage      int    `json:"damage"`
	Healing     int    `json:"healing"`
	ShieldBoost int    `json:"shield_boost"`
}

func (Mastery) TableName() string { return "move_masteries" }

// Apply returns a copy of mv carrying the upgraded numbers of this mastery.
// Zero upgrades leave the catalog numbers untouched.
func (m Mastery) Apply(mv Move) Move {
	if m.Damage > 0 {
		mv.Damage = m.Damage
	}
	if m.Healing > 0 {
		mv.Healing = m.Healing
	}
	if m.ShieldBoost > 0 {
		mv.ShieldBoost = m.ShieldBoost
	}
	return mv
}

// EffectiveLevel returns the mastery level, treating unset as level 1.
func (m Mastery) EffectiveLevel() int {
	if m.Level < 1 {
		return 1
	}
	return m.Level
}

// Effect is the computed, not yet applied outcome of a move. It is never
// persisted and is consumed exactly once by the transition function.
type Effect struct {
	MoveID         string     `json:"move_id"`
	Damage         int        `json:"damage"`
	Healing        int        `json:"healing"`
	ShieldDamage   int        `json:"shield_damage"`
	ShieldBoost    int        `json:"shield_boost"`
	ResourceStolen int        `json:"resource_stolen"`
	ResourceCost   int        `json:"resource_cost"`
	Cooldown       int        `json:"cooldown"`
	Buffs          []Modifier `json:"buffs,omitempty"`
	Debuffs        []Modifier `json:"debuffs,omitempty"`
	// Cleanse removes every debuff from the target before new debuffs land.
	Cleanse bool   `json:"cleanse"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Mode selects between the shared-session rules and the local story rules.
type Mode string

const (
	ModeSession Mode = "session"
	ModeStory   Mode = "story"
)

// Status is the lifecycle state of a battle session.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Session is the shared battle record. It is mutated only through the
// transition functions in the service package; everything else reads
// snapshots.
type Session struct {
	ID           string        `json:"id" gorm:"primaryKey;size:36"`
	Mode         Mode          `json:"mode"`
	Status       Status        `json:"status" gorm:"index"`
	Participants []Participant `json:"participants" gorm:"serializer:json"`
	// Log is append-only; entries are ordered by commit order.
	Log    []string `json:"log" gorm:"serializer:json"`
	Round  int      `json:"round"`
	Wave   int      `json:"wave"`
	Winner string   `json:"winner"`
	// Version is bumped on every commit and guards optimistic writes.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// Store battle sessions in a dedicated table name
func (Session) TableName() string { return "battle_sessions" }

// Find returns a pointer into the participant list, or nil.
func (s *Session) Find(id string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// AppendLog adds entries to the battle log.
func (s *Session) AppendLog(lines ...string) {
	s.Log = append(s.Log, lines...)
}

// StandingSides returns the sides that still have at least one
// non-eliminated participant, in participant order.
func (s *Session) StandingSides() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 2)
	for i := range s.Participants {
		p := &s.Participants[i]
		if p.Eliminated {
			continue
		}
		side := p.SideKey()
		if !seen[side] {
			seen[side] = true
			out = append(out, side)
		}
	}
	return out
}

// PlayerProfile stores aggregate battle stats per player identity.
type PlayerProfile struct {
	gorm.Model
	PlayerID       string `json:"player_id" gorm:"uniqueIndex"`
	PlayerName     string `json:"player_name"`
	SessionsPlayed int    `json:"sessions_played"`
	Eliminations   int    `json:"eliminations"`
	Defeats        int    `json:"defeats"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }
