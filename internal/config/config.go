package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ericogr/vault-battles/internal/battle"
)

// DefaultSessionIdleTTL is used when the config file sets no idle TTL.
const DefaultSessionIdleTTL = 30 * time.Minute

type rawConfig struct {
	MoveList []battle.Move `json:"move_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Optional Go duration string ("45m"). Active sessions without a write
	// for this long are closed by the reaper.
	SessionIdleTTL string `json:"session_idle_ttl"`
}

// LoadedConfig contains the move catalog and server settings.
type LoadedConfig struct {
	Catalog        *Catalog
	ServerAddress  string
	SessionIdleTTL time.Duration
}

// LoadConfig reads the configuration file at path. It requires the key
// `move_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(path, b)
}

// ParseConfig validates raw config bytes; name is only used in errors.
func ParseConfig(name string, b []byte) (*LoadedConfig, error) {
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", name, err)
	}
	if len(rc.MoveList) == 0 {
		return nil, fmt.Errorf("config file %s: move_list is empty (provide 'move_list' array)", name)
	}

	catalog, err := NewCatalog(rc.MoveList)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", name, err)
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	ttl := DefaultSessionIdleTTL
	if s := strings.TrimSpace(rc.SessionIdleTTL); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config file %s: invalid session_idle_ttl '%s'", name, rc.SessionIdleTTL)
		}
		ttl = d
	}

	return &LoadedConfig{Catalog: catalog, ServerAddress: addr, SessionIdleTTL: ttl}, nil
}

// Catalog is the read-only move catalog.
type Catalog struct {
	byID  map[string]battle.Move
	order []string
}

// NewCatalog validates moves and indexes them by id. Ids are unique
// (case-insensitive), categories and target selectors must be known and
// every number must be non-negative.
func NewCatalog(moves []battle.Move) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]battle.Move, len(moves)), order: make([]string, 0, len(moves))}
	seen := make(map[string]struct{}, len(moves))
	for _, mv := range moves {
		mv.ID = strings.TrimSpace(mv.ID)
		if mv.ID == "" {
			return nil, fmt.Errorf("move entry missing 'id'")
		}
		lid := strings.ToLower(mv.ID)
		if _, exists := seen[lid]; exists {
			return nil, fmt.Errorf("duplicate move id '%s'", mv.ID)
		}
		seen[lid] = struct{}{}
		if mv.Name == "" {
			mv.Name = mv.ID
		}
		if mv.Target == "" {
			mv.Target = battle.TargetSingle
		}
		if err := validateMove(mv); err != nil {
			return nil, err
		}
		c.byID[lid] = mv
		c.order = append(c.order, lid)
	}
	return c, nil
}

func validateMove(mv battle.Move) error {
	if !knownCategory(mv.Category) {
		return fmt.Errorf("move '%s': unknown category '%s'", mv.ID, mv.Category)
	}
	if !knownTarget(mv.Target) {
		return fmt.Errorf("move '%s': unknown target '%s'", mv.ID, mv.Target)
	}
	switch mv.Subtype {
	case battle.SubtypeNone, battle.SubtypeResourceHack, battle.SubtypeShieldBreaker:
	default:
		return fmt.Errorf("move '%s': unknown subtype '%s'", mv.ID, mv.Subtype)
	}
	if mv.Subtype != battle.SubtypeNone && mv.Category != battle.CategoryAttack {
		return fmt.Errorf("move '%s': subtype '%s' requires category attack", mv.ID, mv.Subtype)
	}
	numbers := map[string]int{
		"cost": mv.Cost, "cooldown": mv.Cooldown, "damage": mv.Damage, "healing": mv.Healing,
		"shield_boost": mv.ShieldBoost, "debuff_strength": mv.DebuffStrength,
		"duration": mv.Duration, "base_power": mv.BasePower,
	}
	keys := make([]string, 0, len(numbers))
	for k := range numbers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if numbers[k] < 0 {
			return fmt.Errorf("move '%s': %s must not be negative", mv.ID, k)
		}
	}
	return nil
}

func knownCategory(c battle.Category) bool {
	for _, k := range battle.Categories {
		if k == c {
			return true
		}
	}
	return false
}

func knownTarget(t battle.TargetSelector) bool {
	for _, k := range battle.TargetSelectors {
		if k == t {
			return true
		}
	}
	return false
}

// Move looks a move up by id, ignoring case.
func (c *Catalog) Move(id string) (battle.Move, bool) {
	mv, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return mv, ok
}

// Moves returns every move in file order.
func (c *Catalog) Moves() []battle.Move {
	out := make([]battle.Move, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
