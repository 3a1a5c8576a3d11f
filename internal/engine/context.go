package engine

import (
	"strings"

	"github.com/ericogr/vault-battles/internal/battle"
)

// --- Round context and helpers ----------------------------------------
type roundContext struct {
	s       *battle.Session
	summary []string
}

func newRoundContext(s *battle.Session) *roundContext {
	return &roundContext{s: s, summary: make([]string, 0, 8)}
}

func (rc *roundContext) add(msg string) { rc.summary = append(rc.summary, msg) }

func (rc *roundContext) eliminatedTag(p battle.Participant) string {
	return displayName(p) + " has been eliminated"
}

// commit appends the round summary to the session log.
func (rc *roundContext) commit() {
	rc.s.AppendLog(rc.summary...)
}

// joinSummary returns the accumulated summary as a single string.
func (rc *roundContext) joinSummary() string {
	return strings.Join(rc.summary, "\n")
}
