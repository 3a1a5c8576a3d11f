package keys

import (
	"strings"
)

// SessionKey returns the storage key of a battle session.
func SessionKey(id string) []byte {
	return []byte("session/" + strings.TrimSpace(id))
}

// MasteryKey produces a canonical key for an owner's mastery of a move.
// Behavior: trims both parts, lower-cases the move id and joins them with
// a slash. Suitable for stable cache and singleflight keys.
func MasteryKey(ownerID, moveID string) string {
	return strings.TrimSpace(ownerID) + "/" + strings.ToLower(strings.TrimSpace(moveID))
}

// SnapshotKey is the singleflight key of a session snapshot read.
func SnapshotKey(sessionID string) string {
	return "snapshot:" + strings.TrimSpace(sessionID)
}
