package service

import (
	"context"

	"github.com/ericogr/vault-battles/internal/storage"
)

//go:generate go tool mockgen -destination=./mocks/mock_stat_tracker.go -package=mocks . StatTracker

// StatTracker receives battle outcomes after they are committed. Calls are
// best effort: errors are logged and never change a committed result.
type StatTracker interface {
	TrackElimination(ctx context.Context, sessionID, actorID, eliminatedID string) error
	TrackSessionClosed(ctx context.Context, sessionID string, participantIDs []string) error
}

// profileTracker records outcomes on player profiles.
type profileTracker struct {
	repo storage.ProfileRepository
}

// NewProfileTracker returns a StatTracker backed by the profile repository.
func NewProfileTracker(repo storage.ProfileRepository) StatTracker {
	return &profileTracker{repo: repo}
}

func (t *profileTracker) TrackElimination(ctx context.Context, _ string, actorID, eliminatedID string) error {
	return t.repo.RecordElimination(ctx, actorID, eliminatedID)
}

func (t *profileTracker) TrackSessionClosed(ctx context.Context, _ string, participantIDs []string) error {
	return t.repo.RecordSessionPlayed(ctx, participantIDs)
}

type noopTracker struct{}

func (noopTracker) TrackElimination(context.Context, string, string, string) error { return nil }
func (noopTracker) TrackSessionClosed(context.Context, string, []string) error     { return nil }
