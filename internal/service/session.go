package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
)

// CreateSession starts a battle between the given participants. Vault
// fields are left as provided; unset ones are defaulted on first use.
func (r *Resolver) CreateSession(ctx context.Context, mode battle.Mode, participants []battle.Participant) (*battle.Session, error) {
	if len(participants) < 2 {
		return nil, ErrInvalidParticipants
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		id := strings.TrimSpace(p.ID)
		if id == "" || seen[id] {
			return nil, reject(ErrInvalidParticipants, "participant ids must be unique and non-empty")
		}
		seen[id] = true
	}
	if mode == "" {
		mode = battle.ModeSession
	}
	s := &battle.Session{
		Mode:         mode,
		Status:       battle.StatusActive,
		Participants: participants,
		Round:        1,
		Wave:         1,
	}
	if err := r.store.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// JoinSession adds a participant to an active session. The newcomer's
// vault is materialized lazily by its first move.
func (r *Resolver) JoinSession(ctx context.Context, sessionID string, p battle.Participant) (*battle.Session, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, reject(ErrInvalidParticipants, "participant id is required")
	}
	committed, err := r.store.Transact(ctx, sessionID, func(s *battle.Session) error {
		if !s.Active() {
			return ErrSessionClosed
		}
		if s.Find(p.ID) != nil {
			return ErrAlreadyJoined
		}
		s.Participants = append(s.Participants, p)
		s.AppendLog(fmt.Sprintf(constants.LogJoinedFmt, participantName(&p)))
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return committed, nil
}

// CloseSession ends a battle on an administrator's request. No winner is
// recorded.
func (r *Resolver) CloseSession(ctx context.Context, sessionID, closedBy string) (*battle.Session, error) {
	return r.closeWith(ctx, sessionID, fmt.Sprintf(constants.LogClosedByAdminFmt, closedBy), nil)
}

// closeWith closes an active session and appends line. guard, when set,
// may veto the close from inside the transaction.
func (r *Resolver) closeWith(ctx context.Context, sessionID, line string, guard func(*battle.Session) error) (*battle.Session, error) {
	committed, err := r.store.Transact(ctx, sessionID, func(s *battle.Session) error {
		if !s.Active() {
			return ErrSessionClosed
		}
		if guard != nil {
			if err := guard(s); err != nil {
				return err
			}
		}
		if err := s.Close(ctx, ""); err != nil {
			return err
		}
		s.AppendLog(line)
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	r.trackClosed(committed)
	return committed, nil
}
