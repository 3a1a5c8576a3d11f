package battle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/looplab/fsm"
)

// Lifecycle events accepted by a session.
const (
	EventClose = "close"
)

// newLifecycle builds the session status machine starting at the given
// status. Only active -> closed exists; a closed session never reopens.
func newLifecycle(current Status) *fsm.FSM {
	return fsm.NewFSM(
		string(current),
		fsm.Events{
			{Name: EventClose, Src: []string{string(StatusActive)}, Dst: string(StatusClosed)},
		},
		fsm.Callbacks{},
	)
}

// Close moves the session to the closed status. winner may be empty when
// an administrator ends the battle.
func (s *Session) Close(ctx context.Context, winner string) error {
	status := s.Status
	if status == "" {
		status = StatusActive
	}
	machine := newLifecycle(status)
	if err := machine.Event(ctx, EventClose); err != nil {
		return fmt.Errorf("close session %s: %w", s.ID, err)
	}
	s.Status = Status(machine.Current())
	s.Winner = winner
	return nil
}

// Active reports whether the session still accepts moves.
func (s *Session) Active() bool {
	return s.Status == StatusActive || s.Status == ""
}

// Clone returns a deep copy of the session so callers can mutate it
// without touching the original snapshot.
func (s *Session) Clone() (*Session, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &out, nil
}
