package service

import (
	"errors"
	"fmt"
)

// Code classifies a rejected operation.
type Code string

const (
	CodeNotFound             Code = "not_found"
	CodeActorNotFound        Code = "actor_not_found"
	CodeTargetNotFound       Code = "target_not_found"
	CodeActorEliminated      Code = "actor_eliminated"
	CodeInvalidLogMessage    Code = "invalid_log_message"
	CodeInsufficientResource Code = "insufficient_resource"
	CodeStorageConflict      Code = "storage_conflict"
	CodeSessionClosed        Code = "session_closed"
	CodeMoveNotFound         Code = "move_not_found"
	CodeMoveUnavailable      Code = "move_unavailable"
	CodeInvalidTarget        Code = "invalid_target"
	CodeInvalidParticipants  Code = "invalid_participants"
	CodeAlreadyJoined        Code = "already_joined"
	CodeInvalidMode          Code = "invalid_mode"
)

// ApplyError is the typed failure of a session operation. Two ApplyErrors
// match under errors.Is when their codes are equal, so callers compare
// against the sentinels below.
type ApplyError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *ApplyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *ApplyError) Unwrap() error { return e.Cause }

func (e *ApplyError) Is(target error) bool {
	t, ok := target.(*ApplyError)
	return ok && t.Code == e.Code
}

var (
	ErrSessionNotFound      = &ApplyError{Code: CodeNotFound, Message: "session not found"}
	ErrActorNotFound        = &ApplyError{Code: CodeActorNotFound, Message: "actor not found in session"}
	ErrTargetNotFound       = &ApplyError{Code: CodeTargetNotFound, Message: "target not found in session"}
	ErrActorEliminated      = &ApplyError{Code: CodeActorEliminated, Message: "eliminated participants cannot act"}
	ErrInvalidLogMessage    = &ApplyError{Code: CodeInvalidLogMessage, Message: "a non-empty log message is required"}
	ErrInsufficientResource = &ApplyError{Code: CodeInsufficientResource, Message: "insufficient resource"}
	ErrStorageConflict      = &ApplyError{Code: CodeStorageConflict, Message: "session is busy, try again"}
	ErrSessionClosed        = &ApplyError{Code: CodeSessionClosed, Message: "session is closed"}
	ErrMoveNotFound         = &ApplyError{Code: CodeMoveNotFound, Message: "move not found"}
	ErrMoveUnavailable      = &ApplyError{Code: CodeMoveUnavailable, Message: "move is locked or on cooldown"}
	ErrInvalidTarget        = &ApplyError{Code: CodeInvalidTarget, Message: "target is not valid for this move"}
	ErrInvalidParticipants  = &ApplyError{Code: CodeInvalidParticipants, Message: "a session needs at least two distinct participants"}
	ErrAlreadyJoined        = &ApplyError{Code: CodeAlreadyJoined, Message: "participant already in session"}
	ErrNotStoryMode         = &ApplyError{Code: CodeInvalidMode, Message: "story rounds need a story-mode session"}
)

// reject returns a copy of base carrying a specific message.
func reject(base *ApplyError, format string, args ...any) *ApplyError {
	return &ApplyError{Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of an ApplyError in err's chain, or "".
func CodeOf(err error) Code {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
