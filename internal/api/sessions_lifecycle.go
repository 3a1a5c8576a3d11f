package api

import (
	"net/http"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/gin-gonic/gin"
)

// ParticipantPayload describes a battle-side actor. Vault fields are not
// accepted; they are defaulted from the level on first use.
type ParticipantPayload struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Side      string         `json:"side"`
	Level     int            `json:"level"`
	Element   battle.Element `json:"element"`
	MaxEnergy int            `json:"max_energy"`
}

func (p ParticipantPayload) participant() battle.Participant {
	return battle.Participant{
		ID: p.ID, Name: p.Name, Side: p.Side, Level: p.Level, Element: p.Element,
		Energy: p.MaxEnergy, MaxEnergy: p.MaxEnergy,
	}
}

type CreateSessionPayload struct {
	Mode battle.Mode `json:"mode"`
	// Self is the caller's own participant; id and name come from the login.
	Self         ParticipantPayload   `json:"self"`
	Participants []ParticipantPayload `json:"participants"`
}

// CreateSession starts a battle between the caller and the listed
// participants.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, playerName := currentPlayer(c)
	if len(req.Participants) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNotEnoughParticipants})
		return
	}

	req.Self.ID, req.Self.Name = playerID, playerName
	ps := make([]battle.Participant, 0, len(req.Participants)+1)
	ps = append(ps, req.Self.participant())
	for _, p := range req.Participants {
		ps = append(ps, p.participant())
	}

	ctx := c.Request.Context()
	if err := h.profiles.UpsertProfile(ctx, playerID, playerName); err != nil {
		logging.Error("failed to upsert profile", err, logging.Fields{constants.LogFieldPlayerID: playerID})
	}
	s, err := h.resolver.CreateSession(ctx, req.Mode, ps)
	if err != nil {
		writeServiceError(c, constants.ErrFailedCreateBattle, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// JoinSession adds the caller to an active session.
func (h *SessionHandler) JoinSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	var req ParticipantPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	req.ID, req.Name = currentPlayer(c)

	ctx := c.Request.Context()
	if err := h.profiles.UpsertProfile(ctx, req.ID, req.Name); err != nil {
		logging.Error("failed to upsert profile", err, logging.Fields{constants.LogFieldPlayerID: req.ID})
	}
	s, err := h.resolver.JoinSession(ctx, id, req.participant())
	if err != nil {
		writeServiceError(c, constants.ErrFailedJoinSession, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// CloseSession ends a battle. Only a participant may close it.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	playerID, playerName := currentPlayer(c)
	ctx := c.Request.Context()
	snap, err := h.resolver.Session(ctx, id)
	if err != nil {
		writeServiceError(c, constants.ErrFailedCloseSession, err)
		return
	}
	if snap.Find(playerID) == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotParticipant})
		return
	}
	s, err := h.resolver.CloseSession(ctx, id, playerName)
	if err != nil {
		writeServiceError(c, constants.ErrFailedCloseSession, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
