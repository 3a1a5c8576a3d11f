package api

import (
	"net/http"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/service"

	"github.com/gin-gonic/gin"
)

type MoveRequest struct {
	MoveID   string `json:"move_id"`
	TargetID string `json:"target_id"`
}

// CastMove resolves the caller's move in a session. The caller acts as
// its own participant.
func (h *SessionHandler) CastMove(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MoveID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, _ := currentPlayer(c)

	out, err := h.resolver.CastMove(c.Request.Context(), service.CastRequest{
		SessionID: id,
		ActorID:   playerID,
		TargetID:  req.TargetID,
		MoveID:    req.MoveID,
	})
	if err != nil {
		// A team move may fail on a later target after earlier ones
		// committed; report what landed alongside the error.
		if len(out.Results) > 0 {
			c.JSON(statusForCode(service.CodeOf(err)), gin.H{
				constants.JSONKeyError: err.Error(),
				constants.JSONKeyCode:  service.CodeOf(err),
				"results":              out.Results,
			})
			return
		}
		writeServiceError(c, constants.ErrFailedApplyMove, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PlayStoryRound plays the caller's move in a story-mode session; the
// opponent answers in the same round.
func (h *SessionHandler) PlayStoryRound(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MoveID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, _ := currentPlayer(c)

	out, err := h.resolver.PlayStoryRound(c.Request.Context(), id, playerID, req.MoveID)
	if err != nil {
		writeServiceError(c, constants.ErrFailedStoryRound, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
