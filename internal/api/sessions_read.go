package api

import (
	"net/http"
	"strconv"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/gin-gonic/gin"
)

// ListMoves returns the move catalog.
func (h *SessionHandler) ListMoves(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Moves())
}

// ListLeaderboard returns the top players by eliminations (desc), limited to top 10 by default.
func (h *SessionHandler) ListLeaderboard(c *gin.Context) {
	// optional ?limit=N
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	players, err := h.profiles.GetTopPlayers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(players)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetSession returns a snapshot of a battle session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	s, err := h.resolver.Session(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, constants.ErrFailedFetchSession, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetPlayerStats returns aggregated stats for ?player_id, defaulting to
// the authenticated player.
func (h *SessionHandler) GetPlayerStats(c *gin.Context) {
	playerID := c.Query("player_id")
	if playerID == "" {
		playerID, _ = currentPlayer(c)
	}
	ps, err := h.profiles.GetProfile(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(ps)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, out)
}
