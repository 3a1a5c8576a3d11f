package api

import (
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *SessionHandler, auth *AuthHandler, tokens *TokenIssuer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteMoves, h.ListMoves)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.POST(constants.RouteAuthGoogleCallBack, auth.GoogleOAuthCallback)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(AuthRequired(tokens))

		protected.GET(constants.RoutePlayerStats, h.GetPlayerStats)
		protected.POST(constants.RouteSessions, h.CreateSession)
		protected.GET(constants.RouteSessionByID, h.GetSession)
		protected.POST(constants.RouteSessionJoin, h.JoinSession)
		protected.POST(constants.RouteSessionMoves, h.CastMove)
		protected.POST(constants.RouteSessionClose, h.CloseSession)
		protected.GET(constants.RouteSessionWatch, h.WatchSession)
		protected.POST(constants.RouteSessionStoryRound, h.PlayStoryRound)
	}
	return router
}
