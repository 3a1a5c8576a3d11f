package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ctxPlayerID   = "playerID"
	ctxPlayerName = "playerName"
)

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(constants.CookieSessionName, "", -1, "/", "", false, true)
}

// sessionToken reads the token from the session cookie, falling back to a
// bearer Authorization header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(constants.CookieSessionName); err == nil && token != "" {
		return token
	}
	h := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
	}
	return ""
}

// AuthRequired validates the session token and injects identity into context.
func AuthRequired(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			clearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(ctxPlayerID, claims.Subject)
		c.Set(ctxPlayerName, claims.Name)
		c.Next()
	}
}

// currentPlayer returns the authenticated player id and display name.
func currentPlayer(c *gin.Context) (id, name string) {
	id = c.GetString(ctxPlayerID)
	name = c.GetString(ctxPlayerName)
	if name == "" {
		name = id
	}
	return id, name
}
