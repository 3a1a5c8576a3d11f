package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/storage"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds the OAuth client credentials.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// UserInfoURL overrides the Google userinfo endpoint.
	UserInfoURL string
	// Endpoint overrides the Google token endpoint.
	Endpoint *oauth2.Endpoint
}

type AuthHandler struct {
	profiles     storage.ProfileRepository
	tokens       *TokenIssuer
	oauth        *oauth2.Config
	userInfoURL  string
	secureCookie bool
}

// NewAuthHandler wires the Google login callback. Without client
// credentials the callback answers 400.
func NewAuthHandler(profiles storage.ProfileRepository, tokens *TokenIssuer, g GoogleConfig, secureCookie bool) *AuthHandler {
	h := &AuthHandler{profiles: profiles, tokens: tokens, userInfoURL: g.UserInfoURL, secureCookie: secureCookie}
	if h.userInfoURL == "" {
		h.userInfoURL = constants.GoogleUserInfoURL
	}
	if g.ClientID != "" && g.ClientSecret != "" {
		endpoint := google.Endpoint
		if g.Endpoint != nil {
			endpoint = *g.Endpoint
		}
		h.oauth = &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  constants.GoogleOAuthRedirect,
			Scopes:       constants.GoogleUserInfoScopes,
			Endpoint:     endpoint,
		}
	}
	return h
}

type GoogleOAuthCallbackRequest struct {
	Code string `json:"code"`
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *AuthHandler) GoogleOAuthCallback(c *gin.Context) {
	var req GoogleOAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if h.oauth == nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingGoogleEnv})
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}

	client := h.oauth.Client(ctx, token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	defer resp.Body.Close()

	userData, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fmt.Sprintf(constants.ErrFailedReadUserData, err.Error())})
		return
	}
	var info googleUserInfo
	_ = json.Unmarshal(userData, &info)
	if info.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoEmailInGoogleProfile})
		return
	}

	// Prefer a stored display name so renamed players keep their choice.
	name := info.Name
	if ps, err := h.profiles.GetProfile(ctx, info.Email); err == nil && ps.PlayerName != "" {
		name = ps.PlayerName
	}
	if err := h.profiles.UpsertProfile(ctx, info.Email, name); err != nil {
		logging.Error("failed to upsert profile", err, logging.Fields{constants.LogFieldPlayerID: info.Email})
	}

	sess, err := h.tokens.Issue(info.Email, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession, constants.JSONKeyDetails: err.Error()})
		return
	}
	setSessionCookie(c, sess, h.tokens.TTL(), h.secureCookie)

	out := gin.H{"player_id": info.Email, "name": name}
	if info.Picture != "" {
		out["picture"] = info.Picture
	}
	c.JSON(http.StatusOK, out)
}
