package constants

// Centralized constants for headers, env keys, routes and messages.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "VAULT_CONFIG"
	EnvDatabasePath        = "VAULT_DB"
	EnvSessionStore        = "VAULT_STORE"
	EnvBoltPath            = "VAULT_BOLT_PATH"
	EnvRetryAttempts       = "VAULT_RETRY_ATTEMPTS"
	EnvStatTimeout         = "VAULT_STAT_TIMEOUT"
	EnvReaperInterval      = "VAULT_REAPER_INTERVAL"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "vb_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Session store backends
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteMoves              = "/moves"
	RouteLeaderboard        = "/leaderboard"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RoutePlayerStats        = "/player-stats"
	RouteVersion            = "/version"
	RouteSessions           = "/sessions"
	RouteSessionByID        = "/sessions/:sessionID"
	RouteSessionJoin        = "/sessions/:sessionID/join"
	RouteSessionMoves       = "/sessions/:sessionID/moves"
	RouteSessionClose       = "/sessions/:sessionID/close"
	RouteSessionWatch       = "/sessions/:sessionID/watch"
	RouteSessionStoryRound  = "/sessions/:sessionID/story-round"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyDetails = "details"
	JSONKeyCode    = "code"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrMissingGoogleEnv       = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidSessionID       = "Invalid session ID"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchSession     = "Failed to fetch session"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedCreateBattle     = "Failed to create session"
	ErrFailedJoinSession      = "Failed to join session"
	ErrFailedCloseSession     = "Failed to close session"
	ErrFailedApplyMove        = "Failed to apply move"
	ErrFailedStoryRound       = "Failed to play story round"
	ErrNotEnoughParticipants  = "A session needs at least two participants"
	ErrNotParticipant         = "Player is not a participant of this session"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create login session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Battle log lines
const (
	LogEliminatedFmt    = "%s has been eliminated"
	LogJoinedFmt        = "%s joined the battle"
	LogClosedByAdminFmt = "Battle closed by %s"
	LogClosedIdle       = "Battle closed due to inactivity"
)

// Logging field names
const (
	LogFieldSessionID = "session_id"
	LogFieldPlayerID  = "player_id"
	LogFieldAddr      = "addr"
	LogFieldCount     = "count"
	LogFieldStore     = "store"
)
