package api

import (
	"net/http"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/service"
	"github.com/gin-gonic/gin"
)

// statusForCode maps a service error code to an HTTP status.
func statusForCode(code service.Code) int {
	switch code {
	case service.CodeNotFound, service.CodeActorNotFound, service.CodeTargetNotFound, service.CodeMoveNotFound:
		return http.StatusNotFound
	case service.CodeStorageConflict, service.CodeSessionClosed, service.CodeAlreadyJoined:
		return http.StatusConflict
	case service.CodeInvalidLogMessage, service.CodeInvalidTarget, service.CodeInvalidParticipants, service.CodeInvalidMode:
		return http.StatusBadRequest
	case service.CodeActorEliminated, service.CodeInsufficientResource, service.CodeMoveUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the typed failure of a service call.
// Untyped errors are logged and reported with the fallback message only.
func writeServiceError(c *gin.Context, fallback string, err error) {
	code := service.CodeOf(err)
	status := statusForCode(code)
	if status == http.StatusInternalServerError {
		logging.Error(fallback, err, logging.Fields{constants.LogFieldSessionID: c.Param("sessionID")})
		c.JSON(status, gin.H{constants.JSONKeyError: fallback})
		return
	}
	msg := err.Error()
	if ae, ok := err.(*service.ApplyError); ok {
		msg = ae.Message
	}
	c.JSON(status, gin.H{constants.JSONKeyError: msg, constants.JSONKeyCode: code})
}
