// README: Base handler utilities (JSON helpers, session lookup, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"strollpath/internal/ai"
	"strollpath/internal/http/middleware"
	"strollpath/internal/modules/aiquota"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/modules/track"
	"strollpath/internal/modules/user"
)

// retryMessage is shown when a change could not be saved and was undone locally.
const retryMessage = "Could not save your change. Please try again."

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// callerSession resolves the caller's open session, answering 401 when there is none.
func callerSession(c *gin.Context, sessions *session.Registry) (*session.Session, bool) {
	s, err := sessions.Get(middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return nil, false
	}
	return s, true
}

func writeDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, synchronizer.ErrSyncFailed):
		writeError(c, http.StatusBadGateway, retryMessage)
	case errors.Is(err, synchronizer.ErrNotLoggedIn):
		writeError(c, http.StatusUnauthorized, "no session: call POST /api/session first")
	case errors.Is(err, synchronizer.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, route.ErrNotFound), errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, synchronizer.ErrBadRequest),
		errors.Is(err, synchronizer.ErrNoUsableRoute),
		errors.Is(err, synchronizer.ErrSelfFollow):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, track.ErrUnsupported):
		writeError(c, http.StatusUnprocessableEntity, track.UnsupportedMessage)
	case errors.Is(err, track.ErrNotWatching):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, aiquota.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ai.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, "AI recommendations are currently unavailable.")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
