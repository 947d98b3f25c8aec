// README: Recording handlers; the device streams its GPS fixes into the caller's recorder.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"strollpath/internal/geo"
	"strollpath/internal/modules/session"
	"strollpath/internal/modules/track"
	"strollpath/internal/pkg/validator"
)

type RecordingHandler struct {
	sessions *session.Registry
}

func NewRecordingHandler(sessions *session.Registry) *RecordingHandler {
	return &RecordingHandler{sessions: sessions}
}

type recordingResp struct {
	track.Track
	DistanceFeet     float64 `json:"distanceFeet"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
	Usable           bool    `json:"usable"`
}

func toRecordingResp(t track.Track) recordingResp {
	return recordingResp{
		Track:            t,
		DistanceFeet:     t.DistanceMiles * geo.MilesToFeet,
		EstimatedMinutes: t.EstimatedMinutes(),
		Usable:           t.Usable(),
	}
}

// Start handles POST /api/recording/start. Starting while recording restarts the session.
func (h *RecordingHandler) Start(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	// The recording outlives this request.
	if err := s.Recorder.Start(context.WithoutCancel(c.Request.Context())); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRecordingResp(s.Recorder.Snapshot()))
}

// Stop handles POST /api/recording/stop. Stopping an idle recorder is not an error.
func (h *RecordingHandler) Stop(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	s.Recorder.Stop()
	writeJSON(c, http.StatusOK, toRecordingResp(s.Recorder.Snapshot()))
}

// Get handles GET /api/recording.
func (h *RecordingHandler) Get(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, toRecordingResp(s.Recorder.Snapshot()))
}

type pushFixesReq struct {
	Fixes []track.Fix `json:"fixes" validate:"required,min=1,max=1000,dive"`
}

// PushFixes handles POST /api/recording/fixes; fixes are applied in body order.
func (h *RecordingHandler) PushFixes(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req pushFixesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validator.Validate(req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Location.Push(c.Request.Context(), req.Fixes...); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, gin.H{"accepted": len(req.Fixes)})
}

type streamErrorReq struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Error handles POST /api/recording/error: the device reports that its location stream failed.
func (h *RecordingHandler) Error(c *gin.Context) {
	s, ok := callerSession(c, h.sessions)
	if !ok {
		return
	}
	var req streamErrorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validator.Validate(req); err != nil {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if err := s.Location.Fail(errors.New(req.Message)); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
