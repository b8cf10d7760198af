package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/pkg/response"
	"github.com/xxxsen/transcript-analytics/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Analyze(c *gin.Context) {
	var req model.SingleSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.sessions.AnalyzeSession(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
