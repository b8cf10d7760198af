package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/pkg/response"
	"github.com/xxxsen/transcript-analytics/internal/service"
)

type DocumentHandler struct {
	analysis *service.AnalysisService
}

func NewDocumentHandler(analysis *service.AnalysisService) *DocumentHandler {
	return &DocumentHandler{analysis: analysis}
}

func (h *DocumentHandler) Analyze(c *gin.Context) {
	var req model.SingleDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.analysis.AnalyzeDocument(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
