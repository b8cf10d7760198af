package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/pkg/response"
	"github.com/xxxsen/transcript-analytics/internal/service"
)

type EmotionHandler struct {
	emotions *service.EmotionService
}

func NewEmotionHandler(emotions *service.EmotionService) *EmotionHandler {
	return &EmotionHandler{emotions: emotions}
}

func (h *EmotionHandler) Analyze(c *gin.Context) {
	var req model.EmotionAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.emotions.AnalyzeText(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *EmotionHandler) Trends(c *gin.Context) {
	var req model.EmotionTrendsRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.emotions.Trends(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *EmotionHandler) SemanticFrame(c *gin.Context) {
	var req model.SemanticFrameRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.emotions.SemanticFrame(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
