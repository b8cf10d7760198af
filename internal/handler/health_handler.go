package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/pkg/response"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const serviceName = "transcript-analytics"

type HealthHandler struct {
	version string
	ai      bool
}

func NewHealthHandler(version string, aiDescriptions bool) *HealthHandler {
	return &HealthHandler{version: version, ai: aiDescriptions}
}

func (h *HealthHandler) Root(c *gin.Context) {
	response.Success(c, gin.H{"message": "Transcript analytics service is running"})
}

func (h *HealthHandler) Health(c *gin.Context) {
	langs := make([]string, 0, len(text.Languages))
	for _, l := range text.Languages {
		langs = append(langs, l.String())
	}
	response.Success(c, model.HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Version:   h.version,
		Languages: langs,
		AI:        h.ai,
	})
}
