package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Health   *HealthHandler
	Document *DocumentHandler
	Emotion  *EmotionHandler
	Session  *SessionHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/", deps.Health.Root)
	api.GET("/health", deps.Health.Health)

	api.POST("/single-document-analysis", deps.Document.Analyze)
	api.POST("/emotion-trends", deps.Emotion.Trends)
	api.POST("/emotion-analysis", deps.Emotion.Analyze)
	api.POST("/semantic-frame-analysis", deps.Emotion.SemanticFrame)
	api.POST("/analyze-single-session", deps.Session.Analyze)
}
