package model

import "github.com/xxxsen/transcript-analytics/internal/emotion"

type SingleDocumentRequest struct {
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	NTopics    int    `json:"n_topics"`
	MaxWords   int    `json:"max_words"`
	NKeywords  int    `json:"n_keywords"`
	Language   string `json:"language"`
}

type EmotionTrendsRequest struct {
	Sessions     []emotion.Session `json:"sessions"`
	Language     string            `json:"language"`
	IncludePlots bool              `json:"include_plots"`
}

type EmotionAnalysisRequest struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	IncludePlot bool   `json:"include_plot"`
}

type SemanticFrameRequest struct {
	Text       string `json:"text"`
	TargetWord string `json:"target_word"`
	SessionID  string `json:"session_id"`
	Language   string `json:"language"`
}

type SingleSessionRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}
