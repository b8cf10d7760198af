package model

import (
	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/keywords"
	"github.com/xxxsen/transcript-analytics/internal/network"
	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/topic"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	SourceAnalysis = "analysis"
	SourceFallback = "fallback"
)

// Quality tells the caller whether any step fell back to a substitute.
type Quality struct {
	Status          string   `json:"status"`
	Degraded        bool     `json:"degraded"`
	Source          string   `json:"source"`
	DegradedReasons []string `json:"degraded_reasons"`
}

func QualityOf(r *outcome.Report) Quality {
	if r.Degraded() {
		return Quality{Status: StatusDegraded, Degraded: true, Source: SourceFallback, DegradedReasons: r.Reasons()}
	}
	return Quality{Status: StatusOK, Source: SourceAnalysis, DegradedReasons: []string{}}
}

type NetworkData struct {
	Nodes []network.Node `json:"nodes"`
	Edges []network.Edge `json:"edges"`
}

type SingleDocumentResponse struct {
	SessionID           string             `json:"session_id"`
	Topics              []topic.Topic      `json:"topics"`
	Keywords            []string           `json:"keywords"`
	KeywordScores       []keywords.Keyword `json:"keyword_scores"`
	Summary             string             `json:"summary"`
	AnalysisTimestamp   string             `json:"analysis_timestamp"`
	NetworkData         *NetworkData       `json:"network_data,omitempty"`
	TotalAvailableWords *int               `json:"total_available_words,omitempty"`
	TopicSimilarities   map[string]float64 `json:"topic_similarities,omitempty"`
	Language            string             `json:"language"`
	WordCount           int                `json:"word_count"`
	Quality
}

type SessionAnalysis struct {
	SessionID      string            `json:"session_id"`
	SessionTitle   string            `json:"session_title"`
	SessionDate    string            `json:"session_date"`
	Analysis       *emotion.Analysis `json:"analysis"`
	ProcessingTime float64           `json:"processing_time"`
	Quality
}

type CombinedAnalysis struct {
	Analysis   *emotion.Analysis `json:"analysis"`
	FlowerPlot string            `json:"flower_plot,omitempty"`
}

type TrendsSummary struct {
	AnalyzedSessions int    `json:"analyzed_sessions"`
	SkippedSessions  int    `json:"skipped_sessions"`
	FirstSession     string `json:"first_session,omitempty"`
	LastSession      string `json:"last_session,omitempty"`
	Ordering         string `json:"ordering"`
}

type EmotionTrendsResponse struct {
	Success            bool                    `json:"success"`
	IndividualSessions []SessionAnalysis       `json:"individual_sessions"`
	CombinedAnalysis   *CombinedAnalysis       `json:"combined_analysis,omitempty"`
	Trends             map[string]emotion.Stat `json:"trends"`
	Summary            TrendsSummary           `json:"summary"`
	TotalSessions      int                     `json:"total_sessions"`
	Language           string                  `json:"language"`
	AnalysisTimestamp  string                  `json:"analysis_timestamp"`
	Quality
}

type EmotionAnalysisResponse struct {
	Success           bool              `json:"success"`
	Analysis          *emotion.Analysis `json:"analysis"`
	AnalysisTimestamp string            `json:"analysis_timestamp"`
	Quality
}

type FrameStatistics struct {
	ConnectedWords   int     `json:"connected_words"`
	TotalConnections int     `json:"total_connections"`
	EmotionalValence float64 `json:"emotional_valence"`
}

type SemanticFrameResponse struct {
	Success           bool                     `json:"success"`
	SessionID         string                   `json:"session_id"`
	TargetWord        string                   `json:"target_word"`
	Frame             *emotion.Frame           `json:"semantic_frame"`
	EmotionalAnalysis *emotion.Analysis        `json:"emotional_analysis"`
	ContextAnalysis   *emotion.ContextAnalysis `json:"context_analysis"`
	Statistics        FrameStatistics          `json:"statistics"`
	Plot              string                   `json:"network_plot"`
	Language          string                   `json:"language"`
	AnalysisTimestamp string                   `json:"analysis_timestamp"`
	Quality
}

type KeywordContext struct {
	Keyword   string   `json:"keyword"`
	Frequency int      `json:"frequency"`
	Score     float64  `json:"score"`
	Context   []string `json:"context"`
}

type Theme struct {
	Theme      string   `json:"theme"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
	Sentences  []string `json:"sentences"`
}

type SessionSummary struct {
	TotalCharacters     int     `json:"total_characters"`
	TotalWords          int     `json:"total_words"`
	TotalSentences      int     `json:"total_sentences"`
	KeywordsFound       int     `json:"keywords_found"`
	ThemesIdentified    int     `json:"themes_identified"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

type SingleSessionResponse struct {
	Success           bool              `json:"success"`
	SessionID         string            `json:"session_id"`
	Keywords          []KeywordContext  `json:"keywords"`
	Themes            []Theme           `json:"themes"`
	Sentiment         emotion.Sentiment `json:"sentiment_overview"`
	Summary           SessionSummary    `json:"summary"`
	Language          string            `json:"language"`
	AnalysisTimestamp string            `json:"analysis_timestamp"`
	Quality
}

type HealthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Languages []string `json:"languages"`
	AI        bool     `json:"ai_descriptions"`
}
