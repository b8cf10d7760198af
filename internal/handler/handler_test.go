package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/handler"
	"github.com/xxxsen/transcript-analytics/internal/middleware"
	"github.com/xxxsen/transcript-analytics/internal/pkg/errcode"
	"github.com/xxxsen/transcript-analytics/internal/plot"
	"github.com/xxxsen/transcript-analytics/internal/service"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const transcript = "Oggi al lavoro mi sono sentito molto stanco e nervoso. " +
	"Il mio capo continua a criticare ogni progetto che presento. " +
	"Vorrei parlarne con mia moglie."

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	set, err := emotion.LoadEmbedded()
	require.NoError(t, err)
	scorer := emotion.NewScorer(set)
	renderer, err := plot.NewRenderer(300)
	require.NoError(t, err)

	analysis := service.NewAnalysisService(service.AnalysisOptions{
		DefaultLanguage: text.Italian,
		MinWords:        20,
		DefaultTopics:   5,
		DefaultMaxWords: 100,
		DefaultKeywords: 10,
		Window:          5,
		NetworkTimeout:  5 * time.Second,
	}, nil)
	deps := handler.RouterDeps{
		Health:   handler.NewHealthHandler("test", analysis.DescriptionsEnabled()),
		Document: handler.NewDocumentHandler(analysis),
		Emotion:  handler.NewEmotionHandler(service.NewEmotionService(service.EmotionOptions{}, scorer, renderer)),
		Session:  handler.NewSessionHandler(service.NewSessionService(text.Italian, scorer)),
	}
	engine, err := webapi.NewEngine(
		"/",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
		),
	)
	require.NoError(t, err)
	return engine
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return resp, out
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	resp, body := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "test", body["version"])
	require.NotEmpty(t, resp.Header().Get(middleware.HeaderRequestID))

	resp, body = doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotEmpty(t, body["message"])
}

func TestSingleDocumentAnalysis(t *testing.T) {
	router := setupRouter(t)

	resp, body := doJSON(t, router, http.MethodPost, "/single-document-analysis", map[string]interface{}{
		"session_id": "s1",
		"transcript": "uno due tre quattro cinque sei sette otto nove dieci",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, float64(errcode.ErrTooShort), body["code"])
	require.NotContains(t, body, "topics")

	resp, body = doJSON(t, router, http.MethodPost, "/single-document-analysis", map[string]interface{}{
		"session_id": "s1",
		"transcript": transcript,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "s1", body["session_id"])
	require.Contains(t, body["summary"], "25")
	require.Contains(t, body, "topics")
	require.Contains(t, body, "status")
	require.Contains(t, body, "degraded_reasons")

	resp, body = doJSON(t, router, http.MethodPost, "/single-document-analysis", map[string]interface{}{
		"transcript": transcript,
		"language":   "fr",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, float64(errcode.ErrUnsupportedLanguage), body["code"])
}

func TestMalformedBody(t *testing.T) {
	router := setupRouter(t)
	resp, body := doJSON(t, router, http.MethodPost, "/emotion-analysis", "{not json")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, float64(errcode.ErrInvalid), body["code"])
}

func TestEmotionEndpoints(t *testing.T) {
	router := setupRouter(t)

	resp, body := doJSON(t, router, http.MethodPost, "/emotion-analysis", map[string]interface{}{
		"text": "Sono felice ma ho paura.",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	analysis, ok := body["analysis"].(map[string]interface{})
	require.True(t, ok)
	z, ok := analysis["z_scores"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, z, 8)

	resp, body = doJSON(t, router, http.MethodPost, "/emotion-trends", map[string]interface{}{
		"sessions": []map[string]string{
			{"id": "a", "title": "Prima", "transcript": "Ho paura e sono triste.", "sessionDate": "2024-01-01"},
			{"id": "b", "title": "Seconda", "transcript": "Sono felice e sereno.", "sessionDate": "2024-02-01"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, float64(2), body["total_sessions"])
	require.Contains(t, body, "combined_analysis")
	require.Contains(t, body, "trends")

	resp, body = doJSON(t, router, http.MethodPost, "/emotion-trends", map[string]interface{}{"sessions": []interface{}{}})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, float64(errcode.ErrInvalid), body["code"])

	resp, body = doJSON(t, router, http.MethodPost, "/semantic-frame-analysis", map[string]interface{}{
		"text":        "Il lavoro mi mette ansia. Al lavoro provo rabbia.",
		"target_word": "lavoro",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	plotURI, _ := body["network_plot"].(string)
	require.True(t, strings.HasPrefix(plotURI, "data:image/png;base64,"))
	frame, ok := body["semantic_frame"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"connected_words", "frame_text", "total_connections", "frame_words", "edges"} {
		require.Contains(t, frame, key)
	}
	ctxAnalysis, ok := body["context_analysis"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"emotional_context", "semantic_similarity", "average_valence", "total_occurrences", "analyzed_contexts"} {
		require.Contains(t, ctxAnalysis, key)
	}
	require.Equal(t, float64(2), ctxAnalysis["total_occurrences"])
	stats, ok := body["statistics"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"connected_words", "total_connections", "emotional_valence"} {
		require.Contains(t, stats, key)
	}

	resp, _ = doJSON(t, router, http.MethodPost, "/semantic-frame-analysis", map[string]interface{}{
		"text":        "corto",
		"target_word": "lavoro",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAnalyzeSingleSession(t *testing.T) {
	router := setupRouter(t)
	resp, body := doJSON(t, router, http.MethodPost, "/analyze-single-session", map[string]interface{}{
		"text":       transcript,
		"session_id": "s7",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "s7", body["session_id"])
	require.NotContains(t, body, "sentiment")

	overview, ok := body["sentiment_overview"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"sentiment_score", "sentiment_label", "positive_indicators", "negative_indicators", "total_words"} {
		require.Contains(t, overview, key)
	}
	require.Equal(t, float64(text.WordCount(transcript)), overview["total_words"])

	kws, ok := body["keywords"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, kws)
	for _, raw := range kws {
		kw := raw.(map[string]interface{})
		require.Contains(t, kw, "keyword")
		require.Contains(t, kw, "score")
		require.Contains(t, kw, "frequency")
		require.Contains(t, kw, "context")
	}

	themes, ok := body["themes"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, themes)
	for _, raw := range themes {
		th := raw.(map[string]interface{})
		require.Contains(t, th, "theme")
		require.Contains(t, th, "confidence")
		require.Contains(t, th, "keywords")
		require.Contains(t, th, "sentences")
	}

	resp, _ = doJSON(t, router, http.MethodPost, "/analyze-single-session", map[string]interface{}{"text": "ciao"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
