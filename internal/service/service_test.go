package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/model"
	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
	"github.com/xxxsen/transcript-analytics/internal/plot"
	"github.com/xxxsen/transcript-analytics/internal/text"
	"github.com/xxxsen/transcript-analytics/internal/topic"
)

const shortTranscript = "Oggi al lavoro mi sono sentito molto stanco e nervoso. " +
	"Il mio capo continua a criticare ogni progetto che presento. " +
	"Vorrei parlarne con mia moglie."

var poolWords = []string{
	"lavoro", "ufficio", "capo", "progetto", "riunione", "collega", "stipendio", "contratto",
	"famiglia", "madre", "padre", "fratello", "sorella", "casa", "cena", "vacanza",
	"ansia", "paura", "tensione", "respiro", "sonno", "stanchezza", "energia", "corpo",
	"amico", "partner", "coppia", "relazione", "fiducia", "gelosia", "distanza", "telefono",
	"futuro", "obiettivo", "speranza", "cambiamento", "scuola", "esame", "libro", "viaggio",
}

// longTranscript builds 20 sentences of 10 content words each.
func longTranscript() string {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		words := make([]string, 0, 10)
		for j := 0; j < 10; j++ {
			words = append(words, poolWords[(i*7+j*3)%len(poolWords)])
		}
		b.WriteString(strings.Join(words, " "))
		b.WriteString(". ")
	}
	return b.String()
}

func newScorer(t *testing.T) *emotion.Scorer {
	set, err := emotion.LoadEmbedded()
	require.NoError(t, err)
	return emotion.NewScorer(set)
}

func newRenderer(t *testing.T) *plot.Renderer {
	r, err := plot.NewRenderer(300)
	require.NoError(t, err)
	return r
}

func defaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		DefaultLanguage: text.Italian,
		MinWords:        20,
		DefaultTopics:   5,
		DefaultMaxWords: 100,
		DefaultKeywords: 10,
		Window:          5,
		NetworkTimeout:  10 * time.Second,
	}
}

type fakeDescriber struct {
	err error
}

func (f *fakeDescriber) Describe(ctx context.Context, lang text.Language, topics []topic.Topic) (map[int]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]string, len(topics))
	for _, tp := range topics {
		out[tp.ID] = "descrizione del tema"
	}
	return out, nil
}

func TestAnalyzeDocumentRejectsShortTranscript(t *testing.T) {
	svc := NewAnalysisService(defaultAnalysisOptions(), nil)
	resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{
		SessionID:  "s1",
		Transcript: "uno due tre quattro cinque sei sette otto nove dieci",
	})
	require.Error(t, err)
	require.Nil(t, resp)
	require.True(t, appErr.IsInvalid(err))
	require.ErrorIs(t, err, appErr.ErrTooShort)
}

func TestAnalyzeDocumentRejectsUnknownLanguage(t *testing.T) {
	svc := NewAnalysisService(defaultAnalysisOptions(), nil)
	_, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{
		Transcript: shortTranscript,
		Language:   "klingon",
	})
	require.ErrorIs(t, err, appErr.ErrUnsupportedLanguage)
}

func TestAnalyzeDocumentSummaryMentionsWordCount(t *testing.T) {
	require.Equal(t, 25, text.WordCount(shortTranscript))
	svc := NewAnalysisService(defaultAnalysisOptions(), nil)
	resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{
		SessionID:  "s1",
		Transcript: shortTranscript,
	})
	require.NoError(t, err)
	require.Equal(t, "s1", resp.SessionID)
	require.Equal(t, 25, resp.WordCount)
	require.Contains(t, resp.Summary, "25")
	require.LessOrEqual(t, len(resp.Keywords), 10)
	require.Len(t, resp.KeywordScores, len(resp.Keywords))
	for _, k := range resp.KeywordScores {
		require.GreaterOrEqual(t, k.Score, 0.0)
	}
	require.NotEmpty(t, resp.AnalysisTimestamp)
	require.Equal(t, "italian", resp.Language)
	require.NotNil(t, resp.DegradedReasons)
	require.Equal(t, resp.Degraded, len(resp.DegradedReasons) > 0)
}

func TestAnalyzeDocumentEnglishSummary(t *testing.T) {
	svc := NewAnalysisService(defaultAnalysisOptions(), nil)
	resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{
		Transcript: "Today at work I felt very tired and nervous again. My boss keeps criticising every project " +
			"I present to the team. I would like to talk about it with my wife tonight.",
		Language: "en",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Summary, "Analysis of "))
	require.True(t, strings.HasPrefix(resp.SessionID, "session_"))
}

func TestAnalyzeDocumentNetworkCap(t *testing.T) {
	body := longTranscript()
	require.Equal(t, 200, text.WordCount(body))
	svc := NewAnalysisService(defaultAnalysisOptions(), nil)
	resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{
		Transcript: body,
		MaxWords:   5,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.NetworkData)
	require.LessOrEqual(t, len(resp.NetworkData.Nodes), 5)
	require.NotNil(t, resp.TotalAvailableWords)
	require.GreaterOrEqual(t, *resp.TotalAvailableWords, 5)

	ids := make(map[string]struct{}, len(resp.NetworkData.Nodes))
	for _, n := range resp.NetworkData.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range resp.NetworkData.Edges {
		require.Contains(t, ids, e.Source)
		require.Contains(t, ids, e.Target)
	}
}

func TestAnalyzeDocumentDescriptions(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		degraded bool
	}{
		{name: "described"},
		{name: "describer fails", err: errors.New("provider down"), degraded: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAnalysisService(defaultAnalysisOptions(), &fakeDescriber{err: tc.err})
			require.True(t, svc.DescriptionsEnabled())
			resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{Transcript: longTranscript()})
			require.NoError(t, err)
			require.NotEmpty(t, resp.Topics)
			hasReason := false
			for _, r := range resp.DegradedReasons {
				if strings.HasPrefix(r, "topic_descriptions:") {
					hasReason = true
				}
			}
			require.Equal(t, tc.degraded, hasReason)
			if !tc.degraded {
				for _, tp := range resp.Topics {
					require.Equal(t, "descrizione del tema", tp.Description)
				}
			}
		})
	}
}

func requireEmotionVector(t *testing.T, a *emotion.Analysis) {
	require.Len(t, a.ZScores, 8)
	for _, e := range emotion.Emotions {
		z, ok := a.ZScores[e]
		require.True(t, ok, e)
		require.False(t, math.IsNaN(z) || math.IsInf(z, 0), e)
	}
	require.Equal(t, a.Valence, a.Positive+(-a.Negative))
}

func TestAnalyzeText(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{}, newScorer(t), newRenderer(t))
	resp, err := svc.AnalyzeText(context.Background(), model.EmotionAnalysisRequest{
		Text:        "Sono felice ma ho ancora paura, la paura torna ogni sera e mi sento triste.",
		IncludePlot: true,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	requireEmotionVector(t, resp.Analysis)
	require.Equal(t, 2, resp.Analysis.Emotions[emotion.Fear])
	require.True(t, strings.HasPrefix(resp.Analysis.FlowerPlot, "data:image/png;base64,"))
	require.False(t, resp.Degraded)

	_, err = svc.AnalyzeText(context.Background(), model.EmotionAnalysisRequest{Text: "   "})
	require.True(t, appErr.IsInvalid(err))
}

func TestAnalyzeTextWithoutMatches(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{}, newScorer(t), newRenderer(t))
	resp, err := svc.AnalyzeText(context.Background(), model.EmotionAnalysisRequest{Text: "tavolo sedia finestra"})
	require.NoError(t, err)
	requireEmotionVector(t, resp.Analysis)
	require.True(t, resp.Degraded)
	require.Equal(t, model.StatusDegraded, resp.Status)
}

func TestTrends(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{Workers: 2}, newScorer(t), newRenderer(t))
	resp, err := svc.Trends(context.Background(), model.EmotionTrendsRequest{
		Sessions: []emotion.Session{
			{ID: "b", Title: "Seconda", Transcript: "Oggi sono felice e sereno, ho fiducia nel futuro.", Date: "2024-02-01"},
			{ID: "a", Title: "Prima", Transcript: "Ho paura, provo ansia e rabbia, mi sento triste.", Date: "2024-01-01"},
			{ID: "c", Title: "Vuota", Transcript: "  ", Date: "2024-03-01"},
		},
		IncludePlots: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalSessions)
	require.Len(t, resp.IndividualSessions, 2)
	require.Equal(t, "a", resp.IndividualSessions[0].SessionID)
	require.Equal(t, "b", resp.IndividualSessions[1].SessionID)
	require.Equal(t, "date", resp.Summary.Ordering)
	require.Equal(t, 1, resp.Summary.SkippedSessions)
	require.Equal(t, "a", resp.Summary.FirstSession)
	require.Equal(t, "b", resp.Summary.LastSession)
	for _, s := range resp.IndividualSessions {
		requireEmotionVector(t, s.Analysis)
		require.NotEmpty(t, s.Analysis.FlowerPlot)
	}
	requireEmotionVector(t, resp.CombinedAnalysis.Analysis)
	require.NotEmpty(t, resp.CombinedAnalysis.FlowerPlot)
	require.Len(t, resp.Trends, 11)

	valence := resp.Trends[emotion.TrendValence]
	require.Len(t, valence.Values, 2)
	require.Equal(t, resp.IndividualSessions[0].Analysis.Valence, valence.First)
	require.Equal(t, valence.Last-valence.First, valence.Change)
	require.Greater(t, valence.Change, 0.0)
}

func TestTrendsKeepsInputOrderWithoutDates(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{}, newScorer(t), newRenderer(t))
	resp, err := svc.Trends(context.Background(), model.EmotionTrendsRequest{
		Sessions: []emotion.Session{
			{ID: "z", Transcript: "sono felice"},
			{ID: "y", Transcript: "ho paura", Date: "2024-01-01"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "input", resp.Summary.Ordering)
	require.Equal(t, "z", resp.IndividualSessions[0].SessionID)
	require.Empty(t, resp.CombinedAnalysis.FlowerPlot)
}

func TestTrendsRejects(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{MaxSessions: 1}, newScorer(t), newRenderer(t))
	tests := []struct {
		name     string
		sessions []emotion.Session
	}{
		{name: "no sessions"},
		{name: "too many", sessions: []emotion.Session{{ID: "a", Transcript: "x"}, {ID: "b", Transcript: "y"}}},
		{name: "all empty", sessions: []emotion.Session{{ID: "a"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Trends(context.Background(), model.EmotionTrendsRequest{Sessions: tc.sessions})
			require.True(t, appErr.IsInvalid(err))
		})
	}
}

func TestSemanticFrame(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{}, newScorer(t), newRenderer(t))
	body := "Il lavoro mi mette ansia. Al lavoro il capo urla e provo rabbia. " +
		"Dopo il lavoro torno a casa felice dalla famiglia."
	resp, err := svc.SemanticFrame(context.Background(), model.SemanticFrameRequest{
		Text:       body,
		TargetWord: "Lavoro",
		SessionID:  "s9",
	})
	require.NoError(t, err)
	require.Equal(t, "lavoro", resp.TargetWord)
	require.True(t, resp.Frame.Found)
	require.Equal(t, "lavoro", resp.Frame.Words[0])
	requireEmotionVector(t, resp.EmotionalAnalysis)
	require.True(t, strings.HasPrefix(resp.Plot, "data:image/png;base64,"))
	require.False(t, resp.Degraded)
	require.Equal(t, len(resp.Frame.Words)-1, resp.Statistics.ConnectedWords)
	require.Equal(t, len(resp.Frame.Edges), resp.Statistics.TotalConnections)
	require.Equal(t, resp.EmotionalAnalysis.Valence, resp.Statistics.EmotionalValence)
	require.Equal(t, 3, resp.ContextAnalysis.TotalOccurrences)
	require.Equal(t, 3, resp.ContextAnalysis.AnalyzedContexts)
	require.Contains(t, []string{emotion.PolarityPositive, emotion.PolarityNegative, emotion.PolarityNeutral}, resp.ContextAnalysis.EmotionalContext)
	require.Greater(t, resp.ContextAnalysis.SemanticSimilarity, 0.0)

	missing, err := svc.SemanticFrame(context.Background(), model.SemanticFrameRequest{Text: body, TargetWord: "mare"})
	require.NoError(t, err)
	require.False(t, missing.Frame.Found)
	require.True(t, missing.Degraded)
	require.True(t, strings.HasPrefix(missing.Plot, "data:image/png;base64,"))
	requireEmotionVector(t, missing.EmotionalAnalysis)
	require.Zero(t, missing.ContextAnalysis.TotalOccurrences)
	require.Equal(t, emotion.PolarityNeutral, missing.ContextAnalysis.EmotionalContext)
	require.Equal(t, model.FrameStatistics{}, missing.Statistics)
}

func TestSemanticFrameRejects(t *testing.T) {
	svc := NewEmotionService(EmotionOptions{}, newScorer(t), newRenderer(t))
	_, err := svc.SemanticFrame(context.Background(), model.SemanticFrameRequest{Text: "breve", TargetWord: "breve"})
	require.True(t, appErr.IsInvalid(err))
	_, err = svc.SemanticFrame(context.Background(), model.SemanticFrameRequest{Text: "un testo abbastanza lungo", TargetWord: "a"})
	require.True(t, appErr.IsInvalid(err))
}

func TestAnalyzeSession(t *testing.T) {
	svc := NewSessionService(text.Italian, newScorer(t))
	body := "Al lavoro il capo mi mette pressione. In ufficio ogni collega sembra distante. " +
		"La sera provo ansia e paura per il futuro. Mi sento triste e stanco."
	resp, err := svc.AnalyzeSession(context.Background(), model.SingleSessionRequest{Text: body, SessionID: "s1"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.LessOrEqual(t, len(resp.Keywords), 15)
	for _, k := range resp.Keywords {
		require.LessOrEqual(t, len(k.Context), 3)
	}

	var work *model.Theme
	for i := range resp.Themes {
		if resp.Themes[i].Theme == "lavoro" {
			work = &resp.Themes[i]
		}
	}
	require.NotNil(t, work)
	require.Subset(t, work.Keywords, []string{"lavoro", "ufficio", "collega", "capo"})
	require.LessOrEqual(t, len(work.Sentences), 5)
	require.LessOrEqual(t, work.Confidence, 1.0)
	for i := 1; i < len(resp.Themes); i++ {
		require.GreaterOrEqual(t, resp.Themes[i-1].Confidence, resp.Themes[i].Confidence)
	}

	require.Equal(t, emotion.PolarityNegative, resp.Sentiment.Label)
	require.Equal(t, text.WordCount(body), resp.Sentiment.TotalWords)
	require.Equal(t, 4, resp.Summary.TotalSentences)
	require.Equal(t, text.WordCount(body), resp.Summary.TotalWords)
	require.Equal(t, len(resp.Themes), resp.Summary.ThemesIdentified)

	_, err = svc.AnalyzeSession(context.Background(), model.SingleSessionRequest{Text: " a b c d "})
	require.True(t, appErr.IsInvalid(err))
}

func TestAnalyzeDocumentNetworkTimeoutDegrades(t *testing.T) {
	opts := defaultAnalysisOptions()
	opts.NetworkTimeout = time.Nanosecond
	svc := NewAnalysisService(opts, nil)
	resp, err := svc.AnalyzeDocument(context.Background(), model.SingleDocumentRequest{Transcript: longTranscript()})
	require.NoError(t, err)
	require.Nil(t, resp.NetworkData)
	require.Nil(t, resp.TotalAvailableWords)
	require.True(t, resp.Degraded)
	require.Equal(t, model.SourceFallback, resp.Source)
	found := false
	for _, r := range resp.DegradedReasons {
		if strings.HasPrefix(r, "network:") {
			found = true
		}
	}
	require.True(t, found)
}
