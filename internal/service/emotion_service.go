package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/observability"
	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/plot"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const (
	minFrameTextChars   = 10
	minFrameTargetChars = 2

	orderingDate  = "date"
	orderingInput = "input"
)

type EmotionOptions struct {
	DefaultLanguage text.Language
	Workers         int
	MaxSessions     int
}

type EmotionService struct {
	opts     EmotionOptions
	scorer   *emotion.Scorer
	renderer *plot.Renderer
}

func NewEmotionService(opts EmotionOptions, scorer *emotion.Scorer, renderer *plot.Renderer) *EmotionService {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = text.Italian
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 50
	}
	return &EmotionService{opts: opts, scorer: scorer, renderer: renderer}
}

func (s *EmotionService) AnalyzeText(ctx context.Context, req model.EmotionAnalysisRequest) (*model.EmotionAnalysisResponse, error) {
	lang, err := text.ParseLanguage(req.Language, s.opts.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Text)
	if body == "" {
		return nil, appErr.Invalid("text is required")
	}
	ctx, span := observability.StartSpan(ctx, "emotion", attribute.Int("text_length", len(body)))
	defer span.End()

	report := &outcome.Report{}
	analysis, err := outcome.Track(report, "emotions", s.scorer.Analyze(body, lang)).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: score emotions: %w", appErr.ErrInternal, err)
	}
	if req.IncludePlot {
		analysis.FlowerPlot = s.flower(ctx, report, "flower_plot", analysis, flowerTitle(lang, ""))
	}
	logutil.GetLogger(ctx).Info("emotions analyzed",
		zap.String("language", lang.String()),
		zap.Int("emotional_words", analysis.Matched))
	return &model.EmotionAnalysisResponse{
		Success:           true,
		Analysis:          analysis,
		AnalysisTimestamp: timestamp(),
		Quality:           model.QualityOf(report),
	}, nil
}

func (s *EmotionService) Trends(ctx context.Context, req model.EmotionTrendsRequest) (*model.EmotionTrendsResponse, error) {
	lang, err := text.ParseLanguage(req.Language, s.opts.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	if len(req.Sessions) == 0 {
		return nil, appErr.Invalid("at least one session is required")
	}
	if len(req.Sessions) > s.opts.MaxSessions {
		return nil, appErr.Invalid(fmt.Sprintf("too many sessions: %d, at most %d allowed", len(req.Sessions), s.opts.MaxSessions))
	}
	ordering := orderingInput
	if emotion.DatesComplete(req.Sessions) {
		ordering = orderingDate
	}
	ordered := emotion.OrderSessions(req.Sessions)
	sessions := make([]emotion.Session, 0, len(ordered))
	for _, sess := range ordered {
		if strings.TrimSpace(sess.Transcript) == "" {
			continue
		}
		sessions = append(sessions, sess)
	}
	if len(sessions) == 0 {
		return nil, appErr.Invalid("no session has a transcript")
	}
	logger := logutil.GetLogger(ctx).With(zap.Int("sessions", len(sessions)), zap.String("language", lang.String()))
	ctx, span := observability.StartSpan(ctx, "emotion_trends", attribute.Int("sessions", len(sessions)))
	defer span.End()

	results := make([]model.SessionAnalysis, len(sessions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, sess := range sessions {
		i, sess := i, sess
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.analyzeSession(gctx, sess, lang, req.IncludePlots)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("session fan out failed", zap.Error(err))
		return nil, fmt.Errorf("%w: analyze sessions: %w", appErr.ErrInternal, err)
	}

	report := &outcome.Report{}
	analyses := make([]*emotion.Analysis, 0, len(results))
	transcripts := make([]string, 0, len(sessions))
	for i, res := range results {
		for _, reason := range res.DegradedReasons {
			report.Note(outcome.KindDegraded, "session "+res.SessionID, reason)
		}
		analyses = append(analyses, res.Analysis)
		transcripts = append(transcripts, sessions[i].Transcript)
	}

	combinedReport := &outcome.Report{}
	combined, err := outcome.Track(combinedReport, "combined", s.scorer.Analyze(strings.Join(transcripts, "\n"), lang)).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: score combined transcript: %w", appErr.ErrInternal, err)
	}
	out := &model.CombinedAnalysis{Analysis: combined}
	if req.IncludePlots {
		out.FlowerPlot = s.flower(ctx, combinedReport, "combined_plot", combined, combinedTitle(lang))
	}
	for _, reason := range combinedReport.Reasons() {
		report.Note(outcome.KindDegraded, "combined", reason)
	}

	resp := &model.EmotionTrendsResponse{
		Success:            true,
		IndividualSessions: results,
		CombinedAnalysis:   out,
		Trends:             emotion.Trends(analyses),
		Summary: model.TrendsSummary{
			AnalyzedSessions: len(sessions),
			SkippedSessions:  len(req.Sessions) - len(sessions),
			FirstSession:     sessions[0].ID,
			LastSession:      sessions[len(sessions)-1].ID,
			Ordering:         ordering,
		},
		TotalSessions:     len(sessions),
		Language:          lang.String(),
		AnalysisTimestamp: timestamp(),
		Quality:           model.QualityOf(report),
	}
	logger.Info("emotion trends computed", zap.String("ordering", ordering), zap.Bool("degraded", resp.Degraded))
	return resp, nil
}

func (s *EmotionService) analyzeSession(ctx context.Context, sess emotion.Session, lang text.Language, withPlot bool) (model.SessionAnalysis, error) {
	start := time.Now()
	report := &outcome.Report{}
	analysis, err := outcome.Track(report, "emotions", s.scorer.Analyze(sess.Transcript, lang)).Unwrap()
	if err != nil {
		return model.SessionAnalysis{}, fmt.Errorf("session %s: %w", sess.ID, err)
	}
	if withPlot {
		analysis.FlowerPlot = s.flower(ctx, report, "flower_plot", analysis, flowerTitle(lang, sess.Title))
	}
	return model.SessionAnalysis{
		SessionID:      sess.ID,
		SessionTitle:   sess.Title,
		SessionDate:    sess.Date,
		Analysis:       analysis,
		ProcessingTime: time.Since(start).Seconds(),
		Quality:        model.QualityOf(report),
	}, nil
}

func (s *EmotionService) SemanticFrame(ctx context.Context, req model.SemanticFrameRequest) (*model.SemanticFrameResponse, error) {
	lang, err := text.ParseLanguage(req.Language, s.opts.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(body) < minFrameTextChars {
		return nil, appErr.TooShort(fmt.Sprintf("text must be at least %d characters", minFrameTextChars))
	}
	target := strings.ToLower(strings.TrimSpace(req.TargetWord))
	if utf8.RuneCountInString(target) < minFrameTargetChars {
		return nil, appErr.Invalid(fmt.Sprintf("target word must be at least %d characters", minFrameTargetChars))
	}
	sessionID := sessionIDOr(req.SessionID)
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID), zap.String("target_word", target))
	ctx, span := observability.StartSpan(ctx, "semantic_frame", attribute.String("target_word", target))
	defer span.End()

	frame, err := s.scorer.ExtractFrame(body, target, lang, emotion.DefaultFrameNeighbours)
	if err != nil {
		return nil, fmt.Errorf("%w: extract frame: %w", appErr.ErrInternal, err)
	}
	report := &outcome.Report{}
	var (
		analysis *emotion.Analysis
		png      []byte
	)
	if frame.Found {
		analysis, err = outcome.Track(report, "frame_emotions", s.scorer.AnalyzeTokens(frame.Words, lang)).Unwrap()
		if err != nil {
			return nil, fmt.Errorf("%w: score frame: %w", appErr.ErrInternal, err)
		}
		png, err = s.renderer.FrameGraph(frame, frameTitle(lang, target))
		if err != nil {
			logger.Warn("frame plot failed, render placeholder", zap.Error(err))
			report.Note(outcome.KindDegraded, "network_plot", err.Error())
			png = nil
		}
	} else {
		report.Note(outcome.KindDegraded, "frame", fmt.Sprintf("target word %q not found in text", target))
		analysis, err = s.scorer.AnalyzeTokens(nil, lang).Unwrap()
		if err != nil {
			return nil, fmt.Errorf("%w: score frame: %w", appErr.ErrInternal, err)
		}
	}
	contexts, err := s.scorer.AnalyzeContexts(body, target, lang, frame.Words)
	if err != nil {
		return nil, fmt.Errorf("%w: analyze contexts: %w", appErr.ErrInternal, err)
	}
	if png == nil {
		png, err = s.renderer.Placeholder(placeholderMessage(lang, target))
		if err != nil {
			return nil, fmt.Errorf("%w: render placeholder: %w", appErr.ErrInternal, err)
		}
	}
	logger.Info("semantic frame extracted",
		zap.Bool("found", frame.Found),
		zap.Int("frame_words", len(frame.Words)),
		zap.Int("occurrences", contexts.TotalOccurrences))
	return &model.SemanticFrameResponse{
		Success:           true,
		SessionID:         sessionID,
		TargetWord:        target,
		Frame:             frame,
		EmotionalAnalysis: analysis,
		ContextAnalysis:   contexts,
		Statistics: model.FrameStatistics{
			ConnectedWords:   len(frame.ConnectedWords),
			TotalConnections: frame.TotalConnections,
			EmotionalValence: analysis.Valence,
		},
		Plot:              plot.DataURI(png),
		Language:          lang.String(),
		AnalysisTimestamp: timestamp(),
		Quality:           model.QualityOf(report),
	}, nil
}

// flower renders the plot of a, a failed render is noted on report and
// yields an empty string.
func (s *EmotionService) flower(ctx context.Context, report *outcome.Report, step string, a *emotion.Analysis, title string) string {
	png, err := s.renderer.Flower(a.ZScores, title)
	if err != nil {
		logutil.GetLogger(ctx).Warn("flower plot failed", zap.Error(err))
		report.Note(outcome.KindDegraded, step, err.Error())
		return ""
	}
	return plot.DataURI(png)
}

func flowerTitle(lang text.Language, name string) string {
	switch {
	case name != "":
		return name
	case lang == text.English:
		return "Emotional profile"
	default:
		return "Profilo emotivo"
	}
}

func combinedTitle(lang text.Language) string {
	if lang == text.English {
		return "All sessions"
	}
	return "Tutte le sessioni"
}

func frameTitle(lang text.Language, target string) string {
	if lang == text.English {
		return "Semantic frame: " + target
	}
	return "Frame semantico: " + target
}

func placeholderMessage(lang text.Language, target string) string {
	if lang == text.English {
		return fmt.Sprintf("No semantic frame for '%s'", target)
	}
	return fmt.Sprintf("Nessun frame semantico per '%s'", target)
}
