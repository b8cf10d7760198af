package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/keywords"
	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/network"
	"github.com/xxxsen/transcript-analytics/internal/observability"
	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/text"
	"github.com/xxxsen/transcript-analytics/internal/topic"
)

type ITopicDescriber interface {
	Describe(ctx context.Context, lang text.Language, topics []topic.Topic) (map[int]string, error)
}

type AnalysisOptions struct {
	DefaultLanguage text.Language
	MinWords        int
	DefaultTopics   int
	DefaultMaxWords int
	DefaultKeywords int
	Window          int
	NetworkTimeout  time.Duration
}

type AnalysisService struct {
	opts      AnalysisOptions
	describer ITopicDescriber
}

// NewAnalysisService builds the document analysis pipeline. describer may be
// nil, topics then keep their rule based labels.
func NewAnalysisService(opts AnalysisOptions, describer ITopicDescriber) *AnalysisService {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = text.Italian
	}
	if opts.MinWords <= 0 {
		opts.MinWords = 20
	}
	if opts.Window <= 1 {
		opts.Window = network.DefaultWindow
	}
	if opts.NetworkTimeout <= 0 {
		opts.NetworkTimeout = 10 * time.Second
	}
	return &AnalysisService{opts: opts, describer: describer}
}

func (s *AnalysisService) DescriptionsEnabled() bool {
	return s.describer != nil
}

func (s *AnalysisService) AnalyzeDocument(ctx context.Context, req model.SingleDocumentRequest) (*model.SingleDocumentResponse, error) {
	lang, err := text.ParseLanguage(req.Language, s.opts.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Transcript)
	wordCount := text.WordCount(body)
	if wordCount < s.opts.MinWords {
		return nil, appErr.TooShort(fmt.Sprintf("transcript too short: %d words, at least %d required", wordCount, s.opts.MinWords))
	}
	sessionID := sessionIDOr(req.SessionID)
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID), zap.String("language", lang.String()))
	ctx, span := observability.StartSpan(ctx, "single_document",
		attribute.String("session_id", sessionID), attribute.Int("word_count", wordCount))
	defer span.End()

	report := &outcome.Report{}
	nKeywords := req.NKeywords
	if nKeywords <= 0 {
		nKeywords = s.opts.DefaultKeywords
	}
	nTopics := req.NTopics
	if nTopics <= 0 {
		nTopics = s.opts.DefaultTopics
	}
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = s.opts.DefaultMaxWords
	}

	kws, err := s.extractKeywords(ctx, report, body, lang, nKeywords)
	if err != nil {
		logger.Error("keyword extraction failed", zap.Error(err))
		return nil, err
	}
	set, err := s.extractTopics(ctx, report, body, lang, nTopics, kws)
	if err != nil {
		logger.Error("topic extraction failed", zap.Error(err))
		return nil, err
	}
	s.describe(ctx, report, lang, set.Topics)

	resp := &model.SingleDocumentResponse{
		SessionID:         sessionID,
		Topics:            set.Topics,
		Keywords:          keywords.Terms(kws),
		KeywordScores:     kws,
		Summary:           documentSummary(lang, wordCount, len(set.Topics), len(kws)),
		AnalysisTimestamp: timestamp(),
		TopicSimilarities: set.Similarities,
		Language:          lang.String(),
		WordCount:         wordCount,
	}
	net, err := s.buildNetwork(ctx, report, body, lang, set.Topics, maxWords)
	if err != nil {
		logger.Error("network build failed", zap.Error(err))
		return nil, err
	}
	if net != nil {
		total := net.TotalAvailable
		resp.NetworkData = &model.NetworkData{Nodes: net.Nodes, Edges: net.Edges}
		resp.TotalAvailableWords = &total
	}
	resp.Quality = model.QualityOf(report)
	logger.Info("document analyzed",
		zap.Int("word_count", wordCount),
		zap.Int("topics", len(set.Topics)),
		zap.Int("keywords", len(kws)),
		zap.Bool("degraded", resp.Degraded))
	return resp, nil
}

func (s *AnalysisService) extractKeywords(ctx context.Context, report *outcome.Report, body string, lang text.Language, limit int) ([]keywords.Keyword, error) {
	_, span := observability.StartSpan(ctx, "keywords")
	defer span.End()
	res := outcome.Track(report, "keywords", keywords.Extract(body, lang, limit))
	kws, err := res.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: extract keywords: %w", appErr.ErrInternal, err)
	}
	return kws, nil
}

func (s *AnalysisService) extractTopics(ctx context.Context, report *outcome.Report, body string, lang text.Language, n int, kws []keywords.Keyword) (topic.Set, error) {
	ctx, span := observability.StartSpan(ctx, "topics", attribute.Int("n_topics", n))
	defer span.End()
	res := outcome.Track(report, "topics", topic.Extract(ctx, body, lang, n, kws))
	set, err := res.Unwrap()
	if err != nil {
		return topic.Set{}, fmt.Errorf("%w: extract topics: %w", appErr.ErrInternal, err)
	}
	return set, nil
}

func (s *AnalysisService) describe(ctx context.Context, report *outcome.Report, lang text.Language, topics []topic.Topic) {
	if s.describer == nil || len(topics) == 0 {
		return
	}
	ctx, span := observability.StartSpan(ctx, "topic_descriptions")
	defer span.End()
	desc, err := s.describer.Describe(ctx, lang, topics)
	if err != nil {
		logutil.GetLogger(ctx).Warn("topic descriptions unavailable, keep rule based labels", zap.Error(err))
		report.Note(outcome.KindDegraded, "topic_descriptions", err.Error())
		return
	}
	for i := range topics {
		if d, ok := desc[topics[i].ID]; ok {
			topics[i].Description = d
		}
	}
}

// buildNetwork returns nil without error when the deadline hits, the
// response is then marked degraded and carries no network.
func (s *AnalysisService) buildNetwork(ctx context.Context, report *outcome.Report, body string, lang text.Language, topics []topic.Topic, maxWords int) (*network.Network, error) {
	ctx, span := observability.StartSpan(ctx, "network", attribute.Int("max_words", maxWords))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.opts.NetworkTimeout)
	defer cancel()

	co := network.Count(text.SentenceTokens(body, lang), s.opts.Window)
	opts := network.DefaultOptions()
	opts.MaxWords = maxWords
	net, err := network.Build(ctx, topics, co, opts)
	if err == nil {
		return net, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		report.Note(outcome.KindDegraded, "network", fmt.Sprintf("build exceeded %s, network omitted", s.opts.NetworkTimeout))
		return nil, nil
	}
	return nil, fmt.Errorf("%w: build network: %w", appErr.ErrInternal, err)
}

func documentSummary(lang text.Language, words, topics, kws int) string {
	if lang == text.English {
		return fmt.Sprintf("Analysis of %d words. Identified %d main topics using NMF and TF-IDF. Extracted %d significant keywords.", words, topics, kws)
	}
	return fmt.Sprintf("Analisi di %d parole. Identificati %d temi principali utilizzando NMF e TF-IDF. Estratte %d parole chiave significative.", words, topics, kws)
}
