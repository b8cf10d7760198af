package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/ai"
	"github.com/xxxsen/transcript-analytics/internal/config"
	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/plot"
	"github.com/xxxsen/transcript-analytics/internal/service"
)

type app struct {
	scorer   *emotion.Scorer
	analysis *service.AnalysisService
	emotions *service.EmotionService
	sessions *service.SessionService
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	set, err := emotion.LoadDir(cfg.Emotion.LexiconDir)
	if err != nil {
		return nil, fmt.Errorf("load lexicons: %w", err)
	}
	scorer := emotion.NewScorer(set)
	renderer, err := plot.NewRenderer(cfg.Emotion.PlotSize)
	if err != nil {
		return nil, fmt.Errorf("init plot renderer: %w", err)
	}
	describer, err := buildDescriber(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	lang := cfg.Analysis.Language()
	analysis := service.NewAnalysisService(service.AnalysisOptions{
		DefaultLanguage: lang,
		MinWords:        cfg.Analysis.MinWords,
		DefaultTopics:   cfg.Analysis.DefaultTopics,
		DefaultMaxWords: cfg.Analysis.DefaultMaxWords,
		DefaultKeywords: cfg.Analysis.DefaultKeywords,
		Window:          cfg.Analysis.CooccurrenceWindow,
		NetworkTimeout:  time.Duration(cfg.Analysis.NetworkTimeoutMs) * time.Millisecond,
	}, describer)
	emotions := service.NewEmotionService(service.EmotionOptions{
		DefaultLanguage: lang,
		Workers:         cfg.Emotion.Workers,
		MaxSessions:     cfg.Emotion.MaxSessions,
	}, scorer, renderer)
	return &app{
		scorer:   scorer,
		analysis: analysis,
		emotions: emotions,
		sessions: service.NewSessionService(lang, scorer),
	}, nil
}

// buildDescriber returns a nil interface when descriptions are disabled so
// the analysis service keeps its rule based labels.
func buildDescriber(ctx context.Context, cfg config.AIConfig) (service.ITopicDescriber, error) {
	if !cfg.Enabled || len(cfg.Providers) == 0 {
		return nil, nil
	}
	entries := make([]ai.GeneratorEntry, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		provider, err := ai.NewProvider(p.Name, p.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", p.Name, err)
		}
		entries = append(entries, ai.GeneratorEntry{Name: p.Name, Generator: ai.NewGenerator(provider, p.Model)})
		logutil.GetLogger(ctx).Info("ai provider configured", zap.String("provider", p.Name), zap.String("model", p.Model))
	}
	return ai.NewTopicDescriber(ai.NewGroupGenerator(entries), ai.DescriberConfig{
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		CacheSize: cfg.CacheSize,
		CacheTTL:  time.Duration(cfg.CacheTTLSeconds) * time.Second,
		MaxTokens: cfg.MaxTokens,
	}), nil
}
