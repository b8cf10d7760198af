package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"

	"github.com/xxxsen/transcript-analytics/internal/text"
)

type Config struct {
	Port      int              `json:"port"`
	LogConfig logger.LogConfig `json:"log_config"`
	CORS      CORSConfig       `json:"cors"`
	RateLimit RateLimitConfig  `json:"rate_limit"`
	Analysis  AnalysisConfig   `json:"analysis"`
	Emotion   EmotionConfig    `json:"emotion"`
	AI        AIConfig         `json:"ai"`
	Tracing   TracingConfig    `json:"tracing"`
}

type CORSConfig struct {
	AllowOrigins     []string `json:"allow_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

type RateLimitConfig struct {
	Enabled       bool `json:"enabled"`
	Limit         int  `json:"limit"`
	WindowSeconds int  `json:"window_seconds"`
}

type AnalysisConfig struct {
	DefaultLanguage    string `json:"default_language"`
	MinWords           int    `json:"min_words"`
	DefaultTopics      int    `json:"default_topics"`
	DefaultMaxWords    int    `json:"default_max_words"`
	DefaultKeywords    int    `json:"default_keywords"`
	CooccurrenceWindow int    `json:"cooccurrence_window"`
	NetworkTimeoutMs   int    `json:"network_timeout_ms"`
}

type EmotionConfig struct {
	LexiconDir  string `json:"lexicon_dir"`
	ReloadCron  string `json:"reload_cron"`
	Workers     int    `json:"workers"`
	MaxSessions int    `json:"max_sessions"`
	PlotSize    int    `json:"plot_size"`
}

type AIProviderConfig struct {
	Name  string                 `json:"name"`
	Model string                 `json:"model"`
	Data  map[string]interface{} `json:"data"`
}

type AIConfig struct {
	Enabled         bool               `json:"enabled"`
	Providers       []AIProviderConfig `json:"providers"`
	TimeoutSeconds  int                `json:"timeout_seconds"`
	CacheSize       int                `json:"cache_size"`
	CacheTTLSeconds int                `json:"cache_ttl_seconds"`
	MaxTokens       int                `json:"max_tokens"`
}

type TracingConfig struct {
	Enabled     bool              `json:"enabled"`
	ServiceName string            `json:"service_name"`
	Exporter    string            `json:"exporter"`
	Endpoint    string            `json:"endpoint"`
	Insecure    bool              `json:"insecure"`
	Headers     map[string]string `json:"headers"`
	SampleRatio float64           `json:"sample_ratio"`
}

// Default returns a configuration that validates without any file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a JSON or, by extension, YAML config file. YAML goes through
// JSON so that one set of tags describes both formats.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var m map[string]interface{}
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode yaml config: %w", err)
		}
		if raw, err = json.Marshal(m); err != nil {
			return nil, fmt.Errorf("convert yaml config: %w", err)
		}
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8001
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = []string{"http://localhost:3000"}
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 60
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	a := &cfg.Analysis
	if a.DefaultLanguage == "" {
		a.DefaultLanguage = string(text.Italian)
	}
	if a.MinWords == 0 {
		a.MinWords = 20
	}
	if a.DefaultTopics == 0 {
		a.DefaultTopics = 5
	}
	if a.DefaultMaxWords == 0 {
		a.DefaultMaxWords = 100
	}
	if a.DefaultKeywords == 0 {
		a.DefaultKeywords = 10
	}
	if a.CooccurrenceWindow == 0 {
		a.CooccurrenceWindow = 5
	}
	if a.NetworkTimeoutMs == 0 {
		a.NetworkTimeoutMs = 10000
	}
	e := &cfg.Emotion
	if e.Workers == 0 {
		e.Workers = 4
	}
	if e.MaxSessions == 0 {
		e.MaxSessions = 50
	}
	if e.PlotSize == 0 {
		e.PlotSize = 600
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 256
	}
	if cfg.AI.CacheTTLSeconds == 0 {
		cfg.AI.CacheTTLSeconds = 3600
	}
	t := &cfg.Tracing
	if t.ServiceName == "" {
		t.ServiceName = "transcript-analytics"
	}
	if t.Exporter == "" {
		t.Exporter = "stdout"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	if c.RateLimit.Limit < 0 || c.RateLimit.WindowSeconds < 0 {
		return fmt.Errorf("rate_limit limit and window_seconds must not be negative")
	}
	if _, err := text.ParseLanguage(c.Analysis.DefaultLanguage, text.Italian); err != nil {
		return fmt.Errorf("analysis.default_language: %w", err)
	}
	a := c.Analysis
	if a.MinWords < 1 {
		return fmt.Errorf("analysis.min_words must be positive")
	}
	if a.DefaultTopics < 1 || a.DefaultMaxWords < 1 || a.DefaultKeywords < 1 {
		return fmt.Errorf("analysis defaults must be positive")
	}
	if a.CooccurrenceWindow < 2 {
		return fmt.Errorf("analysis.cooccurrence_window must be at least 2")
	}
	if a.NetworkTimeoutMs < 0 {
		return fmt.Errorf("analysis.network_timeout_ms must not be negative")
	}
	if c.Emotion.Workers < 1 || c.Emotion.MaxSessions < 1 {
		return fmt.Errorf("emotion.workers and emotion.max_sessions must be positive")
	}
	if c.Emotion.ReloadCron != "" {
		if c.Emotion.LexiconDir == "" {
			return fmt.Errorf("emotion.reload_cron requires emotion.lexicon_dir")
		}
		if _, err := cron.ParseStandard(c.Emotion.ReloadCron); err != nil {
			return fmt.Errorf("emotion.reload_cron: %w", err)
		}
	}
	if c.AI.Enabled {
		if len(c.AI.Providers) == 0 {
			return fmt.Errorf("ai.providers is required when ai is enabled")
		}
		for i, p := range c.AI.Providers {
			if p.Name == "" || p.Model == "" {
				return fmt.Errorf("ai.providers[%d] needs name and model", i)
			}
		}
	}
	switch c.Tracing.Exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be stdout or otlp")
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in [0,1]")
	}
	return nil
}

// Language resolves the configured default language.
func (a AnalysisConfig) Language() text.Language {
	lang, err := text.ParseLanguage(a.DefaultLanguage, text.Italian)
	if err != nil {
		return text.Italian
	}
	return lang
}
