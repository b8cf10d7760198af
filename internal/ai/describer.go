package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/text"
	"github.com/xxxsen/transcript-analytics/internal/topic"
)

const maxDescriptionRunes = 80

type DescriberConfig struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	MaxTokens int
}

type topicDescription struct {
	TopicID     int    `json:"topic_id" jsonschema:"required"`
	Description string `json:"description" jsonschema:"required"`
}

type topicDescriptions struct {
	Topics []topicDescription `json:"topics" jsonschema:"required"`
}

var topicDescriptionSchema = GenerateSchema[topicDescriptions]()

const describeInstructions = `You help a psychotherapist read session transcripts.
For every topic you receive, write a short neutral description (at most 8 words)
of the theme its keywords point to. Do not diagnose and do not invent details.
Answer with JSON only.`

// TopicDescriber asks a language model for short topic descriptions and
// caches them by language and keyword lists.
type TopicDescriber struct {
	gen   IGenerator
	cfg   DescriberConfig
	cache *expirable.LRU[string, map[int]string]
}

func NewTopicDescriber(gen IGenerator, cfg DescriberConfig) *TopicDescriber {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &TopicDescriber{
		gen:   gen,
		cfg:   cfg,
		cache: expirable.NewLRU[string, map[int]string](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

func cacheKey(lang text.Language, topics []topic.Topic) string {
	var sb strings.Builder
	sb.WriteString(string(lang))
	for _, t := range topics {
		sb.WriteString(fmt.Sprintf("|%d:%s", t.ID, strings.Join(t.Keywords, ",")))
	}
	return sb.String()
}

func buildDescribePrompt(lang text.Language, topics []topic.Topic) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Language of the descriptions: %s.\nTopics:\n", lang))
	for _, t := range topics {
		sb.WriteString(fmt.Sprintf("- topic_id %d: %s\n", t.ID, strings.Join(t.Keywords, ", ")))
	}
	return sb.String()
}

// Describe returns a description per topic id. Topics the model skipped are
// missing from the map.
func (d *TopicDescriber) Describe(ctx context.Context, lang text.Language, topics []topic.Topic) (map[int]string, error) {
	if d == nil || d.gen == nil {
		return nil, ErrNotConfigured
	}
	if len(topics) == 0 {
		return map[int]string{}, nil
	}
	key := cacheKey(lang, topics)
	if v, ok := d.cache.Get(key); ok {
		return v, nil
	}
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	raw, err := d.gen.Generate(ctx, Request{
		Instructions: describeInstructions,
		Prompt:       buildDescribePrompt(lang, topics),
		SchemaName:   "TopicDescriptions",
		Schema:       topicDescriptionSchema,
		MaxTokens:    d.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	var out topicDescriptions
	if err := DecodeModelJSON(raw, &out); err != nil {
		return nil, err
	}
	known := make(map[int]struct{}, len(topics))
	for _, t := range topics {
		known[t.ID] = struct{}{}
	}
	res := make(map[int]string, len(out.Topics))
	for _, item := range out.Topics {
		if _, ok := known[item.TopicID]; !ok {
			continue
		}
		desc := truncateRunes(strings.TrimSpace(item.Description), maxDescriptionRunes)
		if desc == "" {
			continue
		}
		res[item.TopicID] = desc
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("ai returned no usable topic descriptions")
	}
	d.cache.Add(key, res)
	logutil.GetLogger(ctx).Debug("topic descriptions generated", zap.Int("topics", len(res)))
	return res, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
