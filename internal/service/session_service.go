package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/xxxsen/common/logutil"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/keywords"
	"github.com/xxxsen/transcript-analytics/internal/model"
	"github.com/xxxsen/transcript-analytics/internal/observability"
	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const (
	minSessionChars    = 10
	sessionKeywords    = 15
	keywordContexts    = 3
	maxThemes          = 8
	maxThemeSentences  = 5
	minThemeConfidence = 0.1
	keywordMatchBonus  = 0.1
)

type theme struct {
	name  string
	words []string
}

var therapyThemes = map[text.Language][]theme{
	text.Italian: {
		{"ansia", []string{"ansia", "ansioso", "preoccupazione", "paura", "nervoso", "tensione", "stress"}},
		{"depressione", []string{"triste", "depresso", "melanconico", "abbattuto", "sconforto", "tristezza"}},
		{"lavoro", []string{"lavoro", "ufficio", "collega", "capo", "professionale", "carriera", "stress lavorativo"}},
		{"famiglia", []string{"famiglia", "genitori", "fratello", "sorella", "madre", "padre", "figlio", "figlia"}},
		{"relazioni", []string{"relazione", "partner", "fidanzato", "fidanzata", "amico", "amica", "coppia"}},
		{"emozioni", []string{"emozione", "sentimento", "rabbia", "gioia", "felicità", "tristezza", "paura"}},
		{"obiettivi", []string{"obiettivo", "meta", "progetto", "futuro", "pianificare", "raggiungere"}},
		{"passato", []string{"passato", "ricordo", "infanzia", "bambino", "giovane", "prima", "tempo fa"}},
		{"corpo", []string{"corpo", "fisico", "salute", "dolore", "stanchezza", "energia", "sonno"}},
		{"pensieri", []string{"pensiero", "idea", "mente", "riflettere", "considerare", "ragionare"}},
	},
	text.English: {
		{"anxiety", []string{"anxiety", "anxious", "worry", "fear", "nervous", "tension", "stress"}},
		{"depression", []string{"sad", "depressed", "melancholic", "down", "hopeless", "sadness"}},
		{"work", []string{"work", "office", "colleague", "boss", "professional", "career", "job"}},
		{"family", []string{"family", "parents", "brother", "sister", "mother", "father", "son", "daughter"}},
		{"relationships", []string{"relationship", "partner", "boyfriend", "girlfriend", "friend", "couple"}},
		{"emotions", []string{"emotion", "feeling", "anger", "joy", "happiness", "sadness", "fear"}},
		{"goals", []string{"goal", "target", "project", "future", "plan", "achieve"}},
		{"past", []string{"past", "memory", "childhood", "child", "young", "before", "long ago"}},
		{"body", []string{"body", "physical", "health", "pain", "tiredness", "energy", "sleep"}},
		{"thoughts", []string{"thought", "idea", "mind", "reflect", "consider", "reason"}},
	},
}

type SessionService struct {
	defaultLang text.Language
	scorer      *emotion.Scorer
}

func NewSessionService(defaultLang text.Language, scorer *emotion.Scorer) *SessionService {
	if defaultLang == "" {
		defaultLang = text.Italian
	}
	return &SessionService{defaultLang: defaultLang, scorer: scorer}
}

func (s *SessionService) AnalyzeSession(ctx context.Context, req model.SingleSessionRequest) (*model.SingleSessionResponse, error) {
	lang, err := text.ParseLanguage(req.Language, s.defaultLang)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Text)
	if nonSpaceRunes(body) < minSessionChars {
		return nil, appErr.TooShort(fmt.Sprintf("text must contain at least %d non blank characters", minSessionChars))
	}
	sessionID := sessionIDOr(req.SessionID)
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID))
	ctx, span := observability.StartSpan(ctx, "single_session", attribute.String("session_id", sessionID))
	defer span.End()

	report := &outcome.Report{}
	kws, err := outcome.Track(report, "keywords", keywords.Extract(body, lang, sessionKeywords)).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: extract keywords: %w", appErr.ErrInternal, err)
	}
	contexts := make([]model.KeywordContext, 0, len(kws))
	for _, k := range kws {
		contexts = append(contexts, model.KeywordContext{
			Keyword:   k.Term,
			Frequency: k.Frequency,
			Score:     k.Score,
			Context:   keywords.Contexts(body, k.Term, keywordContexts),
		})
	}
	themes := identifyThemes(body, lang, kws)
	sentiment, err := s.scorer.Sentiment(body, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment: %w", appErr.ErrInternal, err)
	}

	sentences := len(text.Sentences(body))
	words := text.WordCount(body)
	summary := model.SessionSummary{
		TotalCharacters:  len([]rune(body)),
		TotalWords:       words,
		TotalSentences:   sentences,
		KeywordsFound:    len(contexts),
		ThemesIdentified: len(themes),
	}
	if sentences > 0 {
		summary.AvgWordsPerSentence = math.Round(float64(words)/float64(sentences)*10) / 10
	}
	logger.Info("session analyzed",
		zap.Int("keywords", len(contexts)),
		zap.Int("themes", len(themes)),
		zap.String("sentiment", sentiment.Label))
	return &model.SingleSessionResponse{
		Success:           true,
		SessionID:         sessionID,
		Keywords:          contexts,
		Themes:            themes,
		Sentiment:         sentiment,
		Summary:           summary,
		Language:          lang.String(),
		AnalysisTimestamp: timestamp(),
		Quality:           model.QualityOf(report),
	}, nil
}

// identifyThemes matches the theme dictionaries as substrings of the
// lowercase text so multi word entries are found too.
func identifyThemes(body string, lang text.Language, kws []keywords.Keyword) []model.Theme {
	lower := strings.ToLower(body)
	sentences := text.Sentences(body)
	top := make(map[string]struct{}, len(kws))
	for _, k := range kws {
		top[strings.ToLower(k.Term)] = struct{}{}
	}
	out := make([]model.Theme, 0)
	for _, th := range therapyThemes[lang] {
		var matches []string
		bonus := 0.0
		for _, w := range th.words {
			if !strings.Contains(lower, w) {
				continue
			}
			matches = append(matches, w)
			if _, ok := top[w]; ok {
				bonus += keywordMatchBonus
			}
		}
		if len(matches) == 0 {
			continue
		}
		conf := math.Min(float64(len(matches))/float64(len(th.words))+bonus, 1)
		if conf <= minThemeConfidence {
			continue
		}
		out = append(out, model.Theme{
			Theme:      th.name,
			Confidence: math.Round(conf*1000) / 1000,
			Keywords:   matches,
			Sentences:  themeSentences(sentences, matches),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > maxThemes {
		out = out[:maxThemes]
	}
	return out
}

func themeSentences(sentences, matches []string) []string {
	out := make([]string, 0, maxThemeSentences)
	for _, sent := range sentences {
		if len(out) >= maxThemeSentences {
			break
		}
		lower := strings.ToLower(sent)
		for _, m := range matches {
			if strings.Contains(lower, m) {
				out = append(out, sent)
				break
			}
		}
	}
	return out
}

func nonSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
