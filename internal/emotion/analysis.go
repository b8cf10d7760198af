package emotion

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"unicode/utf8"

	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const (
	SignificanceZ = 1.96
	dominantCount = 3

	reasonNoHits = "no emotional words matched"
)

// Ranked serializes as a [emotion, score] pair.
type Ranked struct {
	Emotion string
	Score   float64
}

func (r Ranked) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Emotion, r.Score})
}

func (r *Ranked) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("ranked emotion: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.Emotion); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &r.Score)
}

type Analysis struct {
	ZScores      map[string]float64  `json:"z_scores"`
	Emotions     map[string]int      `json:"emotions"`
	EmotionWords map[string][]string `json:"emotion_words"`
	Valence      float64             `json:"emotional_valence"`
	Positive     float64             `json:"positive_score"`
	Negative     float64             `json:"negative_score"`
	Significant  map[string]float64  `json:"significant_emotions"`
	Dominant     []Ranked            `json:"dominant_emotions"`
	Language     string              `json:"language"`
	WordCount    int                 `json:"word_count"`
	TextLength   int                 `json:"text_length"`
	Matched      int                 `json:"emotional_word_count"`
	FlowerPlot   string              `json:"flower_plot,omitempty"`
}

func emptyAnalysis(lang text.Language) *Analysis {
	a := &Analysis{
		ZScores:      make(map[string]float64, len(Emotions)),
		Emotions:     make(map[string]int, len(Emotions)),
		EmotionWords: make(map[string][]string, len(Emotions)),
		Significant:  map[string]float64{},
		Dominant:     []Ranked{},
		Language:     string(lang),
	}
	for _, e := range Emotions {
		a.ZScores[e] = 0
		a.Emotions[e] = 0
		a.EmotionWords[e] = []string{}
	}
	return a
}

// Scorer scores text against the current lexicon set. The set is replaced
// as a whole, so a request never sees a mix of two lexicon versions.
type Scorer struct {
	set atomic.Pointer[Set]
}

func NewScorer(set Set) *Scorer {
	s := &Scorer{}
	s.Swap(set)
	return s
}

func (s *Scorer) Swap(set Set) {
	s.set.Store(&set)
}

func (s *Scorer) Lexicon(lang text.Language) (*Lexicon, error) {
	set := s.set.Load()
	if set == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLexicon, lang)
	}
	lex, ok := (*set)[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLexicon, lang)
	}
	return lex, nil
}

// Reload replaces the lexicon set with the embedded lexicons overridden by
// the files found in dir.
func (s *Scorer) Reload(dir string) error {
	set, err := LoadDir(dir)
	if err != nil {
		return err
	}
	s.Swap(set)
	return nil
}

func (s *Scorer) Analyze(body string, lang text.Language) outcome.Result[*Analysis] {
	res := s.AnalyzeTokens(text.ContentWords(body, lang), lang)
	if res.Value != nil {
		res.Value.WordCount = text.WordCount(body)
		res.Value.TextLength = utf8.RuneCountInString(body)
	}
	return res
}

// AnalyzeTokens computes per emotion z-scores of the hit counts against a
// binomial null model with rate Lexicon.Rate.
func (s *Scorer) AnalyzeTokens(tokens []string, lang text.Language) outcome.Result[*Analysis] {
	lex, err := s.Lexicon(lang)
	if err != nil {
		return outcome.Failed[*Analysis](err)
	}
	a := emptyAnalysis(lang)
	a.WordCount = len(tokens)
	seen := make(map[string]map[string]struct{}, len(Emotions))
	for _, tok := range tokens {
		emos := lex.Lookup(tok)
		if len(emos) == 0 {
			continue
		}
		a.Matched++
		for _, e := range emos {
			a.Emotions[e]++
			if seen[e] == nil {
				seen[e] = map[string]struct{}{}
			}
			if _, ok := seen[e][tok]; !ok {
				seen[e][tok] = struct{}{}
				a.EmotionWords[e] = append(a.EmotionWords[e], tok)
			}
		}
	}
	if a.Matched == 0 {
		return outcome.Degraded(a, reasonNoHits)
	}
	n := float64(len(tokens))
	for _, e := range Emotions {
		a.ZScores[e] = zScore(float64(a.Emotions[e]), n, lex.Rate(e))
	}
	a.finish()
	return outcome.OK(a)
}

func zScore(k, n, p float64) float64 {
	if n == 0 || p <= 0 || p >= 1 {
		return 0
	}
	sd := math.Sqrt(n * p * (1 - p))
	if sd == 0 {
		return 0
	}
	return (k - n*p) / sd
}

func (a *Analysis) finish() {
	a.Positive, a.Negative = 0, 0
	for _, e := range Positive {
		a.Positive += a.ZScores[e]
	}
	for _, e := range Negative {
		a.Negative += a.ZScores[e]
	}
	a.Valence = a.Positive - a.Negative

	a.Significant = map[string]float64{}
	ranked := make([]Ranked, 0, len(Emotions))
	for _, e := range Emotions {
		z := a.ZScores[e]
		if math.Abs(z) >= SignificanceZ {
			a.Significant[e] = z
		}
		if z != 0 {
			ranked = append(ranked, Ranked{Emotion: e, Score: z})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Score) > math.Abs(ranked[j].Score)
	})
	if len(ranked) > dominantCount {
		ranked = ranked[:dominantCount]
	}
	a.Dominant = ranked
}

type Sentiment struct {
	PositiveIndicators int     `json:"positive_indicators"`
	NegativeIndicators int     `json:"negative_indicators"`
	Score              float64 `json:"sentiment_score"`
	Label              string  `json:"sentiment_label"`
	TotalWords         int     `json:"total_words"`
}

const sentimentThreshold = 0.2

// Sentiment counts tokens carrying a positive or a negative emotion and
// scores (p-n)/(p+n).
func (s *Scorer) Sentiment(body string, lang text.Language) (Sentiment, error) {
	lex, err := s.Lexicon(lang)
	if err != nil {
		return Sentiment{}, err
	}
	out := Sentiment{TotalWords: text.WordCount(body)}
	for _, tok := range text.ContentWords(body, lang) {
		switch Polarity(lex, tok) {
		case PolarityPositive:
			out.PositiveIndicators++
		case PolarityNegative:
			out.NegativeIndicators++
		}
	}
	if total := out.PositiveIndicators + out.NegativeIndicators; total > 0 {
		out.Score = float64(out.PositiveIndicators-out.NegativeIndicators) / float64(total)
	}
	out.Label = polarityLabel(out.Score)
	return out, nil
}

func polarityLabel(score float64) string {
	switch {
	case score > sentimentThreshold:
		return PolarityPositive
	case score < -sentimentThreshold:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

const (
	PolarityPositive = "positive"
	PolarityNegative = "negative"
	PolarityNeutral  = "neutral"
)

// Polarity compares how many positive and negative emotions word carries.
func Polarity(lex *Lexicon, word string) string {
	pos, neg := 0, 0
	for _, e := range lex.Lookup(word) {
		switch {
		case containsString(Positive, e):
			pos++
		case containsString(Negative, e):
			neg++
		}
	}
	switch {
	case pos > neg:
		return PolarityPositive
	case neg > pos:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}
