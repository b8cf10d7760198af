package keywords

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/text"
	"github.com/xxxsen/transcript-analytics/internal/vectorize"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	maxFeatures      = 1000
	fallbackMinRunes = 4
	reasonFallback   = "no weighted vocabulary, using word frequency"
	reasonNoContent  = "no content words"
)

type Keyword struct {
	Term      string  `json:"term"`
	Score     float64 `json:"score"`
	Frequency int     `json:"frequency"`
}

// ClampLimit maps a requested cap onto [1, MaxLimit], zero meaning the
// default.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Extract scores uni and bigrams by their summed TF-IDF weight over the
// sentences of body, scaled so that the best term scores 1.
func Extract(body string, lang text.Language, limit int) outcome.Result[[]Keyword] {
	limit = ClampLimit(limit)
	docs := text.SentenceTokens(body, lang)
	if len(docs) < 2 {
		docs = [][]string{text.ContentWords(body, lang)}
	}
	m, err := vectorize.Fit(docs, vectorize.Options{MaxFeatures: maxFeatures, NGramMax: 2})
	if err != nil {
		if errors.Is(err, vectorize.ErrEmptyVocabulary) {
			return frequencyFallback(body, lang, limit)
		}
		return outcome.Failed[[]Keyword](err)
	}
	return outcome.OK(rank(m, limit))
}

func rank(m *vectorize.Matrix, limit int) []Keyword {
	w := m.TFIDF()
	_, cols := w.Dims()
	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		scores[j] = mat.Sum(w.ColView(j))
	}
	if top := floats.Max(scores); top > 0 {
		for j := range scores {
			scores[j] /= top
		}
	}
	out := make([]Keyword, 0, cols)
	for j, term := range m.Terms {
		out = append(out, Keyword{Term: term, Score: scores[j], Frequency: m.Frequency(term)})
	}
	return Top(out, limit)
}

func frequencyFallback(body string, lang text.Language, limit int) outcome.Result[[]Keyword] {
	words := text.Words(body)
	counts := make(map[string]int)
	for _, w := range words {
		if utf8.RuneCountInString(w) < fallbackMinRunes || text.IsStopword(w, lang) {
			continue
		}
		counts[w]++
	}
	if len(counts) == 0 {
		return outcome.Degraded([]Keyword{}, reasonNoContent)
	}
	out := make([]Keyword, 0, len(counts))
	for term, c := range counts {
		out = append(out, Keyword{Term: term, Score: float64(c) / float64(len(words)), Frequency: c})
	}
	return outcome.Degraded(Top(out, limit), reasonFallback)
}

// Top sorts by score descending, ties by term, and keeps at most limit.
func Top(in []Keyword, limit int) []Keyword {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Score != in[j].Score {
			return in[i].Score > in[j].Score
		}
		return in[i].Term < in[j].Term
	})
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}

func Terms(in []Keyword) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		out = append(out, k.Term)
	}
	return out
}

// Contexts returns up to limit sentences of body that contain term, case
// insensitive.
func Contexts(body, term string, limit int) []string {
	needle := strings.ToLower(term)
	out := make([]string, 0, limit)
	for _, s := range text.Sentences(body) {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(s), needle) {
			out = append(out, s)
		}
	}
	return out
}
