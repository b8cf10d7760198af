package topic

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/xxxsen/transcript-analytics/internal/keywords"
	"github.com/xxxsen/transcript-analytics/internal/pkg/outcome"
	"github.com/xxxsen/transcript-analytics/internal/text"
	"github.com/xxxsen/transcript-analytics/internal/vectorize"
)

const (
	DefaultTopics = 5
	MaxTopics     = 10

	minSentenceChars = 20
	minSentences     = 3
	maxFeatures      = 100
	maxDF            = 0.9
	termsPerTopic    = 5
	confidenceScale  = 0.3
	fallbackConf     = 0.3
)

type Topic struct {
	ID          int      `json:"topic_id"`
	Keywords    []string `json:"keywords"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	Weight      float64  `json:"weight"`
}

type Set struct {
	Topics       []Topic
	Similarities map[string]float64
}

func ClampTopics(n int) int {
	if n <= 0 {
		return DefaultTopics
	}
	if n > MaxTopics {
		return MaxTopics
	}
	return n
}

// Extract factorizes the TF-IDF matrix of the long sentences of body into
// at most nTopics components. When there is not enough material the top
// keywords form a single fallback topic and the result is degraded.
func Extract(ctx context.Context, body string, lang text.Language, nTopics int, top []keywords.Keyword) outcome.Result[Set] {
	nTopics = ClampTopics(nTopics)
	sentences := text.LongSentences(body, minSentenceChars)
	if len(sentences) < minSentences {
		return fallback(lang, top, fmt.Sprintf("only %d sentences long enough for topic modeling", len(sentences)))
	}
	docs := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		docs = append(docs, text.ContentWords(s, lang))
	}
	m, err := vectorize.Fit(docs, vectorize.Options{MaxFeatures: maxFeatures, MaxDF: maxDF, NGramMax: 2})
	if err != nil {
		return fallback(lang, top, err.Error())
	}
	k := rank(nTopics, m.Docs(), len(m.Terms))
	w, h, err := Factorize(ctx, m.TFIDF(), k, DefaultNMFOptions())
	if err != nil {
		if ctx.Err() != nil {
			return outcome.Failed[Set](err)
		}
		return fallback(lang, top, err.Error())
	}
	set := buildSet(m.Terms, w, h, lang)
	if len(set.Topics) == 0 {
		return fallback(lang, top, "factorization produced no weighted components")
	}
	return outcome.OK(set)
}

func rank(n, docs, terms int) int {
	k := n
	if half := docs / 2; half < k {
		k = half
	}
	if terms < k {
		k = terms
	}
	if k < 1 {
		k = 1
	}
	return k
}

func buildSet(terms []string, w, h *mat.Dense, lang text.Language) Set {
	k, cols := h.Dims()
	total := mat.Sum(w)
	set := Set{Similarities: map[string]float64{}}
	kept := make([][]float64, 0, k)
	for c := 0; c < k; c++ {
		row := mat.Row(nil, c, h)
		idx := make([]int, 0, cols)
		for j := range row {
			if row[j] > 0 {
				idx = append(idx, j)
			}
		}
		if len(idx) == 0 {
			continue
		}
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] > row[idx[b]] })
		if len(idx) > termsPerTopic {
			idx = idx[:termsPerTopic]
		}
		words := make([]string, 0, len(idx))
		weights := make([]float64, 0, len(idx))
		for _, j := range idx {
			words = append(words, terms[j])
			weights = append(weights, row[j])
		}
		conf := floats.Sum(weights) / float64(len(weights)) * confidenceScale
		if conf > 1 {
			conf = 1
		}
		share := 0.0
		if total > 0 {
			share = mat.Sum(w.ColView(c)) / total
		}
		label := Label(words, lang)
		set.Topics = append(set.Topics, Topic{
			ID:          len(set.Topics) + 1,
			Keywords:    words,
			Label:       label,
			Description: label,
			Confidence:  conf,
			Weight:      share,
		})
		kept = append(kept, row)
	}
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			key := fmt.Sprintf("topic_%d_topic_%d", i+1, j+1)
			set.Similarities[key] = cosine(kept[i], kept[j])
		}
	}
	return set
}

func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func fallback(lang text.Language, top []keywords.Keyword, reason string) outcome.Result[Set] {
	set := Set{Topics: []Topic{}, Similarities: map[string]float64{}}
	words := keywords.Terms(top)
	if len(words) > termsPerTopic {
		words = words[:termsPerTopic]
	}
	if len(words) > 0 {
		label := Label(words, lang)
		set.Topics = append(set.Topics, Topic{
			ID:          1,
			Keywords:    words,
			Label:       label,
			Description: label,
			Confidence:  fallbackConf,
			Weight:      1,
		})
	}
	return outcome.Degraded(set, reason)
}
