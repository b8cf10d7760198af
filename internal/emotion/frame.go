package emotion

import (
	"math"
	"strings"

	"github.com/xxxsen/transcript-analytics/internal/network"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

const (
	DefaultFrameNeighbours = 30
	frameWindow            = network.DefaultWindow
)

type FrameEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type Frame struct {
	Target           string            `json:"target_word"`
	Found            bool              `json:"frame_found"`
	Words            []string          `json:"frame_words"`
	ConnectedWords   []string          `json:"connected_words"`
	FrameText        string            `json:"frame_text"`
	Edges            []FrameEdge       `json:"edges"`
	TotalConnections int               `json:"total_connections"`
	Polarity         map[string]string `json:"polarity"`
	Sentences        int               `json:"sentences_analyzed"`
}

// ExtractFrame builds the association network of body and keeps the target
// with its strongest neighbours and the links among them. The target is
// kept even when it would be filtered as a stopword.
func (s *Scorer) ExtractFrame(body, target string, lang text.Language, limit int) (*Frame, error) {
	lex, err := s.Lexicon(lang)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFrameNeighbours
	}
	target = strings.ToLower(strings.TrimSpace(target))
	sentences := text.Sentences(body)
	docs := make([][]string, 0, len(sentences))
	for _, sent := range sentences {
		if toks := frameTokens(sent, target, lang); len(toks) > 0 {
			docs = append(docs, toks)
		}
	}
	co := network.Count(docs, frameWindow)
	fr := &Frame{
		Target:         target,
		Words:          []string{},
		ConnectedWords: []string{},
		Edges:          []FrameEdge{},
		Polarity:       map[string]string{},
		Sentences:      len(sentences),
	}
	neighbours := co.Neighbours(target, limit)
	if len(neighbours) == 0 {
		return fr, nil
	}
	fr.Found = true
	fr.Words = append(fr.Words, target)
	for _, n := range neighbours {
		fr.Words = append(fr.Words, n.Word)
		fr.ConnectedWords = append(fr.ConnectedWords, n.Word)
		fr.Edges = append(fr.Edges, FrameEdge{Source: target, Target: n.Word, Weight: n.Count})
	}
	for i := 1; i < len(fr.Words); i++ {
		for j := i + 1; j < len(fr.Words); j++ {
			if c := co.Pair(fr.Words[i], fr.Words[j]); c > 0 {
				fr.Edges = append(fr.Edges, FrameEdge{Source: fr.Words[i], Target: fr.Words[j], Weight: c})
			}
		}
	}
	for _, w := range fr.Words {
		fr.Polarity[w] = Polarity(lex, w)
	}
	fr.FrameText = strings.Join(fr.Words, " ")
	fr.TotalConnections = len(fr.Edges)
	return fr, nil
}

// frameTokens keeps the content words of sent plus every occurrence of
// target, stopword or not.
func frameTokens(sent, target string, lang text.Language) []string {
	var toks []string
	for _, w := range text.Words(sent) {
		if w == target {
			toks = append(toks, w)
			continue
		}
		toks = append(toks, text.FilterContent([]string{w}, lang)...)
	}
	return toks
}

type ContextAnalysis struct {
	EmotionalContext   string  `json:"emotional_context"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	AverageValence     float64 `json:"average_valence"`
	TotalOccurrences   int     `json:"total_occurrences"`
	AnalyzedContexts   int     `json:"analyzed_contexts"`
}

// AnalyzeContexts scores every sentence mentioning target on its own.
// Valence is averaged over the sentences with at least one emotional word,
// similarity is the mean Jaccard overlap between a sentence and frameWords.
func (s *Scorer) AnalyzeContexts(body, target string, lang text.Language, frameWords []string) (*ContextAnalysis, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	out := &ContextAnalysis{EmotionalContext: PolarityNeutral}
	frame := make(map[string]struct{}, len(frameWords))
	for _, w := range frameWords {
		frame[w] = struct{}{}
	}
	var valence, similarity float64
	mentions := 0
	for _, sent := range text.Sentences(body) {
		toks := frameTokens(sent, target, lang)
		n := 0
		for _, tok := range toks {
			if tok == target {
				n++
			}
		}
		if n == 0 {
			continue
		}
		out.TotalOccurrences += n
		mentions++
		similarity += jaccard(toks, frame)
		res := s.AnalyzeTokens(toks, lang)
		a, err := res.Unwrap()
		if err != nil {
			return nil, err
		}
		if res.IsDegraded() {
			continue
		}
		out.AnalyzedContexts++
		valence += a.Valence
	}
	if mentions > 0 {
		out.SemanticSimilarity = round3(similarity / float64(mentions))
	}
	if out.AnalyzedContexts > 0 {
		out.AverageValence = round3(valence / float64(out.AnalyzedContexts))
	}
	out.EmotionalContext = polarityLabel(out.AverageValence)
	return out, nil
}

func jaccard(toks []string, set map[string]struct{}) float64 {
	if len(set) == 0 {
		return 0
	}
	uniq := make(map[string]struct{}, len(toks))
	inter := 0
	for _, tok := range toks {
		if _, ok := uniq[tok]; ok {
			continue
		}
		uniq[tok] = struct{}{}
		if _, ok := set[tok]; ok {
			inter++
		}
	}
	union := len(uniq) + len(set) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
