package network

import (
	"context"
	"sort"
	"strings"

	"github.com/xxxsen/transcript-analytics/internal/topic"
)

const (
	NodeTopic   = "topic"
	NodeKeyword = "keyword"

	EdgeTopicSimilarity     = "topic_similarity"
	EdgeTopicKeyword        = "topic_keyword"
	EdgeKeywordCooccurrence = "keyword_cooccurrence"

	DefaultMaxWords = 100
	MaxWordsLimit   = 500

	topicPriorityBase = 1000.0
	topicPositions    = 10
	minCorrelation    = 0.1
	minNodeSize       = 10.0
	nodeSizeRange     = 20.0
	unclusteredColor  = "#95a5a6"
)

var clusterColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#34495e", "#16a085", "#c0392b",
}

type Node struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Type    string  `json:"type"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
	Cluster int     `json:"cluster"`
	Weight  float64 `json:"weight"`
}

type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

type Network struct {
	Nodes          []Node `json:"nodes"`
	Edges          []Edge `json:"edges"`
	TotalAvailable int    `json:"-"`
}

type Options struct {
	MaxWords        int
	MinCooccurrence int
	EdgeNorm        float64
}

func DefaultOptions() Options {
	return Options{MaxWords: DefaultMaxWords, MinCooccurrence: 1, EdgeNorm: 5}
}

func ClampMaxWords(n int) int {
	if n <= 0 {
		return DefaultMaxWords
	}
	if n > MaxWordsLimit {
		return MaxWordsLimit
	}
	return n
}

type candidate struct {
	word     string
	priority float64
	weight   float64
	cluster  int
	kind     string
}

// Build ranks topic words above co-occurring words, keeps the best
// MaxWords of them and links every surviving pair that co-occurred.
func Build(ctx context.Context, topics []topic.Topic, co *Cooccurrence, opts Options) (*Network, error) {
	opts.MaxWords = ClampMaxWords(opts.MaxWords)
	if opts.MinCooccurrence < 1 {
		opts.MinCooccurrence = 1
	}
	if opts.EdgeNorm <= 0 {
		opts.EdgeNorm = 5
	}

	cands, topicWords := topicCandidates(topics)
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		seen[c.word] = struct{}{}
	}
	cands = append(cands, keywordCandidates(co, seen, topicWords)...)

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].priority > cands[j].priority
	})
	total := len(cands)
	if len(cands) > opts.MaxWords {
		cands = cands[:opts.MaxWords]
	}

	net := &Network{
		Nodes:          make([]Node, 0, len(cands)),
		Edges:          make([]Edge, 0),
		TotalAvailable: total,
	}
	for _, c := range cands {
		net.Nodes = append(net.Nodes, Node{
			ID:      c.word,
			Label:   c.word,
			Type:    c.kind,
			Size:    minNodeSize + nodeSizeRange*c.weight,
			Color:   colorFor(c.cluster),
			Cluster: c.cluster,
			Weight:  c.weight,
		})
	}
	for i := 0; i < len(cands); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(cands); j++ {
			n := co.Pair(cands[i].word, cands[j].word)
			if n < opts.MinCooccurrence {
				continue
			}
			w := float64(n) / opts.EdgeNorm
			if w > 1 {
				w = 1
			}
			net.Edges = append(net.Edges, Edge{
				Source: cands[i].word,
				Target: cands[j].word,
				Weight: w,
				Type:   edgeType(cands[i], cands[j]),
			})
		}
	}
	return net, nil
}

type topicWord struct {
	word    string
	cluster int
}

// topicCandidates splits bigram topic terms into their words so that every
// node maps onto a single vocabulary word.
func topicCandidates(topics []topic.Topic) ([]candidate, []topicWord) {
	var (
		out   []candidate
		words []topicWord
		seen  = map[string]struct{}{}
	)
	for _, t := range topics {
		for pos, term := range t.Keywords {
			if pos >= topicPositions {
				break
			}
			for _, w := range strings.Fields(term) {
				if _, ok := seen[w]; ok {
					continue
				}
				seen[w] = struct{}{}
				out = append(out, candidate{
					word:     w,
					priority: topicPriorityBase + float64(topicPositions-pos),
					weight:   float64(topicPositions-pos) / topicPositions,
					cluster:  t.ID,
					kind:     NodeTopic,
				})
				words = append(words, topicWord{word: w, cluster: t.ID})
			}
		}
	}
	return out, words
}

func keywordCandidates(co *Cooccurrence, seen map[string]struct{}, topicWords []topicWord) []candidate {
	words := co.Words()
	maxMass := 0
	for _, w := range words {
		if m := co.Mass(w); m > maxMass {
			maxMass = m
		}
	}
	out := make([]candidate, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		mass := co.Mass(w)
		c := candidate{word: w, priority: float64(mass), kind: NodeKeyword}
		if maxMass > 0 {
			c.weight = float64(mass) / float64(maxMass)
		}
		best, cluster := 0.0, 0
		for _, tw := range topicWords {
			if corr := co.Correlation(w, tw.word); corr > best {
				best, cluster = corr, tw.cluster
			}
		}
		if best >= minCorrelation {
			c.priority *= 1 + best
			c.cluster = cluster
		}
		out = append(out, c)
	}
	return out
}

func edgeType(a, b candidate) string {
	switch {
	case a.kind == NodeTopic && b.kind == NodeTopic && a.cluster != b.cluster:
		return EdgeTopicSimilarity
	case a.kind == NodeTopic || b.kind == NodeTopic:
		return EdgeTopicKeyword
	default:
		return EdgeKeywordCooccurrence
	}
}

func colorFor(cluster int) string {
	if cluster <= 0 {
		return unclusteredColor
	}
	return clusterColors[(cluster-1)%len(clusterColors)]
}
