package network

import (
	"math"
	"sort"
)

const DefaultWindow = 5

type pair struct {
	a, b string
}

func makePair(x, y string) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// Cooccurrence holds symmetric pair counts of words seen within a window
// of each other inside one sentence.
type Cooccurrence struct {
	pairs map[pair]int
	mass  map[string]int
	freq  map[string]int
	adj   map[string]map[string]struct{}
}

type Neighbour struct {
	Word  string
	Count int
}

// Count walks every sentence and pairs each token with the following
// window-1 tokens. Identical words never pair with themselves.
func Count(sentences [][]string, window int) *Cooccurrence {
	if window < 2 {
		window = DefaultWindow
	}
	c := &Cooccurrence{
		pairs: make(map[pair]int),
		mass:  make(map[string]int),
		freq:  make(map[string]int),
		adj:   make(map[string]map[string]struct{}),
	}
	for _, tokens := range sentences {
		for i, w := range tokens {
			c.freq[w]++
			for j := i + 1; j < len(tokens) && j < i+window; j++ {
				o := tokens[j]
				if o == w {
					continue
				}
				c.pairs[makePair(w, o)]++
				c.mass[w]++
				c.mass[o]++
				c.link(w, o)
				c.link(o, w)
			}
		}
	}
	return c
}

func (c *Cooccurrence) link(a, b string) {
	s, ok := c.adj[a]
	if !ok {
		s = make(map[string]struct{})
		c.adj[a] = s
	}
	s[b] = struct{}{}
}

func (c *Cooccurrence) Pair(a, b string) int {
	if a == b {
		return 0
	}
	return c.pairs[makePair(a, b)]
}

// Mass is the number of pairings word took part in.
func (c *Cooccurrence) Mass(word string) int {
	return c.mass[word]
}

func (c *Cooccurrence) Freq(word string) int {
	return c.freq[word]
}

// Correlation normalizes the pair count by the geometric mean of both
// word frequencies.
func (c *Cooccurrence) Correlation(a, b string) float64 {
	fa, fb := c.freq[a], c.freq[b]
	if fa == 0 || fb == 0 {
		return 0
	}
	return float64(c.Pair(a, b)) / math.Sqrt(float64(fa*fb))
}

// Words returns every word that co-occurred at least once, sorted.
func (c *Cooccurrence) Words() []string {
	out := make([]string, 0, len(c.mass))
	for w := range c.mass {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Neighbours lists the words paired with word, by count descending and
// word ascending, at most limit of them (0 means all).
func (c *Cooccurrence) Neighbours(word string, limit int) []Neighbour {
	out := make([]Neighbour, 0, len(c.adj[word]))
	for o := range c.adj[word] {
		out = append(out, Neighbour{Word: o, Count: c.Pair(word, o)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
