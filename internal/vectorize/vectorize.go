package vectorize

import (
	"errors"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var ErrEmptyVocabulary = errors.New("empty vocabulary")

// minDocsForMaxDF is the smallest corpus on which MaxDF pruning applies;
// on one or two documents every term would exceed any fraction.
const minDocsForMaxDF = 3

type Options struct {
	MaxFeatures int     // 0 keeps every term
	MaxDF       float64 // fraction in (0,1]; 0 disables
	NGramMax    int     // 1 unigrams, 2 adds bigrams
}

// Matrix is a document-term count matrix with its vocabulary.
type Matrix struct {
	Terms   []string
	Counts  *mat.Dense // docs x terms
	DocFreq []int
	index   map[string]int
}

// NGrams returns the unigrams of tokens followed, when n >= 2, by the
// space joined bigrams of adjacent tokens.
func NGrams(tokens []string, n int) []string {
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	if n >= 2 {
		for i := 0; i+1 < len(tokens); i++ {
			out = append(out, tokens[i]+" "+tokens[i+1])
		}
	}
	return out
}

func Fit(docs [][]string, opts Options) (*Matrix, error) {
	if opts.NGramMax <= 0 {
		opts.NGramMax = 1
	}
	grams := make([][]string, len(docs))
	total := make(map[string]int)
	df := make(map[string]int)
	for i, d := range docs {
		grams[i] = NGrams(d, opts.NGramMax)
		seen := make(map[string]struct{}, len(grams[i]))
		for _, g := range grams[i] {
			total[g]++
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			df[g]++
		}
	}

	terms := make([]string, 0, len(total))
	for t := range total {
		if opts.MaxDF > 0 && len(docs) >= minDocsForMaxDF {
			if float64(df[t])/float64(len(docs)) > opts.MaxDF {
				continue
			}
		}
		terms = append(terms, t)
	}
	if opts.MaxFeatures > 0 && len(terms) > opts.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:opts.MaxFeatures]
	}
	if len(terms) == 0 || len(docs) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(terms)

	m := &Matrix{
		Terms:   terms,
		Counts:  mat.NewDense(len(docs), len(terms), nil),
		DocFreq: make([]int, len(terms)),
		index:   make(map[string]int, len(terms)),
	}
	for j, t := range terms {
		m.index[t] = j
		m.DocFreq[j] = df[t]
	}
	for i, g := range grams {
		for _, t := range g {
			j, ok := m.index[t]
			if !ok {
				continue
			}
			m.Counts.Set(i, j, m.Counts.At(i, j)+1)
		}
	}
	return m, nil
}

func (m *Matrix) Docs() int {
	r, _ := m.Counts.Dims()
	return r
}

func (m *Matrix) Index(term string) (int, bool) {
	j, ok := m.index[term]
	return j, ok
}

// Frequency is the total count of term over every document.
func (m *Matrix) Frequency(term string) int {
	j, ok := m.Index(term)
	if !ok {
		return 0
	}
	return int(mat.Sum(m.Counts.ColView(j)))
}

// TFIDF weights the counts with a smoothed idf, ln((1+n)/(1+df))+1, and
// L2 normalizes every row.
func (m *Matrix) TFIDF() *mat.Dense {
	rows, cols := m.Counts.Dims()
	idf := make([]float64, cols)
	for j := range idf {
		idf[j] = math.Log(float64(1+rows)/float64(1+m.DocFreq[j])) + 1
	}
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v * idf[j]
	}, m.Counts)
	for i := 0; i < rows; i++ {
		row := out.RowView(i)
		norm := mat.Norm(row, 2)
		if norm == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			out.Set(i, j, out.At(i, j)/norm)
		}
	}
	return out
}

// IsBigram reports whether term was produced from two adjacent tokens.
func IsBigram(term string) bool {
	return strings.Contains(term, " ")
}
