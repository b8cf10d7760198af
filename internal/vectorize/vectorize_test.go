package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNGrams(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, NGrams([]string{"a", "b", "c"}, 1))
	require.Equal(t, []string{"a", "b", "c", "a b", "b c"}, NGrams([]string{"a", "b", "c"}, 2))
	require.Empty(t, NGrams(nil, 2))
}

func TestFitCountsAndVocabulary(t *testing.T) {
	docs := [][]string{
		{"lavoro", "stress", "lavoro"},
		{"famiglia", "stress"},
	}
	m, err := Fit(docs, Options{NGramMax: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"famiglia", "lavoro", "stress"}, m.Terms)
	require.Equal(t, 2, m.Docs())
	j, ok := m.Index("lavoro")
	require.True(t, ok)
	require.Equal(t, 2.0, m.Counts.At(0, j))
	require.Equal(t, 3, m.Frequency("stress")+m.Frequency("famiglia"))
	require.Equal(t, []int{1, 1, 2}, m.DocFreq)
}

func TestFitMaxFeaturesKeepsMostFrequent(t *testing.T) {
	docs := [][]string{{"b", "a", "a", "c", "c", "c", "d"}}
	m, err := Fit(docs, Options{MaxFeatures: 2, NGramMax: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, m.Terms)
}

func TestFitMaxDF(t *testing.T) {
	docs := [][]string{{"sempre", "lavoro"}, {"sempre", "casa"}, {"sempre", "amici"}}
	m, err := Fit(docs, Options{MaxDF: 0.9, NGramMax: 1})
	require.NoError(t, err)
	_, ok := m.Index("sempre")
	require.False(t, ok)
	require.Len(t, m.Terms, 3)
}

func TestFitEmpty(t *testing.T) {
	_, err := Fit([][]string{{}, {}}, Options{})
	require.ErrorIs(t, err, ErrEmptyVocabulary)
	_, err = Fit(nil, Options{})
	require.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestTFIDFRowsAreUnitLength(t *testing.T) {
	docs := [][]string{
		{"ansia", "lavoro", "capo"},
		{"ansia", "notte"},
		{},
	}
	m, err := Fit(docs, Options{NGramMax: 2})
	require.NoError(t, err)
	w := m.TFIDF()
	for i := 0; i < 2; i++ {
		require.InDelta(t, 1.0, mat.Norm(w.RowView(i), 2), 1e-9)
	}
	require.Equal(t, 0.0, mat.Norm(w.RowView(2), 2))

	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.False(t, math.IsNaN(w.At(i, j)))
			require.GreaterOrEqual(t, w.At(i, j), 0.0)
		}
	}
	require.True(t, IsBigram("ansia lavoro"))
	require.False(t, IsBigram("ansia"))
}
