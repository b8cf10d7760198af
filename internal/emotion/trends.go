package emotion

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	TrendValence  = "emotional_valence"
	TrendPositive = "positive_score"
	TrendNegative = "negative_score"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

type Session struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	Date       string `json:"sessionDate"`
}

type Stat struct {
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Average float64   `json:"average"`
	First   float64   `json:"first"`
	Last    float64   `json:"last"`
	Change  float64   `json:"change"`
	Values  []float64 `json:"values"`
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DatesComplete reports whether every session carries a parseable date.
func DatesComplete(in []Session) bool {
	for _, s := range in {
		if _, ok := parseDate(s.Date); !ok {
			return false
		}
	}
	return len(in) > 0
}

// OrderSessions sorts by session date when every date parses and keeps the
// input order otherwise.
func OrderSessions(in []Session) []Session {
	out := make([]Session, len(in))
	copy(out, in)
	dates := make([]time.Time, len(out))
	for i, s := range out {
		t, ok := parseDate(s.Date)
		if !ok {
			return out
		}
		dates[i] = t
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dates[idx[a]].Before(dates[idx[b]]) })
	sorted := make([]Session, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// Trends summarizes each emotion z-score and the aggregate scores over the
// analyses, which must already be in chronological order.
func Trends(analyses []*Analysis) map[string]Stat {
	out := make(map[string]Stat, len(Emotions)+3)
	if len(analyses) == 0 {
		return out
	}
	series := func(get func(*Analysis) float64) []float64 {
		vals := make([]float64, len(analyses))
		for i, a := range analyses {
			vals[i] = get(a)
		}
		return vals
	}
	for _, e := range Emotions {
		e := e
		out[e] = summarize(series(func(a *Analysis) float64 { return a.ZScores[e] }))
	}
	out[TrendValence] = summarize(series(func(a *Analysis) float64 { return a.Valence }))
	out[TrendPositive] = summarize(series(func(a *Analysis) float64 { return a.Positive }))
	out[TrendNegative] = summarize(series(func(a *Analysis) float64 { return a.Negative }))
	return out
}

func summarize(vals []float64) Stat {
	first, last := vals[0], vals[len(vals)-1]
	return Stat{
		Min:     floats.Min(vals),
		Max:     floats.Max(vals),
		Average: stat.Mean(vals, nil),
		First:   first,
		Last:    last,
		Change:  last - first,
		Values:  vals,
	}
}
