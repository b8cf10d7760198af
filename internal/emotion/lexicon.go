package emotion

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xxxsen/transcript-analytics/internal/text"
)

const (
	Joy          = "joy"
	Trust        = "trust"
	Fear         = "fear"
	Surprise     = "surprise"
	Sadness      = "sadness"
	Disgust      = "disgust"
	Anger        = "anger"
	Anticipation = "anticipation"

	baselineKey = "#baseline"
)

// Emotions is the fixed order used for vectors, plots and trends.
var Emotions = []string{Joy, Trust, Fear, Surprise, Sadness, Disgust, Anger, Anticipation}

var (
	Positive = []string{Joy, Trust, Anticipation}
	Negative = []string{Fear, Sadness, Anger, Disgust}
)

var ErrNoLexicon = errors.New("no lexicon for language")

//go:embed data/*.tsv
var embedded embed.FS

type Lexicon struct {
	Language text.Language
	Baseline float64
	words    map[string][]string
	entries  map[string]int
}

func isEmotion(name string) bool {
	for _, e := range Emotions {
		if e == name {
			return true
		}
	}
	return false
}

// ParseLexicon reads "word<TAB>emotion[,emotion]" lines. A "#baseline<TAB>rate"
// line sets the expected share of scored tokens that hit the lexicon; other
// lines starting with '#' are comments.
func ParseLexicon(lang text.Language, r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{
		Language: lang,
		words:    make(map[string][]string),
		entries:  make(map[string]int),
	}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if parts[0] == baselineKey {
			if len(parts) != 2 {
				return nil, fmt.Errorf("line %d: baseline without value", lineNo)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse baseline: %w", lineNo, err)
			}
			lex.Baseline = v
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected word and emotions", lineNo)
		}
		word := strings.ToLower(strings.TrimSpace(parts[0]))
		for _, e := range strings.Split(parts[1], ",") {
			e = strings.TrimSpace(e)
			if !isEmotion(e) {
				return nil, fmt.Errorf("line %d: unknown emotion %q", lineNo, e)
			}
			if containsString(lex.words[word], e) {
				continue
			}
			lex.words[word] = append(lex.words[word], e)
			lex.entries[e]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lex.words) == 0 {
		return nil, fmt.Errorf("lexicon %s is empty", lang)
	}
	if lex.Baseline <= 0 || lex.Baseline >= 1 {
		return nil, fmt.Errorf("lexicon %s baseline %v outside (0,1)", lang, lex.Baseline)
	}
	return lex, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (l *Lexicon) Lookup(word string) []string {
	return l.words[word]
}

func (l *Lexicon) Size() int {
	return len(l.words)
}

// Rate is the probability that a scored token hits emotion e under the
// null model: the baseline hit rate spread over emotions by entry share.
func (l *Lexicon) Rate(e string) float64 {
	if len(l.words) == 0 {
		return 0
	}
	return l.Baseline * float64(l.entries[e]) / float64(len(l.words))
}

type Set map[text.Language]*Lexicon

func LoadEmbedded() (Set, error) {
	set := Set{}
	for _, lang := range text.Languages {
		f, err := embedded.Open("data/" + string(lang) + ".tsv")
		if err != nil {
			return nil, fmt.Errorf("open embedded lexicon %s: %w", lang, err)
		}
		lex, err := ParseLexicon(lang, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse embedded lexicon %s: %w", lang, err)
		}
		set[lang] = lex
	}
	return set, nil
}

// LoadDir starts from the embedded lexicons and replaces every language
// that has a <language>.tsv file in dir.
func LoadDir(dir string) (Set, error) {
	set, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return set, nil
	}
	for _, lang := range text.Languages {
		path := filepath.Join(dir, string(lang)+".tsv")
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open lexicon %s: %w", path, err)
		}
		lex, err := ParseLexicon(lang, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
		}
		set[lang] = lex
	}
	return set, nil
}
