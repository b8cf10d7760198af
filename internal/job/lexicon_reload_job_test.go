package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/text"
)

func TestLexiconReloadJob(t *testing.T) {
	set, err := emotion.LoadEmbedded()
	require.NoError(t, err)
	scorer := emotion.NewScorer(set)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "italian.tsv"), []byte("#baseline\t0.1\nfelice\tjoy\n"), 0o644))

	j := NewLexiconReloadJob(scorer, dir)
	require.Equal(t, "lexicon_reload", j.Name())
	require.NoError(t, j.Run(context.Background()))
	lex, err := scorer.Lexicon(text.Italian)
	require.NoError(t, err)
	require.Equal(t, 1, lex.Size())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "italian.tsv"), []byte("rotto"), 0o644))
	require.Error(t, j.Run(context.Background()))
	lex, err = scorer.Lexicon(text.Italian)
	require.NoError(t, err)
	require.Equal(t, 1, lex.Size())

	require.NoError(t, NewLexiconReloadJob(nil, "").Run(context.Background()))
}
