package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type LexiconReloader interface {
	Reload(dir string) error
}

// LexiconReloadJob swaps the emotion lexicons for the files in dir. A
// failed parse keeps the previous set.
type LexiconReloadJob struct {
	reloader LexiconReloader
	dir      string
}

func NewLexiconReloadJob(reloader LexiconReloader, dir string) *LexiconReloadJob {
	return &LexiconReloadJob{reloader: reloader, dir: dir}
}

func (j *LexiconReloadJob) Name() string {
	return "lexicon_reload"
}

func (j *LexiconReloadJob) Run(ctx context.Context) error {
	if j.reloader == nil || j.dir == "" {
		return nil
	}
	if err := j.reloader.Reload(j.dir); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("emotion lexicons reloaded", zap.String("dir", j.dir))
	return nil
}
