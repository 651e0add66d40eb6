package corpus

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher appends newly dropped document files to an index at runtime. The
// index stays append-only: rewrites of an already-ingested file are ignored.
type Watcher struct {
	index  *Index
	dir    string
	logger *zap.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// NewWatcher builds a watcher over dir. A nil logger uses a no-op logger.
func NewWatcher(index *Index, dir string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		index:  index,
		dir:    dir,
		logger: logger.Named("corpus.watcher"),
		seen:   make(map[string]bool),
	}
}

// Run watches the corpus directory until ctx is cancelled. Ingest failures
// on individual files are logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching corpus directory", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.ingest(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) ingest(path string) {
	if !isDocumentFile(path) {
		return
	}

	w.mu.Lock()
	if w.seen[path] {
		w.mu.Unlock()
		return
	}
	w.seen[path] = true
	w.mu.Unlock()

	doc, err := LoadFile(path)
	if err != nil {
		w.logger.Warn("skipping document", zap.String("path", path), zap.Error(err))
		return
	}
	added := w.index.Append(doc)
	w.logger.Info("document ingested",
		zap.String("source", doc.Source),
		zap.Int("chunks", added),
		zap.Int("index_size", w.index.Len()),
	)
}
