package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
	"github.com/felixgeelhaar/upgrowth/infrastructure/logging"
)

// Appender receives transactions parsed from newly arrived files. Both
// transaction stores and the incremental tree updater satisfy it.
type Appender interface {
	Append(ctx context.Context, tx transaction.Transaction) error
}

// Watcher watches a dataset directory and feeds newly created or
// rewritten files through the parser into an Appender.
type Watcher struct {
	dir      string
	appender Appender
	watcher  *fsnotify.Watcher

	// settle is how long a file must be quiet before it is read, so
	// that half-written files are not parsed.
	settle time.Duration

	log logging.Scoped

	mu      sync.Mutex
	pending map[string]*time.Timer
	reports chan LoadReport
}

// NewWatcher creates a watcher on dir. Only .txt and .csv files are
// picked up.
func NewWatcher(dir string, appender Appender) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		appender: appender,
		watcher:  fw,
		settle:   200 * time.Millisecond,
		log:      logging.ForComponent("ingest"),
		pending:  make(map[string]*time.Timer),
		reports:  make(chan LoadReport, 16),
	}, nil
}

// Reports returns the channel of per-file load reports.
func (w *Watcher) Reports() <-chan LoadReport {
	return w.reports
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !datasetFile(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().
				Add(logging.Path(w.dir)).
				Add(logging.ErrorField(err)).
				Msg("watch error")
		}
	}
}

// schedule arms (or re-arms) the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	store := appenderStore{appender: w.appender}
	report, err := LoadFile(ctx, path, store)
	if err != nil {
		w.log.Error().
			Add(logging.Path(path)).
			Add(logging.ErrorField(err)).
			Msg("failed to ingest file")
		return
	}

	w.log.Info().
		Add(logging.Path(path)).
		Add(logging.Transactions(report.Loaded)).
		Add(logging.Skipped(report.Skipped)).
		Msg("ingested file")

	select {
	case w.reports <- report:
	default:
	}
}

func datasetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".csv":
		return true
	}
	return false
}

// TreeAppender feeds parsed transactions into a built tree through its
// incremental updater.
type TreeAppender struct {
	Tree *utilitytree.Tree
}

func (a TreeAppender) Append(_ context.Context, tx transaction.Transaction) error {
	return a.Tree.Append(tx)
}

// appenderStore adapts an Appender to the transaction.Store interface
// that LoadFile expects. All and Len are never called by the loader.
type appenderStore struct {
	appender Appender
}

func (s appenderStore) Append(ctx context.Context, tx transaction.Transaction) error {
	return s.appender.Append(ctx, tx)
}

func (s appenderStore) All(ctx context.Context) ([]transaction.Transaction, error) {
	return nil, nil
}

func (s appenderStore) Len(ctx context.Context) (int, error) {
	return 0, nil
}
