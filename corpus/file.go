package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "transit-agent/errors"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileStore serves the corpus from a JSON file and hot-reloads it when the
// ingestion job rewrites the file. Readers always see a complete snapshot;
// a failed reload keeps the previous snapshot in place.
type FileStore struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	records []Record
}

func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	fs := &FileStore{path: path, logger: logger}
	if err := fs.reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Watch starts watching the corpus file for rewrites until ctx is cancelled.
func (fs *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.WrapError(err, "create corpus watcher")
	}
	// Watch the directory: ingestion jobs typically replace the file via
	// rename, which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(fs.path)); err != nil {
		watcher.Close()
		return apperrors.WrapError(err, "watch corpus directory")
	}
	fs.watcher = watcher

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(fs.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := fs.reload(); err != nil {
					fs.logger.Warn("Corpus reload failed, keeping previous snapshot", zap.Error(err))
					continue
				}
				fs.mu.RLock()
				n := len(fs.records)
				fs.mu.RUnlock()
				fs.logger.Info("Corpus reloaded", zap.Int("records", n))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fs.logger.Warn("Corpus watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (fs *FileStore) reload() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrCorpusUnavailable, err.Error())
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return apperrors.WrapErrorf(apperrors.ErrCorpusUnavailable, "parse corpus file: %v", err)
	}
	fs.mu.Lock()
	fs.records = records
	fs.mu.Unlock()
	return nil
}

// ListRecords returns the current snapshot.
func (fs *FileStore) ListRecords(ctx context.Context) ([]Record, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]Record, len(fs.records))
	copy(out, fs.records)
	return out, nil
}
