package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultFilePath is the journal file used when none is configured.
const DefaultFilePath = "email_reports.json"

// FileJournal stores the journal as a single JSON array on disk.
// Appends are serialised within the process and each write replaces the
// file atomically, so readers never observe a half-written journal.
// Waiting for the lock respects ctx.
type FileJournal struct {
	sem    *semaphore.Weighted
	path   string
	max    int
	logger *slog.Logger
}

// NewFileJournal creates a journal backed by path. The file and its
// directory are created on first append.
func NewFileJournal(path string, opts ...Option) (*FileJournal, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: journal file path is required", ErrInvalidConfig)
	}
	o := newOptions(opts)
	return &FileJournal{sem: semaphore.NewWeighted(1), path: path, max: o.maxRecords, logger: o.logger}, nil
}

// Path returns the journal file location.
func (f *FileJournal) Path() string { return f.path }

func (f *FileJournal) Append(ctx context.Context, rec Record) error {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	defer f.sem.Release(1)

	records, err := f.read(ctx)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	records = trim(append(records, rec), f.max)
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}

	if err := f.write(records); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (f *FileJournal) List(ctx context.Context) ([]Record, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	defer f.sem.Release(1)

	records, err := f.read(ctx)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return records, nil
}

// read loads the journal. A missing file is an empty journal; an unreadable
// one is logged and treated as empty so new records are not blocked by it.
func (f *FileJournal) read(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "fallback journal is corrupt, starting a new one",
			logger.Backend("file"),
			slog.String("path", f.path),
			logger.Error(err),
		)
		return nil, nil
	}
	return records, nil
}

func (f *FileJournal) write(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}
