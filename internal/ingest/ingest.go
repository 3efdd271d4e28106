package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/metrics"
	"github.com/akolanti/DocIngest/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// DocumentSink receives the documents of every successfully extracted file.
type DocumentSink interface {
	Deliver(ctx context.Context, source string, docs []commonModels.Document) error
}

type Option func(*Ingestor)

func WithWorkers(n int) Option {
	return func(in *Ingestor) {
		if n > 0 {
			in.workers = n
		}
	}
}

func WithPageTimeout(d time.Duration) Option {
	return func(in *Ingestor) {
		if d > 0 {
			in.pageTimeout = d
		}
	}
}

func WithSink(sink DocumentSink) Option {
	return func(in *Ingestor) {
		in.sink = sink
	}
}

func WithLogger(l *logger_i.Logger) Option {
	return func(in *Ingestor) {
		if l != nil {
			in.logger = l
		}
	}
}

// Ingestor converts files into normalized documents and keeps a running tally.
// The tally is never reset automatically; use a new Ingestor or ResetStats.
type Ingestor struct {
	stats       statsAccumulator
	workers     int
	pageTimeout time.Duration
	sink        DocumentSink
	logger      *logger_i.Logger
}

func NewIngestor(opts ...Option) *Ingestor {
	in := &Ingestor{
		workers:     config.IngestWorkerCount,
		pageTimeout: config.PageExtractTimeout,
		logger:      logger_i.NewLogger("Ingestor"),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Ingestor) Stats() commonModels.RunStats {
	return in.stats.snapshot()
}

func (in *Ingestor) ResetStats() {
	in.stats.reset()
}

// IngestFile extracts one file. The error is only set for fatal conditions, a missing file or a
// path that is not a regular file; extraction failures are reported in the result.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (commonModels.IngestionResult, error) {
	if err := checkFile(path); err != nil {
		in.loggerFor(ctx).Error("Cannot ingest file", "path", path, "error", err)
		return commonModels.IngestionResult{}, err
	}
	return in.ingestFile(ctx, path), nil
}

// IngestDirectory extracts every regular file directly inside dir that matches typeFilter.
// A missing or non directory path is fatal and returns no stats. Per file failures only
// increment the error count. Once ctx is done no new file is started; files already
// running complete and the rest are counted as skipped.
func (in *Ingestor) IngestDirectory(ctx context.Context, dir string, typeFilter string) (commonModels.RunStats, error) {
	log := in.loggerFor(ctx).With("directory", dir)
	log.Info("Processing directory", "filter", typeFilter)

	info, err := os.Stat(dir)
	if err != nil {
		log.Error("Directory does not exist", "error", err)
		return commonModels.RunStats{}, fmt.Errorf("%w: %s", commonModels.ErrDirectoryNotFound, dir)
	}
	if !info.IsDir() {
		log.Error("Path is not a directory")
		return commonModels.RunStats{}, fmt.Errorf("%w: %s", commonModels.ErrNotADirectory, dir)
	}

	files, err := listFiles(dir, typeFilter)
	if err != nil {
		log.Error("Failed listing directory", "error", err)
		return commonModels.RunStats{}, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}
	log.Info("Found files to process", "count", len(files))

	var group errgroup.Group
	slots := make(chan struct{}, in.workers)
	started := 0

dispatchLoop:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break dispatchLoop
		case slots <- struct{}{}:
		}
		if ctx.Err() != nil {
			<-slots
			break dispatchLoop
		}
		started++
		group.Go(func() error {
			defer func() { <-slots }()
			in.ingestDirectoryEntry(ctx, path)
			return nil
		})
	}
	_ = group.Wait()

	if skipped := len(files) - started; skipped > 0 {
		in.stats.recordSkipped(skipped)
		log.Warn("Deadline reached, files not started", "skipped", skipped, "error", ctx.Err())
	}

	stats := in.stats.snapshot()
	log.Info("Directory processed", "files_processed", stats.FilesProcessed,
		"documents_ingested", stats.DocumentsIngested, "errors", stats.Errors)
	return stats, nil
}

func (in *Ingestor) ingestDirectoryEntry(ctx context.Context, path string) {
	if err := checkFile(path); err != nil {
		// the file vanished after listing, this only fails the entry
		in.stats.recordError()
		metrics.CaptureFileError(string(GetFileType(path)), 0)
		in.loggerFor(ctx).Error("Error processing file", "path", path, "error", err)
		return
	}
	in.ingestFile(ctx, path)
}

func (in *Ingestor) ingestFile(ctx context.Context, path string) commonModels.IngestionResult {
	log := in.loggerFor(ctx).With("path", path)
	start := time.Now()

	fileType := GetFileType(path)
	log.Debug("Processing file", "type", fileType)

	result := in.dispatch(path, fileType)
	elapsed := time.Since(start)

	if !result.Success {
		in.stats.recordError()
		metrics.CaptureFileError(string(fileType), elapsed)
		log.Error("Error processing file", "type", fileType, "error", result.Error)
		return result
	}

	count := result.DocumentCount()
	in.stats.recordSuccess(count)
	metrics.CaptureFileSuccess(string(fileType), count, elapsed)
	log.Info("Ingested file", "type", fileType, "documents", count, "duration", elapsed)

	if in.sink != nil && count > 0 {
		// in flight files finish even after the directory deadline, so their documents are still delivered
		if err := in.sink.Deliver(context.WithoutCancel(ctx), filepath.Base(path), result.AllDocuments()); err != nil {
			log.Error("Failed to deliver documents", "error", err)
		}
	}
	return result
}

func (in *Ingestor) loggerFor(ctx context.Context) *logger_i.Logger {
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && traceId != "" {
		return in.logger.With("traceId", traceId)
	}
	return in.logger
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", commonModels.ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", commonModels.ErrFileNotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", commonModels.ErrNotAFile, path)
	}
	return nil
}

func listFiles(dir string, typeFilter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if matchesFilter(path, typeFilter) {
			files = append(files, path)
		}
	}
	return files, nil
}
