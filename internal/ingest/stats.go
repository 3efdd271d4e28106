package ingest

import (
	"sync/atomic"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
)

// statsAccumulator is the only state shared between files of a run.
type statsAccumulator struct {
	filesProcessed    atomic.Int64
	documentsIngested atomic.Int64
	errors            atomic.Int64
	filesSkipped      atomic.Int64
}

func (s *statsAccumulator) recordSuccess(documents int) {
	s.filesProcessed.Add(1)
	s.documentsIngested.Add(int64(documents))
}

func (s *statsAccumulator) recordError() {
	s.errors.Add(1)
}

func (s *statsAccumulator) recordSkipped(files int) {
	s.filesSkipped.Add(int64(files))
}

func (s *statsAccumulator) snapshot() commonModels.RunStats {
	return commonModels.RunStats{
		FilesProcessed:    s.filesProcessed.Load(),
		DocumentsIngested: s.documentsIngested.Load(),
		Errors:            s.errors.Load(),
		FilesSkipped:      s.filesSkipped.Load(),
	}
}

func (s *statsAccumulator) reset() {
	s.filesProcessed.Store(0)
	s.documentsIngested.Store(0)
	s.errors.Store(0)
	s.filesSkipped.Store(0)
}
