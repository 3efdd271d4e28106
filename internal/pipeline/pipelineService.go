package pipeline

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/internal/ingest"
	"github.com/akolanti/DocIngest/internal/metrics"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

// Service is the only thing a worker calls; the ingestor and the document store stay private.
type Service interface {
	RunJob(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	documents        jobModel.DocumentStore
	workers          int
	pageTimeout      time.Duration
	directoryTimeout time.Duration
	logger           *logger_i.Logger
}

func NewService(documents jobModel.DocumentStore, cfg config.IngestConfig) Service {
	directoryTimeout := cfg.DirectoryTimeout
	if directoryTimeout <= 0 {
		directoryTimeout = config.DirectoryIngestTimeout
	}
	return &service{
		documents:        documents,
		workers:          cfg.Workers,
		pageTimeout:      cfg.PageTimeout,
		directoryTimeout: directoryTimeout,
		logger:           logger_i.NewLogger("Pipeline Service"),
	}
}

// RunJob ingests the job's path with a fresh Ingestor so every job reports its own stats.
func (s *service) RunJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With("traceId", job.TraceId, "JobId", job.Id)
	start := time.Now()
	defer func() { metrics.CaptureJobMetrics(string(job.JobType), time.Since(start)) }()

	if job.JobPayload.Uploaded {
		defer s.cleanup(log, &job)
	}

	job = logStep(job, jobModel.IngestProcessing, log)
	ingestor := ingest.NewIngestor(
		ingest.WithWorkers(s.workers),
		ingest.WithPageTimeout(s.pageTimeout),
		ingest.WithSink(jobSink{jobId: job.Id, documents: s.documents}),
		ingest.WithLogger(log),
	)

	switch job.JobType {
	case jobModel.JobTypeDirectory:
		job = s.runDirectory(ctx, job, ingestor, log)
	case jobModel.JobTypeFile:
		job = s.runFile(ctx, job, ingestor, log)
	default:
		return jobError(job, log, http.StatusBadRequest, "unknown job type", false)
	}

	if job.Status != jobModel.JobStatusError {
		job = logStep(job, jobModel.Complete, log)
	}
	return job
}

func (s *service) runDirectory(ctx context.Context, job jobModel.Job, ingestor *ingest.Ingestor, log *logger_i.Logger) jobModel.Job {
	dirCtx, cancel := context.WithTimeout(ctx, s.directoryTimeout)
	defer cancel()

	stats, err := ingestor.IngestDirectory(dirCtx, job.JobPayload.Path, job.JobPayload.TypeFilter)
	if err != nil {
		return fatalError(job, log, err)
	}
	job.JobPayload.Stats = &stats
	return job
}

func (s *service) runFile(ctx context.Context, job jobModel.Job, ingestor *ingest.Ingestor, log *logger_i.Logger) jobModel.Job {
	result, err := ingestor.IngestFile(ctx, job.JobPayload.Path)
	if err != nil {
		return fatalError(job, log, err)
	}

	stats := ingestor.Stats()
	job.JobPayload.Stats = &stats
	job.JobPayload.Result = &jobModel.FileOutcome{
		Success:   result.Success,
		Documents: result.DocumentCount(),
		Error:     result.Error,
	}
	if !result.Success {
		return jobError(job, log, http.StatusUnprocessableEntity, result.Error, false)
	}
	return job
}

// cleanup removes an uploaded file and the per job directory it was saved in.
func (s *service) cleanup(log *logger_i.Logger, job *jobModel.Job) {
	path := job.JobPayload.Path
	log.Debug("Removing uploaded file", "path", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to remove uploaded file", "path", path, "error", err)
		return
	}
	if dir := filepath.Dir(path); filepath.Base(dir) == job.Id {
		_ = os.Remove(dir)
	}
}

// jobSink hands every file's documents to the document store under the job id.
type jobSink struct {
	jobId     string
	documents jobModel.DocumentStore
}

func (j jobSink) Deliver(ctx context.Context, _ string, docs []commonModels.Document) error {
	if j.documents == nil {
		return nil
	}
	return j.documents.AppendDocuments(ctx, j.jobId, docs)
}
