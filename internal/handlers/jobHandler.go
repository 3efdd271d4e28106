package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/internal/job"
	"github.com/akolanti/DocIngest/internal/metrics"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	uploadDir  string
	ingestRoot string
}

func InitJobHandler(jobService *job.Service, cfg config.IngestConfig) {
	once.Do(func() {
		uploadDir := cfg.UploadDirectory
		if uploadDir == "" {
			uploadDir = config.UploadDirectory
		}
		root := cfg.Root
		if root == "" {
			root = config.IngestRoot
		}
		handlerInstance = &JobHandler{service: jobService, uploadDir: uploadDir, ingestRoot: resolveRoot(root)}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler", "ingestRoot", handlerInstance.ingestRoot)
	})

}

func CreateNewJob(newJob newJobData) {
	log := logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	log.Info("To create new job", "type", newJob.jobType, "path", newJob.path)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func GetJobDocuments(id string, traceId string) ([]commonModels.Document, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	return handlerInstance.service.DocumentStore.GetDocuments(ctxC, id)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobType = newJob.jobType
	_job.JobPayload = jobModel.JobPayload{
		Path:         newJob.path,
		TypeFilter:   newJob.typeFilter,
		Uploaded:     newJob.uploaded,
		OriginalName: newJob.originalName,
	}

	// the status endpoint must know the job before a worker picks it up
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to save queued job", "jobId", _job.Id, "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job", "jobId", _job.Id)

	//directory jobs fan out over many files, so each one asks for a worker
	//small file jobs only ask every RequestsPerNewWorkerCount requests
	//idle workers retire, so the pool shrinks back on its own

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeDirectory {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count", "requests", accurateCount)
		select {
		case h.service.DispatcherChannel <- true:
		default:
			// a scale up signal is already pending
		}
	}
}
