package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	jobmodel "github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job", "type", job.JobType, "path", job.JobPayload.Path)

	job = saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job = _pipelineService.RunJob(ctx, job)

	// the job deadline may have passed, the final state is still written
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), config.JobStateSaveTimeout)
	defer cancelSave()

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(saveCtx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(saveCtx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) jobmodel.Job {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "jobId", job.Id, "err", err)
	}
	return job
}
