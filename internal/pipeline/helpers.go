package pipeline

import (
	"errors"
	"net/http"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

func logStep(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("RunJob", "Current Status", job.CurrentStep)
	return job
}

func jobError(job jobModel.Job, log *logger_i.Logger, code int, message string, canRetry bool) jobModel.Job {
	log.Error("Ingest job failed", "code", code, "error", message)

	job.Error = jobModel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

// fatalError maps the path errors that abort an ingest call to a client facing code.
func fatalError(job jobModel.Job, log *logger_i.Logger, err error) jobModel.Job {
	switch {
	case errors.Is(err, commonModels.ErrFileNotFound), errors.Is(err, commonModels.ErrDirectoryNotFound):
		return jobError(job, log, http.StatusNotFound, err.Error(), false)
	case commonModels.IsFatal(err):
		return jobError(job, log, http.StatusBadRequest, err.Error(), false)
	default:
		return jobError(job, log, http.StatusInternalServerError, "Internal Server Error", true)
	}
}
