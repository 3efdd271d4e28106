package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"

	JobTypeDirectory JobType = "Directory"
	JobTypeFile      JobType = "File"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Path       string `json:"path"`
	TypeFilter string `json:"type_filter,omitempty"`
	// Uploaded files live in the upload directory and are removed once the job ends.
	Uploaded     bool   `json:"uploaded,omitempty"`
	OriginalName string `json:"original_name,omitempty"`

	Stats  *commonModels.RunStats `json:"stats,omitempty"`
	Result *FileOutcome           `json:"result,omitempty"`
}

// FileOutcome is the stored summary of a single file job; the documents themselves live in the DocumentStore.
type FileOutcome struct {
	Success   bool   `json:"success"`
	Documents int    `json:"documents"`
	Error     string `json:"error,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// DocumentStore keeps the normalized documents produced by a job, in delivery order.
type DocumentStore interface {
	AppendDocuments(ctx context.Context, jobId string, docs []commonModels.Document) error
	GetDocuments(ctx context.Context, jobId string) ([]commonModels.Document, error)
	DeleteDocuments(ctx context.Context, jobId string)
}
