package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocIngest/internal/api"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:           id,
		StatusURL:    fmt.Sprintf("status/%s", id),
		DocumentsURL: fmt.Sprintf("documents/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
		Path:   displayPath(job.JobPayload),
		Stats:  ToIngestStats(job.JobPayload.Stats),
		File:   ToFileResult(job.JobPayload.Result),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

// uploaded files are reported by the name the client sent, not the server side path
func displayPath(payload jobModel.JobPayload) string {
	if payload.Uploaded {
		return payload.OriginalName
	}
	return payload.Path
}

func ToIngestStats(stats *commonModels.RunStats) *api.IngestStats {
	if stats == nil {
		return nil
	}
	return &api.IngestStats{
		FilesProcessed:    stats.FilesProcessed,
		DocumentsIngested: stats.DocumentsIngested,
		Errors:            stats.Errors,
		FilesSkipped:      stats.FilesSkipped,
	}
}

func ToFileResult(outcome *jobModel.FileOutcome) *api.FileResult {
	if outcome == nil {
		return nil
	}
	return &api.FileResult{
		Success:   outcome.Success,
		Documents: outcome.Documents,
		Error:     outcome.Error,
	}
}

func ToDocumentsResponse(id string, docs []commonModels.Document) api.DocumentsResponse {
	out := make([]api.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, api.Document{Content: doc.Content, Metadata: doc.Metadata})
	}
	return api.DocumentsResponse{
		Id:        id,
		Count:     len(out),
		Documents: out,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
