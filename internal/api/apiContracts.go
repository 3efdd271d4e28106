package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string       `json:"status" example:"COMPLETE"`
	Step   string       `json:"step,omitempty" example:"Complete"`
	Path   string       `json:"path,omitempty" example:"/data/inbox"`
	Stats  *IngestStats `json:"stats,omitempty"`
	File   *FileResult  `json:"file,omitempty"`
}

type IngestStats struct {
	FilesProcessed    int64 `json:"files_processed" example:"12"`
	DocumentsIngested int64 `json:"documents_ingested" example:"340"`
	Errors            int64 `json:"errors" example:"1"`
	FilesSkipped      int64 `json:"files_skipped" example:"0"`
}

type FileResult struct {
	Success   bool   `json:"success"`
	Documents int    `json:"documents" example:"3"`
	Error     string `json:"error,omitempty" example:"unsupported file format"`
}

type InitJobResponse struct {
	Id           string `json:"id"`
	StatusURL    string `json:"status_url"`
	DocumentsURL string `json:"documents_url"`
}

type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

type DocumentsResponse struct {
	Id        string     `json:"id"`
	Count     int        `json:"count"`
	Documents []Document `json:"documents"`
}

// requests---------------------

type IngestRequest struct {
	Path     string `json:"path" validate:"required" example:"/data/inbox"`
	FileType string `json:"file_type,omitempty" example:"tabular"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
