package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocIngest/internal/adapter"
	"github.com/akolanti/DocIngest/internal/adapter/utils"
	"github.com/akolanti/DocIngest/internal/api"
	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

// a filter is either empty, a format tag or an extension
func validateIngestRequest(req api.IngestRequest) bool {
	if handlerInstance == nil || strings.TrimSpace(req.Path) == "" {
		return false
	}
	filter := strings.ToLower(strings.TrimSpace(req.FileType))
	if filter == "" || commonModels.FileType(filter).IsKnown() {
		return true
	}
	return !strings.ContainsAny(strings.TrimPrefix(filter, "."), `./\ `)
}

func traceIdFrom(r *http.Request) string {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	return traceId
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "err", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func getTargetDirectory(uploadDir string, jobId string) (string, string) {
	root := uploadDir
	if !filepath.IsAbs(root) {
		wd, err := os.Getwd()
		if err != nil {
			return "", "Storage Error"
		}
		root = filepath.Join(wd, root)
	}

	targetDir := filepath.Join(root, jobId)
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// resolveRoot makes the ingest root absolute and resolves its symlinks when it exists.
func resolveRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// resolveIngestPath anchors a requested path at root and reports whether it stays inside it.
// Existing paths are compared after symlink resolution so links cannot point out of the root.
func resolveIngestPath(root string, requested string) (string, bool) {
	path := filepath.Clean(requested)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		path = filepath.Join(parent, filepath.Base(path))
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

func processNewJobData(request *http.Request, w http.ResponseWriter, newJob newJobData) {
	if newJob.id == "" {
		newJob.id = utils.GetNewUUID()
	}
	newJob.traceId = traceIdFrom(request)

	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
